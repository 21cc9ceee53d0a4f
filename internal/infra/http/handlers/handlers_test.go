package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/prodoc/internal/entity"
	"github.com/xavierca1/prodoc/internal/infra/http/handlers"
	"github.com/xavierca1/prodoc/internal/usecase"
)

func newTestRouter(console *MockConsole) http.Handler {
	return handlers.NewRouter(console, nil, handlers.NewRateLimiter(2, time.Minute), []string{"*"})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var operator = entity.Operator{ID: "op-1", Name: "Ana", Email: "ana@prodoc.com"}

func TestLoginSuccess(t *testing.T) {
	console := new(MockConsole)
	console.On("Login", mock.Anything, "ana@prodoc.com", "segredo").Return(operator, nil)

	rec := do(t, newTestRouter(console), http.MethodPost, "/auth/login", handlers.LoginRequest{Login: "ana@prodoc.com", Password: "segredo"})

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp handlers.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Authenticated)
	require.NotNil(t, resp.Actor)
	assert.Equal(t, entity.RoleOperator, resp.Actor.Role)
	assert.True(t, resp.Actor.Permissions.ConvertLeads)
}

func TestLoginInvalidCredentials(t *testing.T) {
	console := new(MockConsole)
	console.On("Login", mock.Anything, "x", "y").Return(nil, &usecase.AuthError{Message: "Credenciais inválidas"})

	rec := do(t, newTestRouter(console), http.MethodPost, "/auth/login", handlers.LoginRequest{Login: "x", Password: "y"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Credenciais inválidas")
}

func TestMeAnonymous(t *testing.T) {
	console := new(MockConsole)
	console.On("Actor").Return(nil)

	rec := do(t, newTestRouter(console), http.MethodGet, "/auth/me", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
}

func TestSubmitLeadCreated(t *testing.T) {
	console := new(MockConsole)
	draft := usecase.LeadDraft{Name: "Ana", WhatsApp: "11999998888", Plate: "ABC1D23", Services: []string{"Débitos e multas"}}
	console.On("SubmitLead", mock.Anything, draft).Return(&entity.Lead{ID: "lead-1"}, nil)

	rec := do(t, newTestRouter(console), http.MethodPost, "/leads", draft)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"id":"lead-1"}`, rec.Body.String())
}

func TestSubmitLeadValidation(t *testing.T) {
	console := new(MockConsole)
	console.On("SubmitLead", mock.Anything, mock.Anything).Return(nil, usecase.ValidationErrors{
		{Field: "plate", Message: "is required"},
	})

	rec := do(t, newTestRouter(console), http.MethodPost, "/leads", usecase.LeadDraft{Name: "Ana"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "is required", resp.Fields["plate"])
}

func TestSubmitLeadRateLimited(t *testing.T) {
	console := new(MockConsole)
	console.On("SubmitLead", mock.Anything, mock.Anything).Return(&entity.Lead{ID: "lead-1"}, nil)
	router := newTestRouter(console)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/leads", usecase.LeadDraft{}).Code)
	}
	rec := do(t, router, http.MethodPost, "/leads", usecase.LeadDraft{})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	console.AssertNumberOfCalls(t, "SubmitLead", 2)
}

func TestSubmitLeadBadJSON(t *testing.T) {
	console := new(MockConsole)
	req := httptest.NewRequest(http.MethodPost, "/leads", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()

	newTestRouter(console).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	console.AssertNotCalled(t, "SubmitLead", mock.Anything, mock.Anything)
}

func TestListLeadsFiltersByStatus(t *testing.T) {
	console := new(MockConsole)
	console.On("View").Return(usecase.View{Leads: []*entity.Lead{
		{ID: "l1", Status: entity.LeadPending, WhatsApp: "11999998888"},
		{ID: "l2", Status: entity.LeadConverted},
	}})

	rec := do(t, newTestRouter(console), http.MethodGet, "/leads?status=pending", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "l1", resp[0]["id"])
	assert.Equal(t, "https://wa.me/5511999998888", resp[0]["whatsappLink"])
}

func TestConvertLead(t *testing.T) {
	console := new(MockConsole)
	console.On("ConvertLead", mock.Anything, "l1").Return(&entity.Process{ID: "PROC-1", LeadID: "l1", Status: entity.StatusReceived}, nil).Once()
	console.On("ConvertLead", mock.Anything, "l1").Return(nil, nil).Once()
	router := newTestRouter(console)

	rec := do(t, router, http.MethodPost, "/leads/l1/convert", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp handlers.ProcessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "PROC-1", resp.ID)
	assert.Equal(t, entity.StatusReceived.Label(), resp.StatusLabel)

	rec = do(t, router, http.MethodPost, "/leads/l1/convert", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestConvertLeadForbiddenAndNotFound(t *testing.T) {
	console := new(MockConsole)
	console.On("ConvertLead", mock.Anything, "l1").Return(nil, &usecase.ForbiddenError{Action: "convert"})
	console.On("ConvertLead", mock.Anything, "ghost").Return(nil, &usecase.NotFoundError{Kind: "lead", ID: "ghost"})
	router := newTestRouter(console)

	assert.Equal(t, http.StatusForbidden, do(t, router, http.MethodPost, "/leads/l1/convert", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPost, "/leads/ghost/convert", nil).Code)
}

func TestListProcessesFilters(t *testing.T) {
	console := new(MockConsole)
	console.On("View").Return(usecase.View{Processes: []*entity.Process{
		{ID: "P1", CustomerName: "João", Plate: "ABC1D23", Status: entity.StatusFinished},
		{ID: "P2", CustomerName: "Maria", Plate: "XYZ9A87", Status: entity.StatusReceived},
	}})

	rec := do(t, newTestRouter(console), http.MethodGet, "/processes?q=joao&status=FINISHED", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []handlers.ProcessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "P1", resp[0].ID)
	assert.Equal(t, 100, resp[0].Progress)
}

func TestGetProcessNotFound(t *testing.T) {
	console := new(MockConsole)
	console.On("View").Return(usecase.View{})

	rec := do(t, newTestRouter(console), http.MethodGet, "/processes/P9", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetStatusAcceptsLabel(t *testing.T) {
	console := new(MockConsole)
	console.On("SetProcessStatus", mock.Anything, "P1", entity.StatusFiled).
		Return(&entity.Process{ID: "P1", Status: entity.StatusFiled}, nil)

	rec := do(t, newTestRouter(console), http.MethodPatch, "/processes/P1/status",
		handlers.SetStatusRequest{Status: entity.StatusFiled.Label()})

	assert.Equal(t, http.StatusOK, rec.Code)
	console.AssertExpectations(t)
}

func TestSetStatusRejectsUnknown(t *testing.T) {
	console := new(MockConsole)

	rec := do(t, newTestRouter(console), http.MethodPatch, "/processes/P1/status", handlers.SetStatusRequest{Status: "DONE"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	console.AssertNotCalled(t, "SetProcessStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetStatusPersistenceFailure(t *testing.T) {
	console := new(MockConsole)
	console.On("SetProcessStatus", mock.Anything, "P1", entity.StatusFinished).
		Return(nil, &usecase.PersistenceError{Op: "update process", Err: errors.New("down")})

	rec := do(t, newTestRouter(console), http.MethodPatch, "/processes/P1/status", handlers.SetStatusRequest{Status: "FINISHED"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "down")
}

func TestStatusesListsAllInOrder(t *testing.T) {
	rec := do(t, newTestRouter(new(MockConsole)), http.MethodGet, "/statuses", nil)

	var resp []handlers.StatusOption
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 8)
	assert.Equal(t, entity.StatusReceived, resp[0].Code)
	assert.Equal(t, entity.StatusProblemIdentified, resp[7].Code)
}

func TestRegisterPartner(t *testing.T) {
	console := new(MockConsole)
	in := usecase.RegisterPartnerInput{Name: "Rafael", Email: "r@loja.com", Company: "Loja", Password: "segredo1"}
	console.On("RegisterPartner", mock.Anything, in).Return(entity.Partner{ID: "p-1", Name: "Rafael"}, nil)

	rec := do(t, newTestRouter(console), http.MethodPost, "/partners", in)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"p-1"`)
}

func TestDashboard(t *testing.T) {
	console := new(MockConsole)
	console.On("Actor").Return(operator).Once()
	console.On("Dashboard").Return(usecase.DashboardStats{PendingLeads: 3})

	rec := do(t, newTestRouter(console), http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	console.On("Actor").Return(nil).Once()
	rec = do(t, newTestRouter(console), http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(ctx context.Context) error { return f.err }

func TestHealthDegradedWhenDatabaseDown(t *testing.T) {
	health := handlers.NewHealthHandler(fakePinger{err: errors.New("refused")}, nil, true, false)
	router := handlers.NewRouter(new(MockConsole), health, nil, []string{"*"})

	rec := do(t, router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp handlers.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "configured", resp.Dependencies["mail"])
	assert.Equal(t, "not configured", resp.Dependencies["rabbitmq"])
}

func TestRateLimiterIsPerIP(t *testing.T) {
	limiter := handlers.NewRateLimiter(1, time.Minute)
	assert.True(t, limiter.Allow("1.1.1.1"))
	assert.False(t, limiter.Allow("1.1.1.1"))
	assert.True(t, limiter.Allow("2.2.2.2"))
}
