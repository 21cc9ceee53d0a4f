package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/prodoc/internal/entity"
	"github.com/xavierca1/prodoc/internal/usecase"
)

type workspaceFixture struct {
	auth      *MockAuthGateway
	profiles  *MockProfileRepository
	leads     *MockLeadRepository
	processes *MockProcessRepository
	events    *MockEventPublisher
	local     *memoryLocalStore
	ws        *usecase.Workspace
}

func newWorkspaceFixture() *workspaceFixture {
	f := &workspaceFixture{
		auth:      new(MockAuthGateway),
		profiles:  new(MockProfileRepository),
		leads:     new(MockLeadRepository),
		processes: new(MockProcessRepository),
		events:    new(MockEventPublisher),
		local:     newMemoryLocalStore(),
	}
	f.auth.On("OnSessionEvent").Return(new(MockSubscription))
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)
	f.ws = usecase.NewWorkspace(usecase.WorkspaceDeps{
		Auth:      f.auth,
		Local:     f.local,
		Leads:     f.leads,
		Processes: f.processes,
		Profiles:  f.profiles,
		Events:    f.events,
		Master:    testMaster,
	})
	return f
}

func TestWorkspaceMasterLoginLoadsOperatorData(t *testing.T) {
	ctx := context.Background()
	f := newWorkspaceFixture()

	f.leads.On("List", mock.Anything).Return([]*entity.Lead{pendingAna()}, nil).Once()
	f.processes.On("List", mock.Anything, entity.ProcessFilter{}).Return([]*entity.Process{
		{ID: "P1", PartnerID: "p-1", Status: entity.StatusInProgress},
	}, nil).Once()
	f.profiles.On("ListByRole", mock.Anything, entity.RolePartner).Return([]*entity.Profile{
		{ID: "p-1", Name: "Loja", Role: "PARTNER"},
	}, nil).Once()

	actor, err := f.ws.Login(ctx, testMaster.Login, testMaster.Password)
	require.NoError(t, err)
	assert.Equal(t, entity.MasterActorID, actor.ActorID())

	view := f.ws.View()
	assert.Len(t, view.Leads, 1)
	assert.Len(t, view.Processes, 1)
	assert.Equal(t, usecase.DashboardStats{PendingLeads: 1, ActiveProcesses: 1, Partners: 1}, f.ws.Dashboard())

	partners, err := f.ws.ListPartners()
	require.NoError(t, err)
	assert.Len(t, partners, 1)

	// listener e chamada explícita não duplicam a carga
	f.leads.AssertNumberOfCalls(t, "List", 1)
}

func TestWorkspaceLeadToProcessFlow(t *testing.T) {
	ctx := context.Background()
	f := newWorkspaceFixture()

	f.leads.On("List", mock.Anything).Return([]*entity.Lead{}, nil)
	f.processes.On("List", mock.Anything, entity.ProcessFilter{}).Return([]*entity.Process{}, nil)
	f.profiles.On("ListByRole", mock.Anything, entity.RolePartner).Return([]*entity.Profile{}, nil)

	_, err := f.ws.Login(ctx, testMaster.Login, testMaster.Password)
	require.NoError(t, err)

	expectLeadCreate(f.leads, "lead-ana", time.Now())
	lead, err := f.ws.SubmitLead(ctx, anaDraft())
	require.NoError(t, err)
	assert.Equal(t, entity.LeadPending, lead.Status)

	f.processes.On("Create", ctx, mock.Anything).Return(nil).Once()
	f.leads.On("UpdateStatus", ctx, "lead-ana", entity.LeadConverted).Return(nil).Once()

	process, err := f.ws.ConvertLead(ctx, "lead-ana")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusReceived, process.Status)

	again, err := f.ws.ConvertLead(ctx, "lead-ana")
	assert.NoError(t, err)
	assert.Nil(t, again)

	view := f.ws.View()
	require.Len(t, view.Leads, 1)
	assert.Equal(t, entity.LeadConverted, view.Leads[0].Status)
	assert.Len(t, view.Processes, 1)
	assert.Equal(t, 0, f.ws.Dashboard().PendingLeads)
}

func TestWorkspacePartnerPermissions(t *testing.T) {
	ctx := context.Background()
	f := newWorkspaceFixture()

	f.auth.On("VerifyPassword", ctx, "loja@x.com", "segredo1").Return(&entity.Session{UserID: "p-1"}, nil)
	f.profiles.On("FindByID", ctx, "p-1").Return(&entity.Profile{ID: "p-1", Name: "Loja", Role: "PARTNER"}, nil)
	f.processes.On("List", mock.Anything, entity.ProcessFilter{PartnerID: "p-1"}).Return([]*entity.Process{
		{ID: "P1", PartnerID: "p-1", Status: entity.StatusReceived},
	}, nil).Once()

	_, err := f.ws.Login(ctx, "loja@x.com", "segredo1")
	require.NoError(t, err)

	view := f.ws.View()
	assert.Empty(t, view.Leads)
	assert.Len(t, view.Processes, 1)

	_, err = f.ws.ConvertLead(ctx, "lead-ana")
	assert.True(t, usecase.IsForbiddenError(err))
	_, err = f.ws.SetProcessStatus(ctx, "P1", entity.StatusFinished)
	assert.True(t, usecase.IsForbiddenError(err))
	_, err = f.ws.RegisterPartner(ctx, validPartnerInput())
	assert.True(t, usecase.IsForbiddenError(err))
	_, err = f.ws.ListPartners()
	assert.True(t, usecase.IsForbiddenError(err))

	f.processes.On("Create", ctx, mock.Anything).Return(nil).Once()
	process, err := f.ws.CreateProcess(ctx, usecase.ProcessDraft{
		CustomerName: "Carlos",
		Plate:        "XYZ9A87",
		Services:     []string{"Serviços para lojistas"},
	})
	require.NoError(t, err)
	assert.Equal(t, "p-1", process.PartnerID)
	assert.Len(t, f.ws.View().Processes, 2)
}

func TestWorkspaceAnonymousAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newWorkspaceFixture()
	f.auth.On("GetSession", ctx).Return(nil, nil)
	f.auth.On("SignOut", ctx).Return(nil)

	require.NoError(t, f.ws.Init(ctx))
	assert.Nil(t, f.ws.Actor())

	_, err := f.ws.CreateProcess(ctx, usecase.ProcessDraft{})
	assert.True(t, usecase.IsForbiddenError(err))

	require.NoError(t, f.ws.Logout(ctx))
	assert.Empty(t, f.ws.View().Processes)
}

func TestWorkspaceLoadRepairsInterruptedConversion(t *testing.T) {
	ctx := context.Background()
	f := newWorkspaceFixture()

	f.leads.On("List", mock.Anything).Return([]*entity.Lead{pendingAna()}, nil).Once()
	f.processes.On("List", mock.Anything, entity.ProcessFilter{}).Return([]*entity.Process{
		{ID: "P1", LeadID: "lead-ana", Status: entity.StatusReceived},
	}, nil).Once()
	f.profiles.On("ListByRole", mock.Anything, entity.RolePartner).Return([]*entity.Profile{}, nil)
	f.leads.On("UpdateStatus", mock.Anything, "lead-ana", entity.LeadConverted).Return(nil).Once()

	_, err := f.ws.Login(ctx, testMaster.Login, testMaster.Password)
	require.NoError(t, err)

	lead, ok := f.ws.Leads.Find("lead-ana")
	require.True(t, ok)
	assert.Equal(t, entity.LeadConverted, lead.Status)
	f.leads.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestWorkspaceReconcileUpdatesProjection(t *testing.T) {
	ctx := context.Background()
	f := newWorkspaceFixture()

	// carga inicial: processo ainda não visível
	f.leads.On("List", mock.Anything).Return([]*entity.Lead{pendingAna()}, nil).Once()
	f.processes.On("List", mock.Anything, entity.ProcessFilter{}).Return([]*entity.Process{}, nil).Once()
	f.profiles.On("ListByRole", mock.Anything, entity.RolePartner).Return([]*entity.Profile{}, nil)

	_, err := f.ws.Login(ctx, testMaster.Login, testMaster.Password)
	require.NoError(t, err)

	// reconciliação e recarga da projeção leem a mesma loja
	f.processes.On("List", ctx, entity.ProcessFilter{}).Return([]*entity.Process{
		{ID: "P1", LeadID: "lead-ana", Status: entity.StatusReceived},
	}, nil)
	f.leads.On("List", ctx).Return([]*entity.Lead{pendingAna()}, nil).Once()
	f.leads.On("UpdateStatus", ctx, "lead-ana", entity.LeadConverted).Return(nil).Once()

	fixed, err := f.ws.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)

	lead, ok := f.ws.Leads.Find("lead-ana")
	require.True(t, ok)
	assert.Equal(t, entity.LeadConverted, lead.Status)

	processes := f.ws.Processes.All()
	require.Len(t, processes, 1)
	assert.Equal(t, "P1", processes[0].ID)
}

// convertWithLeadFailure faz a conversão parar entre a gravação do processo
// e a do lead, devolvendo o processo que chegou à loja.
func convertWithLeadFailure(t *testing.T, ctx context.Context, f *workspaceFixture) *entity.Process {
	t.Helper()
	var written []*entity.Process
	f.processes.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		written = append(written, args.Get(1).(*entity.Process).Clone())
	}).Return(nil)
	f.leads.On("UpdateStatus", ctx, "lead-ana", entity.LeadConverted).Return(errors.New("timeout")).Once()

	_, err := f.ws.ConvertLead(ctx, "lead-ana")
	require.Error(t, err)
	require.Len(t, written, 1)
	return written[0]
}

func loginMasterWithPendingAna(t *testing.T, ctx context.Context, f *workspaceFixture) {
	t.Helper()
	f.leads.On("List", mock.Anything).Return([]*entity.Lead{pendingAna()}, nil).Once()
	f.processes.On("List", mock.Anything, entity.ProcessFilter{}).Return([]*entity.Process{}, nil).Once()
	f.profiles.On("ListByRole", mock.Anything, entity.RolePartner).Return([]*entity.Profile{}, nil)

	_, err := f.ws.Login(ctx, testMaster.Login, testMaster.Password)
	require.NoError(t, err)
}

func TestWorkspaceConvertRetryAfterPartialConversionCreatesOneProcess(t *testing.T) {
	ctx := context.Background()
	f := newWorkspaceFixture()
	loginMasterWithPendingAna(t, ctx, f)

	written := convertWithLeadFailure(t, ctx, f)
	f.leads.On("UpdateStatus", ctx, "lead-ana", entity.LeadConverted).Return(nil).Once()

	process, err := f.ws.ConvertLead(ctx, "lead-ana")
	require.NoError(t, err)
	assert.Equal(t, written.ID, process.ID)

	view := f.ws.View()
	require.Len(t, view.Processes, 1)
	assert.Equal(t, written.ID, view.Processes[0].ID)
	f.processes.AssertNumberOfCalls(t, "Create", 1)
}

func TestWorkspaceRefreshRepairsPartialConversion(t *testing.T) {
	ctx := context.Background()
	f := newWorkspaceFixture()
	loginMasterWithPendingAna(t, ctx, f)

	written := convertWithLeadFailure(t, ctx, f)

	f.leads.On("List", ctx).Return([]*entity.Lead{pendingAna()}, nil).Once()
	f.processes.On("List", ctx, entity.ProcessFilter{}).Return([]*entity.Process{written}, nil).Once()
	f.leads.On("UpdateStatus", ctx, "lead-ana", entity.LeadConverted).Return(nil).Once()

	require.NoError(t, f.ws.Refresh(ctx))

	lead, ok := f.ws.Leads.Find("lead-ana")
	require.True(t, ok)
	assert.Equal(t, entity.LeadConverted, lead.Status)

	// lead já convertido: não há segunda gravação
	again, err := f.ws.ConvertLead(ctx, "lead-ana")
	require.NoError(t, err)
	assert.Nil(t, again)

	require.Len(t, f.ws.Processes.All(), 1)
	f.processes.AssertNumberOfCalls(t, "Create", 1)
}

func TestWorkspaceReconcileAdoptsStoredProcessFromPartialConversion(t *testing.T) {
	ctx := context.Background()
	f := newWorkspaceFixture()
	loginMasterWithPendingAna(t, ctx, f)

	written := convertWithLeadFailure(t, ctx, f)

	f.processes.On("List", ctx, entity.ProcessFilter{}).Return([]*entity.Process{written}, nil)
	f.leads.On("List", ctx).Return([]*entity.Lead{pendingAna()}, nil).Once()
	f.leads.On("UpdateStatus", ctx, "lead-ana", entity.LeadConverted).Return(nil).Once()

	fixed, err := f.ws.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)

	lead, ok := f.ws.Leads.Find("lead-ana")
	require.True(t, ok)
	assert.Equal(t, entity.LeadConverted, lead.Status)

	processes := f.ws.Processes.All()
	require.Len(t, processes, 1)
	assert.Equal(t, written.ID, processes[0].ID)

	again, err := f.ws.ConvertLead(ctx, "lead-ana")
	require.NoError(t, err)
	assert.Nil(t, again)
	f.processes.AssertNumberOfCalls(t, "Create", 1)
}

func TestWorkspaceLoginSucceedsWhenDataLoadFails(t *testing.T) {
	ctx := context.Background()
	f := newWorkspaceFixture()
	f.leads.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

	actor, err := f.ws.Login(ctx, testMaster.Login, testMaster.Password)
	require.NoError(t, err)
	require.NotNil(t, actor)
	assert.Equal(t, entity.MasterActorID, actor.ActorID())
	assert.Equal(t, actor, f.ws.Actor())
	assert.Empty(t, f.ws.View().Leads)
}
