package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/prodoc/internal/entity"
	"github.com/xavierca1/prodoc/internal/usecase"
)

type MockConsole struct {
	mock.Mock
}

func (m *MockConsole) Actor() entity.Actor {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(entity.Actor)
}

func (m *MockConsole) Login(ctx context.Context, login, password string) (entity.Actor, error) {
	args := m.Called(ctx, login, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.Actor), args.Error(1)
}

func (m *MockConsole) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockConsole) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockConsole) View() usecase.View {
	return m.Called().Get(0).(usecase.View)
}

func (m *MockConsole) Dashboard() usecase.DashboardStats {
	return m.Called().Get(0).(usecase.DashboardStats)
}

func (m *MockConsole) SubmitLead(ctx context.Context, draft usecase.LeadDraft) (*entity.Lead, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockConsole) ConvertLead(ctx context.Context, leadID string) (*entity.Process, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Process), args.Error(1)
}

func (m *MockConsole) CreateProcess(ctx context.Context, draft usecase.ProcessDraft) (*entity.Process, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Process), args.Error(1)
}

func (m *MockConsole) SetProcessStatus(ctx context.Context, processID string, status entity.ProcessStatus) (*entity.Process, error) {
	args := m.Called(ctx, processID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Process), args.Error(1)
}

func (m *MockConsole) ListPartners() ([]entity.Partner, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Partner), args.Error(1)
}

func (m *MockConsole) RegisterPartner(ctx context.Context, in usecase.RegisterPartnerInput) (entity.Partner, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(entity.Partner), args.Error(1)
}
