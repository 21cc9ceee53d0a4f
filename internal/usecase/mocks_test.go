package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/prodoc/internal/entity"
)

// MockAuthGateway
type MockAuthGateway struct {
	mock.Mock
	handler func(entity.SessionEvent)
}

func (m *MockAuthGateway) GetSession(ctx context.Context) (*entity.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockAuthGateway) OnSessionEvent(handler func(entity.SessionEvent)) entity.Subscription {
	m.handler = handler
	args := m.Called()
	return args.Get(0).(entity.Subscription)
}

func (m *MockAuthGateway) VerifyPassword(ctx context.Context, email, password string) (*entity.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockAuthGateway) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAuthGateway) RegisterPartnerCredentials(ctx context.Context, email, password string, meta entity.PartnerMetadata) (string, error) {
	args := m.Called(ctx, email, password, meta)
	return args.String(0), args.Error(1)
}

// emit simula um evento vindo do stream de sessão.
func (m *MockAuthGateway) emit(ev entity.SessionEvent) {
	if m.handler != nil {
		m.handler(ev)
	}
}

// MockSubscription
type MockSubscription struct {
	mock.Mock
}

func (m *MockSubscription) Unsubscribe() {
	m.Called()
}

// MockProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id string) (*entity.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockProfileRepository) ListByRole(ctx context.Context, role entity.Role) ([]*entity.Profile, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Profile), args.Error(1)
}

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id string, status entity.LeadStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockLeadRepository) List(ctx context.Context) ([]*entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

// MockProcessRepository
type MockProcessRepository struct {
	mock.Mock
}

func (m *MockProcessRepository) Create(ctx context.Context, p *entity.Process) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProcessRepository) UpdateStatus(ctx context.Context, id string, status entity.ProcessStatus, updatedAt time.Time) error {
	args := m.Called(ctx, id, status, updatedAt)
	return args.Error(0)
}

func (m *MockProcessRepository) List(ctx context.Context, filter entity.ProcessFilter) ([]*entity.Process, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Process), args.Error(1)
}

// MockEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event entity.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// memoryLocalStore faz o papel do localStorage.
type memoryLocalStore struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func newMemoryLocalStore() *memoryLocalStore {
	return &memoryLocalStore{values: map[string]string{}}
}

func (s *memoryLocalStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memoryLocalStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memoryLocalStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *memoryLocalStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}
