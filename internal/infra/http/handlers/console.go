package handlers

import (
	"context"

	"github.com/xavierca1/prodoc/internal/entity"
	"github.com/xavierca1/prodoc/internal/usecase"
)

// Console é o que a API usa do workspace.
type Console interface {
	Actor() entity.Actor
	Login(ctx context.Context, login, password string) (entity.Actor, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) error
	View() usecase.View
	Dashboard() usecase.DashboardStats
	SubmitLead(ctx context.Context, draft usecase.LeadDraft) (*entity.Lead, error)
	ConvertLead(ctx context.Context, leadID string) (*entity.Process, error)
	CreateProcess(ctx context.Context, draft usecase.ProcessDraft) (*entity.Process, error)
	SetProcessStatus(ctx context.Context, processID string, status entity.ProcessStatus) (*entity.Process, error)
	ListPartners() ([]entity.Partner, error)
	RegisterPartner(ctx context.Context, in usecase.RegisterPartnerInput) (entity.Partner, error)
}
