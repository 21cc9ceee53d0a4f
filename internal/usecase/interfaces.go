package usecase

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/prodoc/internal/entity"
)

// AuthGateway é a parte de sessão/credenciais do store remoto.
type AuthGateway interface {
	// GetSession retorna nil, nil quando não há sessão válida.
	GetSession(ctx context.Context) (*entity.Session, error)
	OnSessionEvent(handler func(entity.SessionEvent)) entity.Subscription
	// VerifyPassword retorna entity.ErrInvalidCredentials quando email/senha não conferem.
	VerifyPassword(ctx context.Context, email, password string) (*entity.Session, error)
	SignOut(ctx context.Context) error
	RegisterPartnerCredentials(ctx context.Context, email, password string, meta entity.PartnerMetadata) (string, error)
}

// LocalStore guarda estado local persistente (o override do login master).
type LocalStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.Event) error
}

// publish é best-effort: a escrita remota já foi confirmada.
func publish(ctx context.Context, p EventPublisher, event entity.Event) {
	if p == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if err := p.Publish(ctx, event); err != nil {
		log.Printf("[events] falha ao publicar %s: %v", event.Type, err)
	}
}
