package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/xavierca1/prodoc/internal/entity"
)

// SessionKey é onde o token da sessão fica no store local.
const SessionKey = "prodoc_session"

const uniqueViolation = "23505"

type TokenStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Service é o lado de autenticação do store remoto: credenciais no Postgres,
// sessão como JWT guardado localmente e eventos SIGNED_IN/SIGNED_OUT.
type Service struct {
	db     *sql.DB
	tokens *TokenIssuer
	store  TokenStore
	hub    *Hub
}

func NewService(db *sql.DB, tokens *TokenIssuer, store TokenStore) *Service {
	return &Service{db: db, tokens: tokens, store: store, hub: NewHub()}
}

// GetSession devolve nil, nil quando não há token ou ele expirou.
func (s *Service) GetSession(ctx context.Context) (*entity.Session, error) {
	raw, ok, err := s.store.Get(ctx, SessionKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		log.Printf("[auth] sessão local descartada: %v", err)
		if err := s.store.Delete(ctx, SessionKey); err != nil {
			log.Printf("[auth] falha ao remover sessão local: %v", err)
		}
		return nil, nil
	}
	return &entity.Session{UserID: claims.Subject, AccessToken: raw, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s *Service) OnSessionEvent(handler func(entity.SessionEvent)) entity.Subscription {
	return s.hub.Subscribe(handler)
}

func (s *Service) VerifyPassword(ctx context.Context, email, password string) (*entity.Session, error) {
	var userID, hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, password_hash FROM auth_credentials WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&userID, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar credenciais: %w", err)
	}
	if !CheckPassword(hash, password) {
		return nil, entity.ErrInvalidCredentials
	}
	return s.startSession(ctx, userID, email)
}

func (s *Service) startSession(ctx context.Context, userID, email string) (*entity.Session, error) {
	token, expiresAt, err := s.tokens.Issue(userID, email)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, SessionKey, token); err != nil {
		return nil, fmt.Errorf("erro ao gravar sessão: %w", err)
	}
	session := &entity.Session{UserID: userID, AccessToken: token, ExpiresAt: expiresAt}
	s.hub.Emit(entity.SessionEvent{Type: entity.SessionSignedIn, Session: session})
	return session, nil
}

// SignOut é no-op sem sessão; SIGNED_OUT só é emitido quando havia token.
func (s *Service) SignOut(ctx context.Context) error {
	_, ok, err := s.store.Get(ctx, SessionKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := s.store.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("erro ao remover sessão: %w", err)
	}
	s.hub.Emit(entity.SessionEvent{Type: entity.SessionSignedOut})
	return nil
}

// RegisterPartnerCredentials cria perfil PARTNER e credenciais na mesma transação.
// Não troca a sessão atual.
func (s *Service) RegisterPartnerCredentials(ctx context.Context, email, password string, meta entity.PartnerMetadata) (string, error) {
	return s.register(ctx, email, password, meta.Name, meta.Company, entity.RolePartner)
}

// RegisterOperator cadastra um operador (usado pelo prodocctl).
func (s *Service) RegisterOperator(ctx context.Context, email, password, name string) (string, error) {
	return s.register(ctx, email, password, name, "", entity.RoleOperator)
}

func (s *Service) register(ctx context.Context, email, password, name, company string, role entity.Role) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("erro ao gerar hash: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	id := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO profiles (id, name, email, role, company) VALUES ($1, $2, $3, $4, $5)`,
		id, name, email, string(role), nullString(company),
	); err != nil {
		return "", fmt.Errorf("erro ao criar perfil: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO auth_credentials (user_id, email, password_hash) VALUES ($1, $2, $3)`,
		id, email, hash,
	); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return "", entity.ErrEmailAlreadyExists
		}
		return "", fmt.Errorf("erro ao criar credenciais: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
