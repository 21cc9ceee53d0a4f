package usecase

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/xavierca1/prodoc/internal/entity"
)

// OverrideKey é a chave do override do login master no store local.
const OverrideKey = "prodoc_admin_bypass"

const (
	msgInvalidCredentials = "Credenciais inválidas. Verifique seu usuário e senha."
	msgProfileUnavailable = "Não foi possível carregar seu perfil. Entre em contato com o suporte."
)

// MasterCredentials é o par fixo que dispensa o store remoto. Login vazio desativa o atalho.
type MasterCredentials struct {
	Login    string
	Password string
}

func (m MasterCredentials) matches(login, password string) bool {
	return m.Login != "" && login == m.Login && password == m.Password
}

// Identity decide quem é o ator atual: override local, sessão remota ou ninguém.
type Identity struct {
	auth     AuthGateway
	profiles entity.ProfileRepository
	local    LocalStore
	master   MasterCredentials

	mu        sync.RWMutex
	actor     entity.Actor
	listeners []func(entity.Actor)

	sub      entity.Subscription
	released bool
	release  sync.Once
}

func NewIdentity(auth AuthGateway, profiles entity.ProfileRepository, local LocalStore, master MasterCredentials) *Identity {
	return &Identity{
		auth:     auth,
		profiles: profiles,
		local:    local,
		master:   master,
	}
}

// Init resolve o ator inicial e assina o stream de eventos de sessão.
func (i *Identity) Init(ctx context.Context) error {
	actor, err := i.bootstrap(ctx)
	if err != nil {
		return err
	}
	i.setActor(actor)

	i.mu.Lock()
	if i.sub == nil && !i.released {
		i.sub = i.auth.OnSessionEvent(i.handleSessionEvent)
	}
	i.mu.Unlock()
	return nil
}

func (i *Identity) bootstrap(ctx context.Context) (entity.Actor, error) {
	if actor, ok := i.loadOverride(ctx); ok {
		return actor, nil
	}

	session, err := i.auth.GetSession(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "get session", Err: err}
	}
	if session == nil {
		return nil, nil
	}

	actor, err := i.actorForUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) || isMappingError(err) {
			log.Printf("[identity] sessão sem perfil utilizável para %s, seguindo anônimo", session.UserID)
			return nil, nil
		}
		return nil, err
	}
	return actor, nil
}

// loadOverride descarta registros ilegíveis em vez de propagar o erro.
func (i *Identity) loadOverride(ctx context.Context) (entity.Actor, bool) {
	raw, ok, err := i.local.Get(ctx, OverrideKey)
	if err != nil {
		log.Printf("[identity] falha ao ler override local: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	actor, err := entity.DecodeActor(raw)
	if err != nil {
		log.Printf("[identity] override inválido descartado: %v", err)
		if err := i.local.Delete(ctx, OverrideKey); err != nil {
			log.Printf("[identity] falha ao remover override: %v", err)
		}
		return nil, false
	}
	return actor, true
}

// actorForUser retorna entity.ErrNotFound (embrulhado) se não houver perfil.
func (i *Identity) actorForUser(ctx context.Context, userID string) (entity.Actor, error) {
	profile, err := i.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, err
		}
		return nil, &PersistenceError{Op: "get profile", Err: err}
	}
	actor, err := profile.ToActor()
	if err != nil {
		return nil, &PersistenceError{Op: "map profile", Err: err}
	}
	return actor, nil
}

func (i *Identity) handleSessionEvent(ev entity.SessionEvent) {
	i.mu.RLock()
	released := i.released
	i.mu.RUnlock()
	if released {
		return
	}

	switch ev.Type {
	case entity.SessionSignedIn:
		if ev.Session == nil {
			return
		}
		actor, err := i.actorForUser(context.Background(), ev.Session.UserID)
		if err != nil {
			log.Printf("[identity] SIGNED_IN sem perfil utilizável: %v", err)
			return
		}
		i.setActor(actor)
	case entity.SessionSignedOut:
		i.setActor(nil)
	}
}

// Login tenta o par master primeiro; senão delega ao store remoto.
func (i *Identity) Login(ctx context.Context, login, password string) (entity.Actor, error) {
	if i.master.matches(login, password) {
		actor := entity.MasterOperator(login)
		raw, err := entity.EncodeActor(actor)
		if err == nil {
			err = i.local.Set(ctx, OverrideKey, raw)
		}
		if err != nil {
			log.Printf("[identity] override não persistido: %v", err)
		}
		i.setActor(actor)
		return actor, nil
	}

	session, err := i.auth.VerifyPassword(ctx, login, password)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidCredentials) {
			return nil, &AuthError{Message: msgInvalidCredentials, Err: err}
		}
		return nil, &PersistenceError{Op: "verify password", Err: err}
	}

	actor, err := i.actorForUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) || isMappingError(err) {
			// sem perfil não há login: a sessão recém-criada não pode sobreviver
			if signOutErr := i.auth.SignOut(ctx); signOutErr != nil {
				log.Printf("[identity] falha ao descartar sessão sem perfil: %v", signOutErr)
			}
			return nil, &AuthError{Message: msgProfileUnavailable, Err: err}
		}
		return nil, err
	}

	i.setActor(actor)
	return actor, nil
}

func isMappingError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe) && pe.Op == "map profile"
}

// Logout limpa a sessão remota, o override e o ator local, mesmo sem sessão ativa.
func (i *Identity) Logout(ctx context.Context) error {
	signOutErr := i.auth.SignOut(ctx)
	if err := i.local.Delete(ctx, OverrideKey); err != nil {
		log.Printf("[identity] falha ao remover override: %v", err)
	}
	i.setActor(nil)
	if signOutErr != nil {
		return &PersistenceError{Op: "sign out", Err: signOutErr}
	}
	return nil
}

func (i *Identity) Current() entity.Actor {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.actor
}

// OnChange registra um callback chamado sempre que o ator muda.
func (i *Identity) OnChange(fn func(entity.Actor)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.listeners = append(i.listeners, fn)
}

// Teardown libera a assinatura de eventos uma única vez.
func (i *Identity) Teardown() {
	i.release.Do(func() {
		i.mu.Lock()
		sub := i.sub
		i.sub = nil
		i.released = true
		i.mu.Unlock()
		if sub != nil {
			sub.Unsubscribe()
		}
	})
}

func (i *Identity) setActor(actor entity.Actor) {
	i.mu.Lock()
	i.actor = actor
	listeners := append([]func(entity.Actor){}, i.listeners...)
	i.mu.Unlock()

	for _, fn := range listeners {
		fn(actor)
	}
}
