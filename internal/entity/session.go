package entity

import "time"

type Session struct {
	UserID      string    `json:"user_id"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "SIGNED_IN"
	SessionSignedOut SessionEventType = "SIGNED_OUT"
)

type SessionEvent struct {
	Type    SessionEventType
	Session *Session
}

type Subscription interface {
	Unsubscribe()
}

// PartnerMetadata acompanha o cadastro de credenciais de um parceiro.
type PartnerMetadata struct {
	Name    string
	Company string
}
