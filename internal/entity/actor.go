package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Role string

const (
	RoleOperator Role = "OPERATOR"
	RolePartner  Role = "PARTNER"
)

// Identidade fixa do login master (override local).
const (
	MasterActorID   = "admin-master"
	MasterActorName = "Administrador Master"
)

// ParseRole aceita também "ADMIN", que é como os perfis antigos gravam o operador.
func ParseRole(v string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "OPERATOR", "ADMIN":
		return RoleOperator, nil
	case "PARTNER":
		return RolePartner, nil
	}
	return "", fmt.Errorf("role desconhecido: %q", v)
}

// Actor é o usuário autenticado. Só existem duas variantes: Operator e Partner.
type Actor interface {
	ActorID() string
	ActorName() string
	ActorEmail() string
	Role() Role
	actor()
}

type Operator struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

func (o Operator) ActorID() string    { return o.ID }
func (o Operator) ActorName() string  { return o.Name }
func (o Operator) ActorEmail() string { return o.Email }
func (o Operator) Role() Role         { return RoleOperator }
func (Operator) actor()               {}

type Partner struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Email   string `json:"email" yaml:"email"`
	Company string `json:"company,omitempty" yaml:"company,omitempty"`
}

func (p Partner) ActorID() string    { return p.ID }
func (p Partner) ActorName() string  { return p.Name }
func (p Partner) ActorEmail() string { return p.Email }
func (p Partner) Role() Role         { return RolePartner }
func (Partner) actor()               {}

// MasterOperator monta o operador privilegiado do login master.
func MasterOperator(login string) Operator {
	return Operator{ID: MasterActorID, Name: MasterActorName, Email: login}
}

// ActorRecord é a forma serializada de um Actor (override local, respostas JSON).
type ActorRecord struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Email   string `json:"email" yaml:"email"`
	Role    Role   `json:"role" yaml:"role"`
	Company string `json:"company,omitempty" yaml:"company,omitempty"`
}

func RecordOf(a Actor) ActorRecord {
	rec := ActorRecord{ID: a.ActorID(), Name: a.ActorName(), Email: a.ActorEmail(), Role: a.Role()}
	if p, ok := a.(Partner); ok {
		rec.Company = p.Company
	}
	return rec
}

func (r ActorRecord) Actor() (Actor, error) {
	if strings.TrimSpace(r.ID) == "" {
		return nil, fmt.Errorf("actor sem id")
	}
	role, err := ParseRole(string(r.Role))
	if err != nil {
		return nil, err
	}
	switch role {
	case RolePartner:
		return Partner{ID: r.ID, Name: r.Name, Email: r.Email, Company: r.Company}, nil
	default:
		return Operator{ID: r.ID, Name: r.Name, Email: r.Email}, nil
	}
}

func EncodeActor(a Actor) (string, error) {
	b, err := json.Marshal(RecordOf(a))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func DecodeActor(raw string) (Actor, error) {
	var rec ActorRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	return rec.Actor()
}
