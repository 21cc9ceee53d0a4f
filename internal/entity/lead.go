package entity

import (
	"context"
	"regexp"
	"time"
)

type LeadStatus string

const (
	LeadPending   LeadStatus = "PENDING"
	LeadConverted LeadStatus = "CONVERTED"
)

// Lead é uma solicitação recebida pelo formulário público.
type Lead struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	WhatsApp    string     `json:"whatsapp" yaml:"whatsapp"`
	Plate       string     `json:"plate" yaml:"plate"`
	Renavam     string     `json:"renavam,omitempty" yaml:"renavam,omitempty"`
	Services    []string   `json:"services" yaml:"services"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"created_at"`
	Status      LeadStatus `json:"status" yaml:"status"`
}

var nonDigit = regexp.MustCompile(`\D`)

// WhatsAppLink monta o link de contato (DDI 55).
func (l *Lead) WhatsAppLink() string {
	return "https://wa.me/55" + nonDigit.ReplaceAllString(l.WhatsApp, "")
}

func (l *Lead) Clone() *Lead {
	c := *l
	c.Services = append([]string(nil), l.Services...)
	return &c
}

type LeadRepository interface {
	// Create grava o lead e preenche os campos do servidor (ID, CreatedAt, Status).
	Create(ctx context.Context, lead *Lead) error
	UpdateStatus(ctx context.Context, id string, status LeadStatus) error
	// List retorna os leads do mais novo para o mais antigo.
	List(ctx context.Context) ([]*Lead, error)
}
