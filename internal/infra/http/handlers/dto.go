package handlers

import (
	"time"

	"github.com/xavierca1/prodoc/internal/entity"
	"github.com/xavierca1/prodoc/internal/usecase"
)

type ActorResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Role        entity.Role         `json:"role"`
	Company     string              `json:"company,omitempty"`
	Permissions usecase.Permissions `json:"permissions"`
}

func newActorResponse(actor entity.Actor) *ActorResponse {
	if actor == nil {
		return nil
	}
	resp := &ActorResponse{
		ID:          actor.ActorID(),
		Name:        actor.ActorName(),
		Email:       actor.ActorEmail(),
		Role:        actor.Role(),
		Permissions: usecase.PermissionsFor(actor),
	}
	if p, ok := actor.(entity.Partner); ok {
		resp.Company = p.Company
	}
	return resp
}

type LeadResponse struct {
	*entity.Lead
	WhatsAppLink string `json:"whatsappLink"`
}

func newLeadResponses(leads []*entity.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, LeadResponse{Lead: l, WhatsAppLink: l.WhatsAppLink()})
	}
	return out
}

type ProcessResponse struct {
	ID           string               `json:"id"`
	LeadID       string               `json:"leadId,omitempty"`
	PartnerID    string               `json:"partnerId,omitempty"`
	CustomerName string               `json:"customerName"`
	Plate        string               `json:"plate"`
	Services     []string             `json:"services"`
	Status       entity.ProcessStatus `json:"status"`
	StatusLabel  string               `json:"statusLabel"`
	Progress     int                  `json:"progress"`
	Documents    []string             `json:"documents"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

func newProcessResponse(p *entity.Process) ProcessResponse {
	return ProcessResponse{
		ID:           p.ID,
		LeadID:       p.LeadID,
		PartnerID:    p.PartnerID,
		CustomerName: p.CustomerName,
		Plate:        p.Plate,
		Services:     p.Services,
		Status:       p.Status,
		StatusLabel:  p.Status.Label(),
		Progress:     p.Status.Progress(),
		Documents:    p.Documents,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func newProcessResponses(processes []*entity.Process) []ProcessResponse {
	out := make([]ProcessResponse, 0, len(processes))
	for _, p := range processes {
		out = append(out, newProcessResponse(p))
	}
	return out
}

type StatusOption struct {
	Code     entity.ProcessStatus `json:"code"`
	Label    string               `json:"label"`
	Progress int                  `json:"progress"`
}
