package entity

import "time"

type EventType string

const (
	EventLeadSubmitted        EventType = "lead.submitted"
	EventLeadConverted        EventType = "lead.converted"
	EventProcessCreated       EventType = "process.created"
	EventProcessStatusChanged EventType = "process.status_changed"
)

// Event é publicado na fila depois que a escrita remota foi confirmada.
type Event struct {
	Type         EventType `json:"type"`
	LeadID       string    `json:"lead_id,omitempty"`
	ProcessID    string    `json:"process_id,omitempty"`
	PartnerID    string    `json:"partner_id,omitempty"`
	CustomerName string    `json:"customer_name"`
	WhatsApp     string    `json:"whatsapp,omitempty"`
	Plate        string    `json:"plate"`
	Services     []string  `json:"services,omitempty"`
	Status       string    `json:"status,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
