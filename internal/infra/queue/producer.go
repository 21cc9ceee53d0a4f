package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/prodoc/internal/entity"
)

// EventMessage é o corpo publicado na exchange.
type EventMessage struct {
	Type         string   `json:"type"`
	LeadID       string   `json:"lead_id,omitempty"`
	ProcessID    string   `json:"process_id,omitempty"`
	PartnerID    string   `json:"partner_id,omitempty"`
	CustomerName string   `json:"customer_name"`
	WhatsApp     string   `json:"whatsapp,omitempty"`
	Plate        string   `json:"plate"`
	Services     []string `json:"services,omitempty"`
	Status       string   `json:"status,omitempty"`
	OccurredAt   string   `json:"occurred_at"`
}

func NewEventMessage(ev entity.Event) EventMessage {
	return EventMessage{
		Type:         string(ev.Type),
		LeadID:       ev.LeadID,
		ProcessID:    ev.ProcessID,
		PartnerID:    ev.PartnerID,
		CustomerName: ev.CustomerName,
		WhatsApp:     ev.WhatsApp,
		Plate:        ev.Plate,
		Services:     ev.Services,
		Status:       ev.Status,
		OccurredAt:   ev.OccurredAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Publisher é a parte do canal AMQP que o producer usa.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

// Publish usa o tipo do evento como routing key.
func (p *RabbitMQProducer) Publish(ctx context.Context, ev entity.Event) error {
	body, err := json.Marshal(NewEventMessage(ev))
	if err != nil {
		return fmt.Errorf("erro ao converter evento: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		string(ev.Type),
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         string(ev.Type),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}
