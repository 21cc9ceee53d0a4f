package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/prodoc/internal/entity"
)

// LeadNotifier avisa a operação sobre um lead novo (e-mail).
type LeadNotifier interface {
	NotifyNewLead(ctx context.Context, msg EventMessage) error
}

// StatusNotifier avisa o cliente sobre a mudança de status (WhatsApp).
type StatusNotifier interface {
	NotifyStatusChange(ctx context.Context, msg EventMessage) error
}

type Worker struct {
	Channel *amqp.Channel
	Leads   LeadNotifier
	Status  StatusNotifier
}

func NewWorker(ch *amqp.Channel, leads LeadNotifier, status StatusNotifier) *Worker {
	return &Worker{Channel: ch, Leads: leads, Status: status}
}

// Start consome a fila até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual é mais seguro)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ [WORKER] encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal de consumo fechado")
			}
			w.handleDelivery(ctx, d)
		}
	}
}

func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var msg EventMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Printf("❌ [WORKER] JSON inválido: %s", err)
		// mensagem podre: sem requeue para não travar a fila
		d.Nack(false, false)
		return
	}

	if err := w.Process(ctx, msg); err != nil {
		log.Printf("❌ [WORKER] falha ao notificar %s: %s", msg.Type, err)
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}

// Process roteia o evento para o notificador certo.
func (w *Worker) Process(ctx context.Context, msg EventMessage) error {
	switch entity.EventType(msg.Type) {
	case entity.EventLeadSubmitted:
		if w.Leads == nil {
			return nil
		}
		return w.Leads.NotifyNewLead(ctx, msg)
	case entity.EventProcessStatusChanged:
		if w.Status == nil || msg.WhatsApp == "" {
			return nil
		}
		return w.Status.NotifyStatusChange(ctx, msg)
	default:
		log.Printf("[WORKER] evento %s sem notificação, apenas logando", msg.Type)
		return nil
	}
}
