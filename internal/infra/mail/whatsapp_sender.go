package mail

import (
	"context"
	"log"

	"github.com/xavierca1/prodoc/internal/infra/integration/whatsapp"
	"github.com/xavierca1/prodoc/internal/infra/queue"
)

type MessageClient interface {
	SendMessage(ctx context.Context, input whatsapp.SendMessageInput) error
}

// WhatsAppSender avisa o cliente quando o status do processo muda.
type WhatsAppSender struct {
	client   MessageClient
	template string
}

func NewWhatsAppSender(client MessageClient, template string) *WhatsAppSender {
	return &WhatsAppSender{client: client, template: template}
}

func (s *WhatsAppSender) NotifyStatusChange(ctx context.Context, msg queue.EventMessage) error {
	if msg.WhatsApp == "" || msg.Status == "" {
		log.Printf("⚠️ WhatsApp: dados incompletos para %s (phone: %q, status: %q)", msg.ProcessID, msg.WhatsApp, msg.Status)
		return nil
	}

	return s.client.SendMessage(ctx, whatsapp.SendMessageInput{
		PhoneNumber:  msg.WhatsApp,
		TemplateName: s.template,
		Parameters:   []string{msg.CustomerName, msg.Plate, msg.Status},
	})
}
