package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/xavierca1/prodoc/internal/entity"
	"github.com/xavierca1/prodoc/internal/infra/queue"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

var newLeadTmpl = template.Must(template.ParseFS(templatesFS, "templates/new_lead.html"))

type NewLeadEmailData struct {
	Name         string
	WhatsApp     string
	WhatsAppLink string
	Plate        string
	Services     []string
	ReceivedAt   string
}

// Dialer é o que o EmailSender precisa do gomail.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	OpsTo  string
	dialer Dialer
}

func NewEmailSender(host string, port int, user, password, from, opsTo string) *EmailSender {
	return &EmailSender{
		From:   from,
		OpsTo:  opsTo,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

func NewEmailSenderWithDialer(d Dialer, from, opsTo string) *EmailSender {
	return &EmailSender{From: from, OpsTo: opsTo, dialer: d}
}

// NotifyNewLead manda o alerta de lead novo para a caixa da operação.
func (s *EmailSender) NotifyNewLead(_ context.Context, msg queue.EventMessage) error {
	body, err := renderNewLead(msg)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.OpsTo)
	m.SetHeader("Subject", fmt.Sprintf("Novo lead: %s (%s)", msg.CustomerName, msg.Plate))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

func renderNewLead(msg queue.EventMessage) (string, error) {
	lead := entity.Lead{WhatsApp: msg.WhatsApp}
	data := NewLeadEmailData{
		Name:         msg.CustomerName,
		WhatsApp:     msg.WhatsApp,
		WhatsAppLink: lead.WhatsAppLink(),
		Plate:        msg.Plate,
		Services:     msg.Services,
		ReceivedAt:   receivedAt(msg.OccurredAt),
	}

	var body bytes.Buffer
	if err := newLeadTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}

func receivedAt(v string) string {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return v
	}
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02/01/2006 15:04")
}
