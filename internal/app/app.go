package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/xavierca1/prodoc/internal/config"
	"github.com/xavierca1/prodoc/internal/infra/auth"
	"github.com/xavierca1/prodoc/internal/infra/database"
	"github.com/xavierca1/prodoc/internal/infra/http/middleware"
	"github.com/xavierca1/prodoc/internal/infra/integration/whatsapp"
	"github.com/xavierca1/prodoc/internal/infra/localstore"
	"github.com/xavierca1/prodoc/internal/infra/mail"
	"github.com/xavierca1/prodoc/internal/infra/queue"
	"github.com/xavierca1/prodoc/internal/infra/worker"
	"github.com/xavierca1/prodoc/internal/usecase"
)

// App junta as dependências de infraestrutura em volta do Workspace.
type App struct {
	Config    *config.Config
	DB        *sql.DB
	Local     *localstore.Store
	Auth      *auth.Service
	Broker    *queue.RabbitMQ
	Workspace *usecase.Workspace
}

// New abre banco, store local e (se configurado) RabbitMQ, e monta o workspace.
// Não resolve o ator: chame Workspace.Init depois.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	local, err := localstore.Open(cfg.LocalStorePath)
	if err != nil {
		db.Close()
		return nil, err
	}

	a := &App{Config: cfg, DB: db, Local: local}
	a.Auth = auth.NewService(db, auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL), local)

	var events usecase.EventPublisher
	if cfg.RabbitMQURL != "" {
		broker, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Broker = broker
		events = queue.NewProducer(broker.Ch)
	} else {
		log.Println("⚠️ RABBITMQ_URL não definida, eventos de domínio desativados")
	}

	a.Workspace = usecase.NewWorkspace(usecase.WorkspaceDeps{
		Auth:      a.Auth,
		Local:     local,
		Leads:     database.NewLeadRepository(db),
		Processes: database.NewProcessRepository(db),
		Profiles:  database.NewProfileRepository(db),
		Events:    events,
		Master:    usecase.MasterCredentials{Login: cfg.MasterLogin, Password: cfg.MasterPassword},
	})
	return a, nil
}

// StartBackground sobe o consumidor de notificações e o worker de reconciliação.
func (a *App) StartBackground(ctx context.Context) {
	if a.Broker != nil {
		w := queue.NewWorker(a.Broker.Ch, a.leadNotifier(), a.statusNotifier())
		go func() {
			if err := w.Start(ctx, queue.QueueName); err != nil {
				log.Printf("❌ worker de notificações parou: %v", err)
			}
		}()
	}

	rw := worker.NewReconcileWorker(a.Workspace, a.Config.ReconcileInterval)
	rw.OnRun(func(fixed int, err error) {
		if err == nil {
			middleware.RecordReconciled(fixed)
		}
	})
	go rw.Start(ctx)
}

func (a *App) leadNotifier() queue.LeadNotifier {
	if !a.Config.MailEnabled() {
		return nil
	}
	c := a.Config
	return meteredLeads{mail.NewEmailSender(c.MailHost, c.MailPort, c.MailUser, c.MailPassword, c.MailFrom, c.MailOpsTo)}
}

func (a *App) statusNotifier() queue.StatusNotifier {
	if !a.Config.WhatsAppEnabled() {
		return nil
	}
	c := a.Config
	client := whatsapp.NewClient(c.WhatsAppToken, c.WhatsAppPhoneID, c.WhatsAppBaseURL)
	return meteredStatus{mail.NewWhatsAppSender(client, c.WhatsAppTemplate)}
}

func (a *App) Close() {
	if a.Workspace != nil {
		a.Workspace.Teardown()
	}
	if a.Broker != nil {
		a.Broker.Close()
	}
	if a.Local != nil {
		if err := a.Local.Close(); err != nil {
			log.Printf("erro ao fechar store local: %v", err)
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

type meteredLeads struct{ next queue.LeadNotifier }

func (m meteredLeads) NotifyNewLead(ctx context.Context, msg queue.EventMessage) error {
	if err := m.next.NotifyNewLead(ctx, msg); err != nil {
		middleware.RecordIntegrationError("mail")
		return fmt.Errorf("mail: %w", err)
	}
	return nil
}

type meteredStatus struct{ next queue.StatusNotifier }

func (m meteredStatus) NotifyStatusChange(ctx context.Context, msg queue.EventMessage) error {
	if err := m.next.NotifyStatusChange(ctx, msg); err != nil {
		middleware.RecordIntegrationError("whatsapp")
		return fmt.Errorf("whatsapp: %w", err)
	}
	return nil
}
