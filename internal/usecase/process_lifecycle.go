package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/prodoc/internal/entity"
)

// PartnerLookup confirma que um id pertence a um ator PARTNER.
type PartnerLookup interface {
	IsPartner(ctx context.Context, id string) (bool, error)
}

// NewProcessID gera ids no formato PROC-<uuid em maiúsculas>.
func NewProcessID() string {
	return "PROC-" + strings.ToUpper(uuid.NewString())
}

type ProcessLifecycle struct {
	repo     entity.ProcessRepository
	leads    *LeadRegistry
	partners PartnerLookup
	events   EventPublisher

	Now   func() time.Time
	NewID func() string

	mu        sync.RWMutex
	processes []*entity.Process
	// orphans: processos já gravados cujo lead não foi marcado (conversão interrompida).
	// Ficam fora da projeção até o reparo do lead dar certo.
	orphans map[string]*entity.Process
}

func NewProcessLifecycle(repo entity.ProcessRepository, leads *LeadRegistry, partners PartnerLookup, events EventPublisher) *ProcessLifecycle {
	return &ProcessLifecycle{
		repo:     repo,
		leads:    leads,
		partners: partners,
		events:   events,
		Now:      time.Now,
		NewID:    NewProcessID,
	}
}

func (l *ProcessLifecycle) Load(ctx context.Context, filter entity.ProcessFilter) error {
	processes, err := l.repo.List(ctx, filter)
	if err != nil {
		return &PersistenceError{Op: "list processes", Err: err}
	}
	l.mu.Lock()
	l.processes = processes
	for _, p := range processes {
		delete(l.orphans, p.LeadID)
	}
	l.mu.Unlock()
	return nil
}

func (l *ProcessLifecycle) Reset() {
	l.mu.Lock()
	l.processes = nil
	l.mu.Unlock()
}

func (l *ProcessLifecycle) All() []*entity.Process {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*entity.Process, 0, len(l.processes))
	for _, p := range l.processes {
		out = append(out, p.Clone())
	}
	return out
}

func (l *ProcessLifecycle) Find(id string) (*entity.Process, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if p := l.find(id); p != nil {
		return p.Clone(), true
	}
	return nil, false
}

func (l *ProcessLifecycle) find(id string) *entity.Process {
	for _, p := range l.processes {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (l *ProcessLifecycle) findByLead(leadID string) *entity.Process {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, p := range l.processes {
		if p.LeadID == leadID {
			return p.Clone()
		}
	}
	return nil
}

func (l *ProcessLifecycle) orphanFor(leadID string) *entity.Process {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if p, ok := l.orphans[leadID]; ok {
		return p.Clone()
	}
	return nil
}

func (l *ProcessLifecycle) rememberOrphan(p *entity.Process) {
	l.mu.Lock()
	if l.orphans == nil {
		l.orphans = make(map[string]*entity.Process)
	}
	l.orphans[p.LeadID] = p.Clone()
	l.mu.Unlock()
}

// adoptOrphan move o processo órfão para a projeção.
func (l *ProcessLifecycle) adoptOrphan(p *entity.Process) {
	l.mu.Lock()
	delete(l.orphans, p.LeadID)
	l.processes = append([]*entity.Process{p.Clone()}, l.processes...)
	l.mu.Unlock()
}

func (l *ProcessLifecycle) prepend(p *entity.Process) {
	l.mu.Lock()
	l.processes = append([]*entity.Process{p}, l.processes...)
	l.mu.Unlock()
}

// Convert transforma um lead PENDING em processo RECEIVED.
// Lead desconhecido ou já convertido: no-op (nil, nil).
// As duas escritas remotas precisam ter sucesso antes de a projeção mudar.
func (l *ProcessLifecycle) Convert(ctx context.Context, leadID string) (*entity.Process, error) {
	lead, ok := l.leads.Find(leadID)
	if !ok || lead.Status == entity.LeadConverted {
		return nil, nil
	}

	// Processo já existe (conversão interrompida antes): só falta o status do lead.
	if existing := l.findByLead(lead.ID); existing != nil {
		if err := l.leads.markConvertedRemote(ctx, lead.ID); err != nil {
			return nil, &PersistenceError{Op: "update lead status", Err: err}
		}
		l.leads.markConvertedLocal(lead.ID)
		log.Printf("[lifecycle] lead %s reparado, processo %s já existia", lead.ID, existing.ID)
		return existing, nil
	}

	// Tentativa anterior gravou o processo mas não o lead: reaproveita, nunca grava outro.
	if orphan := l.orphanFor(lead.ID); orphan != nil {
		if err := l.leads.markConvertedRemote(ctx, lead.ID); err != nil {
			return nil, &PersistenceError{Op: "update lead status", Err: err}
		}
		l.adoptOrphan(orphan)
		l.leads.markConvertedLocal(lead.ID)
		l.publishConverted(ctx, lead, orphan)
		return orphan, nil
	}

	now := l.Now()
	process := &entity.Process{
		ID:           l.NewID(),
		LeadID:       lead.ID,
		CustomerName: lead.Name,
		Plate:        lead.Plate,
		Services:     append([]string(nil), lead.Services...),
		Status:       entity.StatusReceived,
		Documents:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	txn := NewTransaction()
	txn.AddOperation("insert_process", func(ctx context.Context) error {
		return l.repo.Create(ctx, process)
	})
	txn.AddOperation("mark_lead_converted", func(ctx context.Context) error {
		return l.leads.markConvertedRemote(ctx, lead.ID)
	})

	if err := txn.Execute(ctx); err != nil {
		var step *StepError
		if errors.As(err, &step) && len(step.Completed) > 0 {
			log.Printf("⚠️ [lifecycle] processo %s gravado mas lead %s continua PENDING: %v", process.ID, lead.ID, step.Err)
			l.rememberOrphan(process)
		}
		return nil, &PersistenceError{Op: "convert lead", Err: err}
	}

	l.prepend(process)
	l.leads.markConvertedLocal(lead.ID)
	l.publishConverted(ctx, lead, process)
	return process.Clone(), nil
}

func (l *ProcessLifecycle) publishConverted(ctx context.Context, lead *entity.Lead, process *entity.Process) {
	publish(ctx, l.events, entity.Event{
		Type:         entity.EventLeadConverted,
		LeadID:       lead.ID,
		ProcessID:    process.ID,
		CustomerName: process.CustomerName,
		WhatsApp:     lead.WhatsApp,
		Plate:        process.Plate,
		Services:     process.Services,
		Status:       process.Status.Label(),
	})
}

// CreateManual cria um processo direto. Parceiro sempre fica vinculado a si mesmo.
func (l *ProcessLifecycle) CreateManual(ctx context.Context, draft ProcessDraft, actor entity.Actor) (*entity.Process, error) {
	var partnerID string
	switch a := actor.(type) {
	case entity.Operator:
		partnerID = strings.TrimSpace(draft.PartnerID)
	case entity.Partner:
		partnerID = a.ID
	default:
		return nil, &ForbiddenError{Action: "create process"}
	}

	if err := ValidationErrors(ValidateProcessDraft(draft)).orNil(); err != nil {
		return nil, err
	}

	if _, isOperator := actor.(entity.Operator); isOperator && partnerID != "" {
		ok, err := l.partners.IsPartner(ctx, partnerID)
		if err != nil {
			return nil, &PersistenceError{Op: "lookup partner", Err: err}
		}
		if !ok {
			return nil, ValidationErrors{{"partnerId", "must reference a partner"}}
		}
	}

	now := l.Now()
	process := &entity.Process{
		ID:           l.NewID(),
		PartnerID:    partnerID,
		CustomerName: strings.TrimSpace(draft.CustomerName),
		Plate:        normalizePlate(draft.Plate),
		Services:     dedupe(draft.Services),
		Status:       entity.StatusReceived,
		Documents:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := l.repo.Create(ctx, process); err != nil {
		return nil, &PersistenceError{Op: "insert process", Err: err}
	}
	l.prepend(process)

	publish(ctx, l.events, entity.Event{
		Type:         entity.EventProcessCreated,
		ProcessID:    process.ID,
		PartnerID:    process.PartnerID,
		CustomerName: process.CustomerName,
		Plate:        process.Plate,
		Services:     process.Services,
		Status:       process.Status.Label(),
	})
	return process.Clone(), nil
}

// SetStatus grava o novo status e updatedAt; a projeção só muda após sucesso remoto.
func (l *ProcessLifecycle) SetStatus(ctx context.Context, processID string, status entity.ProcessStatus) (*entity.Process, error) {
	if !status.Valid() {
		return nil, ValidationErrors{{"status", "is not a known process status"}}
	}

	current, ok := l.Find(processID)
	if !ok {
		return nil, &NotFoundError{Kind: "process", ID: processID}
	}
	if !entity.CanTransition(current.Status, status) {
		return nil, ValidationErrors{{"status", "transition from " + string(current.Status) + " to " + string(status) + " is not allowed"}}
	}

	updatedAt := l.Now()
	if updatedAt.Before(current.UpdatedAt) {
		updatedAt = current.UpdatedAt
	}

	if err := l.repo.UpdateStatus(ctx, processID, status, updatedAt); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, &NotFoundError{Kind: "process", ID: processID}
		}
		return nil, &PersistenceError{Op: "update process status", Err: err}
	}

	l.mu.Lock()
	p := l.find(processID)
	if p != nil {
		p.Status = status
		p.UpdatedAt = updatedAt
		current = p.Clone()
	} else {
		current.Status = status
		current.UpdatedAt = updatedAt
	}
	l.mu.Unlock()

	ev := entity.Event{
		Type:         entity.EventProcessStatusChanged,
		LeadID:       current.LeadID,
		ProcessID:    current.ID,
		PartnerID:    current.PartnerID,
		CustomerName: current.CustomerName,
		Plate:        current.Plate,
		Status:       status.Label(),
		OccurredAt:   updatedAt,
	}
	if lead, ok := l.leads.Find(current.LeadID); ok {
		ev.WhatsApp = lead.WhatsApp
	}
	publish(ctx, l.events, ev)
	return current, nil
}
