package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/xavierca1/prodoc/internal/entity"
)

// LeadRegistry mantém a projeção em memória dos leads (mais novo primeiro).
// O mutex protege só a memória; duas chamadas simultâneas ainda geram duas escritas remotas.
type LeadRegistry struct {
	repo   entity.LeadRepository
	events EventPublisher

	mu    sync.RWMutex
	leads []*entity.Lead
}

func NewLeadRegistry(repo entity.LeadRepository, events EventPublisher) *LeadRegistry {
	return &LeadRegistry{repo: repo, events: events}
}

func (r *LeadRegistry) Load(ctx context.Context) error {
	leads, err := r.repo.List(ctx)
	if err != nil {
		return &PersistenceError{Op: "list leads", Err: err}
	}
	r.mu.Lock()
	r.leads = leads
	r.mu.Unlock()
	return nil
}

func (r *LeadRegistry) Reset() {
	r.mu.Lock()
	r.leads = nil
	r.mu.Unlock()
}

// Submit grava um lead PENDING e só então o coloca no topo da projeção.
func (r *LeadRegistry) Submit(ctx context.Context, draft LeadDraft) (*entity.Lead, error) {
	if err := ValidationErrors(ValidateLeadDraft(draft)).orNil(); err != nil {
		return nil, err
	}

	lead := &entity.Lead{
		Name:        strings.TrimSpace(draft.Name),
		WhatsApp:    strings.TrimSpace(draft.WhatsApp),
		Plate:       normalizePlate(draft.Plate),
		Renavam:     strings.TrimSpace(draft.Renavam),
		Services:    dedupe(draft.Services),
		Description: strings.TrimSpace(draft.Description),
		Status:      entity.LeadPending,
	}
	if err := r.repo.Create(ctx, lead); err != nil {
		return nil, &PersistenceError{Op: "insert lead", Err: err}
	}
	if lead.Status == "" {
		lead.Status = entity.LeadPending
	}

	r.mu.Lock()
	r.leads = append([]*entity.Lead{lead}, r.leads...)
	r.mu.Unlock()

	publish(ctx, r.events, entity.Event{
		Type:         entity.EventLeadSubmitted,
		LeadID:       lead.ID,
		CustomerName: lead.Name,
		WhatsApp:     lead.WhatsApp,
		Plate:        lead.Plate,
		Services:     lead.Services,
		OccurredAt:   lead.CreatedAt,
	})
	return lead.Clone(), nil
}

func (r *LeadRegistry) Find(id string) (*entity.Lead, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.leads {
		if l.ID == id {
			return l.Clone(), true
		}
	}
	return nil, false
}

// All devolve cópias, na ordem da projeção.
func (r *LeadRegistry) All() []*entity.Lead {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Lead, 0, len(r.leads))
	for _, l := range r.leads {
		out = append(out, l.Clone())
	}
	return out
}

func (r *LeadRegistry) ListForActor(actor entity.Actor) []*entity.Lead {
	return Partition(actor, r.All(), nil).Leads
}

// markConvertedRemote grava o status no store, sem tocar a projeção.
func (r *LeadRegistry) markConvertedRemote(ctx context.Context, id string) error {
	return r.repo.UpdateStatus(ctx, id, entity.LeadConverted)
}

func (r *LeadRegistry) markConvertedLocal(ids ...string) {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.leads {
		if set[l.ID] {
			l.Status = entity.LeadConverted
		}
	}
}
