package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/prodoc/internal/entity"
)

// LeadReconciler deriva o status do lead da existência do processo:
// todo lead PENDING referenciado por algum processo vira CONVERTED.
type LeadReconciler struct {
	leads     entity.LeadRepository
	processes entity.ProcessRepository
}

func NewLeadReconciler(leads entity.LeadRepository, processes entity.ProcessRepository) *LeadReconciler {
	return &LeadReconciler{leads: leads, processes: processes}
}

// Run devolve os ids efetivamente corrigidos no store remoto.
func (r *LeadReconciler) Run(ctx context.Context) ([]string, error) {
	processes, err := r.processes.List(ctx, entity.ProcessFilter{})
	if err != nil {
		return nil, &PersistenceError{Op: "list processes", Err: err}
	}
	referenced := make(map[string]bool, len(processes))
	for _, p := range processes {
		if p.LeadID != "" {
			referenced[p.LeadID] = true
		}
	}
	if len(referenced) == 0 {
		return nil, nil
	}

	leads, err := r.leads.List(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list leads", Err: err}
	}

	var fixed []string
	for _, l := range leads {
		if l.Status != entity.LeadPending || !referenced[l.ID] {
			continue
		}
		if err := r.leads.UpdateStatus(ctx, l.ID, entity.LeadConverted); err != nil {
			log.Printf("[reconcile] lead %s continua PENDING: %v", l.ID, err)
			continue
		}
		fixed = append(fixed, l.ID)
	}
	return fixed, nil
}
