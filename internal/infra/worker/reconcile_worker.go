package worker

import (
	"context"
	"log"
	"time"
)

// Reconciler corrige leads PENDING que já têm processo.
type Reconciler interface {
	Reconcile(ctx context.Context) (int, error)
}

type ReconcileWorker struct {
	reconciler   Reconciler
	tickInterval time.Duration
	onRun        func(fixed int, err error)
}

func NewReconcileWorker(r Reconciler, interval time.Duration) *ReconcileWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &ReconcileWorker{reconciler: r, tickInterval: interval}
}

// OnRun registra um callback por execução (métricas).
func (w *ReconcileWorker) OnRun(fn func(fixed int, err error)) {
	w.onRun = fn
}

func (w *ReconcileWorker) Start(ctx context.Context) {
	log.Printf("🕒 Reconcile Worker iniciado (a cada %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.run(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Reconcile Worker encerrado")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *ReconcileWorker) run(ctx context.Context) {
	fixed, err := w.reconciler.Reconcile(ctx)
	if err != nil {
		log.Printf("❌ Erro ao reconciliar leads: %v", err)
	} else if fixed > 0 {
		log.Printf("✅ %d lead(s) marcados como CONVERTED", fixed)
	}
	if w.onRun != nil {
		w.onRun(fixed, err)
	}
}
