package usecase

import (
	"context"
	"log"
	"sync"

	"github.com/xavierca1/prodoc/internal/entity"
)

type WorkspaceDeps struct {
	Auth      AuthGateway
	Local     LocalStore
	Leads     entity.LeadRepository
	Processes entity.ProcessRepository
	Profiles  entity.ProfileRepository
	Events    EventPublisher
	Master    MasterCredentials
}

// Workspace é o contexto único da sessão: ator atual, projeções e operações autorizadas.
type Workspace struct {
	Identity   *Identity
	Leads      *LeadRegistry
	Processes  *ProcessLifecycle
	Partners   *PartnerDirectory
	reconciler *LeadReconciler

	loadMu    sync.Mutex
	loadedFor string
}

func NewWorkspace(deps WorkspaceDeps) *Workspace {
	leads := NewLeadRegistry(deps.Leads, deps.Events)
	partners := NewPartnerDirectory(deps.Auth, deps.Profiles)
	w := &Workspace{
		Identity:   NewIdentity(deps.Auth, deps.Profiles, deps.Local, deps.Master),
		Leads:      leads,
		Processes:  NewProcessLifecycle(deps.Processes, leads, partners, deps.Events),
		Partners:   partners,
		reconciler: NewLeadReconciler(deps.Leads, deps.Processes),
	}
	w.Identity.OnChange(func(actor entity.Actor) {
		if err := w.ensureLoaded(context.Background(), actor); err != nil {
			log.Printf("[workspace] falha ao recarregar dados após troca de ator: %v", err)
		}
	})
	return w
}

// Init resolve o ator e carrega o recorte de dados dele.
func (w *Workspace) Init(ctx context.Context) error {
	if err := w.Identity.Init(ctx); err != nil {
		return err
	}
	return w.ensureLoaded(ctx, w.Identity.Current())
}

func (w *Workspace) Teardown() {
	w.Identity.Teardown()
}

func (w *Workspace) Actor() entity.Actor {
	return w.Identity.Current()
}

// Login só falha por credencial/perfil. Se a carga dos dados falhar depois,
// o ator já está logado: fica no log e Refresh tenta de novo.
func (w *Workspace) Login(ctx context.Context, login, password string) (entity.Actor, error) {
	actor, err := w.Identity.Login(ctx, login, password)
	if err != nil {
		return nil, err
	}
	if err := w.ensureLoaded(ctx, actor); err != nil {
		log.Printf("[workspace] login ok, mas a carga dos dados falhou: %v", err)
	}
	return actor, nil
}

func (w *Workspace) Logout(ctx context.Context) error {
	err := w.Identity.Logout(ctx)
	if loadErr := w.ensureLoaded(ctx, nil); loadErr != nil && err == nil {
		err = loadErr
	}
	return err
}

// Refresh recarrega do store remoto, mesmo que o ator não tenha mudado.
func (w *Workspace) Refresh(ctx context.Context) error {
	w.loadMu.Lock()
	defer w.loadMu.Unlock()
	return w.load(ctx, w.Identity.Current())
}

func (w *Workspace) ensureLoaded(ctx context.Context, actor entity.Actor) error {
	w.loadMu.Lock()
	defer w.loadMu.Unlock()
	if actorKey(actor) == w.loadedFor && actor != nil {
		return nil
	}
	return w.load(ctx, actor)
}

func (w *Workspace) load(ctx context.Context, actor entity.Actor) error {
	switch a := actor.(type) {
	case entity.Operator:
		if err := w.Leads.Load(ctx); err != nil {
			return err
		}
		if err := w.Processes.Load(ctx, entity.ProcessFilter{}); err != nil {
			return err
		}
		if err := w.Partners.Load(ctx); err != nil {
			return err
		}
		w.repairLoaded(ctx)
	case entity.Partner:
		w.Leads.Reset()
		w.Partners.Reset()
		if err := w.Processes.Load(ctx, entity.ProcessFilter{PartnerID: a.ID}); err != nil {
			return err
		}
	default:
		w.Leads.Reset()
		w.Processes.Reset()
		w.Partners.Reset()
	}
	w.loadedFor = actorKey(actor)
	return nil
}

// repairLoaded fecha conversões interrompidas usando só o que já foi carregado.
// Falhas ficam no log; o worker de reconciliação tenta de novo depois.
func (w *Workspace) repairLoaded(ctx context.Context) {
	seen := map[string]bool{}
	var fixed []string
	for _, p := range w.Processes.All() {
		if p.LeadID == "" || seen[p.LeadID] {
			continue
		}
		seen[p.LeadID] = true
		lead, ok := w.Leads.Find(p.LeadID)
		if !ok || lead.Status != entity.LeadPending {
			continue
		}
		if err := w.Leads.markConvertedRemote(ctx, lead.ID); err != nil {
			log.Printf("[workspace] lead %s continua PENDING: %v", lead.ID, err)
			continue
		}
		fixed = append(fixed, lead.ID)
	}
	if len(fixed) > 0 {
		w.Leads.markConvertedLocal(fixed...)
		log.Printf("[workspace] %d conversão(ões) interrompida(s) reparada(s) na carga", len(fixed))
	}
}

func actorKey(actor entity.Actor) string {
	if actor == nil {
		return ""
	}
	return string(actor.Role()) + ":" + actor.ActorID()
}

func (w *Workspace) View() View {
	return Partition(w.Actor(), w.Leads.All(), w.Processes.All())
}

func (w *Workspace) Dashboard() DashboardStats {
	return BuildDashboard(w.View(), len(w.Partners.All()))
}

// SubmitLead é a entrada pública: não exige ator.
func (w *Workspace) SubmitLead(ctx context.Context, draft LeadDraft) (*entity.Lead, error) {
	return w.Leads.Submit(ctx, draft)
}

func (w *Workspace) ConvertLead(ctx context.Context, leadID string) (*entity.Process, error) {
	if !PermissionsFor(w.Actor()).ConvertLeads {
		return nil, &ForbiddenError{Action: "convert lead"}
	}
	return w.Processes.Convert(ctx, leadID)
}

func (w *Workspace) CreateProcess(ctx context.Context, draft ProcessDraft) (*entity.Process, error) {
	actor := w.Actor()
	if !PermissionsFor(actor).CreateProcess {
		return nil, &ForbiddenError{Action: "create process"}
	}
	return w.Processes.CreateManual(ctx, draft, actor)
}

func (w *Workspace) SetProcessStatus(ctx context.Context, processID string, status entity.ProcessStatus) (*entity.Process, error) {
	if !PermissionsFor(w.Actor()).ChangeStatus {
		return nil, &ForbiddenError{Action: "change process status"}
	}
	return w.Processes.SetStatus(ctx, processID, status)
}

func (w *Workspace) ListPartners() ([]entity.Partner, error) {
	if !PermissionsFor(w.Actor()).RegisterPartners {
		return nil, &ForbiddenError{Action: "list partners"}
	}
	return w.Partners.All(), nil
}

func (w *Workspace) RegisterPartner(ctx context.Context, in RegisterPartnerInput) (entity.Partner, error) {
	if !PermissionsFor(w.Actor()).RegisterPartners {
		return entity.Partner{}, &ForbiddenError{Action: "register partner"}
	}
	return w.Partners.Register(ctx, in)
}

// Reconcile corrige leads PENDING que já têm processo e reflete na projeção.
func (w *Workspace) Reconcile(ctx context.Context) (int, error) {
	fixed, err := w.reconciler.Run(ctx)
	if err != nil {
		return 0, err
	}
	if len(fixed) > 0 {
		w.Leads.markConvertedLocal(fixed...)
		log.Printf("[workspace] %d lead(s) reconciliados", len(fixed))
		// os processos órfãos desses leads podem não estar na projeção
		if err := w.reloadProcesses(ctx); err != nil {
			log.Printf("[workspace] falha ao recarregar processos após reconciliar: %v", err)
		}
	}
	return len(fixed), nil
}

func (w *Workspace) reloadProcesses(ctx context.Context) error {
	w.loadMu.Lock()
	defer w.loadMu.Unlock()
	switch a := w.Actor().(type) {
	case entity.Operator:
		return w.Processes.Load(ctx, entity.ProcessFilter{})
	case entity.Partner:
		return w.Processes.Load(ctx, entity.ProcessFilter{PartnerID: a.ID})
	}
	return nil
}
