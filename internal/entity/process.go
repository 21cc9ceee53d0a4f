package entity

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type ProcessStatus string

const (
	StatusReceived          ProcessStatus = "RECEIVED"
	StatusInAnalysis        ProcessStatus = "IN_ANALYSIS"
	StatusPendingDocs       ProcessStatus = "PENDING_DOCS"
	StatusFiled             ProcessStatus = "FILED"
	StatusInProgress        ProcessStatus = "IN_PROGRESS"
	StatusFinished          ProcessStatus = "FINISHED"
	StatusWaitingThirdParty ProcessStatus = "WAITING_THIRD_PARTY"
	StatusProblemIdentified ProcessStatus = "PROBLEM_IDENTIFIED"
)

// Ordem de exibição.
var processStatuses = []ProcessStatus{
	StatusReceived,
	StatusInAnalysis,
	StatusPendingDocs,
	StatusFiled,
	StatusInProgress,
	StatusFinished,
	StatusWaitingThirdParty,
	StatusProblemIdentified,
}

var processStatusLabels = map[ProcessStatus]string{
	StatusReceived:          "Recebido",
	StatusInAnalysis:        "Em análise",
	StatusPendingDocs:       "Documentos pendentes",
	StatusFiled:             "Protocolado no DETRAN",
	StatusInProgress:        "Em andamento",
	StatusFinished:          "Concluído",
	StatusWaitingThirdParty: "Aguardando terceiros",
	StatusProblemIdentified: "Problema identificado",
}

func ProcessStatuses() []ProcessStatus {
	return append([]ProcessStatus(nil), processStatuses...)
}

func (s ProcessStatus) Valid() bool {
	_, ok := processStatusLabels[s]
	return ok
}

// Label é o texto exibido e também o valor gravado na coluna status.
func (s ProcessStatus) Label() string {
	if l, ok := processStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Progress é o percentual da barra de andamento no painel do parceiro.
func (s ProcessStatus) Progress() int {
	switch s {
	case StatusFinished:
		return 100
	case StatusFiled:
		return 75
	case StatusInProgress:
		return 50
	case StatusReceived:
		return 25
	default:
		return 40
	}
}

// ParseProcessStatus aceita o código ("FILED") ou o rótulo ("Protocolado no DETRAN").
func ParseProcessStatus(v string) (ProcessStatus, error) {
	v = strings.TrimSpace(v)
	if s := ProcessStatus(strings.ToUpper(v)); s.Valid() {
		return s, nil
	}
	for s, label := range processStatusLabels {
		if strings.EqualFold(label, v) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidProcessState, v)
}

// AllowedNext é a tabela de transições consultada por SetStatus.
// Hoje é permissiva: qualquer status pode seguir qualquer outro (correção manual).
var AllowedNext = func() map[ProcessStatus]map[ProcessStatus]bool {
	table := make(map[ProcessStatus]map[ProcessStatus]bool, len(processStatuses))
	for _, from := range processStatuses {
		table[from] = make(map[ProcessStatus]bool, len(processStatuses))
		for _, to := range processStatuses {
			table[from][to] = true
		}
	}
	return table
}()

func CanTransition(from, to ProcessStatus) bool {
	nexts, ok := AllowedNext[from]
	if !ok {
		return false
	}
	return nexts[to]
}

// Process é o acompanhamento de um serviço. LeadID e PartnerID vazios significam ausência.
type Process struct {
	ID           string        `json:"id" yaml:"id"`
	LeadID       string        `json:"leadId,omitempty" yaml:"lead_id,omitempty"`
	PartnerID    string        `json:"partnerId,omitempty" yaml:"partner_id,omitempty"`
	CustomerName string        `json:"customerName" yaml:"customer_name"`
	Plate        string        `json:"plate" yaml:"plate"`
	Services     []string      `json:"services" yaml:"services"`
	Status       ProcessStatus `json:"status" yaml:"status"`
	Documents    []string      `json:"documents" yaml:"documents"`
	CreatedAt    time.Time     `json:"createdAt" yaml:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" yaml:"updated_at"`
}

func (p *Process) Clone() *Process {
	c := *p
	c.Services = append([]string(nil), p.Services...)
	c.Documents = append([]string{}, p.Documents...)
	return &c
}

type ProcessFilter struct {
	PartnerID string
}

type ProcessRepository interface {
	Create(ctx context.Context, p *Process) error
	// UpdateStatus retorna ErrNotFound se o processo não existe.
	UpdateStatus(ctx context.Context, id string, status ProcessStatus, updatedAt time.Time) error
	List(ctx context.Context, filter ProcessFilter) ([]*Process, error)
}
