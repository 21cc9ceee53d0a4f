package usecase

import (
	"strings"
	"unicode"

	"github.com/xavierca1/prodoc/internal/entity"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type DashboardStats struct {
	PendingLeads      int `json:"pendingLeads" yaml:"pending_leads"`
	ActiveProcesses   int `json:"activeProcesses" yaml:"active_processes"`
	Partners          int `json:"partners" yaml:"partners"`
	FinishedProcesses int `json:"finishedProcesses" yaml:"finished_processes"`
	ProblemProcesses  int `json:"problemProcesses" yaml:"problem_processes"`
}

// BuildDashboard calcula os contadores sobre o recorte visível do ator.
func BuildDashboard(view View, partners int) DashboardStats {
	var s DashboardStats
	for _, l := range view.Leads {
		if l.Status == entity.LeadPending {
			s.PendingLeads++
		}
	}
	for _, p := range view.Processes {
		switch p.Status {
		case entity.StatusFinished:
			s.FinishedProcesses++
		case entity.StatusProblemIdentified:
			s.ProblemProcesses++
			s.ActiveProcesses++
		default:
			s.ActiveProcesses++
		}
	}
	if view.Permissions.RegisterPartners {
		s.Partners = partners
	}
	return s
}

type StatusFilter string

const (
	FilterAll      StatusFilter = "ALL"
	FilterActive   StatusFilter = "ACTIVE"
	FilterFinished StatusFilter = "FINISHED"
	FilterProblem  StatusFilter = "PROBLEM"
)

func ParseStatusFilter(v string) StatusFilter {
	switch StatusFilter(strings.ToUpper(strings.TrimSpace(v))) {
	case FilterActive:
		return FilterActive
	case FilterFinished:
		return FilterFinished
	case FilterProblem:
		return FilterProblem
	default:
		return FilterAll
	}
}

// FilterProcesses busca por placa ou nome (sem diferenciar caixa nem acento) e filtra por status.
func FilterProcesses(processes []*entity.Process, query string, filter StatusFilter) []*entity.Process {
	q := fold(strings.TrimSpace(query))
	out := make([]*entity.Process, 0, len(processes))
	for _, p := range processes {
		if q != "" && !strings.Contains(fold(p.Plate), q) && !strings.Contains(fold(p.CustomerName), q) {
			continue
		}
		switch filter {
		case FilterFinished:
			if p.Status != entity.StatusFinished {
				continue
			}
		case FilterProblem:
			if p.Status != entity.StatusProblemIdentified {
				continue
			}
		case FilterActive:
			if p.Status == entity.StatusFinished {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
