package usecase

import "github.com/xavierca1/prodoc/internal/entity"

// Permissions lista as mutações liberadas para um ator.
type Permissions struct {
	ConvertLeads     bool `json:"convertLeads" yaml:"convert_leads"`
	ChangeStatus     bool `json:"changeStatus" yaml:"change_status"`
	CreateProcess    bool `json:"createProcess" yaml:"create_process"`
	AssignPartner    bool `json:"assignPartner" yaml:"assign_partner"`
	RegisterPartners bool `json:"registerPartners" yaml:"register_partners"`
}

// View é o recorte de dados visível para um ator.
type View struct {
	Leads       []*entity.Lead    `json:"leads" yaml:"leads"`
	Processes   []*entity.Process `json:"processes" yaml:"processes"`
	Permissions Permissions       `json:"permissions" yaml:"permissions"`
}

func PermissionsFor(actor entity.Actor) Permissions {
	switch actor.(type) {
	case entity.Operator:
		return Permissions{
			ConvertLeads:     true,
			ChangeStatus:     true,
			CreateProcess:    true,
			AssignPartner:    true,
			RegisterPartners: true,
		}
	case entity.Partner:
		return Permissions{CreateProcess: true}
	default:
		return Permissions{}
	}
}

// Partition é função pura de (ator, leads, processos).
func Partition(actor entity.Actor, leads []*entity.Lead, processes []*entity.Process) View {
	view := View{
		Leads:       []*entity.Lead{},
		Processes:   []*entity.Process{},
		Permissions: PermissionsFor(actor),
	}

	switch a := actor.(type) {
	case entity.Operator:
		view.Leads = append(view.Leads, leads...)
		view.Processes = append(view.Processes, processes...)
	case entity.Partner:
		for _, p := range processes {
			if p.PartnerID != "" && p.PartnerID == a.ID {
				view.Processes = append(view.Processes, p)
			}
		}
	}
	return view
}
