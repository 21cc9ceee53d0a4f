package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xavierca1/prodoc/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

type LeadDraft struct {
	Name        string   `json:"name"`
	WhatsApp    string   `json:"whatsapp"`
	Plate       string   `json:"plate"`
	Renavam     string   `json:"renavam"`
	Services    []string `json:"services"`
	Description string   `json:"description"`
}

type ProcessDraft struct {
	CustomerName string   `json:"customerName"`
	Plate        string   `json:"plate"`
	Services     []string `json:"services"`
	// PartnerID só é considerado quando quem cria é operador.
	PartnerID string `json:"partnerId"`
}

type RegisterPartnerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Company  string `json:"company"`
	Password string `json:"password"`
}

var nonDigit = regexp.MustCompile(`\D`)

func ValidateLeadDraft(d LeadDraft) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(d.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}
	if strings.TrimSpace(d.WhatsApp) == "" {
		errors = append(errors, ValidationError{"whatsapp", "is required"})
	} else if !isValidPhoneNumber(d.WhatsApp) {
		errors = append(errors, ValidationError{"whatsapp", "must be a valid phone number"})
	}
	if strings.TrimSpace(d.Plate) == "" {
		errors = append(errors, ValidationError{"plate", "is required"})
	}
	errors = append(errors, validateServices(d.Services)...)

	return errors
}

func ValidateProcessDraft(d ProcessDraft) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(d.CustomerName) == "" {
		errors = append(errors, ValidationError{"customerName", "is required"})
	}
	if strings.TrimSpace(d.Plate) == "" {
		errors = append(errors, ValidationError{"plate", "is required"})
	}
	errors = append(errors, validateServices(d.Services)...)

	return errors
}

func ValidateRegisterPartnerInput(in RegisterPartnerInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(in.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}
	if strings.TrimSpace(in.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if !strings.Contains(in.Email, "@") {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}
	if strings.TrimSpace(in.Company) == "" {
		errors = append(errors, ValidationError{"company", "is required"})
	}
	if len(in.Password) < 6 {
		errors = append(errors, ValidationError{"password", "must have at least 6 characters"})
	}

	return errors
}

func validateServices(services []string) []ValidationError {
	if len(services) == 0 {
		return []ValidationError{{"services", "must not be empty"}}
	}
	var errors []ValidationError
	for _, s := range services {
		if !entity.IsCatalogService(s) {
			errors = append(errors, ValidationError{"services", fmt.Sprintf("%q is not in the service catalog", s)})
		}
	}
	return errors
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigit.ReplaceAllString(phone, "")
	return len(cleaned) >= 10 && len(cleaned) <= 11
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// dedupe mantém a ordem de escolha e remove repetidos.
func dedupe(services []string) []string {
	seen := make(map[string]bool, len(services))
	out := make([]string, 0, len(services))
	for _, s := range services {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
