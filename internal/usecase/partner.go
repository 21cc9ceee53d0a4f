package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/xavierca1/prodoc/internal/entity"
)

// PartnerDirectory lista os lojistas parceiros e cadastra novos.
type PartnerDirectory struct {
	auth     AuthGateway
	profiles entity.ProfileRepository

	mu       sync.RWMutex
	partners []entity.Partner
}

func NewPartnerDirectory(auth AuthGateway, profiles entity.ProfileRepository) *PartnerDirectory {
	return &PartnerDirectory{auth: auth, profiles: profiles}
}

func (d *PartnerDirectory) Load(ctx context.Context) error {
	profiles, err := d.profiles.ListByRole(ctx, entity.RolePartner)
	if err != nil {
		return &PersistenceError{Op: "list partners", Err: err}
	}
	partners := make([]entity.Partner, 0, len(profiles))
	for _, p := range profiles {
		partners = append(partners, entity.Partner{ID: p.ID, Name: p.Name, Email: p.Email, Company: p.Company})
	}
	d.mu.Lock()
	d.partners = partners
	d.mu.Unlock()
	return nil
}

func (d *PartnerDirectory) Reset() {
	d.mu.Lock()
	d.partners = nil
	d.mu.Unlock()
}

func (d *PartnerDirectory) All() []entity.Partner {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]entity.Partner{}, d.partners...)
}

// IsPartner consulta o store remoto, não a projeção.
func (d *PartnerDirectory) IsPartner(ctx context.Context, id string) (bool, error) {
	profile, err := d.profiles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	role, err := entity.ParseRole(profile.Role)
	if err != nil {
		return false, nil
	}
	return role == entity.RolePartner, nil
}

// Register cria as credenciais do parceiro; o perfil PARTNER nasce junto no store.
func (d *PartnerDirectory) Register(ctx context.Context, in RegisterPartnerInput) (entity.Partner, error) {
	if err := ValidationErrors(ValidateRegisterPartnerInput(in)).orNil(); err != nil {
		return entity.Partner{}, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	id, err := d.auth.RegisterPartnerCredentials(ctx, email, in.Password, entity.PartnerMetadata{
		Name:    strings.TrimSpace(in.Name),
		Company: strings.TrimSpace(in.Company),
	})
	if err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return entity.Partner{}, ValidationErrors{{"email", "is already registered"}}
		}
		return entity.Partner{}, &PersistenceError{Op: "register partner", Err: err}
	}

	partner := entity.Partner{ID: id, Name: strings.TrimSpace(in.Name), Email: email, Company: strings.TrimSpace(in.Company)}
	d.mu.Lock()
	d.partners = append(d.partners, partner)
	d.mu.Unlock()
	return partner, nil
}
