package entity

import "context"

// Profile é a linha da tabela profiles no store remoto.
type Profile struct {
	ID      string
	Name    string
	Email   string
	Role    string
	Company string
}

func (p *Profile) ToActor() (Actor, error) {
	return ActorRecord{
		ID:      p.ID,
		Name:    p.Name,
		Email:   p.Email,
		Role:    Role(p.Role),
		Company: p.Company,
	}.Actor()
}

type ProfileRepository interface {
	// FindByID retorna ErrNotFound quando não existe perfil para o usuário.
	FindByID(ctx context.Context, id string) (*Profile, error)
	ListByRole(ctx context.Context, role Role) ([]*Profile, error)
}
