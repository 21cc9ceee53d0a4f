package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/xavierca1/prodoc/internal/entity"
)

type ProfileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*entity.Profile, error) {
	var (
		p       entity.Profile
		company sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, email, role, company FROM profiles WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Email, &p.Role, &company)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar perfil %s: %w", id, err)
	}
	p.Company = stringOrEmpty(company)
	return &p, nil
}

// ListByRole aceita o alias legado ADMIN para operadores.
func (r *ProfileRepository) ListByRole(ctx context.Context, role entity.Role) ([]*entity.Profile, error) {
	roles := []string{string(role)}
	if role == entity.RoleOperator {
		roles = append(roles, "ADMIN")
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, email, role, company
		FROM profiles
		WHERE role = ANY($1)
		ORDER BY name
	`, pq.Array(roles))
	if err != nil {
		return nil, fmt.Errorf("erro ao listar perfis: %w", err)
	}
	defer rows.Close()

	profiles := []*entity.Profile{}
	for rows.Next() {
		var (
			p       entity.Profile
			company sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Role, &company); err != nil {
			return nil, fmt.Errorf("erro ao ler perfil: %w", err)
		}
		p.Company = stringOrEmpty(company)
		profiles = append(profiles, &p)
	}
	return profiles, rows.Err()
}
