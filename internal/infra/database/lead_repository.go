package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/xavierca1/prodoc/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Create insere o lead; id, created_at e status vêm do banco.
func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (name, whatsapp, plate, renavam, services, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, status
	`

	var status string
	err := r.DB.QueryRowContext(
		ctx,
		query,
		lead.Name,
		lead.WhatsApp,
		lead.Plate,
		nullString(lead.Renavam),
		pq.Array(lead.Services),
		nullString(lead.Description),
	).Scan(&lead.ID, &lead.CreatedAt, &status)
	if err != nil {
		return fmt.Errorf("erro ao inserir lead: %w", err)
	}
	lead.Status = entity.LeadStatus(status)
	return nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status entity.LeadStatus) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE leads SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("erro ao atualizar lead %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *LeadRepository) List(ctx context.Context) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, whatsapp, plate, renavam, services, description, status, created_at
		FROM leads
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar leads: %w", err)
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		var (
			l                    entity.Lead
			renavam, description sql.NullString
			status               string
		)
		if err := rows.Scan(&l.ID, &l.Name, &l.WhatsApp, &l.Plate, &renavam, pq.Array(&l.Services), &description, &status, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler lead: %w", err)
		}
		l.Renavam = stringOrEmpty(renavam)
		l.Description = stringOrEmpty(description)
		l.Status = entity.LeadStatus(status)
		leads = append(leads, &l)
	}
	return leads, rows.Err()
}
