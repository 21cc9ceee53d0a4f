package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/xavierca1/prodoc/internal/entity"
)

// ProcessRepository grava o status pelo rótulo em português ("Recebido", ...), como o painel sempre gravou.
type ProcessRepository struct {
	DB *sql.DB
}

func NewProcessRepository(db *sql.DB) *ProcessRepository {
	return &ProcessRepository{DB: db}
}

func (r *ProcessRepository) Create(ctx context.Context, p *entity.Process) error {
	query := `
		INSERT INTO processes (id, lead_id, partner_id, customer_name, plate, services, status, documents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	documents := p.Documents
	if documents == nil {
		documents = []string{}
	}
	_, err := r.DB.ExecContext(ctx, query,
		p.ID,
		nullString(p.LeadID),
		nullString(p.PartnerID),
		p.CustomerName,
		p.Plate,
		pq.Array(p.Services),
		p.Status.Label(),
		pq.Array(documents),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao inserir processo %s: %w", p.ID, err)
	}
	return nil
}

func (r *ProcessRepository) UpdateStatus(ctx context.Context, id string, status entity.ProcessStatus, updatedAt time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE processes SET status = $1, updated_at = $2 WHERE id = $3`,
		status.Label(), updatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("erro ao atualizar processo %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao atualizar processo %s: %w", id, err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// List ordena do mais novo para o mais antigo; PartnerID filtra por parceiro.
func (r *ProcessRepository) List(ctx context.Context, filter entity.ProcessFilter) ([]*entity.Process, error) {
	query := `
		SELECT id, lead_id, partner_id, customer_name, plate, services, status, documents, created_at, updated_at
		FROM processes
	`
	var args []any
	if filter.PartnerID != "" {
		query += ` WHERE partner_id = $1`
		args = append(args, filter.PartnerID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar processos: %w", err)
	}
	defer rows.Close()

	processes := []*entity.Process{}
	for rows.Next() {
		var (
			p                 entity.Process
			leadID, partnerID sql.NullString
			status            string
		)
		if err := rows.Scan(&p.ID, &leadID, &partnerID, &p.CustomerName, &p.Plate,
			pq.Array(&p.Services), &status, pq.Array(&p.Documents), &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("erro ao ler processo: %w", err)
		}
		p.LeadID = stringOrEmpty(leadID)
		p.PartnerID = stringOrEmpty(partnerID)
		if p.Status, err = entity.ParseProcessStatus(status); err != nil {
			log.Printf("⚠️ [db] processo %s com status desconhecido %q, ignorado", p.ID, status)
			continue
		}
		processes = append(processes, &p)
	}
	return processes, rows.Err()
}
