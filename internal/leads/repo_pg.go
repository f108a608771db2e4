package leads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const leadColumns = `id, visitor_id, source, product_slug, name, phone, email, telegram, comment, summary, status, archive_key, last_error, created_at, delivered_at`

// Create inserts a new lead.
func (r *PGRepo) Create(ctx context.Context, lead Lead) error {
	const query = `
INSERT INTO leads (
    id,
    visitor_id,
    source,
    product_slug,
    name,
    phone,
    email,
    telegram,
    comment,
    summary,
    status,
    archive_key,
    last_error,
    created_at,
    delivered_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	var deliveredAt sql.NullTime
	if lead.DeliveredAt != nil {
		deliveredAt = sql.NullTime{Time: *lead.DeliveredAt, Valid: true}
	}
	_, err := r.DB.ExecContext(
		ctx,
		query,
		lead.ID,
		lead.VisitorID,
		string(lead.Source),
		lead.ProductSlug,
		lead.Name,
		lead.Phone,
		lead.Email,
		lead.Telegram,
		lead.Comment,
		lead.Summary,
		string(lead.Status),
		lead.ArchiveKey,
		lead.LastError,
		lead.CreatedAt,
		deliveredAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// Get returns a lead by ID.
func (r *PGRepo) Get(ctx context.Context, id string) (Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	return lead, nil
}

// Update overwrites the delivery fields of a lead that is not yet delivered.
func (r *PGRepo) Update(ctx context.Context, lead Lead) error {
	const query = `
UPDATE leads
SET status = $1, archive_key = $2, last_error = $3, delivered_at = $4
WHERE id = $5 AND status <> 'delivered'`
	var deliveredAt sql.NullTime
	if lead.DeliveredAt != nil {
		deliveredAt = sql.NullTime{Time: *lead.DeliveredAt, Valid: true}
	}
	res, err := r.DB.ExecContext(ctx, query, string(lead.Status), lead.ArchiveKey, lead.LastError, deliveredAt, lead.ID)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var status string
		err := r.DB.QueryRowContext(ctx, `SELECT status FROM leads WHERE id = $1`, lead.ID).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("update lead: %w", err)
		}
		return ErrDelivered
	}
	return nil
}

// ListRecent returns up to limit leads, newest first.
func (r *PGRepo) ListRecent(ctx context.Context, limit int) ([]Lead, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, lead)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (Lead, error) {
	var lead Lead
	var source, status string
	var deliveredAt sql.NullTime
	err := row.Scan(
		&lead.ID,
		&lead.VisitorID,
		&source,
		&lead.ProductSlug,
		&lead.Name,
		&lead.Phone,
		&lead.Email,
		&lead.Telegram,
		&lead.Comment,
		&lead.Summary,
		&status,
		&lead.ArchiveKey,
		&lead.LastError,
		&lead.CreatedAt,
		&deliveredAt,
	)
	if err != nil {
		return Lead{}, err
	}
	lead.Source = Source(source)
	lead.Status = Status(status)
	if deliveredAt.Valid {
		t := deliveredAt.Time
		lead.DeliveredAt = &t
	}
	return lead, nil
}

var _ Repo = (*PGRepo)(nil)
