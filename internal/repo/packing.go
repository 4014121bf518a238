package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/family-trip-planner/internal/domain"
)

// PackingRepo defines the persistence operations for packing list entries.
type PackingRepo interface {
	// Create inserts a new entry and returns the persisted record.
	Create(ctx context.Context, item domain.PackingItem) (domain.PackingItem, error)

	// List returns every entry in insertion order.
	List(ctx context.Context) ([]domain.PackingItem, error)

	// Count returns the number of entries.
	Count(ctx context.Context) (int64, error)

	// SetChecked ticks or unticks an entry.
	// Returns domain.ErrNotFound if the entry does not exist.
	SetChecked(ctx context.Context, id uuid.UUID, checked bool) (domain.PackingItem, error)

	// Delete removes an entry. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgPackingRepo struct {
	db db
}

// NewPackingRepo constructs a PackingRepo backed by the provided db connection.
func NewPackingRepo(db db) PackingRepo {
	return &pgPackingRepo{db: db}
}

func (r *pgPackingRepo) Create(ctx context.Context, item domain.PackingItem) (domain.PackingItem, error) {
	const q = `
		INSERT INTO packing_items (person_id, item, checked)
		VALUES (@person_id, @item, @checked)
		RETURNING id, person_id, item, checked, created_at`

	args := pgx.NamedArgs{
		"person_id": item.PersonID,
		"item":      item.Item,
		"checked":   item.Checked,
	}
	result, err := scanPacking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.PackingItem{}, fmt.Errorf("repo.PackingRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPackingRepo) List(ctx context.Context) ([]domain.PackingItem, error) {
	const q = `
		SELECT id, person_id, item, checked, created_at
		FROM packing_items
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.PackingRepo.List: %w", err)
	}
	defer rows.Close()

	items := []domain.PackingItem{}
	for rows.Next() {
		it, err := scanPacking(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PackingRepo.List: scan: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PackingRepo.List: rows: %w", err)
	}
	return items, nil
}

func (r *pgPackingRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM packing_items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.PackingRepo.Count: %w", err)
	}
	return n, nil
}

func (r *pgPackingRepo) SetChecked(ctx context.Context, id uuid.UUID, checked bool) (domain.PackingItem, error) {
	const q = `
		UPDATE packing_items
		SET checked = @checked
		WHERE id = @id
		RETURNING id, person_id, item, checked, created_at`

	result, err := scanPacking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "checked": checked}))
	if err != nil {
		return domain.PackingItem{}, fmt.Errorf("repo.PackingRepo.SetChecked: %w", err)
	}
	return result, nil
}

func (r *pgPackingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM packing_items WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.PackingRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PackingRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanPacking(s scanner) (domain.PackingItem, error) {
	var (
		p  domain.PackingItem
		id pgtype.UUID
	)
	if err := s.Scan(&id, &p.PersonID, &p.Item, &p.Checked, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PackingItem{}, domain.ErrNotFound
		}
		return domain.PackingItem{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	return p, nil
}
