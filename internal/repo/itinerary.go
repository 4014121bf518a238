package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/family-trip-planner/internal/domain"
)

// ItineraryRepo defines the persistence operations for itinerary items.
type ItineraryRepo interface {
	// Create inserts a new item and returns it with id and timestamps set.
	Create(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error)

	// List returns every item in insertion order. Display order is computed
	// by the planner, never by the query.
	List(ctx context.Context) ([]domain.ItineraryItem, error)

	// GetByID returns domain.ErrNotFound if no item has that ID.
	GetByID(ctx context.Context, id uuid.UUID) (domain.ItineraryItem, error)

	// Count returns the number of items.
	Count(ctx context.Context) (int64, error)

	// UpdateFields applies a partial update to one item and returns the result.
	UpdateFields(ctx context.Context, u domain.DocumentUpdate) (domain.ItineraryItem, error)

	// ApplyBatch applies every update in one transaction. If any update fails
	// or targets a missing item, nothing is written.
	ApplyBatch(ctx context.Context, updates []domain.DocumentUpdate) error
}

// itineraryColumns maps updatable fields to their column. Only these columns
// can appear in a generated SET clause.
var itineraryColumns = map[domain.Field]string{
	domain.FieldDate:      "date",
	domain.FieldActivity:  "activity",
	domain.FieldStatus:    "status",
	domain.FieldTimeOrder: "time_order",
	domain.FieldCost:      "cost",
}

const itinerarySelect = `id, date, activity, status, attendees, time_order, cost, created_at, updated_at`

type pgItineraryRepo struct {
	db db
}

// NewItineraryRepo constructs an ItineraryRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewItineraryRepo(db db) ItineraryRepo {
	return &pgItineraryRepo{db: db}
}

func (r *pgItineraryRepo) Create(ctx context.Context, item domain.ItineraryItem) (domain.ItineraryItem, error) {
	const q = `
		INSERT INTO itinerary_items (date, activity, status, attendees, time_order, cost)
		VALUES (@date, @activity, @status, @attendees, @time_order, @cost)
		RETURNING ` + itinerarySelect

	attendees := item.Attendees
	if attendees == nil {
		attendees = map[string]domain.Attendance{}
	}
	args := pgx.NamedArgs{
		"date":       item.Date,
		"activity":   item.Activity,
		"status":     item.Status,
		"attendees":  attendees,
		"time_order": item.TimeOrder,
		"cost":       item.Cost,
	}

	result, err := scanItinerary(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("repo.ItineraryRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgItineraryRepo) List(ctx context.Context) ([]domain.ItineraryItem, error) {
	const q = `SELECT ` + itinerarySelect + ` FROM itinerary_items ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.List: %w", err)
	}
	defer rows.Close()

	items := []domain.ItineraryItem{}
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ItineraryRepo.List: scan: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.List: rows: %w", err)
	}
	return items, nil
}

func (r *pgItineraryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.ItineraryItem, error) {
	const q = `SELECT ` + itinerarySelect + ` FROM itinerary_items WHERE id = @id`

	result, err := scanItinerary(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("repo.ItineraryRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgItineraryRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM itinerary_items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.ItineraryRepo.Count: %w", err)
	}
	return n, nil
}

func (r *pgItineraryRepo) UpdateFields(ctx context.Context, u domain.DocumentUpdate) (domain.ItineraryItem, error) {
	q, args, err := buildItineraryUpdate(u)
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("repo.ItineraryRepo.UpdateFields: %w", err)
	}

	result, err := scanItinerary(r.db.QueryRow(ctx, q+` RETURNING `+itinerarySelect, args))
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("repo.ItineraryRepo.UpdateFields: %w", err)
	}
	return result, nil
}

func (r *pgItineraryRepo) ApplyBatch(ctx context.Context, updates []domain.DocumentUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, u := range updates {
		q, args, err := buildItineraryUpdate(u)
		if err != nil {
			return fmt.Errorf("repo.ItineraryRepo.ApplyBatch: %w", err)
		}
		batch.Queue(q, args)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.ItineraryRepo.ApplyBatch: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := execBatch(ctx, tx, batch, updates); err != nil {
		return fmt.Errorf("repo.ItineraryRepo.ApplyBatch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.ItineraryRepo.ApplyBatch: commit: %w", err)
	}
	return nil
}

// execBatch sends the batch and checks that every statement touched a row.
func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, updates []domain.DocumentUpdate) error {
	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for _, u := range updates {
		tag, err := br.Exec()
		if err != nil {
			return fmt.Errorf("update %s: %w", u.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("update %s: %w", u.ID, domain.ErrNotFound)
		}
	}
	return br.Close()
}

// buildItineraryUpdate renders a DocumentUpdate as a single UPDATE statement.
// Column names come from itineraryColumns; member IDs and values are always
// bind parameters. Attendance changes become nested jsonb_set calls so several
// members can change in one statement.
func buildItineraryUpdate(u domain.DocumentUpdate) (string, pgx.NamedArgs, error) {
	if err := u.Validate(); err != nil {
		return "", nil, err
	}
	if len(u.Fields) == 0 {
		return "", nil, fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}

	args := pgx.NamedArgs{"id": u.ID}
	// Later updates to the same column replace earlier ones.
	var cols []string
	sets := map[string]string{}
	attendees := "attendees"

	for i, f := range u.Fields {
		switch f := f.(type) {
		case domain.SetField:
			col := itineraryColumns[f.Field]
			param := fmt.Sprintf("v%d", i)
			if _, seen := sets[col]; !seen {
				cols = append(cols, col)
			}
			sets[col] = fmt.Sprintf("%s = @%s", col, param)
			args[param] = f.Value
		case domain.SetAttendance:
			m, a := fmt.Sprintf("m%d", i), fmt.Sprintf("a%d", i)
			attendees = fmt.Sprintf("jsonb_set(%s, ARRAY[@%s::text], to_jsonb(@%s::text), true)", attendees, m, a)
			args[m] = f.MemberID
			args[a] = string(f.Attendance)
		}
	}

	clauses := make([]string, 0, len(cols)+2)
	for _, c := range cols {
		clauses = append(clauses, sets[c])
	}
	if attendees != "attendees" {
		clauses = append(clauses, "attendees = "+attendees)
	}
	clauses = append(clauses, "updated_at = now()")

	q := `UPDATE itinerary_items SET ` + strings.Join(clauses, ", ") + ` WHERE id = @id`
	return q, args, nil
}

func scanItinerary(s scanner) (domain.ItineraryItem, error) {
	var (
		it domain.ItineraryItem
		id pgtype.UUID
	)
	err := s.Scan(&id, &it.Date, &it.Activity, &it.Status, &it.Attendees, &it.TimeOrder, &it.Cost, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ItineraryItem{}, domain.ErrNotFound
		}
		return domain.ItineraryItem{}, err
	}
	it.ID = uuid.UUID(id.Bytes)
	if it.Attendees == nil {
		it.Attendees = map[string]domain.Attendance{}
	}
	return it, nil
}
