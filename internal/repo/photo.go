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

// PhotoRepo defines the persistence operations for gallery entries. The image
// bytes are stored elsewhere; rows only reference them by blob key.
type PhotoRepo interface {
	// Create inserts a new photo row and returns the persisted record.
	Create(ctx context.Context, p domain.Photo) (domain.Photo, error)

	// ListPaged returns one page of photos, newest first, and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Photo, int64, error)
}

type pgPhotoRepo struct {
	db db
}

// NewPhotoRepo constructs a PhotoRepo backed by the provided db connection.
func NewPhotoRepo(db db) PhotoRepo {
	return &pgPhotoRepo{db: db}
}

func (r *pgPhotoRepo) Create(ctx context.Context, p domain.Photo) (domain.Photo, error) {
	const q = `
		INSERT INTO photos (blob_key, file_name, uploader, content_type)
		VALUES (@blob_key, @file_name, @uploader, @content_type)
		RETURNING id, blob_key, file_name, uploader, content_type, created_at`

	args := pgx.NamedArgs{
		"blob_key":     p.BlobKey,
		"file_name":    p.FileName,
		"uploader":     p.Uploader,
		"content_type": p.ContentType,
	}
	result, err := scanPhoto(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Photo{}, fmt.Errorf("repo.PhotoRepo.Create: %w", err)
	}
	return result, nil
}

// ListPaged uses a window count so the page and the total come back in one
// round trip. An empty page still needs the total, so it falls back to a
// plain count.
func (r *pgPhotoRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Photo, int64, error) {
	const q = `
		SELECT id, blob_key, file_name, uploader, content_type, created_at, count(*) OVER () AS total
		FROM photos
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.PhotoRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	photos := []domain.Photo{}
	var total int64
	for rows.Next() {
		var (
			ph domain.Photo
			id pgtype.UUID
		)
		if err := rows.Scan(&id, &ph.BlobKey, &ph.FileName, &ph.Uploader, &ph.ContentType, &ph.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("repo.PhotoRepo.ListPaged: scan: %w", err)
		}
		ph.ID = uuid.UUID(id.Bytes)
		photos = append(photos, ph)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.PhotoRepo.ListPaged: rows: %w", err)
	}

	if len(photos) == 0 {
		if err := r.db.QueryRow(ctx, `SELECT count(*) FROM photos`).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("repo.PhotoRepo.ListPaged: count: %w", err)
		}
	}
	return photos, total, nil
}

func scanPhoto(s scanner) (domain.Photo, error) {
	var (
		p  domain.Photo
		id pgtype.UUID
	)
	if err := s.Scan(&id, &p.BlobKey, &p.FileName, &p.Uploader, &p.ContentType, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Photo{}, domain.ErrNotFound
		}
		return domain.Photo{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	return p, nil
}
