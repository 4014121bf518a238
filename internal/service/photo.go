package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkordes/family-trip-planner/internal/blob"
	"github.com/pkordes/family-trip-planner/internal/domain"
	"github.com/pkordes/family-trip-planner/internal/repo"
)

// GuestUploader is recorded when a photo is uploaded without a known member.
const GuestUploader = "Guest"

// BlobStore holds the photo bytes. *blob.Store satisfies it.
type BlobStore interface {
	Put(r io.Reader) (blob.Object, error)
	Open(key string, v blob.Variant) ([]byte, string, error)
	Delete(key string) error
}

// PhotoService implements the shared gallery.
type PhotoService struct {
	repo  repo.PhotoRepo
	blobs BlobStore
}

// NewPhotoService constructs a PhotoService.
func NewPhotoService(r repo.PhotoRepo, blobs BlobStore) *PhotoService {
	return &PhotoService{repo: r, blobs: blobs}
}

// Upload stores the image and records it in the gallery. actor may be the
// zero FamilyMember, in which case the photo is credited to GuestUploader.
func (s *PhotoService) Upload(ctx context.Context, actor domain.FamilyMember, fileName string, r io.Reader) (domain.Photo, error) {
	obj, err := s.blobs.Put(r)
	if err != nil {
		return domain.Photo{}, fmt.Errorf("service.PhotoService.Upload: %w", err)
	}

	uploader := GuestUploader
	if actor.ID != "" {
		uploader = actor.FirstName()
	}

	p, err := s.repo.Create(ctx, domain.Photo{
		BlobKey:     obj.Key,
		FileName:    cleanFileName(fileName),
		Uploader:    uploader,
		ContentType: obj.ContentType,
	})
	if err != nil {
		_ = s.blobs.Delete(obj.Key)
		return domain.Photo{}, fmt.Errorf("service.PhotoService.Upload: %w", err)
	}
	return p, nil
}

// List returns one page of the gallery, newest first, and the total count.
func (s *PhotoService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Photo, int64, error) {
	photos, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.PhotoService.List: %w", err)
	}
	return photos, total, nil
}

// Open returns the bytes and content type of a stored photo.
func (s *PhotoService) Open(key string, v blob.Variant) ([]byte, string, error) {
	data, ct, err := s.blobs.Open(key, v)
	if err != nil {
		return nil, "", fmt.Errorf("service.PhotoService.Open: %w", err)
	}
	return data, ct, nil
}

// cleanFileName keeps only the base name of a client-supplied file name.
func cleanFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
