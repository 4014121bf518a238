package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/family-trip-planner/internal/blob"
	"github.com/pkordes/family-trip-planner/internal/domain"
	"github.com/pkordes/family-trip-planner/internal/repo"
	"github.com/pkordes/family-trip-planner/internal/service"
)

// ---- mocks -----------------------------------------------------------------

type mockPhotoRepo struct {
	create    func(ctx context.Context, p domain.Photo) (domain.Photo, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Photo, int64, error)
}

func (m *mockPhotoRepo) Create(ctx context.Context, p domain.Photo) (domain.Photo, error) {
	return m.create(ctx, p)
}
func (m *mockPhotoRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Photo, int64, error) {
	return m.listPaged(ctx, p)
}

var _ repo.PhotoRepo = (*mockPhotoRepo)(nil)

type mockBlobStore struct {
	put    func(r io.Reader) (blob.Object, error)
	open   func(key string, v blob.Variant) ([]byte, string, error)
	delete func(key string) error
}

func (m *mockBlobStore) Put(r io.Reader) (blob.Object, error) { return m.put(r) }
func (m *mockBlobStore) Open(key string, v blob.Variant) ([]byte, string, error) {
	return m.open(key, v)
}
func (m *mockBlobStore) Delete(key string) error { return m.delete(key) }

var _ service.BlobStore = (*mockBlobStore)(nil)

func putOK(key string) func(io.Reader) (blob.Object, error) {
	return func(r io.Reader) (blob.Object, error) {
		_, _ = io.ReadAll(r)
		return blob.Object{Key: key, ContentType: "image/jpeg"}, nil
	}
}

// ---- Upload ----------------------------------------------------------------

func TestPhotoService_Upload(t *testing.T) {
	var captured domain.Photo
	svc := service.NewPhotoService(&mockPhotoRepo{
		create: func(_ context.Context, p domain.Photo) (domain.Photo, error) {
			captured = p
			p.ID = uuid.New()
			return p, nil
		},
	}, &mockBlobStore{put: putOK("k1")})

	got, err := svc.Upload(context.Background(), adult, `C:\Users\marc\castle.jpg`, strings.NewReader("jpeg"))

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, domain.Photo{BlobKey: "k1", FileName: "castle.jpg", Uploader: "Marc", ContentType: "image/jpeg"}, captured)
}

func TestPhotoService_Upload_Guest(t *testing.T) {
	svc := service.NewPhotoService(&mockPhotoRepo{
		create: func(_ context.Context, p domain.Photo) (domain.Photo, error) { return p, nil },
	}, &mockBlobStore{put: putOK("k1")})

	got, err := svc.Upload(context.Background(), domain.FamilyMember{}, "a.png", strings.NewReader("png"))

	require.NoError(t, err)
	assert.Equal(t, service.GuestUploader, got.Uploader)
}

func TestPhotoService_Upload_NotAnImage(t *testing.T) {
	svc := service.NewPhotoService(&mockPhotoRepo{}, &mockBlobStore{
		put: func(_ io.Reader) (blob.Object, error) { return blob.Object{}, domain.ErrValidation },
	})

	_, err := svc.Upload(context.Background(), adult, "notes.txt", strings.NewReader("hi"))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPhotoService_Upload_RowFailureRemovesBlob(t *testing.T) {
	var deleted string
	svc := service.NewPhotoService(&mockPhotoRepo{
		create: func(_ context.Context, _ domain.Photo) (domain.Photo, error) {
			return domain.Photo{}, errors.New("insert failed")
		},
	}, &mockBlobStore{
		put:    putOK("k9"),
		delete: func(key string) error { deleted = key; return nil },
	})

	_, err := svc.Upload(context.Background(), adult, "a.jpg", strings.NewReader("x"))

	require.Error(t, err)
	assert.Equal(t, "k9", deleted)
}

// ---- List / Open -----------------------------------------------------------

func TestPhotoService_List(t *testing.T) {
	var captured domain.PaginationParams
	svc := service.NewPhotoService(&mockPhotoRepo{
		listPaged: func(_ context.Context, p domain.PaginationParams) ([]domain.Photo, int64, error) {
			captured = p
			return []domain.Photo{{BlobKey: "k"}}, 41, nil
		},
	}, &mockBlobStore{})

	got, total, err := svc.List(context.Background(), domain.PaginationParams{Page: 3, Limit: 20})

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(41), total)
	assert.Equal(t, 40, captured.Offset())
}

func TestPhotoService_Open_NotFound(t *testing.T) {
	svc := service.NewPhotoService(&mockPhotoRepo{}, &mockBlobStore{
		open: func(_ string, _ blob.Variant) ([]byte, string, error) { return nil, "", domain.ErrNotFound },
	})

	_, _, err := svc.Open("nope", blob.Thumbnail)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
