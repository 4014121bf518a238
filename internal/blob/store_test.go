package blob_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/family-trip-planner/internal/blob"
	"github.com/pkordes/family-trip-planner/internal/domain"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestStore_PutAndOpen(t *testing.T) {
	s := blob.NewStore(t.TempDir(), 0)
	src := pngBytes(t, 640, 480)

	obj, err := s.Put(bytes.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, obj.Key, 32)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, len(src), obj.Size)

	orig, ct, err := s.Open(obj.Key, blob.Original)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, src, orig)

	thumb, ct, err := s.Open(obj.Key, blob.Thumbnail)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)
	img, err := imaging.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, blob.ThumbnailWidth, img.Bounds().Dx())
	assert.Equal(t, 225, img.Bounds().Dy())
}

func TestStore_Put_SmallImageNotUpscaled(t *testing.T) {
	s := blob.NewStore(t.TempDir(), 0)

	obj, err := s.Put(bytes.NewReader(pngBytes(t, 120, 80)))
	require.NoError(t, err)

	thumb, _, err := s.Open(obj.Key, blob.Thumbnail)
	require.NoError(t, err)
	img, err := imaging.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
}

func TestStore_Put_RejectsNonImage(t *testing.T) {
	s := blob.NewStore(t.TempDir(), 0)

	_, err := s.Put(strings.NewReader("definitely not a picture"))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStore_Open_NotFound(t *testing.T) {
	s := blob.NewStore(t.TempDir(), 0)

	for _, key := range []string{"0123456789abcdef0123456789abcdef", "../../etc/passwd", ""} {
		_, _, err := s.Open(key, blob.Original)
		assert.ErrorIs(t, err, domain.ErrNotFound, "key %q", key)
	}

	obj, err := s.Put(bytes.NewReader(pngBytes(t, 10, 10)))
	require.NoError(t, err)
	_, _, err = s.Open(obj.Key, "huge")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	s := blob.NewStore(t.TempDir(), 0)
	obj, err := s.Put(bytes.NewReader(pngBytes(t, 10, 10)))
	require.NoError(t, err)

	require.NoError(t, s.Delete(obj.Key))

	_, _, err = s.Open(obj.Key, blob.Thumbnail)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, s.Delete(obj.Key), "deleting twice is fine")
}
