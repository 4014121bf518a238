// Package blob stores photo bytes on local disk. Each upload is kept as the
// original file plus a JPEG thumbnail, addressed by a generated key.
package blob

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"net/http"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"

	"github.com/pkordes/family-trip-planner/internal/domain"
)

// Variant selects which rendition of a photo to read.
type Variant string

const (
	Original  Variant = "original"
	Thumbnail Variant = "thumb"
)

// ThumbnailWidth is the width in pixels of generated thumbnails.
const ThumbnailWidth = 300

var keyPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

// Object describes a stored upload.
type Object struct {
	Key         string
	ContentType string
	Size        int
}

// Store is a diskv-backed photo store.
type Store struct {
	d *diskv.Diskv
}

// NewStore opens a store rooted at basePath. Files are sharded two levels
// deep by key prefix.
func NewStore(basePath string, cacheBytes uint64) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPath,
		InverseTransform:  pathToKey,
		CacheSizeMax:      cacheBytes,
	})}
}

// Put decodes the image read from r, writes the original bytes and a
// thumbnail, and returns the new object's key. Data that is not a decodable
// image is rejected with domain.ErrValidation.
func (s *Store) Put(r io.Reader) (Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Object{}, fmt.Errorf("blob.Store.Put: read: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Object{}, fmt.Errorf("blob.Store.Put: %w: not a supported image", domain.ErrValidation)
	}

	thumb, err := thumbnail(img)
	if err != nil {
		return Object{}, fmt.Errorf("blob.Store.Put: thumbnail: %w", err)
	}

	key := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.d.Write(diskKey(key, Original), data); err != nil {
		return Object{}, fmt.Errorf("blob.Store.Put: write original: %w", err)
	}
	if err := s.d.Write(diskKey(key, Thumbnail), thumb); err != nil {
		_ = s.d.Erase(diskKey(key, Original))
		return Object{}, fmt.Errorf("blob.Store.Put: write thumbnail: %w", err)
	}

	return Object{Key: key, ContentType: http.DetectContentType(data), Size: len(data)}, nil
}

// Open returns the bytes and content type of one variant of a stored photo.
// Unknown keys and variants return domain.ErrNotFound.
func (s *Store) Open(key string, v Variant) ([]byte, string, error) {
	if !keyPattern.MatchString(key) || (v != Original && v != Thumbnail) {
		return nil, "", fmt.Errorf("blob.Store.Open: %w", domain.ErrNotFound)
	}
	data, err := s.d.Read(diskKey(key, v))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("blob.Store.Open: %w", domain.ErrNotFound)
		}
		return nil, "", fmt.Errorf("blob.Store.Open: %w", err)
	}
	if v == Thumbnail {
		return data, "image/jpeg", nil
	}
	return data, http.DetectContentType(data), nil
}

// Delete removes every variant of key. Missing files are ignored.
func (s *Store) Delete(key string) error {
	if !keyPattern.MatchString(key) {
		return nil
	}
	for _, v := range []Variant{Original, Thumbnail} {
		if err := s.d.Erase(diskKey(key, v)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("blob.Store.Delete: %w", err)
		}
	}
	return nil
}

func thumbnail(img image.Image) ([]byte, error) {
	if img.Bounds().Dx() > ThumbnailWidth {
		img = imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func diskKey(key string, v Variant) string {
	return key + "-" + string(v)
}

// keyToPath maps "0a1b...-thumb" to 0a/1b/0a1b...-thumb.
func keyToPath(s string) *diskv.PathKey {
	return &diskv.PathKey{Path: []string{s[0:2], s[2:4]}, FileName: s}
}

func pathToKey(pk *diskv.PathKey) string {
	return pk.FileName
}
