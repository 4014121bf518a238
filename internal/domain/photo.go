package domain

import (
	"time"

	"github.com/google/uuid"
)

// Photo is a gallery entry. The image bytes live in blob storage under BlobKey;
// the row only records who uploaded what and when.
type Photo struct {
	ID          uuid.UUID `json:"id"`
	BlobKey     string    `json:"blob_key"`
	FileName    string    `json:"file_name"`
	Uploader    string    `json:"uploader"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}
