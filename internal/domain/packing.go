package domain

import (
	"time"

	"github.com/google/uuid"
)

// PackingItem is one entry on a family member's packing checklist.
type PackingItem struct {
	ID        uuid.UUID `json:"id"`
	PersonID  string    `json:"person_id"`
	Item      string    `json:"item"`
	Checked   bool      `json:"checked"`
	CreatedAt time.Time `json:"created_at"`
}

// PackingGroup is one member's checklist as rendered on the packing page.
type PackingGroup struct {
	Member FamilyMember  `json:"member"`
	Items  []PackingItem `json:"items"`
}
