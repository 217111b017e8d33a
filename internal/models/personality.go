package models

import (
	"time"

	"github.com/google/uuid"
)

// Personality is a selectable assistant persona. Rows are seeded reference
// data and read-only at request time.
type Personality struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Instructions string    `json:"instructions"`
	CreatedAt    time.Time `json:"created_at"`
}
