package models

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a working group of employees under a supervisor.
// (name, created_by) is unique.
type Team struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	CreatedBy uuid.UUID  `json:"created_by" db:"created_by"`
	Status    TeamStatus `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
