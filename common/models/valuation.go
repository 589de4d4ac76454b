package models

import (
	"time"

	"github.com/google/uuid"
)

// ValuationType defines a valuation category (e.g. "UI", "Backend") with a
// fixed overall percentage
type ValuationType struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Type         string    `json:"type" db:"type"`
	FixedPercent float64   `json:"fixed_percent" db:"fixed_percent"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Valuation is a phase-label percentage belonging to a valuation type
type Valuation struct {
	ID              uuid.UUID `json:"id" db:"id"`
	ValuationTypeID uuid.UUID `json:"valuation_type_id" db:"valuation_type_id"`
	Phase           string    `json:"phase" db:"phase"`
	Percent         float64   `json:"percent" db:"percent"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// PhaseValuation attaches a valuation to a concrete project phase. The type
// name and percentages are copied at assignment time, so later edits to the
// valuation definitions never alter phases already assigned.
type PhaseValuation struct {
	ID            uuid.UUID `json:"id" db:"id"`
	PhaseID       uuid.UUID `json:"phase_id" db:"phase_id"`
	ValuationID   uuid.UUID `json:"valuation_id" db:"valuation_id"`
	ValuationType string    `json:"valuation_type" db:"valuation_type"`
	FixedPercent  float64   `json:"fixed_percent" db:"fixed_percent"`
	Percent       float64   `json:"percent" db:"percent"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
