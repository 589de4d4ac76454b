package models

import (
	"time"

	"github.com/google/uuid"
)

// Project represents a client project
type Project struct {
	ID         uuid.UUID     `json:"id" db:"id"`
	Name       string        `json:"name" db:"name"`
	ClientName string        `json:"client_name" db:"client_name"`
	Budget     float64       `json:"budget" db:"budget"`
	Duration   int           `json:"duration" db:"duration_months"` // in months
	SalesName  string        `json:"sales_name" db:"sales_name"`
	SheetLink  string        `json:"sheet_link" db:"sheet_link"`
	GroupLink  string        `json:"group_link" db:"group_link"`
	Status     ProjectStatus `json:"status" db:"status"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
}

// ProjectPhase represents a time-boxed sub-unit of a project with its own
// budget, deadline and status
type ProjectPhase struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	ProjectID uuid.UUID   `json:"project_id" db:"project_id"`
	Name      string      `json:"name" db:"name"`
	Budget    float64     `json:"budget" db:"budget"`
	Deadline  *time.Time  `json:"deadline,omitempty" db:"deadline"`
	Status    PhaseStatus `json:"status" db:"status"`
	FixedKPI  float64     `json:"fixed_kpi" db:"fixed_kpi"`
	KPI       float64     `json:"kpi" db:"kpi"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}
