package models

import (
	"time"

	"github.com/google/uuid"
)

// Junction records. The store has no native many-to-many support, so each
// relationship is its own table with a compound unique index on the pair.

// TeamProject links a team to a project. A project belongs to at most one team.
type TeamProject struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TeamID    uuid.UUID `json:"team_id" db:"team_id"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TeamEmployee links an employee to a team
type TeamEmployee struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TeamID     uuid.UUID `json:"team_id" db:"team_id"`
	EmployeeID uuid.UUID `json:"employee_id" db:"employee_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// TeamSupervisor links a supervisor to a team they own
type TeamSupervisor struct {
	ID           uuid.UUID `json:"id" db:"id"`
	TeamID       uuid.UUID `json:"team_id" db:"team_id"`
	SupervisorID uuid.UUID `json:"supervisor_id" db:"supervisor_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// EmployeeProject links an employee to a project they work on
type EmployeeProject struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ProjectID  uuid.UUID `json:"project_id" db:"project_id"`
	EmployeeID uuid.UUID `json:"employee_id" db:"employee_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// EmployeePhase links an employee to a specific phase, carrying the
// employee's work progress within that phase
type EmployeePhase struct {
	ID         uuid.UUID `json:"id" db:"id"`
	PhaseID    uuid.UUID `json:"phase_id" db:"phase_id"`
	EmployeeID uuid.UUID `json:"employee_id" db:"employee_id"`
	Progress   float64   `json:"progress" db:"progress"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// SupervisorEmployee links an employee to their managing supervisor
type SupervisorEmployee struct {
	ID           uuid.UUID `json:"id" db:"id"`
	SupervisorID uuid.UUID `json:"supervisor_id" db:"supervisor_id"`
	EmployeeID   uuid.UUID `json:"employee_id" db:"employee_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SupervisorAdmin links a supervisor to the admin who appointed them
type SupervisorAdmin struct {
	ID           uuid.UUID `json:"id" db:"id"`
	SupervisorID uuid.UUID `json:"supervisor_id" db:"supervisor_id"`
	AdminID      uuid.UUID `json:"admin_id" db:"admin_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
