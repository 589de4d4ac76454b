package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/crewbase/backend/common/errors"
)

// Ownership predicates backing authorization checks. They only answer
// yes/no; callers translate a negative into not-found so denied resources
// are indistinguishable from missing ones.

// IsTeamUnderSupervisor reports whether the supervisor owns the team.
func IsTeamUnderSupervisor(ctx context.Context, supervisorID, teamID uuid.UUID) (bool, error) {
	db := getPool()

	var exists bool
	err := db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM team_supervisors
			WHERE supervisor_id = $1 AND team_id = $2
		)
	`, supervisorID, teamID).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check team ownership")
	}
	return exists, nil
}

// IsTeamUnderEmployee reports whether the employee is a member of the team.
func IsTeamUnderEmployee(ctx context.Context, employeeID, teamID uuid.UUID) (bool, error) {
	db := getPool()

	var exists bool
	err := db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM team_employees
			WHERE employee_id = $1 AND team_id = $2
		)
	`, employeeID, teamID).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check team membership")
	}
	return exists, nil
}

// IsEmployeeUnderSupervisor reports whether the employee reports to the
// supervisor.
func IsEmployeeUnderSupervisor(ctx context.Context, supervisorID, employeeID uuid.UUID) (bool, error) {
	db := getPool()

	var exists bool
	err := db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM supervisor_employees
			WHERE supervisor_id = $1 AND employee_id = $2
		)
	`, supervisorID, employeeID).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check supervisor link")
	}
	return exists, nil
}
