package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/crewbase/backend/common/dto"
	"github.com/crewbase/backend/common/errors"
	"github.com/crewbase/backend/common/models"
)

// CreateTeam creates a team and its supervisor link in one transaction. The
// creator becomes the team's supervisor.
func CreateTeam(ctx context.Context, name string, createdBy uuid.UUID) (*models.Team, error) {
	db := getPool()

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	team := models.Team{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: createdBy,
		Status:    models.TeamStatusActive,
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO teams (id, name, created_by, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, team.ID, team.Name, team.CreatedBy, team.Status).Scan(&team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.Conflict("team with this name already exists")
		}
		return nil, errors.Wrap(err, "failed to create team")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO team_supervisors (id, team_id, supervisor_id)
		VALUES ($1, $2, $3)
	`, uuid.New(), team.ID, createdBy)
	if err != nil {
		return nil, errors.Wrap(err, "failed to link supervisor to team")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	return &team, nil
}

// ListTeams returns teams matching the search and status filter, newest first.
func ListTeams(ctx context.Context, p dto.PaginationParams, search string, status models.TeamStatus) ([]models.Team, int64, error) {
	db := getPool()

	if status != "" && !status.IsValid() {
		return nil, 0, errors.ValidationError("invalid team status", map[string]string{"status": string(status)})
	}

	where := " WHERE 1=1"
	args := []interface{}{}
	if search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int64
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM teams"+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count teams")
	}

	listArgs := append(args, p.Limit, p.Offset())
	rows, err := db.Query(ctx, `
		SELECT id, name, created_by, status, created_at, updated_at
		FROM teams`+where+fmt.Sprintf(`
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2),
		listArgs...,
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list teams")
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedBy, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, errors.Wrap(err, "failed to scan team")
		}
		teams = append(teams, t)
	}
	return teams, total, rows.Err()
}

// AssignEmployeeToTeam links an employee to a team the acting supervisor
// owns. Idempotent: an existing link is returned unchanged. A supervisor
// without ownership gets not-found, so the team's existence never leaks.
func AssignEmployeeToTeam(ctx context.Context, supervisorID, teamID, employeeID uuid.UUID) (*models.TeamEmployee, error) {
	db := getPool()

	owned, err := IsTeamUnderSupervisor(ctx, supervisorID, teamID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, errors.NotFound("team under this supervisor")
	}

	var link models.TeamEmployee
	err = db.QueryRow(ctx, `
		SELECT id, team_id, employee_id, created_at
		FROM team_employees
		WHERE team_id = $1 AND employee_id = $2
	`, teamID, employeeID).Scan(&link.ID, &link.TeamID, &link.EmployeeID, &link.CreatedAt)
	if err == nil {
		return &link, nil
	}
	if err != pgx.ErrNoRows {
		return nil, errors.Wrap(err, "failed to check team membership")
	}

	link = models.TeamEmployee{ID: uuid.New(), TeamID: teamID, EmployeeID: employeeID}
	err = db.QueryRow(ctx, `
		INSERT INTO team_employees (id, team_id, employee_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, link.ID, link.TeamID, link.EmployeeID).Scan(&link.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost the race to a concurrent identical request; return theirs
			err = db.QueryRow(ctx, `
				SELECT id, team_id, employee_id, created_at
				FROM team_employees
				WHERE team_id = $1 AND employee_id = $2
			`, teamID, employeeID).Scan(&link.ID, &link.TeamID, &link.EmployeeID, &link.CreatedAt)
			if err == nil {
				return &link, nil
			}
		}
		return nil, errors.Wrap(err, "failed to link employee to team")
	}

	return &link, nil
}

// AssignEmployeeToNewTeam moves an employee to a different team by
// repointing exactly one of their existing team links, inserting a fresh one
// if none exists. An employee holding several links (added to multiple teams)
// keeps the others; only the oldest link moves.
func AssignEmployeeToNewTeam(ctx context.Context, supervisorID, teamID, employeeID uuid.UUID) (*models.TeamEmployee, error) {
	db := getPool()

	owned, err := IsTeamUnderSupervisor(ctx, supervisorID, teamID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, errors.NotFound("team under this supervisor")
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT id, team_id, employee_id, created_at
		FROM team_employees
		WHERE employee_id = $1
		ORDER BY created_at
	`, employeeID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load team links")
	}
	links := make([]models.TeamEmployee, 0)
	for rows.Next() {
		var l models.TeamEmployee
		if err := rows.Scan(&l.ID, &l.TeamID, &l.EmployeeID, &l.CreatedAt); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "failed to scan team link")
		}
		links = append(links, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read team links")
	}

	candidate, onTarget := moveCandidate(links, teamID)
	if onTarget {
		return nil, errors.Conflict("employee already on this team")
	}

	var link models.TeamEmployee
	if candidate == nil {
		link = models.TeamEmployee{ID: uuid.New(), TeamID: teamID, EmployeeID: employeeID}
		err = tx.QueryRow(ctx, `
			INSERT INTO team_employees (id, team_id, employee_id)
			VALUES ($1, $2, $3)
			RETURNING created_at
		`, link.ID, link.TeamID, link.EmployeeID).Scan(&link.CreatedAt)
	} else {
		err = tx.QueryRow(ctx, `
			UPDATE team_employees SET team_id = $1
			WHERE id = $2
			RETURNING id, team_id, employee_id, created_at
		`, teamID, candidate.ID).Scan(&link.ID, &link.TeamID, &link.EmployeeID, &link.CreatedAt)
	}
	if err != nil {
		// Concurrent writer linked the employee to the target first
		if isUniqueViolation(err) {
			return nil, errors.Conflict("employee already on this team")
		}
		return nil, errors.Wrap(err, "failed to move employee to team")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	return &link, nil
}

// moveCandidate picks the single link to repoint when moving an employee to
// teamID. Reports whether the employee already holds a link to the target
// team, in which case nothing may move. Links are expected oldest first.
func moveCandidate(links []models.TeamEmployee, teamID uuid.UUID) (*models.TeamEmployee, bool) {
	for i := range links {
		if links[i].TeamID == teamID {
			return nil, true
		}
	}
	if len(links) == 0 {
		return nil, false
	}
	return &links[0], false
}

// SplitTeamResult reports the outcome of a team split
type SplitTeamResult struct {
	Team                *models.Team `json:"team"`
	MovedEmployeesCount int64        `json:"moved_employees_count"`
}

// SplitTeam creates a new team and moves the selected employees from the
// original team into it, all in one transaction. Employees not currently on
// the original team are silently skipped.
func SplitTeam(ctx context.Context, originalTeamID uuid.UUID, newTeamName string, employeeIDs []uuid.UUID, actorID uuid.UUID) (*SplitTeamResult, error) {
	db := getPool()

	owned, err := IsTeamUnderSupervisor(ctx, actorID, originalTeamID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, errors.NotFound("team under this supervisor")
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	team := models.Team{
		ID:        uuid.New(),
		Name:      newTeamName,
		CreatedBy: actorID,
		Status:    models.TeamStatusActive,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO teams (id, name, created_by, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, team.ID, team.Name, team.CreatedBy, team.Status).Scan(&team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.Conflict("team with this name already exists")
		}
		return nil, errors.Wrap(err, "failed to create team")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO team_supervisors (id, team_id, supervisor_id)
		VALUES ($1, $2, $3)
	`, uuid.New(), team.ID, actorID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to link supervisor to team")
	}

	tag, err := tx.Exec(ctx, `
		UPDATE team_employees SET team_id = $1
		WHERE team_id = $2 AND employee_id = ANY($3)
	`, team.ID, originalTeamID, employeeIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to move employees")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	return &SplitTeamResult{Team: &team, MovedEmployeesCount: tag.RowsAffected()}, nil
}
