package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/crewbase/backend/common/dto"
	"github.com/crewbase/backend/common/errors"
	"github.com/crewbase/backend/common/models"
)

// PhaseInput describes a phase created together with its project
type PhaseInput struct {
	Name     string             `json:"name"`
	Budget   float64            `json:"budget"`
	Deadline *time.Time         `json:"deadline,omitempty"`
	Status   models.PhaseStatus `json:"status,omitempty"`
}

// AddProjectInput describes a project creation request
type AddProjectInput struct {
	Name       string               `json:"name"`
	ClientName string               `json:"client_name"`
	Budget     float64              `json:"budget"`
	Duration   int                  `json:"duration"`
	SalesName  string               `json:"sales_name"`
	SheetLink  string               `json:"sheet_link"`
	GroupLink  string               `json:"group_link"`
	Status     models.ProjectStatus `json:"status,omitempty"`
	Phases     []PhaseInput         `json:"phases,omitempty"`
	TeamID     *uuid.UUID           `json:"team_id,omitempty"`
}

// AddProject creates a project, its phases and the optional team link inside
// one transaction. Any failure aborts the whole batch - no partial project,
// phase or link state is ever visible.
func AddProject(ctx context.Context, input AddProjectInput) (*models.Project, error) {
	db := getPool()

	status := input.Status
	if status == "" {
		status = models.ProjectStatusHold
	}
	if !status.IsValid() {
		return nil, errors.ValidationError("invalid project status", map[string]string{"status": string(status)})
	}
	for _, phase := range input.Phases {
		if phase.Status != "" && !phase.Status.IsValid() {
			return nil, errors.ValidationError("invalid phase status", map[string]string{"status": string(phase.Status)})
		}
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	project := models.Project{
		ID:         uuid.New(),
		Name:       input.Name,
		ClientName: input.ClientName,
		Budget:     input.Budget,
		Duration:   input.Duration,
		SalesName:  input.SalesName,
		SheetLink:  input.SheetLink,
		GroupLink:  input.GroupLink,
		Status:     status,
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO projects (id, name, client_name, budget, duration_months, sales_name, sheet_link, group_link, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, project.ID, project.Name, project.ClientName, project.Budget, project.Duration,
		project.SalesName, project.SheetLink, project.GroupLink, project.Status,
	).Scan(&project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create project")
	}

	for _, phase := range input.Phases {
		phaseStatus := phase.Status
		if phaseStatus == "" {
			phaseStatus = models.PhaseStatusHold
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO project_phases (id, project_id, name, budget, deadline, status)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.New(), project.ID, phase.Name, phase.Budget, phase.Deadline, phaseStatus)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create project phase")
		}
	}

	if input.TeamID != nil {
		var teamExists bool
		err = tx.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM teams WHERE id = $1)", *input.TeamID,
		).Scan(&teamExists)
		if err != nil {
			return nil, errors.Wrap(err, "failed to check team")
		}
		if !teamExists {
			return nil, errors.NotFound("team")
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO team_projects (id, team_id, project_id)
			VALUES ($1, $2, $3)
		`, uuid.New(), *input.TeamID, project.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, errors.Conflict("project already linked to a team")
			}
			return nil, errors.Wrap(err, "failed to link team to project")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	return &project, nil
}

// AssignEmployeeToProject links an employee to the phase's parent project
// (if not already linked) and to the phase itself, in one transaction. A
// crash between the two writes never leaves one link without the other.
func AssignEmployeeToProject(ctx context.Context, employeeID, phaseID uuid.UUID) (*models.EmployeeProject, error) {
	db := getPool()

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var projectID uuid.UUID
	err = tx.QueryRow(ctx,
		"SELECT project_id FROM project_phases WHERE id = $1", phaseID,
	).Scan(&projectID)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("project phase")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find project phase")
	}

	var link models.EmployeeProject
	err = tx.QueryRow(ctx, `
		SELECT id, project_id, employee_id, created_at
		FROM employee_projects
		WHERE project_id = $1 AND employee_id = $2
	`, projectID, employeeID).Scan(&link.ID, &link.ProjectID, &link.EmployeeID, &link.CreatedAt)
	if err == pgx.ErrNoRows {
		link = models.EmployeeProject{ID: uuid.New(), ProjectID: projectID, EmployeeID: employeeID}
		err = tx.QueryRow(ctx, `
			INSERT INTO employee_projects (id, project_id, employee_id)
			VALUES ($1, $2, $3)
			RETURNING created_at
		`, link.ID, link.ProjectID, link.EmployeeID).Scan(&link.CreatedAt)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to link employee to project")
	}

	var alreadyInPhase bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM employee_phases WHERE phase_id = $1 AND employee_id = $2)",
		phaseID, employeeID,
	).Scan(&alreadyInPhase)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check phase assignment")
	}
	if alreadyInPhase {
		return nil, errors.Conflict("employee already assigned to this phase")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO employee_phases (id, phase_id, employee_id, progress)
		VALUES ($1, $2, $3, 0)
	`, uuid.New(), phaseID, employeeID)
	if err != nil {
		// Concurrent request won the race past the existence check
		if isUniqueViolation(err) {
			return nil, errors.Conflict("employee already assigned to this phase")
		}
		return nil, errors.Wrap(err, "failed to link employee to phase")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	return &link, nil
}

// WorkProgressInput carries the optional updates for an employee's phase work
type WorkProgressInput struct {
	PhaseStatus models.PhaseStatus `json:"phase_status,omitempty"`
	Progress    float64            `json:"progress,omitempty"`
}

// PhaseProgress is a phase record merged with one employee's progress in it
type PhaseProgress struct {
	models.ProjectPhase
	Progress float64 `json:"progress"`
}

// UpdateWorkProgress applies a phase status change and/or an employee's
// progress update. The two writes touch different tables and are wrapped in
// one transaction so readers never observe the status without the progress.
func UpdateWorkProgress(ctx context.Context, userID, phaseID uuid.UUID, input WorkProgressInput) (*PhaseProgress, error) {
	db := getPool()

	if input.PhaseStatus != "" && !input.PhaseStatus.IsValid() {
		return nil, errors.ValidationError("invalid phase status", map[string]string{"phase_status": string(input.PhaseStatus)})
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var linkID uuid.UUID
	var progress float64
	err = tx.QueryRow(ctx, `
		SELECT id, progress FROM employee_phases
		WHERE phase_id = $1 AND employee_id = $2
	`, phaseID, userID).Scan(&linkID, &progress)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("phase assignment")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find phase assignment")
	}

	var phase models.ProjectPhase
	err = tx.QueryRow(ctx, `
		SELECT id, project_id, name, budget, deadline, status, fixed_kpi, kpi, created_at, updated_at
		FROM project_phases WHERE id = $1
	`, phaseID).Scan(
		&phase.ID, &phase.ProjectID, &phase.Name, &phase.Budget, &phase.Deadline,
		&phase.Status, &phase.FixedKPI, &phase.KPI, &phase.CreatedAt, &phase.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("project phase")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find project phase")
	}

	if input.PhaseStatus != "" {
		_, err = tx.Exec(ctx,
			"UPDATE project_phases SET status = $1, updated_at = now() WHERE id = $2",
			input.PhaseStatus, phaseID,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to update phase status")
		}
		phase.Status = input.PhaseStatus
	}

	if input.Progress > 0 {
		_, err = tx.Exec(ctx,
			"UPDATE employee_phases SET progress = $1, updated_at = now() WHERE id = $2",
			input.Progress, linkID,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to update progress")
		}
		progress = input.Progress
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	return &PhaseProgress{ProjectPhase: phase, Progress: progress}, nil
}

// ProjectWithPhases is a project expanded with its phases
type ProjectWithPhases struct {
	models.Project
	Phases []models.ProjectPhase `json:"phases"`
}

// ProjectFilter narrows a project listing
type ProjectFilter struct {
	Search string
	TeamID *uuid.UUID
	Status models.ProjectStatus
}

// ListProjects returns projects matching the filter, newest first, with their
// phases attached. Counting runs as a separate pass over the same predicate.
func ListProjects(ctx context.Context, p dto.PaginationParams, filter ProjectFilter) ([]ProjectWithPhases, int64, error) {
	db := getPool()

	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (p.name ILIKE $%d OR p.client_name ILIKE $%d)", n, n)
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND p.status = $%d", len(args))
	}
	if filter.TeamID != nil {
		args = append(args, *filter.TeamID)
		where += fmt.Sprintf(" AND EXISTS(SELECT 1 FROM team_projects tp WHERE tp.project_id = p.id AND tp.team_id = $%d)", len(args))
	}

	var total int64
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM projects p"+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count projects")
	}

	listArgs := append(args, p.Limit, p.Offset())
	rows, err := db.Query(ctx, `
		SELECT p.id, p.name, p.client_name, p.budget, p.duration_months, p.sales_name,
		       p.sheet_link, p.group_link, p.status, p.created_at, p.updated_at
		FROM projects p`+where+fmt.Sprintf(`
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2),
		listArgs...,
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list projects")
	}
	defer rows.Close()

	projects := make([]ProjectWithPhases, 0)
	for rows.Next() {
		var pr models.Project
		if err := rows.Scan(
			&pr.ID, &pr.Name, &pr.ClientName, &pr.Budget, &pr.Duration, &pr.SalesName,
			&pr.SheetLink, &pr.GroupLink, &pr.Status, &pr.CreatedAt, &pr.UpdatedAt,
		); err != nil {
			return nil, 0, errors.Wrap(err, "failed to scan project")
		}
		projects = append(projects, ProjectWithPhases{Project: pr, Phases: []models.ProjectPhase{}})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "failed to read projects")
	}

	if err := attachPhases(ctx, projects); err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// attachPhases loads the phases for every listed project in one query and
// groups them back by project id.
func attachPhases(ctx context.Context, projects []ProjectWithPhases) error {
	if len(projects) == 0 {
		return nil
	}
	db := getPool()

	projectIDs := lo.Map(projects, func(p ProjectWithPhases, _ int) uuid.UUID { return p.ID })

	rows, err := db.Query(ctx, `
		SELECT id, project_id, name, budget, deadline, status, fixed_kpi, kpi, created_at, updated_at
		FROM project_phases
		WHERE project_id = ANY($1)
		ORDER BY created_at ASC
	`, projectIDs)
	if err != nil {
		return errors.Wrap(err, "failed to load phases")
	}
	defer rows.Close()

	phases := make([]models.ProjectPhase, 0)
	for rows.Next() {
		var ph models.ProjectPhase
		if err := rows.Scan(
			&ph.ID, &ph.ProjectID, &ph.Name, &ph.Budget, &ph.Deadline,
			&ph.Status, &ph.FixedKPI, &ph.KPI, &ph.CreatedAt, &ph.UpdatedAt,
		); err != nil {
			return errors.Wrap(err, "failed to scan phase")
		}
		phases = append(phases, ph)
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "failed to read phases")
	}

	byProject := lo.GroupBy(phases, func(ph models.ProjectPhase) uuid.UUID { return ph.ProjectID })
	for i := range projects {
		if grouped, ok := byProject[projects[i].ID]; ok {
			projects[i].Phases = grouped
		}
	}
	return nil
}
