package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/crewbase/backend/common/dto"
	"github.com/crewbase/backend/common/errors"
	"github.com/crewbase/backend/common/models"
)

// EmployeeSummary is the non-sensitive projection of a user surfaced in
// phase rosters. Password and audit fields never appear here.
type EmployeeSummary struct {
	ID     uuid.UUID         `json:"id"`
	Email  string            `json:"email"`
	Role   models.Role       `json:"role"`
	Status models.UserStatus `json:"status"`
}

// ProfileSummary is the subset of a user profile surfaced in phase rosters
type ProfileSummary struct {
	UserID   uuid.UUID `json:"-"`
	FullName *string   `json:"full_name"`
	Phone    string    `json:"phone"`
	Image    string    `json:"image"`
}

// PhaseAssignee pairs an assigned employee with their profile and their own
// progress within the phase
type PhaseAssignee struct {
	Employee EmployeeSummary `json:"employee"`
	Profile  *ProfileSummary `json:"profile,omitempty"`
	Progress float64         `json:"progress"`
}

// PhaseDetails is a phase expanded with its full assignee roster
type PhaseDetails struct {
	models.ProjectPhase
	AssignTo []PhaseAssignee `json:"assign_to"`
}

// phaseAssignment is an employee_phases row used during roster assembly
type phaseAssignment struct {
	PhaseID    uuid.UUID
	EmployeeID uuid.UUID
	Progress   float64
}

// GetPhaseDetails returns a phase with every assigned employee, their profile
// and their progress. The three result sets are correlated by employee id,
// never by row position - the store gives no ordering guarantee across the
// separate lookups.
func GetPhaseDetails(ctx context.Context, phaseID uuid.UUID) (*PhaseDetails, error) {
	db := getPool()

	var phase models.ProjectPhase
	err := db.QueryRow(ctx, `
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

	assignments := make([]phaseAssignment, 0)
	rows, err := db.Query(ctx,
		"SELECT phase_id, employee_id, progress FROM employee_phases WHERE phase_id = $1", phaseID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load phase assignments")
	}
	defer rows.Close()
	for rows.Next() {
		var a phaseAssignment
		if err := rows.Scan(&a.PhaseID, &a.EmployeeID, &a.Progress); err != nil {
			return nil, errors.Wrap(err, "failed to scan assignment")
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read assignments")
	}

	employeeIDs := lo.Map(assignments, func(a phaseAssignment, _ int) uuid.UUID { return a.EmployeeID })

	employees, err := loadEmployeeSummaries(ctx, employeeIDs)
	if err != nil {
		return nil, err
	}
	profiles, err := loadProfileSummaries(ctx, employeeIDs)
	if err != nil {
		return nil, err
	}

	return &PhaseDetails{
		ProjectPhase: phase,
		AssignTo:     mergeAssignees(assignments, employees, profiles),
	}, nil
}

// mergeAssignees correlates assignments with employees and profiles through
// an id-keyed lookup. Index zipping would silently mis-pair rows whenever the
// lookups return in different orders.
func mergeAssignees(assignments []phaseAssignment, employees []EmployeeSummary, profiles []ProfileSummary) []PhaseAssignee {
	employeeByID := lo.KeyBy(employees, func(e EmployeeSummary) uuid.UUID { return e.ID })
	profileByUser := lo.KeyBy(profiles, func(p ProfileSummary) uuid.UUID { return p.UserID })

	result := make([]PhaseAssignee, 0, len(assignments))
	for _, a := range assignments {
		employee, ok := employeeByID[a.EmployeeID]
		if !ok {
			// Dangling link; the employee row is gone, skip the entry
			continue
		}
		assignee := PhaseAssignee{Employee: employee, Progress: a.Progress}
		if profile, ok := profileByUser[a.EmployeeID]; ok {
			p := profile
			assignee.Profile = &p
		}
		result = append(result, assignee)
	}
	return result
}

func loadEmployeeSummaries(ctx context.Context, ids []uuid.UUID) ([]EmployeeSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db := getPool()

	rows, err := db.Query(ctx,
		"SELECT id, email, role, status FROM users WHERE id = ANY($1)", ids,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load employees")
	}
	defer rows.Close()

	employees := make([]EmployeeSummary, 0, len(ids))
	for rows.Next() {
		var e EmployeeSummary
		if err := rows.Scan(&e.ID, &e.Email, &e.Role, &e.Status); err != nil {
			return nil, errors.Wrap(err, "failed to scan employee")
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func loadProfileSummaries(ctx context.Context, userIDs []uuid.UUID) ([]ProfileSummary, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	db := getPool()

	rows, err := db.Query(ctx,
		"SELECT user_id, full_name, phone, image FROM user_profiles WHERE user_id = ANY($1)", userIDs,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load profiles")
	}
	defer rows.Close()

	profiles := make([]ProfileSummary, 0, len(userIDs))
	for rows.Next() {
		var p ProfileSummary
		if err := rows.Scan(&p.UserID, &p.FullName, &p.Phone, &p.Image); err != nil {
			return nil, errors.Wrap(err, "failed to scan profile")
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// PhaseRoster is a phase with the employees assigned to it
type PhaseRoster struct {
	models.ProjectPhase
	AssignedEmployees []PhaseAssignee `json:"assigned_employees"`
}

// ProjectDetail is a project expanded with phases and per-phase rosters
type ProjectDetail struct {
	models.Project
	Phases []PhaseRoster `json:"phases"`
}

// ListMyProjects returns the projects an employee is assigned to, filtered by
// project status, each expanded with all phases and every assignee's own
// progress (a full roster view, not just the caller's).
func ListMyProjects(ctx context.Context, userID uuid.UUID, status models.ProjectStatus, p dto.PaginationParams) ([]ProjectDetail, int64, error) {
	db := getPool()

	if status != "" && !status.IsValid() {
		return nil, 0, errors.ValidationError("invalid project status", map[string]string{"status": string(status)})
	}

	where := " FROM employee_projects ep JOIN projects p ON p.id = ep.project_id WHERE ep.employee_id = $1"
	args := []interface{}{userID}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(" AND p.status = $%d", len(args))
	}

	var total int64
	if err := db.QueryRow(ctx, "SELECT COUNT(*)"+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count projects")
	}

	listArgs := append(args, p.Limit, p.Offset())
	rows, err := db.Query(ctx, `
		SELECT p.id, p.name, p.client_name, p.budget, p.duration_months, p.sales_name,
		       p.sheet_link, p.group_link, p.status, p.created_at, p.updated_at`+where+fmt.Sprintf(`
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2),
		listArgs...,
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list projects")
	}
	defer rows.Close()

	projects, err := scanProjects(rows)
	if err != nil {
		return nil, 0, err
	}

	details, err := buildProjectDetails(ctx, projects)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// ListTeamProjects returns a team's projects with phases and rosters, search
// and status filtered, in one paginated pass.
func ListTeamProjects(ctx context.Context, teamID uuid.UUID, p dto.PaginationParams, search string, status models.ProjectStatus) ([]ProjectDetail, int64, error) {
	db := getPool()

	if status != "" && !status.IsValid() {
		return nil, 0, errors.ValidationError("invalid project status", map[string]string{"status": string(status)})
	}

	where := " FROM team_projects tp JOIN projects p ON p.id = tp.project_id WHERE tp.team_id = $1"
	args := []interface{}{teamID}
	if search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (p.name ILIKE $%d OR p.client_name ILIKE $%d)", n, n)
	}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(" AND p.status = $%d", len(args))
	}

	var total int64
	if err := db.QueryRow(ctx, "SELECT COUNT(*)"+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count team projects")
	}

	listArgs := append(args, p.Limit, p.Offset())
	rows, err := db.Query(ctx, `
		SELECT p.id, p.name, p.client_name, p.budget, p.duration_months, p.sales_name,
		       p.sheet_link, p.group_link, p.status, p.created_at, p.updated_at`+where+fmt.Sprintf(`
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2),
		listArgs...,
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list team projects")
	}
	defer rows.Close()

	projects, err := scanProjects(rows)
	if err != nil {
		return nil, 0, err
	}

	details, err := buildProjectDetails(ctx, projects)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

func scanProjects(rows pgx.Rows) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	for rows.Next() {
		var pr models.Project
		if err := rows.Scan(
			&pr.ID, &pr.Name, &pr.ClientName, &pr.Budget, &pr.Duration, &pr.SalesName,
			&pr.SheetLink, &pr.GroupLink, &pr.Status, &pr.CreatedAt, &pr.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan project")
		}
		projects = append(projects, pr)
	}
	return projects, rows.Err()
}

// buildProjectDetails expands projects with their phases and each phase's
// assignee roster, loading each level in one batch query.
func buildProjectDetails(ctx context.Context, projects []models.Project) ([]ProjectDetail, error) {
	details := make([]ProjectDetail, 0, len(projects))
	if len(projects) == 0 {
		return details, nil
	}
	db := getPool()

	projectIDs := lo.Map(projects, func(p models.Project, _ int) uuid.UUID { return p.ID })

	rows, err := db.Query(ctx, `
		SELECT id, project_id, name, budget, deadline, status, fixed_kpi, kpi, created_at, updated_at
		FROM project_phases
		WHERE project_id = ANY($1)
		ORDER BY created_at ASC
	`, projectIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load phases")
	}
	defer rows.Close()

	phases := make([]models.ProjectPhase, 0)
	for rows.Next() {
		var ph models.ProjectPhase
		if err := rows.Scan(
			&ph.ID, &ph.ProjectID, &ph.Name, &ph.Budget, &ph.Deadline,
			&ph.Status, &ph.FixedKPI, &ph.KPI, &ph.CreatedAt, &ph.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan phase")
		}
		phases = append(phases, ph)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read phases")
	}

	phaseIDs := lo.Map(phases, func(ph models.ProjectPhase, _ int) uuid.UUID { return ph.ID })
	rosters, err := loadPhaseRosters(ctx, phaseIDs)
	if err != nil {
		return nil, err
	}

	phasesByProject := lo.GroupBy(phases, func(ph models.ProjectPhase) uuid.UUID { return ph.ProjectID })
	for _, pr := range projects {
		detail := ProjectDetail{Project: pr, Phases: []PhaseRoster{}}
		for _, ph := range phasesByProject[pr.ID] {
			roster := PhaseRoster{ProjectPhase: ph, AssignedEmployees: rosters[ph.ID]}
			if roster.AssignedEmployees == nil {
				roster.AssignedEmployees = []PhaseAssignee{}
			}
			detail.Phases = append(detail.Phases, roster)
		}
		details = append(details, detail)
	}
	return details, nil
}

// loadPhaseRosters returns the assignees of every given phase, keyed by phase
// id. Users and profiles are joined in SQL; the password column is never
// selected.
func loadPhaseRosters(ctx context.Context, phaseIDs []uuid.UUID) (map[uuid.UUID][]PhaseAssignee, error) {
	rosters := make(map[uuid.UUID][]PhaseAssignee)
	if len(phaseIDs) == 0 {
		return rosters, nil
	}
	db := getPool()

	rows, err := db.Query(ctx, `
		SELECT ep.phase_id, ep.progress, u.id, u.email, u.role, u.status,
		       prof.full_name, prof.phone, prof.image
		FROM employee_phases ep
		JOIN users u ON u.id = ep.employee_id
		LEFT JOIN user_profiles prof ON prof.user_id = u.id
		WHERE ep.phase_id = ANY($1)
	`, phaseIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load phase rosters")
	}
	defer rows.Close()

	for rows.Next() {
		var phaseID uuid.UUID
		var assignee PhaseAssignee
		var fullName *string
		var phone, image *string

		if err := rows.Scan(
			&phaseID, &assignee.Progress,
			&assignee.Employee.ID, &assignee.Employee.Email, &assignee.Employee.Role, &assignee.Employee.Status,
			&fullName, &phone, &image,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan roster entry")
		}

		if fullName != nil || phone != nil || image != nil {
			profile := ProfileSummary{UserID: assignee.Employee.ID, FullName: fullName}
			if phone != nil {
				profile.Phone = *phone
			}
			if image != nil {
				profile.Image = *image
			}
			assignee.Profile = &profile
		}

		rosters[phaseID] = append(rosters[phaseID], assignee)
	}
	return rosters, rows.Err()
}
