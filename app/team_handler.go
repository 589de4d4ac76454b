package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/crewbase/backend/common/models"
	"github.com/crewbase/backend/pkg/httputil"
	"github.com/crewbase/backend/pkg/middleware"
	"github.com/crewbase/backend/repository"
)

// TeamHandler handles team endpoints
type TeamHandler struct{}

// NewTeamHandler creates a new team handler
func NewTeamHandler() *TeamHandler {
	return &TeamHandler{}
}

// CreateTeamRequest represents the team creation request
type CreateTeamRequest struct {
	Name string `json:"name"`
}

// Create handles team creation; the caller becomes the team's supervisor
func (h *TeamHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}

	var req CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}
	if req.Name == "" {
		return httputil.ValidationError(c, "validation failed", map[string]string{
			"name": "required",
		})
	}

	team, err := repository.CreateTeam(c.Context(), req.Name, userID)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Created(c, team)
}

// List handles the paginated team listing
func (h *TeamHandler) List(c *fiber.Ctx) error {
	pagination := httputil.ParsePagination(c)
	search := c.Query("search")
	status := models.TeamStatus(c.Query("status"))

	teams, total, err := repository.ListTeams(c.Context(), pagination, search, status)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.SuccessWithMeta(c, teams,
		httputil.BuildMeta(pagination.Page, pagination.Limit, total))
}

// ListProjects returns a team's projects with phases and rosters. The team
// must be in the caller's scope; otherwise the team reads as not found.
func (h *TeamHandler) ListProjects(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}
	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httputil.BadRequest(c, "invalid team id")
	}

	var inScope bool
	switch middleware.GetRole(c) {
	case models.RoleAdmin:
		inScope = true
	case models.RoleSupervisor:
		inScope, err = repository.IsTeamUnderSupervisor(c.Context(), userID, teamID)
	default:
		inScope, err = repository.IsTeamUnderEmployee(c.Context(), userID, teamID)
	}
	if err != nil {
		return httputil.Error(c, err)
	}
	if !inScope {
		return httputil.NotFound(c, "team")
	}

	pagination := httputil.ParsePagination(c)
	search := c.Query("search")
	status := models.ProjectStatus(c.Query("status"))

	projects, total, err := repository.ListTeamProjects(c.Context(), teamID, pagination, search, status)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.SuccessWithMeta(c, projects,
		httputil.BuildMeta(pagination.Page, pagination.Limit, total))
}

// AssignEmployeeToTeamRequest represents the team membership request
type AssignEmployeeToTeamRequest struct {
	EmployeeID uuid.UUID `json:"employee_id"`
}

// AssignEmployee adds an employee to one of the caller's teams
func (h *TeamHandler) AssignEmployee(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}
	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httputil.BadRequest(c, "invalid team id")
	}

	var req AssignEmployeeToTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}
	if req.EmployeeID == uuid.Nil {
		return httputil.ValidationError(c, "validation failed", map[string]string{
			"employee_id": "required",
		})
	}

	link, err := repository.AssignEmployeeToTeam(c.Context(), userID, teamID, req.EmployeeID)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Created(c, link)
}

// MoveEmployee moves an employee to this team from wherever they were
func (h *TeamHandler) MoveEmployee(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}
	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httputil.BadRequest(c, "invalid team id")
	}

	var req AssignEmployeeToTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}
	if req.EmployeeID == uuid.Nil {
		return httputil.ValidationError(c, "validation failed", map[string]string{
			"employee_id": "required",
		})
	}

	link, err := repository.AssignEmployeeToNewTeam(c.Context(), userID, teamID, req.EmployeeID)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Success(c, link)
}

// SplitTeamRequest represents the team split request
type SplitTeamRequest struct {
	Name        string      `json:"name"`
	EmployeeIDs []uuid.UUID `json:"employee_ids"`
}

// Split carves selected employees out of a team into a new one
func (h *TeamHandler) Split(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}
	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httputil.BadRequest(c, "invalid team id")
	}

	var req SplitTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}
	fields := map[string]string{}
	if req.Name == "" {
		fields["name"] = "required"
	}
	if len(req.EmployeeIDs) == 0 {
		fields["employee_ids"] = "at least one employee required"
	}
	if len(fields) > 0 {
		return httputil.ValidationError(c, "validation failed", fields)
	}

	result, err := repository.SplitTeam(c.Context(), teamID, req.Name, req.EmployeeIDs, userID)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Created(c, result)
}
