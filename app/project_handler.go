package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/crewbase/backend/common/models"
	"github.com/crewbase/backend/pkg/httputil"
	"github.com/crewbase/backend/pkg/middleware"
	"github.com/crewbase/backend/repository"
)

// ProjectHandler handles project and phase endpoints
type ProjectHandler struct{}

// NewProjectHandler creates a new project handler
func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{}
}

// Add handles project creation with its phases and team link
func (h *ProjectHandler) Add(c *fiber.Ctx) error {
	var input repository.AddProjectInput
	if err := c.BodyParser(&input); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}

	fields := map[string]string{}
	if input.Name == "" {
		fields["name"] = "required"
	}
	if input.ClientName == "" {
		fields["client_name"] = "required"
	}
	if input.Budget < 0 {
		fields["budget"] = "must not be negative"
	}
	if input.Duration < 1 {
		fields["duration"] = "must be at least 1"
	}
	if input.Status != "" && !input.Status.IsValid() {
		fields["status"] = "invalid value"
	}
	for _, ph := range input.Phases {
		if ph.Name == "" {
			fields["phases"] = "every phase needs a name"
			break
		}
		if ph.Status != "" && !ph.Status.IsValid() {
			fields["phases"] = "invalid phase status"
			break
		}
	}
	if len(fields) > 0 {
		return httputil.ValidationError(c, "validation failed", fields)
	}

	project, err := repository.AddProject(c.Context(), input)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Created(c, project)
}

// List handles the paginated project listing with search and filters
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	pagination := httputil.ParsePagination(c)

	filter := repository.ProjectFilter{
		Search: c.Query("search"),
		Status: models.ProjectStatus(c.Query("status")),
	}
	if raw := c.Query("teamId"); raw != "" {
		teamID, err := uuid.Parse(raw)
		if err != nil {
			return httputil.BadRequest(c, "invalid teamId")
		}
		filter.TeamID = &teamID
	}

	projects, total, err := repository.ListProjects(c.Context(), pagination, filter)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.SuccessWithMeta(c, projects,
		httputil.BuildMeta(pagination.Page, pagination.Limit, total))
}

// ListMine returns the calling employee's projects with full phase rosters
func (h *ProjectHandler) ListMine(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}
	pagination := httputil.ParsePagination(c)
	status := models.ProjectStatus(c.Query("status"))

	projects, total, err := repository.ListMyProjects(c.Context(), userID, status, pagination)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.SuccessWithMeta(c, projects,
		httputil.BuildMeta(pagination.Page, pagination.Limit, total))
}

// PhaseDetails returns one phase with its assignees
func (h *ProjectHandler) PhaseDetails(c *fiber.Ctx) error {
	phaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httputil.BadRequest(c, "invalid phase id")
	}

	details, err := repository.GetPhaseDetails(c.Context(), phaseID)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Success(c, details)
}

// AssignEmployeeRequest represents the phase assignment request
type AssignEmployeeRequest struct {
	EmployeeID uuid.UUID `json:"employee_id"`
}

// AssignEmployee links an employee to a phase (and its project)
func (h *ProjectHandler) AssignEmployee(c *fiber.Ctx) error {
	phaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httputil.BadRequest(c, "invalid phase id")
	}

	var req AssignEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}
	if req.EmployeeID == uuid.Nil {
		return httputil.ValidationError(c, "validation failed", map[string]string{
			"employee_id": "required",
		})
	}

	link, err := repository.AssignEmployeeToProject(c.Context(), req.EmployeeID, phaseID)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Created(c, link)
}

// UpdateWorkProgress updates the caller's progress and/or the phase status
func (h *ProjectHandler) UpdateWorkProgress(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return httputil.Unauthorized(c, "")
	}
	phaseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httputil.BadRequest(c, "invalid phase id")
	}

	var input repository.WorkProgressInput
	if err := c.BodyParser(&input); err != nil {
		return httputil.BadRequest(c, "invalid request body")
	}
	if input.PhaseStatus != "" && !input.PhaseStatus.IsValid() {
		return httputil.ValidationError(c, "validation failed", map[string]string{
			"phase_status": "invalid value",
		})
	}
	if input.Progress < 0 || input.Progress > 100 {
		return httputil.ValidationError(c, "validation failed", map[string]string{
			"progress": "must be between 0 and 100",
		})
	}

	result, err := repository.UpdateWorkProgress(c.Context(), userID, phaseID, input)
	if err != nil {
		return httputil.Error(c, err)
	}
	return httputil.Success(c, result)
}
