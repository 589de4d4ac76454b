package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewbase/backend/common/models"
)

func strPtr(s string) *string { return &s }

func TestMergeAssignees(t *testing.T) {
	phaseID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	assignments := []phaseAssignment{
		{PhaseID: phaseID, EmployeeID: alice, Progress: 40},
		{PhaseID: phaseID, EmployeeID: bob, Progress: 75},
	}
	// Employee order deliberately differs from assignment order; the merge
	// must correlate by id.
	employees := []EmployeeSummary{
		{ID: bob, Email: "bob@example.com", Role: models.RoleEmployee, Status: models.UserStatusWorking},
		{ID: alice, Email: "alice@example.com", Role: models.RoleLeader, Status: models.UserStatusWorking},
	}
	profiles := []ProfileSummary{
		{UserID: alice, FullName: strPtr("Alice"), Phone: "123"},
	}

	got := mergeAssignees(assignments, employees, profiles)
	require.Len(t, got, 2)

	assert.Equal(t, "alice@example.com", got[0].Employee.Email)
	assert.Equal(t, 40.0, got[0].Progress)
	require.NotNil(t, got[0].Profile)
	assert.Equal(t, "Alice", *got[0].Profile.FullName)

	assert.Equal(t, "bob@example.com", got[1].Employee.Email)
	assert.Equal(t, 75.0, got[1].Progress)
	assert.Nil(t, got[1].Profile)
}

func TestMergeAssigneesSkipsDanglingLinks(t *testing.T) {
	phaseID := uuid.New()
	known := uuid.New()
	ghost := uuid.New()

	assignments := []phaseAssignment{
		{PhaseID: phaseID, EmployeeID: known, Progress: 10},
		{PhaseID: phaseID, EmployeeID: ghost, Progress: 99},
	}
	employees := []EmployeeSummary{
		{ID: known, Email: "known@example.com", Role: models.RoleEmployee, Status: models.UserStatusWorking},
	}

	got := mergeAssignees(assignments, employees, nil)
	require.Len(t, got, 1)
	assert.Equal(t, known, got[0].Employee.ID)
}

func TestMergeAssigneesEmpty(t *testing.T) {
	got := mergeAssignees(nil, nil, nil)
	assert.Empty(t, got)
}
