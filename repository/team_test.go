package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewbase/backend/common/models"
)

func teamLink(employeeID, teamID uuid.UUID, age time.Duration) models.TeamEmployee {
	return models.TeamEmployee{
		ID:         uuid.New(),
		TeamID:     teamID,
		EmployeeID: employeeID,
		CreatedAt:  time.Now().Add(-age),
	}
}

func TestMoveCandidateNoLinks(t *testing.T) {
	candidate, onTarget := moveCandidate(nil, uuid.New())
	assert.Nil(t, candidate)
	assert.False(t, onTarget)
}

func TestMoveCandidateSingleLink(t *testing.T) {
	employee := uuid.New()
	oldTeam := uuid.New()
	links := []models.TeamEmployee{teamLink(employee, oldTeam, time.Hour)}

	candidate, onTarget := moveCandidate(links, uuid.New())
	require.NotNil(t, candidate)
	assert.False(t, onTarget)
	assert.Equal(t, links[0].ID, candidate.ID)
}

func TestMoveCandidatePicksExactlyOneLink(t *testing.T) {
	// An employee added to two teams keeps both links; a move repoints only
	// the oldest one. Repointing all of them would collapse the rows onto the
	// same pair and trip the unique index.
	employee := uuid.New()
	first := teamLink(employee, uuid.New(), 2*time.Hour)
	second := teamLink(employee, uuid.New(), time.Hour)

	candidate, onTarget := moveCandidate([]models.TeamEmployee{first, second}, uuid.New())
	require.NotNil(t, candidate)
	assert.False(t, onTarget)
	assert.Equal(t, first.ID, candidate.ID)
	assert.NotEqual(t, second.ID, candidate.ID)
}

func TestMoveCandidateAlreadyOnTarget(t *testing.T) {
	employee := uuid.New()
	target := uuid.New()
	links := []models.TeamEmployee{
		teamLink(employee, uuid.New(), 2*time.Hour),
		teamLink(employee, target, time.Hour),
	}

	candidate, onTarget := moveCandidate(links, target)
	assert.Nil(t, candidate)
	assert.True(t, onTarget)
}
