package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleIsValid(t *testing.T) {
	tests := []struct {
		role  Role
		valid bool
	}{
		{RoleAdmin, true},
		{RoleSupervisor, true},
		{RoleLeader, true},
		{RoleEmployee, true},
		{Role("MANAGER"), false},
		{Role("admin"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.role.IsValid())
		})
	}
}

func TestRoleCanAssign(t *testing.T) {
	tests := []struct {
		name    string
		actor   Role
		target  Role
		allowed bool
	}{
		{"admin assigns supervisor", RoleAdmin, RoleSupervisor, true},
		{"admin assigns leader", RoleAdmin, RoleLeader, false},
		{"admin assigns employee", RoleAdmin, RoleEmployee, false},
		{"admin assigns admin", RoleAdmin, RoleAdmin, false},
		{"supervisor assigns leader", RoleSupervisor, RoleLeader, true},
		{"supervisor assigns employee", RoleSupervisor, RoleEmployee, true},
		{"supervisor assigns supervisor", RoleSupervisor, RoleSupervisor, false},
		{"supervisor assigns admin", RoleSupervisor, RoleAdmin, false},
		{"leader assigns employee", RoleLeader, RoleEmployee, false},
		{"employee assigns employee", RoleEmployee, RoleEmployee, false},
		{"unknown actor", Role("MANAGER"), RoleEmployee, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.actor.CanAssign(tt.target))
		})
	}
}

func TestStatusEnums(t *testing.T) {
	assert.True(t, UserStatusWorking.IsValid())
	assert.True(t, UserStatusResigned.IsValid())
	assert.False(t, UserStatus("FIRED").IsValid())

	assert.True(t, TeamStatusActive.IsValid())
	assert.True(t, TeamStatusDeactive.IsValid())
	assert.False(t, TeamStatus("INACTIVE").IsValid())

	for _, s := range []ProjectStatus{ProjectStatusCompleted, ProjectStatusOngoing, ProjectStatusCanceled, ProjectStatusHold} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, ProjectStatus("DONE").IsValid())

	for _, s := range []PhaseStatus{PhaseStatusCompleted, PhaseStatusOngoing, PhaseStatusHold, PhaseStatusCanceled} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, PhaseStatus("").IsValid())
}
