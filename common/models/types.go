package models

// Role represents a user's role in the four-tier hierarchy
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleLeader     Role = "LEADER"
	RoleEmployee   Role = "EMPLOYEE"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleLeader, RoleEmployee:
		return true
	}
	return false
}

// CanAssign reports whether an actor with this role may assign the target
// role to another user. Admins appoint supervisors only; supervisors appoint
// leaders and employees only.
func (r Role) CanAssign(target Role) bool {
	switch r {
	case RoleAdmin:
		return target == RoleSupervisor
	case RoleSupervisor:
		return target == RoleLeader || target == RoleEmployee
	}
	return false
}

// UserStatus represents a user's employment status
type UserStatus string

const (
	UserStatusWorking  UserStatus = "WORKING"
	UserStatusResigned UserStatus = "RESIGNED"
)

// IsValid checks if the user status is valid
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusWorking, UserStatusResigned:
		return true
	}
	return false
}

// TeamStatus represents the status of a team
type TeamStatus string

const (
	TeamStatusActive   TeamStatus = "ACTIVE"
	TeamStatusDeactive TeamStatus = "DEACTIVE"
)

// IsValid checks if the team status is valid
func (s TeamStatus) IsValid() bool {
	switch s {
	case TeamStatusActive, TeamStatusDeactive:
		return true
	}
	return false
}

// ProjectStatus represents the lifecycle status of a project
type ProjectStatus string

const (
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
	ProjectStatusOngoing   ProjectStatus = "ONGOING"
	ProjectStatusCanceled  ProjectStatus = "CANCELED"
	ProjectStatusHold      ProjectStatus = "HOLD"
)

// IsValid checks if the project status is valid
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusCompleted, ProjectStatusOngoing, ProjectStatusCanceled, ProjectStatusHold:
		return true
	}
	return false
}

// PhaseStatus represents the lifecycle status of a project phase
type PhaseStatus string

const (
	PhaseStatusCompleted PhaseStatus = "COMPLETED"
	PhaseStatusOngoing   PhaseStatus = "ONGOING"
	PhaseStatusHold      PhaseStatus = "HOLD"
	PhaseStatusCanceled  PhaseStatus = "CANCELED"
)

// IsValid checks if the phase status is valid
func (s PhaseStatus) IsValid() bool {
	switch s {
	case PhaseStatusCompleted, PhaseStatusOngoing, PhaseStatusHold, PhaseStatusCanceled:
		return true
	}
	return false
}
