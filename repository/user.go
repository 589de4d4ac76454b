package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/crewbase/backend/common/dto"
	"github.com/crewbase/backend/common/errors"
	"github.com/crewbase/backend/common/models"
)

// CreateUserInput carries the fields needed to provision an account.
type CreateUserInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
	FullName *string     `json:"full_name,omitempty"`
	Phone    string      `json:"phone"`
}

// CreateUser provisions an account under the acting user: the user row, an
// empty profile, and the reporting link (supervisor_employees or
// supervisor_admins depending on the new role) are written in one
// transaction. The role matrix is enforced before anything is stored.
func CreateUser(ctx context.Context, actorID uuid.UUID, actorRole models.Role, input CreateUserInput, bcryptCost int) (*models.User, error) {
	db := getPool()

	if !input.Role.IsValid() {
		return nil, errors.ValidationError("invalid role", map[string]string{"role": string(input.Role)})
	}
	if !actorRole.CanAssign(input.Role) {
		return nil, errors.New(errors.ErrRoleNotAssignable,
			fmt.Sprintf("%s may not create a %s account", actorRole, input.Role), 400)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}
	hashStr := string(hash)

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	user := models.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: &hashStr,
		Role:         input.Role,
		Status:       models.UserStatusWorking,
		AddedBy:      &actorID,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, role, status, added_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, user.ID, user.Email, hashStr, user.Role, user.Status, actorID).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.Conflict("user with this email already exists")
		}
		return nil, errors.Wrap(err, "failed to create user")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_profiles (id, user_id, full_name, phone)
		VALUES ($1, $2, $3, $4)
	`, uuid.New(), user.ID, input.FullName, input.Phone)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create user profile")
	}

	switch input.Role {
	case models.RoleSupervisor:
		_, err = tx.Exec(ctx, `
			INSERT INTO supervisor_admins (id, supervisor_id, admin_id)
			VALUES ($1, $2, $3)
		`, uuid.New(), user.ID, actorID)
	case models.RoleLeader, models.RoleEmployee:
		_, err = tx.Exec(ctx, `
			INSERT INTO supervisor_employees (id, supervisor_id, employee_id)
			VALUES ($1, $2, $3)
		`, uuid.New(), actorID, user.ID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to link user to creator")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	user.PasswordHash = nil
	return &user, nil
}

// FindUserByEmail loads a user for credential verification. This is the only
// read that selects the password hash.
func FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	db := getPool()

	var user models.User
	err := db.QueryRow(ctx, `
		SELECT id, email, password_hash, role, status, added_by, created_at, updated_at
		FROM users WHERE email = $1
	`, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.Status,
		&user.AddedBy, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("user")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user")
	}
	return &user, nil
}

// UpdateUserStatusRole updates a user's role and/or status. Omitted fields
// are left unchanged. A role change is validated against the actor's
// assignment matrix before the store is touched.
func UpdateUserStatusRole(ctx context.Context, actorRole models.Role, targetID uuid.UUID, role *models.Role, status *models.UserStatus) (*models.User, error) {
	db := getPool()

	if role != nil {
		if !role.IsValid() {
			return nil, errors.ValidationError("invalid role", map[string]string{"role": string(*role)})
		}
		if !actorRole.CanAssign(*role) {
			return nil, errors.New(errors.ErrRoleNotAssignable,
				fmt.Sprintf("%s may not assign role %s", actorRole, *role), 400)
		}
	}
	if status != nil && !status.IsValid() {
		return nil, errors.ValidationError("invalid status", map[string]string{"status": string(*status)})
	}

	var user models.User
	err := db.QueryRow(ctx, `
		UPDATE users
		SET role = COALESCE($1, role),
		    status = COALESCE($2, status),
		    updated_at = NOW()
		WHERE id = $3
		RETURNING id, email, role, status, added_by, created_at, updated_at
	`, role, status, targetID).Scan(
		&user.ID, &user.Email, &user.Role, &user.Status, &user.AddedBy,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("user")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to update user")
	}
	return &user, nil
}

// UserListItem is the flattened row shape for supervisor user listings.
type UserListItem struct {
	ID       uuid.UUID         `json:"id"`
	Email    string            `json:"email"`
	Name     *string           `json:"name"`
	Role     models.Role       `json:"role"`
	Status   models.UserStatus `json:"status"`
	Phone    *string           `json:"phone"`
	Image    *string           `json:"image"`
	TeamID   *uuid.UUID        `json:"teamId"`
	TeamName *string           `json:"teamName"`
}

// ListUsersUnderSupervisor returns the users reporting to a supervisor,
// joined with their profile and current team. teamFilter is "all" (no
// filter), "no-team" (users without a team link), or a team id.
func ListUsersUnderSupervisor(ctx context.Context, supervisorID uuid.UUID, p dto.PaginationParams, search, teamFilter string, status models.UserStatus) ([]UserListItem, int64, error) {
	db := getPool()

	if status != "" && !status.IsValid() {
		return nil, 0, errors.ValidationError("invalid user status", map[string]string{"status": string(status)})
	}

	base := `
		FROM supervisor_employees se
		JOIN users u ON u.id = se.employee_id
		LEFT JOIN user_profiles up ON up.user_id = u.id
		LEFT JOIN team_employees te ON te.employee_id = u.id
		LEFT JOIN teams t ON t.id = te.team_id`

	where := " WHERE se.supervisor_id = $1"
	args := []interface{}{supervisorID}

	if search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(" AND (u.email ILIKE $%d OR up.full_name ILIKE $%d)", len(args), len(args))
	}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(" AND u.status = $%d", len(args))
	}
	switch teamFilter {
	case "", "all":
	case "no-team":
		where += " AND te.id IS NULL"
	default:
		teamID, err := uuid.Parse(teamFilter)
		if err != nil {
			return nil, 0, errors.BadRequest("team filter must be 'all', 'no-team' or a team id")
		}
		args = append(args, teamID)
		where += fmt.Sprintf(" AND te.team_id = $%d", len(args))
	}

	var total int64
	if err := db.QueryRow(ctx, "SELECT COUNT(*)"+base+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count users")
	}

	listArgs := append(args, p.Limit, p.Offset())
	rows, err := db.Query(ctx, `
		SELECT u.id, u.email, up.full_name, u.role, u.status, up.phone, up.image,
		       te.team_id, t.name`+base+where+fmt.Sprintf(`
		ORDER BY u.created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2),
		listArgs...,
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list users")
	}
	defer rows.Close()

	items := make([]UserListItem, 0)
	for rows.Next() {
		var it UserListItem
		if err := rows.Scan(&it.ID, &it.Email, &it.Name, &it.Role, &it.Status,
			&it.Phone, &it.Image, &it.TeamID, &it.TeamName); err != nil {
			return nil, 0, errors.Wrap(err, "failed to scan user row")
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

// SupervisorListItem is the admin-side view of a supervisor.
type SupervisorListItem struct {
	ID     uuid.UUID         `json:"id"`
	Email  string            `json:"email"`
	Name   *string           `json:"name"`
	Status models.UserStatus `json:"status"`
	Phone  *string           `json:"phone"`
	Image  *string           `json:"image"`
}

// ListSupervisors returns the supervisors registered under an admin.
func ListSupervisors(ctx context.Context, adminID uuid.UUID, p dto.PaginationParams, search string) ([]SupervisorListItem, int64, error) {
	db := getPool()

	base := `
		FROM supervisor_admins sa
		JOIN users u ON u.id = sa.supervisor_id
		LEFT JOIN user_profiles up ON up.user_id = u.id`

	where := " WHERE sa.admin_id = $1"
	args := []interface{}{adminID}
	if search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(" AND (u.email ILIKE $%d OR up.full_name ILIKE $%d)", len(args), len(args))
	}

	var total int64
	if err := db.QueryRow(ctx, "SELECT COUNT(*)"+base+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count supervisors")
	}

	listArgs := append(args, p.Limit, p.Offset())
	rows, err := db.Query(ctx, `
		SELECT u.id, u.email, up.full_name, u.status, up.phone, up.image`+base+where+fmt.Sprintf(`
		ORDER BY u.created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2),
		listArgs...,
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list supervisors")
	}
	defer rows.Close()

	items := make([]SupervisorListItem, 0)
	for rows.Next() {
		var it SupervisorListItem
		if err := rows.Scan(&it.ID, &it.Email, &it.Name, &it.Status, &it.Phone, &it.Image); err != nil {
			return nil, 0, errors.Wrap(err, "failed to scan supervisor row")
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

// MyData is a user's own account joined with their profile.
type MyData struct {
	User    models.User         `json:"user"`
	Profile *models.UserProfile `json:"profile"`
}

// GetMyData returns the calling user's account and profile. The password
// hash is never selected.
func GetMyData(ctx context.Context, userID uuid.UUID) (*MyData, error) {
	db := getPool()

	var out MyData
	err := db.QueryRow(ctx, `
		SELECT id, email, role, status, added_by, created_at, updated_at
		FROM users WHERE id = $1
	`, userID).Scan(
		&out.User.ID, &out.User.Email, &out.User.Role, &out.User.Status,
		&out.User.AddedBy, &out.User.CreatedAt, &out.User.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("user")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user")
	}

	var p models.UserProfile
	err = db.QueryRow(ctx, `
		SELECT id, user_id, full_name, nickname, date_of_birth, phone, address, image
		FROM user_profiles WHERE user_id = $1
	`, userID).Scan(
		&p.ID, &p.UserID, &p.FullName, &p.Nickname, &p.DateOfBirth,
		&p.Phone, &p.Address, &p.Image,
	)
	if err == nil {
		out.Profile = &p
	} else if err != pgx.ErrNoRows {
		return nil, errors.Wrap(err, "failed to load profile")
	}

	return &out, nil
}
