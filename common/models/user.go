package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user in the system
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash *string    `json:"-" db:"password_hash"` // Never expose in JSON
	Role         Role       `json:"role" db:"role"`
	Status       UserStatus `json:"status" db:"status"`

	// AddedBy references the user that created this account.
	// Required for every role except ADMIN.
	AddedBy *uuid.UUID `json:"added_by,omitempty" db:"added_by"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UserProfile holds the 1:1 profile record for a user
type UserProfile struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	FullName    *string    `json:"full_name,omitempty" db:"full_name"`
	Nickname    *string    `json:"nickname,omitempty" db:"nickname"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Phone       string     `json:"phone" db:"phone"`
	Address     *string    `json:"address,omitempty" db:"address"`
	Image       string     `json:"image" db:"image"`
}
