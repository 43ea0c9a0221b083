package domain

import "time"

// UserRole enumerates privilege levels. Admin access is a role claim on the
// account, not a hard-coded operator list.
type UserRole string

const (
	UserRoleAttendee  UserRole = "ATTENDEE"
	UserRoleOrganizer UserRole = "ORGANIZER"
	UserRoleAdmin     UserRole = "ADMIN"
)

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for club members who register for events.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// CanManageEvents reports whether the user may create or administer events.
func (u *User) CanManageEvents() bool {
	return u.Role == UserRoleAdmin || u.Role == UserRoleOrganizer
}
