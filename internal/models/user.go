package models

import "time"

type UserRole string

const (
	UserRoleStudent UserRole = "student"
	UserRoleAlumni  UserRole = "alumni"
	UserRoleStaff   UserRole = "staff"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleStudent, UserRoleAlumni, UserRoleStaff:
		return true
	}
	return false
}

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   []byte    `json:"-"`
	Role           UserRole  `json:"role"`
	FullName       string    `json:"fullName"`
	College        string    `json:"college"`
	GraduationYear *int      `json:"graduationYear"`
	Department     *string   `json:"department"`
	Company        *string   `json:"company"`
	Position       *string   `json:"position"`
	Location       *string   `json:"location"`
	Bio            *string   `json:"bio"`
	Avatar         *string   `json:"avatar"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UserSummary is the slice of a profile joined onto other records.
type UserSummary struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	FullName       string   `json:"fullName"`
	Role           UserRole `json:"role"`
	College        string   `json:"college"`
	Company        *string  `json:"company,omitempty"`
	Position       *string  `json:"position,omitempty"`
	Department     *string  `json:"department,omitempty"`
	GraduationYear *int     `json:"graduationYear,omitempty"`
	Avatar         *string  `json:"avatar,omitempty"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		FullName:       u.FullName,
		Role:           u.Role,
		College:        u.College,
		Company:        u.Company,
		Position:       u.Position,
		Department:     u.Department,
		GraduationYear: u.GraduationYear,
		Avatar:         u.Avatar,
	}
}

type UserFilter struct {
	Role    UserRole
	College string
}

type AlumniFilter struct {
	Company string
	Field   string
}

// ProfileUpdate holds the mutable profile fields; nil means unchanged.
type ProfileUpdate struct {
	FullName       *string
	GraduationYear *int
	Department     *string
	Company        *string
	Position       *string
	Location       *string
	Bio            *string
}

type Session struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	IPAddress  string    `json:"ipAddress"`
	UserAgent  string    `json:"userAgent"`
	CreatedAt  time.Time `json:"createdAt"`
	LastSeenAt time.Time `json:"lastSeenAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
