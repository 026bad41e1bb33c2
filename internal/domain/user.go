package domain

import (
	"context"
	"time"
)

// User roles
const (
	RoleCandidate = "candidate"
	RoleEmployer  = "employer"
)

type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	Role              *string   `json:"role"` // nil until assigned
	RoleAdded         bool      `json:"role_added"`
	ProfileCompleted  bool      `json:"profile_completed"`
	IsVerified        bool      `json:"is_verified"`
	VerificationToken *string   `json:"-"`
	CountryCode       string    `json:"country_code"`
	MobileNumber      string    `json:"mobile_number"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// RoleName returns the assigned role or the empty string.
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return *u.Role
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByVerificationToken(ctx context.Context, token string) (*User, error)
	Update(ctx context.Context, user *User) error
	// Delete removes the user row. Candidate/Employer rows and all of their
	// matches, applications, educations and experiences go with it through
	// the ON DELETE CASCADE foreign keys declared in the migrations.
	Delete(ctx context.Context, id string) error
}

// AuthResult is returned by operations that (re-)issue a token.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Me aggregates the authenticated user with their role-specific records.
type Me struct {
	User      *User            `json:"user"`
	Candidate *CandidateDetail `json:"candidate,omitempty"`
	Employer  *Employer        `json:"employer,omitempty"`
}

type AuthUsecase interface {
	Register(ctx context.Context, email, password, countryCode, mobileNumber string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetMe(ctx context.Context, userID string) (*Me, error)
	GetCurrentUser(ctx context.Context, userID string) (*User, error)
	AssignRole(ctx context.Context, userID, role string) (*AuthResult, error)
	UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	RequestVerification(ctx context.Context, userID string) error
	VerifyEmail(ctx context.Context, token string) error
	DeleteAccount(ctx context.Context, userID string) error
}
