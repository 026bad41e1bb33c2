package domain

import (
	"context"
	"time"
)

type Employer struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	CompanyName      string    `json:"company_name"`
	City             *string   `json:"city"`
	ProfileCompleted bool      `json:"profile_completed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MatchAnalytics aggregates match counts by status across an employer's jobs.
type MatchAnalytics struct {
	Total       int64 `json:"total"`
	Pending     int64 `json:"pending"`
	Shortlisted int64 `json:"shortlisted"`
	Rejected    int64 `json:"rejected"`
}

/// EmployerDashboard is the employer landing view: match counters, the
// employer's jobs and the pending matches awaiting a decision.
type EmployerDashboard struct {
	Analytics MatchAnalytics       `json:"analytics"`
	Jobs      []JobWithProfile     `json:"jobs"`
	Matches   []MatchWithCandidate `json:"matches"`
}

type EmployerRepository interface {
	Create(ctx context.Context, employer *Employer) error
	GetByUserID(ctx context.Context, userID string) (*Employer, error)
	Update(ctx context.Context, employer *Employer) error
}

type EmployerUsecase interface {
	GetProfile(ctx context.Context, userID string) (*Employer, error)
	UpdateProfile(ctx context.Context, userID string, companyName, city *string) (*Employer, error)
	GetDashboard(ctx context.Context, userID string) (*EmployerDashboard, error)
}
