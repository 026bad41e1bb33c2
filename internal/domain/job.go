package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrDuplicateMatch = errors.New("match already exists for this job and candidate")
)

// Work type values
const (
	WorkTypeRemote = "remote"
	WorkTypeHybrid = "hybrid"
	WorkTypeOnsite = "onsite"
)

type Job struct {
	ID             string    `json:"id"`
	EmployerID     string    `json:"employer_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       *string   `json:"category"`
	RequiredYears  *int      `json:"required_years"`
	RequiredSkills []string  `json:"required_skills"`
	SalaryRange    *string   `json:"salary_range"`
	Requirements   string    `json:"requirements"`
	WorkType       string    `json:"work_type"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// JobProfile is the AI-derived view of a Job. Derivation is best-effort:
// a Job may exist without one.
type JobProfile struct {
	ID        string    `json:"id"`
	JobID     string    `json:"job_id"`
	Skills    []string  `json:"skills"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type JobWithProfile struct {
	Job
	Profile *JobProfile `json:"profile,omitempty"`
}

// JobWithEmployer extends Job with the posting company, for candidate-facing
// listings.
type JobWithEmployer struct {
	Job
	CompanyName string `json:"company_name"`
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	FetchByEmployer(ctx context.Context, employerID string) ([]JobWithProfile, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id string) error

	GetProfile(ctx context.Context, jobID string) (*JobProfile, error)
	UpsertProfile(ctx context.Context, profile *JobProfile) error

	// ListEligibleByCategory returns jobs that have a derived profile,
	// filtered by category when one is given.
	ListEligibleByCategory(ctx context.Context, category *string) ([]JobWithProfile, error)

	// ListOpenForCandidate returns jobs in the candidate's category that the
	// candidate has no JobApplication for, accepted or rejected.
	ListOpenForCandidate(ctx context.Context, category *string, candidateID string) ([]JobWithEmployer, error)
}

// JobMutationResult reports the job write plus a warning when the profile
// derivation degraded.
type JobMutationResult struct {
	Job     *JobWithProfile `json:"job"`
	Warning string          `json:"warning,omitempty"`
}

type JobUsecase interface {
	CreateJob(ctx context.Context, userID string, job *Job) (*JobMutationResult, error)
	GetJob(ctx context.Context, userID, jobID string) (*JobWithProfile, error)
	ListMyJobs(ctx context.Context, userID string) ([]JobWithProfile, error)
	UpdateJob(ctx context.Context, userID string, job *Job) (*JobMutationResult, error)
	DeleteJob(ctx context.Context, userID, jobID string) error
}
