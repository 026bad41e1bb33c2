package domain

import (
	"context"
	"time"
)

// Match status values. A match starts pending; shortlisted and rejected are
// terminal.
const (
	MatchStatusPending     = "pending"
	MatchStatusShortlisted = "shortlisted"
	MatchStatusRejected    = "rejected"
)

// JobApplication status values
const (
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

// Match is a scored pairing of one job and one candidate. At most one exists
// per (job_id, candidate_id); the database unique index is the authority.
type Match struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	CandidateID string    `json:"candidate_id"`
	Score       int       `json:"match_score"`
	Summary     string    `json:"match_summary"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JobApplication records a candidate's own disposition toward a job,
// independent of any match score. Any application, accepted or rejected,
// removes the job from that candidate's future recommendations.
type JobApplication struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	CandidateID string    `json:"candidate_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MatchWithCandidate is the employer-facing match row with candidate context.
// CVKey/VideoKey are storage keys; the usecase resolves them to signed URLs.
type MatchWithCandidate struct {
	Match
	CandidateName   string   `json:"candidate_name"`
	ExperienceYears *int     `json:"experience_years"`
	Category        *string  `json:"category"`
	TopSkills       []string `json:"top_skills"`
	CVKey           *string  `json:"-"`
	VideoKey        *string  `json:"-"`
	CVURL           *string  `json:"cv_url"`
	VideoURL        *string  `json:"video_url"`
}

// MatchWithJob is the candidate-facing match row with job context.
type MatchWithJob struct {
	Match
	JobTitle    string  `json:"job_title"`
	CompanyName string  `json:"company_name"`
	JobCategory *string `json:"job_category"`
	JobSummary  *string `json:"job_summary"`
}

// ShortlistContext is everything the shortlist transition needs in one read:
// the match, the owning employer for the authorization check, and the
// notification payload.
type ShortlistContext struct {
	Match
	JobEmployerID  string `json:"-"`
	JobTitle       string `json:"job_title"`
	CompanyName    string `json:"company_name"`
	CandidateName  string `json:"candidate_name"`
	CandidateEmail string `json:"-"`
}

// ShortlistResult reports the transition and whether the best-effort
// notification went out.
type ShortlistResult struct {
	Match     *Match `json:"match"`
	EmailSent bool   `json:"email_sent"`
}

type MatchRepository interface {
	// Create inserts a pending match. Returns ErrDuplicateMatch when the
	// (job_id, candidate_id) unique index rejects the row.
	Create(ctx context.Context, match *Match) error
	// CreateWithApplication inserts the match and the accepted application
	// in a single transaction: both rows or neither.
	CreateWithApplication(ctx context.Context, match *Match, app *JobApplication) error
	GetByID(ctx context.Context, id string) (*Match, error)
	GetShortlistContext(ctx context.Context, id string) (*ShortlistContext, error)
	Exists(ctx context.Context, jobID, candidateID string) (bool, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ListByJob(ctx context.Context, jobID string) ([]MatchWithCandidate, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]MatchWithJob, error)
	CountByStatusForEmployer(ctx context.Context, employerID string) (*MatchAnalytics, error)
	ListPendingForEmployer(ctx context.Context, employerID string) ([]MatchWithCandidate, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *JobApplication) error
	ListByCandidate(ctx context.Context, candidateID string) ([]JobApplication, error)
}

type MatchUsecase interface {
	// Employer operations
	GetJobMatches(ctx context.Context, userID, jobID string) ([]MatchWithCandidate, error)
	ShortlistMatch(ctx context.Context, userID, matchID string) (*ShortlistResult, error)
	RejectMatch(ctx context.Context, userID, matchID string) (*Match, error)

	// Candidate operations
	GetCandidateMatches(ctx context.Context, userID string) ([]MatchWithJob, error)
	AddMatch(ctx context.Context, userID, jobID string, score int, summary string) (*Match, *JobApplication, error)
	RejectJob(ctx context.Context, userID, jobID string) (*JobApplication, error)
	ListJobRecommendations(ctx context.Context, userID string) ([]JobWithEmployer, error)
}

// MatcherUsecase runs the batch scoring sweeps. Sweeps are idempotent and run
// out-of-band from the job or candidate write that triggered them.
type MatcherUsecase interface {
	MatchJobToCandidates(ctx context.Context, jobID string) ([]Match, error)
	MatchCandidateToJobs(ctx context.Context, candidateID string) ([]Match, error)
}
