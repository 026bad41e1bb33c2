package domain

import (
	"context"
	"time"
)

// External capabilities consumed by the usecases. Concrete clients live in
// pkg/ and are injected at construction so tests can substitute fakes.

// ExtractedProfile is the structured result of parsing a CV.
type ExtractedProfile struct {
	Skills    []string `json:"skills"`
	Languages []string `json:"languages"`
	Summary   string   `json:"summary"`
}

// JobFacts is the structured result of parsing a job description.
type JobFacts struct {
	Skills  []string `json:"skills"`
	Summary string   `json:"summary"`
}

// CandidateFacts is the candidate side of a scoring request. Absent fields
// stay nil/empty and are rendered as "not specified" by the scorer.
type CandidateFacts struct {
	Skills          []string
	Languages       []string
	Summary         string
	ExperienceYears *int
}

// JobRequirements is the job side of a scoring request.
type JobRequirements struct {
	Skills        []string
	Summary       string
	RequiredYears *int
}

// MatchResult is a clamped score in [0,100] with a one-line rationale.
type MatchResult struct {
	Score   int    `json:"match_score"`
	Summary string `json:"match_summary"`
}

// AIService is the text-structuring and scoring capability.
type AIService interface {
	ExtractProfile(ctx context.Context, cvText string) (*ExtractedProfile, error)
	ExtractJobFacts(ctx context.Context, description string) (*JobFacts, error)
	ScoreMatch(ctx context.Context, candidate CandidateFacts, job JobRequirements) (*MatchResult, error)
}

// Mailer is the outbound notification capability. Failures are reported to
// the caller, never propagated as operation failures.
type Mailer interface {
	SendShortlistNotification(ctx context.Context, to, candidateName, jobTitle, companyName, locale string) error
	SendVerificationEmail(ctx context.Context, to, verifyURL string) error
}

// FileStore is the private blob storage capability.
type FileStore interface {
	// Upload stores the bytes privately under folder/ownerID and returns the
	// object key to persist.
	Upload(ctx context.Context, file *FileUpload, folder, ownerID string) (string, error)
	// SignedURL returns a time-limited read URL for a stored key.
	SignedURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
