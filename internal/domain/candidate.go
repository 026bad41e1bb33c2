package domain

import (
	"context"
	"time"
)

type Candidate struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Name              string    `json:"name"`
	City              *string   `json:"city"`
	ExperienceYears   *int      `json:"experience_years"`
	Category          *string   `json:"category"`
	SalaryExpectation *float64  `json:"salary_expectation"`
	CVKey             *string   `json:"-"`
	VideoKey          *string   `json:"-"`
	ProfileImageKey   *string   `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CandidateProfile is the AI-derived enrichment of a Candidate. Created empty
// on role assignment and overwritten by profile updates or a CV parse.
type CandidateProfile struct {
	ID          string    `json:"id"`
	CandidateID string    `json:"candidate_id"`
	Skills      []string  `json:"skills"`
	Languages   []string  `json:"languages"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CandidateEducation struct {
	ID          string     `json:"id"`
	CandidateID string     `json:"candidate_id"`
	SchoolName  string     `json:"school_name"`
	Degree      *string    `json:"degree"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Location    *string    `json:"location"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CandidateExperience struct {
	ID          string     `json:"id"`
	CandidateID string     `json:"candidate_id"`
	Title       string     `json:"title"`
	CompanyName *string    `json:"company_name"`
	Department  *string    `json:"department"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Location    *string    `json:"location"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CandidateWithProfile pairs a candidate with their derived profile for the
// batch matching sweep. Only candidates that have a profile row qualify.
type CandidateWithProfile struct {
	Candidate
	Profile CandidateProfile `json:"profile"`
}

// CandidateDetail is the full candidate view returned to the owner, with
// storage keys resolved to time-limited signed URLs.
type CandidateDetail struct {
	Candidate
	Profile          *CandidateProfile     `json:"profile,omitempty"`
	Educations       []CandidateEducation  `json:"educations"`
	Experiences      []CandidateExperience `json:"experiences"`
	ProfileCompleted bool                  `json:"profile_completed"`
	CVURL            *string               `json:"cv_url"`
	VideoURL         *string               `json:"video_url"`
	ProfileImageURL  *string               `json:"profile_image_url"`
}

// FileUpload is an in-memory uploaded file.
type FileUpload struct {
	Data        []byte
	ContentType string
	Filename    string
}

// CandidateProfileUpdate carries a partial profile update. Nil fields are
// left untouched.
type CandidateProfileUpdate struct {
	Name              *string
	City              *string
	ExperienceYears   *int
	Category          *string
	SalaryExpectation *float64
	Skills            []string
	Languages         []string
	Summary           *string
	CountryCode       *string
	MobileNumber      *string
	ProfileImage      *FileUpload
	CV                *FileUpload
	Video             *FileUpload
}

type CandidateRepository interface {
	Create(ctx context.Context, candidate *Candidate) error
	GetByID(ctx context.Context, id string) (*Candidate, error)
	GetByUserID(ctx context.Context, userID string) (*Candidate, error)
	Update(ctx context.Context, candidate *Candidate) error

	GetProfile(ctx context.Context, candidateID string) (*CandidateProfile, error)
	UpsertProfile(ctx context.Context, profile *CandidateProfile) error

	// ListEligibleByCategory returns candidates with a derived profile,
	// filtered by category when one is given.
	ListEligibleByCategory(ctx context.Context, category *string) ([]CandidateWithProfile, error)

	ListEducations(ctx context.Context, candidateID string) ([]CandidateEducation, error)
	CreateEducation(ctx context.Context, edu *CandidateEducation) error
	GetEducation(ctx context.Context, id string) (*CandidateEducation, error)
	UpdateEducation(ctx context.Context, edu *CandidateEducation) error
	DeleteEducation(ctx context.Context, id string) error

	ListExperiences(ctx context.Context, candidateID string) ([]CandidateExperience, error)
	CreateExperience(ctx context.Context, exp *CandidateExperience) error
	GetExperience(ctx context.Context, id string) (*CandidateExperience, error)
	UpdateExperience(ctx context.Context, exp *CandidateExperience) error
	DeleteExperience(ctx context.Context, id string) error
}

// ProfileUpdateResult reports a profile write plus any non-fatal degradation
// (e.g. the CV parse failing) as a warning instead of hiding it.
type ProfileUpdateResult struct {
	Candidate        *CandidateDetail `json:"candidate"`
	ProfileCompleted bool             `json:"profile_completed"`
	Warning          string           `json:"warning,omitempty"`
}

type CandidateUsecase interface {
	GetProfile(ctx context.Context, userID string) (*CandidateDetail, error)
	UpdateProfile(ctx context.Context, userID string, update *CandidateProfileUpdate) (*ProfileUpdateResult, error)

	AddEducation(ctx context.Context, userID string, edu *CandidateEducation) error
	UpdateEducation(ctx context.Context, userID string, edu *CandidateEducation) error
	DeleteEducation(ctx context.Context, userID, educationID string) error

	AddExperience(ctx context.Context, userID string, exp *CandidateExperience) error
	UpdateExperience(ctx context.Context, userID string, exp *CandidateExperience) error
	DeleteExperience(ctx context.Context, userID, experienceID string) error
}
