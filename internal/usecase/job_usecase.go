package usecase

import (
	"context"
	"errors"
	"time"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/logger"
)

type jobUsecase struct {
	jobRepo      domain.JobRepository
	employerRepo domain.EmployerRepository
	ai           domain.AIService
	matcher      domain.MatcherUsecase
	sweepTimeout time.Duration
}

func NewJobUsecase(
	jobRepo domain.JobRepository,
	employerRepo domain.EmployerRepository,
	ai domain.AIService,
	matcher domain.MatcherUsecase,
	sweepTimeout time.Duration,
) domain.JobUsecase {
	return &jobUsecase{
		jobRepo:      jobRepo,
		employerRepo: employerRepo,
		ai:           ai,
		matcher:      matcher,
		sweepTimeout: sweepTimeout,
	}
}

func validWorkType(workType string) bool {
	switch workType {
	case domain.WorkTypeRemote, domain.WorkTypeHybrid, domain.WorkTypeOnsite:
		return true
	}
	return false
}

func (u *jobUsecase) ownedEmployer(ctx context.Context, userID string) (*domain.Employer, error) {
	employer, err := u.employerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Employer profile not found")
		}
		return nil, err
	}
	return employer, nil
}

func (u *jobUsecase) CreateJob(ctx context.Context, userID string, job *domain.Job) (*domain.JobMutationResult, error) {
	employer, err := u.ownedEmployer(ctx, userID)
	if err != nil {
		return nil, err
	}

	if job.Title == "" {
		return nil, apperror.BadRequest("Title is required")
	}
	if job.Description == "" {
		return nil, apperror.BadRequest("Description is required")
	}
	if job.RequiredYears != nil && *job.RequiredYears < 0 {
		return nil, apperror.BadRequest("Required years cannot be negative")
	}
	if !validWorkType(job.WorkType) {
		return nil, apperror.BadRequest("Work type must be one of remote, hybrid or onsite")
	}

	job.EmployerID = employer.ID
	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	result := &domain.JobMutationResult{Job: &domain.JobWithProfile{Job: *job}}
	result.Job.Profile, result.Warning = u.deriveProfile(ctx, job)

	u.triggerSweep(job.ID)
	return result, nil
}

// deriveProfile asks the model to structure the posting. A failure degrades
// the job to basic-field matching instead of failing the write.
func (u *jobUsecase) deriveProfile(ctx context.Context, job *domain.Job) (*domain.JobProfile, string) {
	text := job.Description
	if job.Requirements != "" {
		text += "\n\n" + job.Requirements
	}
	facts, err := u.ai.ExtractJobFacts(ctx, text)
	if err != nil {
		logger.Log.Warn("job description analysis failed", "job_id", job.ID, "error", err)
		return nil, "Job saved but description analysis failed; matching will use basic fields only"
	}

	profile := &domain.JobProfile{
		JobID:   job.ID,
		Skills:  facts.Skills,
		Summary: facts.Summary,
	}
	if err := u.jobRepo.UpsertProfile(ctx, profile); err != nil {
		logger.Log.Warn("job profile write failed", "job_id", job.ID, "error", err)
		return nil, "Job saved but description analysis failed; matching will use basic fields only"
	}
	return profile, ""
}

func (u *jobUsecase) ownedJob(ctx context.Context, userID, jobID string) (*domain.Job, *domain.Employer, error) {
	employer, err := u.ownedEmployer(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, apperror.NotFound("Job not found")
		}
		return nil, nil, err
	}
	if job.EmployerID != employer.ID {
		return nil, nil, apperror.Forbidden("You do not own this job")
	}
	return job, employer, nil
}

func (u *jobUsecase) GetJob(ctx context.Context, userID, jobID string) (*domain.JobWithProfile, error) {
	job, _, err := u.ownedJob(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}

	result := &domain.JobWithProfile{Job: *job}
	profile, err := u.jobRepo.GetProfile(ctx, jobID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	result.Profile = profile
	return result, nil
}

func (u *jobUsecase) ListMyJobs(ctx context.Context, userID string) ([]domain.JobWithProfile, error) {
	employer, err := u.ownedEmployer(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.jobRepo.FetchByEmployer(ctx, employer.ID)
}

func (u *jobUsecase) UpdateJob(ctx context.Context, userID string, job *domain.Job) (*domain.JobMutationResult, error) {
	existing, _, err := u.ownedJob(ctx, userID, job.ID)
	if err != nil {
		return nil, err
	}

	if job.Title == "" {
		return nil, apperror.BadRequest("Title is required")
	}
	if job.Description == "" {
		return nil, apperror.BadRequest("Description is required")
	}
	if job.RequiredYears != nil && *job.RequiredYears < 0 {
		return nil, apperror.BadRequest("Required years cannot be negative")
	}
	if !validWorkType(job.WorkType) {
		return nil, apperror.BadRequest("Work type must be one of remote, hybrid or onsite")
	}

	descriptionChanged := existing.Description != job.Description ||
		existing.Requirements != job.Requirements

	job.EmployerID = existing.EmployerID
	job.CreatedAt = existing.CreatedAt
	if err := u.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}

	result := &domain.JobMutationResult{Job: &domain.JobWithProfile{Job: *job}}
	if descriptionChanged {
		result.Job.Profile, result.Warning = u.deriveProfile(ctx, job)
		u.triggerSweep(job.ID)
	} else {
		profile, err := u.jobRepo.GetProfile(ctx, job.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		result.Job.Profile = profile
	}
	return result, nil
}

func (u *jobUsecase) DeleteJob(ctx context.Context, userID, jobID string) error {
	job, _, err := u.ownedJob(ctx, userID, jobID)
	if err != nil {
		return err
	}
	return u.jobRepo.Delete(ctx, job.ID)
}

func (u *jobUsecase) triggerSweep(jobID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), u.sweepTimeout)
		defer cancel()
		if _, err := u.matcher.MatchJobToCandidates(ctx, jobID); err != nil {
			logger.Log.Error("job match sweep failed", "job_id", jobID, "error", err)
		}
	}()
}
