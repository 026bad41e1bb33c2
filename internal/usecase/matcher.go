package usecase

import (
	"context"
	"errors"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/logger"
)

// matcherUsecase runs the batch scoring sweeps. A sweep visits every
// eligible counterpart in the same category (every counterpart when no
// category is set), skips pairs that already have a match, and records
// pending matches for the rest. Sweeps are idempotent: re-running one
// creates nothing new.
type matcherUsecase struct {
	matchRepo     domain.MatchRepository
	jobRepo       domain.JobRepository
	candidateRepo domain.CandidateRepository
	ai            domain.AIService
	maxPairs      int
}

func NewMatcherUsecase(
	matchRepo domain.MatchRepository,
	jobRepo domain.JobRepository,
	candidateRepo domain.CandidateRepository,
	ai domain.AIService,
	maxPairs int,
) domain.MatcherUsecase {
	return &matcherUsecase{
		matchRepo:     matchRepo,
		jobRepo:       jobRepo,
		candidateRepo: candidateRepo,
		ai:            ai,
		maxPairs:      maxPairs,
	}
}

func (u *matcherUsecase) MatchJobToCandidates(ctx context.Context, jobID string) ([]domain.Match, error) {
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	profile, err := u.jobRepo.GetProfile(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Log.Info("match sweep skipped, job has no derived profile", "job_id", jobID)
			return nil, nil
		}
		return nil, err
	}

	candidates, err := u.candidateRepo.ListEligibleByCategory(ctx, categoryFilter(job.Category))
	if err != nil {
		return nil, err
	}
	if len(candidates) > u.maxPairs {
		candidates = candidates[:u.maxPairs]
	}

	requirements := domain.JobRequirements{
		Skills:        profile.Skills,
		Summary:       profile.Summary,
		RequiredYears: job.RequiredYears,
	}

	var created []domain.Match
	for i := range candidates {
		c := &candidates[i]
		if err := ctx.Err(); err != nil {
			return created, err
		}

		match, err := u.scorePair(ctx, job.ID, c.ID, domain.CandidateFacts{
			Skills:          c.Profile.Skills,
			Languages:       c.Profile.Languages,
			Summary:         c.Profile.Summary,
			ExperienceYears: c.ExperienceYears,
		}, requirements)
		if err != nil {
			logger.Log.Warn("pair scoring failed", "job_id", job.ID, "candidate_id", c.ID, "error", err)
			continue
		}
		if match != nil {
			created = append(created, *match)
		}
	}
	return created, nil
}

func (u *matcherUsecase) MatchCandidateToJobs(ctx context.Context, candidateID string) ([]domain.Match, error) {
	candidate, err := u.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	profile, err := u.candidateRepo.GetProfile(ctx, candidateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Log.Info("match sweep skipped, candidate has no derived profile", "candidate_id", candidateID)
			return nil, nil
		}
		return nil, err
	}

	jobs, err := u.jobRepo.ListEligibleByCategory(ctx, categoryFilter(candidate.Category))
	if err != nil {
		return nil, err
	}
	if len(jobs) > u.maxPairs {
		jobs = jobs[:u.maxPairs]
	}

	facts := domain.CandidateFacts{
		Skills:          profile.Skills,
		Languages:       profile.Languages,
		Summary:         profile.Summary,
		ExperienceYears: candidate.ExperienceYears,
	}

	var created []domain.Match
	for i := range jobs {
		j := &jobs[i]
		if err := ctx.Err(); err != nil {
			return created, err
		}
		if j.Profile == nil {
			continue
		}

		match, err := u.scorePair(ctx, j.ID, candidate.ID, facts, domain.JobRequirements{
			Skills:        j.Profile.Skills,
			Summary:       j.Profile.Summary,
			RequiredYears: j.RequiredYears,
		})
		if err != nil {
			logger.Log.Warn("pair scoring failed", "job_id", j.ID, "candidate_id", candidate.ID, "error", err)
			continue
		}
		if match != nil {
			created = append(created, *match)
		}
	}
	return created, nil
}

// categoryFilter normalizes an unset category to nil, which the repositories
// read as "no category restriction".
func categoryFilter(category *string) *string {
	if category == nil || *category == "" {
		return nil
	}
	return category
}

// scorePair scores one (job, candidate) pair and stores a pending match.
// Returns (nil, nil) when the pair is already matched: the Exists check is a
// cheap pre-filter, the unique index catches the race.
func (u *matcherUsecase) scorePair(ctx context.Context, jobID, candidateID string, facts domain.CandidateFacts, requirements domain.JobRequirements) (*domain.Match, error) {
	exists, err := u.matchRepo.Exists(ctx, jobID, candidateID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	result, err := u.ai.ScoreMatch(ctx, facts, requirements)
	if err != nil {
		return nil, err
	}

	match := &domain.Match{
		JobID:       jobID,
		CandidateID: candidateID,
		Score:       result.Score,
		Summary:     result.Summary,
		Status:      domain.MatchStatusPending,
	}
	if err := u.matchRepo.Create(ctx, match); err != nil {
		if errors.Is(err, domain.ErrDuplicateMatch) {
			return nil, nil
		}
		return nil, err
	}
	return match, nil
}
