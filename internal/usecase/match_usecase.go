package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/logger"
)

type matchUsecase struct {
	matchRepo     domain.MatchRepository
	appRepo       domain.ApplicationRepository
	jobRepo       domain.JobRepository
	candidateRepo domain.CandidateRepository
	employerRepo  domain.EmployerRepository
	mailer        domain.Mailer
	store         domain.FileStore
}

func NewMatchUsecase(
	matchRepo domain.MatchRepository,
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	candidateRepo domain.CandidateRepository,
	employerRepo domain.EmployerRepository,
	mailer domain.Mailer,
	store domain.FileStore,
) domain.MatchUsecase {
	return &matchUsecase{
		matchRepo:     matchRepo,
		appRepo:       appRepo,
		jobRepo:       jobRepo,
		candidateRepo: candidateRepo,
		employerRepo:  employerRepo,
		mailer:        mailer,
		store:         store,
	}
}

// resolveMatchMedia fills in signed URLs for the stored CV and video keys of
// employer-facing match rows.
func resolveMatchMedia(ctx context.Context, store domain.FileStore, matches []domain.MatchWithCandidate) {
	for i := range matches {
		m := &matches[i]
		if m.CVKey != nil && *m.CVKey != "" {
			if url, err := store.SignedURL(ctx, *m.CVKey, signedURLTTL); err == nil {
				m.CVURL = &url
			}
		}
		if m.VideoKey != nil && *m.VideoKey != "" {
			if url, err := store.SignedURL(ctx, *m.VideoKey, signedURLTTL); err == nil {
				m.VideoURL = &url
			}
		}
	}
}

func (u *matchUsecase) GetJobMatches(ctx context.Context, userID, jobID string) ([]domain.MatchWithCandidate, error) {
	employer, err := u.employerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Employer profile not found")
		}
		return nil, err
	}
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, err
	}
	if job.EmployerID != employer.ID {
		return nil, apperror.Forbidden("You do not own this job")
	}

	matches, err := u.matchRepo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	resolveMatchMedia(ctx, u.store, matches)
	return matches, nil
}

// shortlistableMatch loads the match context and verifies ownership and that
// the match is still pending. Shortlisted and rejected are terminal.
func (u *matchUsecase) shortlistableMatch(ctx context.Context, userID, matchID string) (*domain.ShortlistContext, error) {
	employer, err := u.employerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Employer profile not found")
		}
		return nil, err
	}
	sc, err := u.matchRepo.GetShortlistContext(ctx, matchID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Match not found")
		}
		return nil, err
	}
	if sc.JobEmployerID != employer.ID {
		return nil, apperror.Forbidden("You do not own this match")
	}
	switch sc.Status {
	case domain.MatchStatusShortlisted:
		return nil, apperror.Conflict("Match has already been shortlisted")
	case domain.MatchStatusRejected:
		return nil, apperror.Conflict("Match has already been rejected")
	}
	return sc, nil
}

func (u *matchUsecase) ShortlistMatch(ctx context.Context, userID, matchID string) (*domain.ShortlistResult, error) {
	sc, err := u.shortlistableMatch(ctx, userID, matchID)
	if err != nil {
		return nil, err
	}

	if err := u.matchRepo.UpdateStatus(ctx, sc.ID, domain.MatchStatusShortlisted); err != nil {
		return nil, err
	}
	match := sc.Match
	match.Status = domain.MatchStatusShortlisted

	// The decision is committed; the notification is best effort.
	emailSent := false
	if err := u.mailer.SendShortlistNotification(ctx, sc.CandidateEmail, sc.CandidateName, sc.JobTitle, sc.CompanyName, "en"); err != nil {
		logger.Log.Warn("shortlist notification failed", "match_id", sc.ID, "error", err)
	} else {
		emailSent = true
	}

	return &domain.ShortlistResult{Match: &match, EmailSent: emailSent}, nil
}

func (u *matchUsecase) RejectMatch(ctx context.Context, userID, matchID string) (*domain.Match, error) {
	sc, err := u.shortlistableMatch(ctx, userID, matchID)
	if err != nil {
		return nil, err
	}

	if err := u.matchRepo.UpdateStatus(ctx, sc.ID, domain.MatchStatusRejected); err != nil {
		return nil, err
	}
	match := sc.Match
	match.Status = domain.MatchStatusRejected
	return &match, nil
}

func (u *matchUsecase) ownedCandidate(ctx context.Context, userID string) (*domain.Candidate, error) {
	candidate, err := u.candidateRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Candidate profile not found")
		}
		return nil, err
	}
	return candidate, nil
}

func (u *matchUsecase) GetCandidateMatches(ctx context.Context, userID string) ([]domain.MatchWithJob, error) {
	candidate, err := u.ownedCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.matchRepo.ListByCandidate(ctx, candidate.ID)
}

// AddMatch records a candidate applying to a job: a pending match and an
// accepted application, atomically.
func (u *matchUsecase) AddMatch(ctx context.Context, userID, jobID string, score int, summary string) (*domain.Match, *domain.JobApplication, error) {
	candidate, err := u.ownedCandidate(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := u.jobRepo.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, apperror.NotFound("Job not found")
		}
		return nil, nil, err
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	match := &domain.Match{
		JobID:       jobID,
		CandidateID: candidate.ID,
		Score:       score,
		Summary:     summary,
		Status:      domain.MatchStatusPending,
	}
	app := &domain.JobApplication{
		JobID:       jobID,
		CandidateID: candidate.ID,
		Status:      domain.ApplicationStatusAccepted,
	}
	if err := u.matchRepo.CreateWithApplication(ctx, match, app); err != nil {
		if errors.Is(err, domain.ErrDuplicateMatch) {
			return nil, nil, apperror.Conflict("You have already applied to this job")
		}
		return nil, nil, err
	}
	return match, app, nil
}

func (u *matchUsecase) RejectJob(ctx context.Context, userID, jobID string) (*domain.JobApplication, error) {
	candidate, err := u.ownedCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := u.jobRepo.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, err
	}

	app := &domain.JobApplication{
		JobID:       jobID,
		CandidateID: candidate.ID,
		Status:      domain.ApplicationStatusRejected,
	}
	if err := u.appRepo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("reject job: %w", err)
	}
	return app, nil
}

// ListJobRecommendations returns jobs in the candidate's category they have
// not yet acted on. No category means no recommendations yet.
func (u *matchUsecase) ListJobRecommendations(ctx context.Context, userID string) ([]domain.JobWithEmployer, error) {
	candidate, err := u.ownedCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if candidate.Category == nil || *candidate.Category == "" {
		return []domain.JobWithEmployer{}, nil
	}
	return u.jobRepo.ListOpenForCandidate(ctx, candidate.Category, candidate.ID)
}
