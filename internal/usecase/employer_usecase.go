package usecase

import (
	"context"
	"errors"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
)

type employerUsecase struct {
	employerRepo domain.EmployerRepository
	userRepo     domain.UserRepository
	jobRepo      domain.JobRepository
	matchRepo    domain.MatchRepository
	store        domain.FileStore
}

func NewEmployerUsecase(
	employerRepo domain.EmployerRepository,
	userRepo domain.UserRepository,
	jobRepo domain.JobRepository,
	matchRepo domain.MatchRepository,
	store domain.FileStore,
) domain.EmployerUsecase {
	return &employerUsecase{
		employerRepo: employerRepo,
		userRepo:     userRepo,
		jobRepo:      jobRepo,
		matchRepo:    matchRepo,
		store:        store,
	}
}

func (u *employerUsecase) ownedEmployer(ctx context.Context, userID string) (*domain.Employer, error) {
	employer, err := u.employerRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Employer profile not found")
		}
		return nil, err
	}
	return employer, nil
}

func (u *employerUsecase) GetProfile(ctx context.Context, userID string) (*domain.Employer, error) {
	employer, err := u.ownedEmployer(ctx, userID)
	if err != nil {
		return nil, err
	}
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	employer.ProfileCompleted = user.ProfileCompleted
	return employer, nil
}

func (u *employerUsecase) UpdateProfile(ctx context.Context, userID string, companyName, city *string) (*domain.Employer, error) {
	employer, err := u.ownedEmployer(ctx, userID)
	if err != nil {
		return nil, err
	}
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if companyName != nil {
		employer.CompanyName = *companyName
	}
	if city != nil {
		employer.City = city
	}
	if err := u.employerRepo.Update(ctx, employer); err != nil {
		return nil, err
	}

	completed := employerComplete(employer)
	if user.ProfileCompleted != completed {
		user.ProfileCompleted = completed
		if err := u.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	employer.ProfileCompleted = completed
	return employer, nil
}

func employerComplete(e *domain.Employer) bool {
	return e.CompanyName != "" && e.City != nil && *e.City != ""
}

func (u *employerUsecase) GetDashboard(ctx context.Context, userID string) (*domain.EmployerDashboard, error) {
	employer, err := u.ownedEmployer(ctx, userID)
	if err != nil {
		return nil, err
	}

	analytics, err := u.matchRepo.CountByStatusForEmployer(ctx, employer.ID)
	if err != nil {
		return nil, err
	}
	jobs, err := u.jobRepo.FetchByEmployer(ctx, employer.ID)
	if err != nil {
		return nil, err
	}
	matches, err := u.matchRepo.ListPendingForEmployer(ctx, employer.ID)
	if err != nil {
		return nil, err
	}
	resolveMatchMedia(ctx, u.store, matches)

	return &domain.EmployerDashboard{
		Analytics: *analytics,
		Jobs:      jobs,
		Matches:   matches,
	}, nil
}
