package usecase_test

import (
	"context"
	"testing"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestEmployerUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("filling both fields marks the profile complete", func(t *testing.T) {
		employerRepo := new(MockEmployerRepo)
		userRepo := new(MockUserRepo)

		employerRepo.On("GetByUserID", ctx, "user1").Return(&domain.Employer{ID: "emp1", UserID: "user1"}, nil)
		userRepo.On("GetByID", ctx, "user1").Return(&domain.User{ID: "user1"}, nil)
		employerRepo.On("Update", ctx, mock.Anything).Return(nil)
		userRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.ProfileCompleted
		})).Return(nil)

		uc := usecase.NewEmployerUsecase(employerRepo, userRepo, new(MockJobRepo), new(MockMatchRepo), new(MockFileStore))
		employer, err := uc.UpdateProfile(ctx, "user1", strPtr("Acme BV"), strPtr("Amsterdam"))

		assert.NoError(t, err)
		assert.True(t, employer.ProfileCompleted)
		userRepo.AssertExpectations(t)
	})

	t.Run("clearing the company name revokes completion", func(t *testing.T) {
		employerRepo := new(MockEmployerRepo)
		userRepo := new(MockUserRepo)

		employerRepo.On("GetByUserID", ctx, "user1").Return(&domain.Employer{
			ID: "emp1", UserID: "user1", CompanyName: "Acme BV", City: strPtr("Amsterdam"),
		}, nil)
		userRepo.On("GetByID", ctx, "user1").Return(&domain.User{ID: "user1", ProfileCompleted: true}, nil)
		employerRepo.On("Update", ctx, mock.Anything).Return(nil)
		userRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return !u.ProfileCompleted
		})).Return(nil)

		uc := usecase.NewEmployerUsecase(employerRepo, userRepo, new(MockJobRepo), new(MockMatchRepo), new(MockFileStore))
		employer, err := uc.UpdateProfile(ctx, "user1", strPtr(""), nil)

		assert.NoError(t, err)
		assert.False(t, employer.ProfileCompleted)
		userRepo.AssertExpectations(t)
	})

	t.Run("unchanged completion skips the user write", func(t *testing.T) {
		employerRepo := new(MockEmployerRepo)
		userRepo := new(MockUserRepo)

		employerRepo.On("GetByUserID", ctx, "user1").Return(&domain.Employer{ID: "emp1", UserID: "user1"}, nil)
		userRepo.On("GetByID", ctx, "user1").Return(&domain.User{ID: "user1"}, nil)
		employerRepo.On("Update", ctx, mock.Anything).Return(nil)

		uc := usecase.NewEmployerUsecase(employerRepo, userRepo, new(MockJobRepo), new(MockMatchRepo), new(MockFileStore))
		_, err := uc.UpdateProfile(ctx, "user1", strPtr("Acme BV"), nil)

		assert.NoError(t, err)
		userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestGetDashboard(t *testing.T) {
	ctx := context.Background()

	employerRepo := new(MockEmployerRepo)
	matchRepo := new(MockMatchRepo)
	jobRepo := new(MockJobRepo)
	store := new(MockFileStore)

	employerRepo.On("GetByUserID", ctx, "user1").Return(&domain.Employer{ID: "emp1", UserID: "user1"}, nil)
	matchRepo.On("CountByStatusForEmployer", ctx, "emp1").Return(&domain.MatchAnalytics{
		Total: 3, Pending: 1, Shortlisted: 1, Rejected: 1,
	}, nil)
	jobRepo.On("FetchByEmployer", ctx, "emp1").Return([]domain.JobWithProfile{
		{Job: domain.Job{ID: "job1", EmployerID: "emp1"}},
	}, nil)
	matchRepo.On("ListPendingForEmployer", ctx, "emp1").Return([]domain.MatchWithCandidate{
		{Match: domain.Match{ID: "match1"}, CandidateName: "Dana", CVKey: strPtr("cvs/cand1.pdf")},
	}, nil)
	store.On("SignedURL", ctx, "cvs/cand1.pdf", mock.Anything).Return("https://signed/cv", nil)

	uc := usecase.NewEmployerUsecase(employerRepo, new(MockUserRepo), jobRepo, matchRepo, store)
	dashboard, err := uc.GetDashboard(ctx, "user1")

	assert.NoError(t, err)
	assert.Equal(t, int64(3), dashboard.Analytics.Total)
	assert.Len(t, dashboard.Jobs, 1)
	assert.Len(t, dashboard.Matches, 1)
	if assert.NotNil(t, dashboard.Matches[0].CVURL) {
		assert.Equal(t, "https://signed/cv", *dashboard.Matches[0].CVURL)
	}
}
