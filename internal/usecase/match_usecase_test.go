package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/internal/usecase"
	"go-jobmatch-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newMatchUsecase(matchRepo *MockMatchRepo, appRepo *MockApplicationRepo, jobRepo *MockJobRepo,
	candidateRepo *MockCandidateRepo, employerRepo *MockEmployerRepo, mailer *MockMailer, store *MockFileStore) domain.MatchUsecase {
	return usecase.NewMatchUsecase(matchRepo, appRepo, jobRepo, candidateRepo, employerRepo, mailer, store)
}

func TestShortlistMatch(t *testing.T) {
	ctx := context.Background()

	pendingContext := func() *domain.ShortlistContext {
		return &domain.ShortlistContext{
			Match: domain.Match{
				ID:          "match1",
				JobID:       "job1",
				CandidateID: "cand1",
				Score:       87,
				Status:      domain.MatchStatusPending,
			},
			JobEmployerID:  "emp1",
			JobTitle:       "Backend Engineer",
			CompanyName:    "Acme",
			CandidateName:  "Dana",
			CandidateEmail: "dana@example.com",
		}
	}

	t.Run("pending match is shortlisted and candidate notified", func(t *testing.T) {
		matchRepo := new(MockMatchRepo)
		employerRepo := new(MockEmployerRepo)
		mailer := new(MockMailer)

		employerRepo.On("GetByUserID", ctx, "user1").Return(&domain.Employer{ID: "emp1"}, nil)
		matchRepo.On("GetShortlistContext", ctx, "match1").Return(pendingContext(), nil)
		matchRepo.On("UpdateStatus", ctx, "match1", domain.MatchStatusShortlisted).Return(nil)
		mailer.On("SendShortlistNotification", ctx, "dana@example.com", "Dana", "Backend Engineer", "Acme", "en").Return(nil)

		uc := newMatchUsecase(matchRepo, new(MockApplicationRepo), new(MockJobRepo), new(MockCandidateRepo), employerRepo, mailer, new(MockFileStore))
		result, err := uc.ShortlistMatch(ctx, "user1", "match1")

		assert.NoError(t, err)
		assert.Equal(t, domain.MatchStatusShortlisted, result.Match.Status)
		assert.True(t, result.EmailSent)
		matchRepo.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("mailer failure does not undo the shortlist", func(t *testing.T) {
		matchRepo := new(MockMatchRepo)
		employerRepo := new(MockEmployerRepo)
		mailer := new(MockMailer)

		employerRepo.On("GetByUserID", ctx, "user1").Return(&domain.Employer{ID: "emp1"}, nil)
		matchRepo.On("GetShortlistContext", ctx, "match1").Return(pendingContext(), nil)
		matchRepo.On("UpdateStatus", ctx, "match1", domain.MatchStatusShortlisted).Return(nil)
		mailer.On("SendShortlistNotification", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("smtp down"))

		uc := newMatchUsecase(matchRepo, new(MockApplicationRepo), new(MockJobRepo), new(MockCandidateRepo), employerRepo, mailer, new(MockFileStore))
		result, err := uc.ShortlistMatch(ctx, "user1", "match1")

		assert.NoError(t, err)
		assert.Equal(t, domain.MatchStatusShortlisted, result.Match.Status)
		assert.False(t, result.EmailSent)
	})

	t.Run("already shortlisted match conflicts", func(t *testing.T) {
		matchRepo := new(MockMatchRepo)
		employerRepo := new(MockEmployerRepo)

		sc := pendingContext()
		sc.Status = domain.MatchStatusShortlisted
		employerRepo.On("GetByUserID", ctx, "user1").Return(&domain.Employer{ID: "emp1"}, nil)
		matchRepo.On("GetShortlistContext", ctx, "match1").Return(sc, nil)

		uc := newMatchUsecase(matchRepo, new(MockApplicationRepo), new(MockJobRepo), new(MockCandidateRepo), employerRepo, new(MockMailer), new(MockFileStore))
		_, err := uc.ShortlistMatch(ctx, "user1", "match1")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusConflict, appErr.Code)
		matchRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejected match is terminal", func(t *testing.T) {
		matchRepo := new(MockMatchRepo)
		employerRepo := new(MockEmployerRepo)

		sc := pendingContext()
		sc.Status = domain.MatchStatusRejected
		employerRepo.On("GetByUserID", ctx, "user1").Return(&domain.Employer{ID: "emp1"}, nil)
		matchRepo.On("GetShortlistContext", ctx, "match1").Return(sc, nil)

		uc := newMatchUsecase(matchRepo, new(MockApplicationRepo), new(MockJobRepo), new(MockCandidateRepo), employerRepo, new(MockMailer), new(MockFileStore))
		_, err := uc.ShortlistMatch(ctx, "user1", "match1")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusConflict, appErr.Code)
	})

	t.Run("another employer's match is forbidden", func(t *testing.T) {
		matchRepo := new(MockMatchRepo)
		employerRepo := new(MockEmployerRepo)

		employerRepo.On("GetByUserID", ctx, "intruder").Return(&domain.Employer{ID: "emp2"}, nil)
		matchRepo.On("GetShortlistContext", ctx, "match1").Return(pendingContext(), nil)

		uc := newMatchUsecase(matchRepo, new(MockApplicationRepo), new(MockJobRepo), new(MockCandidateRepo), employerRepo, new(MockMailer), new(MockFileStore))
		_, err := uc.ShortlistMatch(ctx, "intruder", "match1")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusForbidden, appErr.Code)
	})
}

func TestRejectMatch(t *testing.T) {
	ctx := context.Background()

	matchRepo := new(MockMatchRepo)
	employerRepo := new(MockEmployerRepo)

	employerRepo.On("GetByUserID", ctx, "user1").Return(&domain.Employer{ID: "emp1"}, nil)
	matchRepo.On("GetShortlistContext", ctx, "match1").Return(&domain.ShortlistContext{
		Match:         domain.Match{ID: "match1", Status: domain.MatchStatusPending},
		JobEmployerID: "emp1",
	}, nil)
	matchRepo.On("UpdateStatus", ctx, "match1", domain.MatchStatusRejected).Return(nil)

	uc := newMatchUsecase(matchRepo, new(MockApplicationRepo), new(MockJobRepo), new(MockCandidateRepo), employerRepo, new(MockMailer), new(MockFileStore))
	match, err := uc.RejectMatch(ctx, "user1", "match1")

	assert.NoError(t, err)
	assert.Equal(t, domain.MatchStatusRejected, match.Status)
	matchRepo.AssertExpectations(t)
}

func TestAddMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending match and accepted application together", func(t *testing.T) {
		matchRepo := new(MockMatchRepo)
		jobRepo := new(MockJobRepo)
		candidateRepo := new(MockCandidateRepo)

		candidateRepo.On("GetByUserID", ctx, "user1").Return(&domain.Candidate{ID: "cand1"}, nil)
		jobRepo.On("GetByID", ctx, "job1").Return(&domain.Job{ID: "job1"}, nil)
		matchRepo.On("CreateWithApplication", ctx, mock.AnythingOfType("*domain.Match"), mock.AnythingOfType("*domain.JobApplication")).Return(nil)

		uc := newMatchUsecase(matchRepo, new(MockApplicationRepo), jobRepo, candidateRepo, new(MockEmployerRepo), new(MockMailer), new(MockFileStore))
		match, app, err := uc.AddMatch(ctx, "user1", "job1", 91, "strong fit")

		assert.NoError(t, err)
		assert.Equal(t, domain.MatchStatusPending, match.Status)
		assert.Equal(t, 91, match.Score)
		assert.Equal(t, domain.ApplicationStatusAccepted, app.Status)
		assert.Equal(t, "cand1", app.CandidateID)
		matchRepo.AssertExpectations(t)
	})

	t.Run("score is clamped to the valid range", func(t *testing.T) {
		matchRepo := new(MockMatchRepo)
		jobRepo := new(MockJobRepo)
		candidateRepo := new(MockCandidateRepo)

		candidateRepo.On("GetByUserID", ctx, "user1").Return(&domain.Candidate{ID: "cand1"}, nil)
		jobRepo.On("GetByID", ctx, "job1").Return(&domain.Job{ID: "job1"}, nil)
		matchRepo.On("CreateWithApplication", ctx, mock.Anything, mock.Anything).Return(nil)

		uc := newMatchUsecase(matchRepo, new(MockApplicationRepo), jobRepo, candidateRepo, new(MockEmployerRepo), new(MockMailer), new(MockFileStore))
		match, _, err := uc.AddMatch(ctx, "user1", "job1", 150, "")

		assert.NoError(t, err)
		assert.Equal(t, 100, match.Score)
	})

	t.Run("duplicate application conflicts", func(t *testing.T) {
		matchRepo := new(MockMatchRepo)
		jobRepo := new(MockJobRepo)
		candidateRepo := new(MockCandidateRepo)

		candidateRepo.On("GetByUserID", ctx, "user1").Return(&domain.Candidate{ID: "cand1"}, nil)
		jobRepo.On("GetByID", ctx, "job1").Return(&domain.Job{ID: "job1"}, nil)
		matchRepo.On("CreateWithApplication", ctx, mock.Anything, mock.Anything).Return(domain.ErrDuplicateMatch)

		uc := newMatchUsecase(matchRepo, new(MockApplicationRepo), jobRepo, candidateRepo, new(MockEmployerRepo), new(MockMailer), new(MockFileStore))
		_, _, err := uc.AddMatch(ctx, "user1", "job1", 50, "")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusConflict, appErr.Code)
	})
}

func TestGetJobMatches(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves signed media URLs", func(t *testing.T) {
		matchRepo := new(MockMatchRepo)
		jobRepo := new(MockJobRepo)
		employerRepo := new(MockEmployerRepo)
		store := new(MockFileStore)

		cvKey := "cvs/cand1/file.pdf"
		employerRepo.On("GetByUserID", ctx, "user1").Return(&domain.Employer{ID: "emp1"}, nil)
		jobRepo.On("GetByID", ctx, "job1").Return(&domain.Job{ID: "job1", EmployerID: "emp1"}, nil)
		matchRepo.On("ListByJob", ctx, "job1").Return([]domain.MatchWithCandidate{
			{Match: domain.Match{ID: "match1"}, CVKey: &cvKey},
		}, nil)
		store.On("SignedURL", ctx, cvKey, mock.Anything).Return("https://signed/cv", nil)

		uc := newMatchUsecase(matchRepo, new(MockApplicationRepo), jobRepo, new(MockCandidateRepo), employerRepo, new(MockMailer), store)
		matches, err := uc.GetJobMatches(ctx, "user1", "job1")

		assert.NoError(t, err)
		assert.Len(t, matches, 1)
		assert.NotNil(t, matches[0].CVURL)
		assert.Equal(t, "https://signed/cv", *matches[0].CVURL)
	})

	t.Run("someone else's job is forbidden", func(t *testing.T) {
		matchRepo := new(MockMatchRepo)
		jobRepo := new(MockJobRepo)
		employerRepo := new(MockEmployerRepo)

		employerRepo.On("GetByUserID", ctx, "user1").Return(&domain.Employer{ID: "emp1"}, nil)
		jobRepo.On("GetByID", ctx, "job9").Return(&domain.Job{ID: "job9", EmployerID: "emp9"}, nil)

		uc := newMatchUsecase(matchRepo, new(MockApplicationRepo), jobRepo, new(MockCandidateRepo), employerRepo, new(MockMailer), new(MockFileStore))
		_, err := uc.GetJobMatches(ctx, "user1", "job9")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusForbidden, appErr.Code)
		matchRepo.AssertNotCalled(t, "ListByJob", mock.Anything, mock.Anything)
	})
}

func TestRejectJob(t *testing.T) {
	ctx := context.Background()

	candidateRepo := new(MockCandidateRepo)
	jobRepo := new(MockJobRepo)
	appRepo := new(MockApplicationRepo)

	candidateRepo.On("GetByUserID", ctx, "user1").Return(&domain.Candidate{ID: "cand1"}, nil)
	jobRepo.On("GetByID", ctx, "job1").Return(&domain.Job{ID: "job1"}, nil)
	appRepo.On("Create", ctx, mock.MatchedBy(func(app *domain.JobApplication) bool {
		return app.Status == domain.ApplicationStatusRejected && app.JobID == "job1" && app.CandidateID == "cand1"
	})).Return(nil)

	uc := newMatchUsecase(new(MockMatchRepo), appRepo, jobRepo, candidateRepo, new(MockEmployerRepo), new(MockMailer), new(MockFileStore))
	app, err := uc.RejectJob(ctx, "user1", "job1")

	assert.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusRejected, app.Status)
	appRepo.AssertExpectations(t)
}

func TestListJobRecommendations(t *testing.T) {
	ctx := context.Background()

	t.Run("candidate without category gets nothing", func(t *testing.T) {
		candidateRepo := new(MockCandidateRepo)
		jobRepo := new(MockJobRepo)

		candidateRepo.On("GetByUserID", ctx, "user1").Return(&domain.Candidate{ID: "cand1"}, nil)

		uc := newMatchUsecase(new(MockMatchRepo), new(MockApplicationRepo), jobRepo, candidateRepo, new(MockEmployerRepo), new(MockMailer), new(MockFileStore))
		jobs, err := uc.ListJobRecommendations(ctx, "user1")

		assert.NoError(t, err)
		assert.Empty(t, jobs)
		jobRepo.AssertNotCalled(t, "ListOpenForCandidate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("filters by category and prior applications", func(t *testing.T) {
		candidateRepo := new(MockCandidateRepo)
		jobRepo := new(MockJobRepo)

		category := strPtr("engineering")
		candidateRepo.On("GetByUserID", ctx, "user1").Return(&domain.Candidate{ID: "cand1", Category: category}, nil)
		jobRepo.On("ListOpenForCandidate", ctx, category, "cand1").Return([]domain.JobWithEmployer{
			{Job: domain.Job{ID: "job1"}, CompanyName: "Acme"},
		}, nil)

		uc := newMatchUsecase(new(MockMatchRepo), new(MockApplicationRepo), jobRepo, candidateRepo, new(MockEmployerRepo), new(MockMailer), new(MockFileStore))
		jobs, err := uc.ListJobRecommendations(ctx, "user1")

		assert.NoError(t, err)
		assert.Len(t, jobs, 1)
		jobRepo.AssertExpectations(t)
	})
}
