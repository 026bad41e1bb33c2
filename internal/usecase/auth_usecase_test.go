package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/internal/usecase"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type authFixture struct {
	userRepo      *MockUserRepo
	candidateRepo *MockCandidateRepo
	employerRepo  *MockEmployerRepo
	candidateUC   *MockCandidateUC
	mailer        *MockMailer
	uc            domain.AuthUsecase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		userRepo:      new(MockUserRepo),
		candidateRepo: new(MockCandidateRepo),
		employerRepo:  new(MockEmployerRepo),
		candidateUC:   new(MockCandidateUC),
		mailer:        new(MockMailer),
	}
	f.uc = usecase.NewAuthUsecase(
		f.userRepo, f.candidateRepo, f.employerRepo, f.candidateUC,
		auth.NewTokenService("test-secret"), f.mailer, "https://app.example.com",
	)
	return f
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	assert.NoError(t, err)
	return hash
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an unroled user and issues a token", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "dana@example.com" && u.Role == nil && u.PasswordHash != "secret123"
		})).Return(nil)

		result, err := f.uc.Register(ctx, "  Dana@Example.com ", "secret123", "+31", "612345678")

		assert.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "dana@example.com", result.User.Email)
		assert.False(t, result.User.RoleAdded)
	})

	t.Run("short password rejected", func(t *testing.T) {
		f := newAuthFixture()

		_, err := f.uc.Register(ctx, "dana@example.com", "short", "", "")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
		f.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByEmail", ctx, "dana@example.com").Return(&domain.User{
			ID: "user1", Email: "dana@example.com", PasswordHash: hashed(t, "secret123"),
		}, nil)

		result, err := f.uc.Login(ctx, "Dana@Example.com", "secret123")

		assert.NoError(t, err)
		assert.NotEmpty(t, result.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByEmail", ctx, "dana@example.com").Return(&domain.User{
			ID: "user1", Email: "dana@example.com", PasswordHash: hashed(t, "secret123"),
		}, nil)

		_, err := f.uc.Login(ctx, "dana@example.com", "wrong-password")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusUnauthorized, appErr.Code)
		assert.Equal(t, "Invalid email or password", appErr.Message)
	})

	t.Run("unknown email gets the same message", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, domain.ErrNotFound)

		_, err := f.uc.Login(ctx, "nobody@example.com", "secret123")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusUnauthorized, appErr.Code)
		assert.Equal(t, "Invalid email or password", appErr.Message)
	})
}

func TestAssignRole(t *testing.T) {
	ctx := context.Background()

	t.Run("candidate role creates empty records and re-issues the token", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByID", ctx, "user1").Return(&domain.User{ID: "user1", Email: "dana@example.com"}, nil)
		f.candidateRepo.On("Create", ctx, mock.MatchedBy(func(c *domain.Candidate) bool {
			return c.UserID == "user1"
		})).Return(nil)
		f.candidateRepo.On("UpsertProfile", ctx, mock.Anything).Return(nil)
		f.userRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.RoleAdded && u.RoleName() == domain.RoleCandidate
		})).Return(nil)

		result, err := f.uc.AssignRole(ctx, "user1", domain.RoleCandidate)

		assert.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, domain.RoleCandidate, result.User.RoleName())
		f.candidateRepo.AssertExpectations(t)
	})

	t.Run("employer role creates the employer record", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByID", ctx, "user1").Return(&domain.User{ID: "user1", Email: "acme@example.com"}, nil)
		f.employerRepo.On("Create", ctx, mock.MatchedBy(func(e *domain.Employer) bool {
			return e.UserID == "user1"
		})).Return(nil)
		f.userRepo.On("Update", ctx, mock.Anything).Return(nil)

		result, err := f.uc.AssignRole(ctx, "user1", domain.RoleEmployer)

		assert.NoError(t, err)
		assert.Equal(t, domain.RoleEmployer, result.User.RoleName())
	})

	t.Run("second assignment conflicts", func(t *testing.T) {
		f := newAuthFixture()
		role := domain.RoleCandidate
		f.userRepo.On("GetByID", ctx, "user1").Return(&domain.User{
			ID: "user1", Role: &role, RoleAdded: true,
		}, nil)

		_, err := f.uc.AssignRole(ctx, "user1", domain.RoleEmployer)

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusConflict, appErr.Code)
		f.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		f := newAuthFixture()

		_, err := f.uc.AssignRole(ctx, "user1", "admin")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
	})
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong current password", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByID", ctx, "user1").Return(&domain.User{
			ID: "user1", PasswordHash: hashed(t, "secret123"),
		}, nil)

		err := f.uc.UpdatePassword(ctx, "user1", "nope", "newsecret123")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusUnauthorized, appErr.Code)
		f.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("stores a new hash", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByID", ctx, "user1").Return(&domain.User{
			ID: "user1", PasswordHash: hashed(t, "secret123"),
		}, nil)
		f.userRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return auth.ComparePassword("newsecret123", u.PasswordHash)
		})).Return(nil)

		err := f.uc.UpdatePassword(ctx, "user1", "secret123", "newsecret123")

		assert.NoError(t, err)
		f.userRepo.AssertExpectations(t)
	})
}

func TestEmailVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("request stores a token and mails the link", func(t *testing.T) {
		f := newAuthFixture()
		user := &domain.User{ID: "user1", Email: "dana@example.com"}
		f.userRepo.On("GetByID", ctx, "user1").Return(user, nil)
		f.userRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.VerificationToken != nil && len(*u.VerificationToken) == 64
		})).Return(nil)
		f.mailer.On("SendVerificationEmail", ctx, "dana@example.com", mock.MatchedBy(func(url string) bool {
			return len(url) > len("https://app.example.com/verify-email?token=")
		})).Return(nil)

		err := f.uc.RequestVerification(ctx, "user1")

		assert.NoError(t, err)
		f.mailer.AssertExpectations(t)
	})

	t.Run("already verified rejected", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByID", ctx, "user1").Return(&domain.User{ID: "user1", IsVerified: true}, nil)

		err := f.uc.RequestVerification(ctx, "user1")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
	})

	t.Run("verify clears the token and marks the user", func(t *testing.T) {
		f := newAuthFixture()
		token := "abc123"
		f.userRepo.On("GetByVerificationToken", ctx, token).Return(&domain.User{
			ID: "user1", VerificationToken: &token,
		}, nil)
		f.userRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.IsVerified && u.VerificationToken == nil
		})).Return(nil)

		err := f.uc.VerifyEmail(ctx, token)

		assert.NoError(t, err)
		f.userRepo.AssertExpectations(t)
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByVerificationToken", ctx, "bogus").Return(nil, domain.ErrNotFound)

		err := f.uc.VerifyEmail(ctx, "bogus")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
	})
}

func TestGetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("candidate includes profile detail", func(t *testing.T) {
		f := newAuthFixture()
		role := domain.RoleCandidate
		f.userRepo.On("GetByID", ctx, "user1").Return(&domain.User{ID: "user1", Role: &role}, nil)
		f.candidateUC.On("GetProfile", ctx, "user1").Return(&domain.CandidateDetail{
			Candidate: domain.Candidate{ID: "cand1", UserID: "user1"},
		}, nil)

		me, err := f.uc.GetMe(ctx, "user1")

		assert.NoError(t, err)
		assert.NotNil(t, me.Candidate)
		assert.Nil(t, me.Employer)
	})

	t.Run("candidate without a profile row still resolves", func(t *testing.T) {
		f := newAuthFixture()
		role := domain.RoleCandidate
		f.userRepo.On("GetByID", ctx, "user1").Return(&domain.User{ID: "user1", Role: &role}, nil)
		f.candidateUC.On("GetProfile", ctx, "user1").Return(nil, apperror.NotFound("Candidate profile not found"))

		me, err := f.uc.GetMe(ctx, "user1")

		assert.NoError(t, err)
		assert.Nil(t, me.Candidate)
	})

	t.Run("employer reflects the persisted completion flag", func(t *testing.T) {
		f := newAuthFixture()
		role := domain.RoleEmployer
		f.userRepo.On("GetByID", ctx, "user1").Return(&domain.User{
			ID: "user1", Role: &role, ProfileCompleted: true,
		}, nil)
		f.employerRepo.On("GetByUserID", ctx, "user1").Return(&domain.Employer{ID: "emp1", UserID: "user1"}, nil)

		me, err := f.uc.GetMe(ctx, "user1")

		assert.NoError(t, err)
		assert.True(t, me.Employer.ProfileCompleted)
	})

	t.Run("no role yet returns the bare user", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByID", ctx, "user1").Return(&domain.User{ID: "user1"}, nil)

		me, err := f.uc.GetMe(ctx, "user1")

		assert.NoError(t, err)
		assert.Nil(t, me.Candidate)
		assert.Nil(t, me.Employer)
	})
}
