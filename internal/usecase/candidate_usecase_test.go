package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/internal/usecase"
	"go-jobmatch-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCandidateUsecase(candidateRepo *MockCandidateRepo, userRepo *MockUserRepo, ai *MockAIService,
	store *MockFileStore, matcher *MockMatcher) domain.CandidateUsecase {
	return usecase.NewCandidateUsecase(candidateRepo, userRepo, ai, store, matcher, time.Second)
}

// expectDetailReads wires the mocks buildDetail touches after a write.
func expectDetailReads(candidateRepo *MockCandidateRepo, userRepo *MockUserRepo, user *domain.User) {
	candidateRepo.On("GetProfile", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	candidateRepo.On("ListEducations", mock.Anything, mock.Anything).Return([]domain.CandidateEducation{}, nil)
	candidateRepo.On("ListExperiences", mock.Anything, mock.Anything).Return([]domain.CandidateExperience{}, nil)
	userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
}

func TestUpdateProfileCompletion(t *testing.T) {
	ctx := context.Background()

	t.Run("filling all required fields marks the profile complete", func(t *testing.T) {
		candidateRepo := new(MockCandidateRepo)
		userRepo := new(MockUserRepo)
		matcher := new(MockMatcher)

		user := &domain.User{ID: "user1", ProfileCompleted: false}
		candidate := &domain.Candidate{ID: "cand1", UserID: "user1", Name: "Dana"}

		candidateRepo.On("GetByUserID", ctx, "user1").Return(candidate, nil)
		candidateRepo.On("Update", ctx, mock.Anything).Return(nil)
		userRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.ProfileCompleted
		})).Return(nil)
		matcher.On("MatchCandidateToJobs", mock.Anything, "cand1").Return([]domain.Match{}, nil).Maybe()
		expectDetailReads(candidateRepo, userRepo, user)

		uc := newCandidateUsecase(candidateRepo, userRepo, new(MockAIService), new(MockFileStore), matcher)
		result, err := uc.UpdateProfile(ctx, "user1", &domain.CandidateProfileUpdate{
			City:            strPtr("Berlin"),
			ExperienceYears: intPtr(4),
			Category:        strPtr("engineering"),
		})

		assert.NoError(t, err)
		assert.True(t, result.ProfileCompleted)
		userRepo.AssertExpectations(t)
	})

	t.Run("clearing a required field revokes completion", func(t *testing.T) {
		candidateRepo := new(MockCandidateRepo)
		userRepo := new(MockUserRepo)
		matcher := new(MockMatcher)

		user := &domain.User{ID: "user1", ProfileCompleted: true}
		candidate := &domain.Candidate{
			ID: "cand1", UserID: "user1", Name: "Dana",
			City: strPtr("Berlin"), ExperienceYears: intPtr(4), Category: strPtr("engineering"),
		}

		candidateRepo.On("GetByUserID", ctx, "user1").Return(candidate, nil)
		candidateRepo.On("Update", ctx, mock.Anything).Return(nil)
		userRepo.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return !u.ProfileCompleted
		})).Return(nil)
		matcher.On("MatchCandidateToJobs", mock.Anything, "cand1").Return([]domain.Match{}, nil).Maybe()
		expectDetailReads(candidateRepo, userRepo, user)

		uc := newCandidateUsecase(candidateRepo, userRepo, new(MockAIService), new(MockFileStore), matcher)
		result, err := uc.UpdateProfile(ctx, "user1", &domain.CandidateProfileUpdate{
			Name: strPtr(""),
		})

		assert.NoError(t, err)
		assert.False(t, result.ProfileCompleted)
		userRepo.AssertExpectations(t)
	})

	t.Run("negative experience years rejected", func(t *testing.T) {
		candidateRepo := new(MockCandidateRepo)
		userRepo := new(MockUserRepo)

		candidateRepo.On("GetByUserID", ctx, "user1").Return(&domain.Candidate{ID: "cand1"}, nil)
		userRepo.On("GetByID", ctx, "user1").Return(&domain.User{ID: "user1"}, nil)

		uc := newCandidateUsecase(candidateRepo, userRepo, new(MockAIService), new(MockFileStore), new(MockMatcher))
		_, err := uc.UpdateProfile(ctx, "user1", &domain.CandidateProfileUpdate{
			ExperienceYears: intPtr(-1),
		})

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
		candidateRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestUpdateProfileCVParse(t *testing.T) {
	ctx := context.Background()

	// Not a parseable PDF; extraction fails before the model is consulted.
	badPDF := &domain.FileUpload{Data: []byte("not a pdf"), ContentType: "application/pdf", Filename: "cv.pdf"}

	t.Run("unparseable CV degrades to a warning", func(t *testing.T) {
		candidateRepo := new(MockCandidateRepo)
		userRepo := new(MockUserRepo)
		store := new(MockFileStore)
		matcher := new(MockMatcher)

		user := &domain.User{ID: "user1"}
		candidate := &domain.Candidate{ID: "cand1", UserID: "user1", Name: "Dana"}

		candidateRepo.On("GetByUserID", ctx, "user1").Return(candidate, nil)
		store.On("Upload", ctx, badPDF, "cvs", "cand1").Return("cvs/cand1/cv.pdf", nil)
		store.On("SignedURL", ctx, "cvs/cand1/cv.pdf", mock.Anything).Return("https://signed/cv", nil)
		candidateRepo.On("Update", ctx, mock.Anything).Return(nil)
		matcher.On("MatchCandidateToJobs", mock.Anything, "cand1").Return([]domain.Match{}, nil).Maybe()
		expectDetailReads(candidateRepo, userRepo, user)

		uc := newCandidateUsecase(candidateRepo, userRepo, new(MockAIService), store, matcher)
		result, err := uc.UpdateProfile(ctx, "user1", &domain.CandidateProfileUpdate{CV: badPDF})

		assert.NoError(t, err)
		assert.NotEmpty(t, result.Warning)
		assert.NotNil(t, result.Candidate.Candidate.CVKey)
		candidateRepo.AssertNotCalled(t, "UpsertProfile", mock.Anything, mock.Anything)
	})

	t.Run("explicit skills win over CV parsing", func(t *testing.T) {
		candidateRepo := new(MockCandidateRepo)
		userRepo := new(MockUserRepo)
		store := new(MockFileStore)
		matcher := new(MockMatcher)
		ai := new(MockAIService)

		user := &domain.User{ID: "user1"}
		candidate := &domain.Candidate{ID: "cand1", UserID: "user1", Name: "Dana"}

		candidateRepo.On("GetByUserID", ctx, "user1").Return(candidate, nil)
		store.On("Upload", ctx, badPDF, "cvs", "cand1").Return("cvs/cand1/cv.pdf", nil)
		store.On("SignedURL", ctx, "cvs/cand1/cv.pdf", mock.Anything).Return("https://signed/cv", nil)
		candidateRepo.On("Update", ctx, mock.Anything).Return(nil)
		candidateRepo.On("UpsertProfile", ctx, mock.MatchedBy(func(p *domain.CandidateProfile) bool {
			return len(p.Skills) == 1 && p.Skills[0] == "go"
		})).Return(nil)
		matcher.On("MatchCandidateToJobs", mock.Anything, "cand1").Return([]domain.Match{}, nil).Maybe()
		expectDetailReads(candidateRepo, userRepo, user)

		uc := newCandidateUsecase(candidateRepo, userRepo, ai, store, matcher)
		result, err := uc.UpdateProfile(ctx, "user1", &domain.CandidateProfileUpdate{
			CV:     badPDF,
			Skills: []string{"go"},
		})

		assert.NoError(t, err)
		assert.Empty(t, result.Warning)
		ai.AssertNotCalled(t, "ExtractProfile", mock.Anything, mock.Anything)
	})
}

func TestUpdateProfileReplacesOldFile(t *testing.T) {
	ctx := context.Background()

	candidateRepo := new(MockCandidateRepo)
	userRepo := new(MockUserRepo)
	store := new(MockFileStore)
	matcher := new(MockMatcher)

	oldKey := "profile-images/cand1/old.png"
	user := &domain.User{ID: "user1"}
	candidate := &domain.Candidate{ID: "cand1", UserID: "user1", Name: "Dana", ProfileImageKey: &oldKey}
	image := &domain.FileUpload{Data: []byte{0x89, 0x50, 0x4E, 0x47}, ContentType: "image/png", Filename: "new.png"}

	candidateRepo.On("GetByUserID", ctx, "user1").Return(candidate, nil)
	store.On("Upload", ctx, image, "profile-images", "cand1").Return("profile-images/cand1/new.png", nil)
	store.On("SignedURL", ctx, "profile-images/cand1/new.png", mock.Anything).Return("https://signed/image", nil)
	store.On("Delete", ctx, oldKey).Return(nil)
	candidateRepo.On("Update", ctx, mock.Anything).Return(nil)
	matcher.On("MatchCandidateToJobs", mock.Anything, "cand1").Return([]domain.Match{}, nil).Maybe()
	expectDetailReads(candidateRepo, userRepo, user)

	uc := newCandidateUsecase(candidateRepo, userRepo, new(MockAIService), store, matcher)
	_, err := uc.UpdateProfile(ctx, "user1", &domain.CandidateProfileUpdate{ProfileImage: image})

	assert.NoError(t, err)
	store.AssertCalled(t, "Delete", ctx, oldKey)
}

func TestEducationOwnership(t *testing.T) {
	ctx := context.Background()

	candidateRepo := new(MockCandidateRepo)
	userRepo := new(MockUserRepo)

	candidateRepo.On("GetByUserID", ctx, "user1").Return(&domain.Candidate{ID: "cand1"}, nil)
	candidateRepo.On("GetEducation", ctx, "edu9").Return(&domain.CandidateEducation{ID: "edu9", CandidateID: "cand9"}, nil)

	uc := newCandidateUsecase(candidateRepo, userRepo, new(MockAIService), new(MockFileStore), new(MockMatcher))
	err := uc.DeleteEducation(ctx, "user1", "edu9")

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusForbidden, appErr.Code)
	candidateRepo.AssertNotCalled(t, "DeleteEducation", mock.Anything, mock.Anything)
}

func TestGetProfileResolvesSignedURLs(t *testing.T) {
	ctx := context.Background()

	candidateRepo := new(MockCandidateRepo)
	userRepo := new(MockUserRepo)
	store := new(MockFileStore)

	cvKey := "cvs/cand1/cv.pdf"
	candidate := &domain.Candidate{ID: "cand1", UserID: "user1", Name: "Dana", CVKey: &cvKey}

	candidateRepo.On("GetByUserID", ctx, "user1").Return(candidate, nil)
	candidateRepo.On("GetProfile", ctx, "cand1").Return(&domain.CandidateProfile{CandidateID: "cand1"}, nil)
	candidateRepo.On("ListEducations", ctx, "cand1").Return([]domain.CandidateEducation{}, nil)
	candidateRepo.On("ListExperiences", ctx, "cand1").Return([]domain.CandidateExperience{}, nil)
	userRepo.On("GetByID", ctx, "user1").Return(&domain.User{ID: "user1", ProfileCompleted: true}, nil)
	store.On("SignedURL", ctx, cvKey, mock.Anything).Return("https://signed/cv", nil)

	uc := newCandidateUsecase(candidateRepo, userRepo, new(MockAIService), store, new(MockMatcher))
	detail, err := uc.GetProfile(ctx, "user1")

	assert.NoError(t, err)
	assert.True(t, detail.ProfileCompleted)
	assert.NotNil(t, detail.CVURL)
	assert.Equal(t, "https://signed/cv", *detail.CVURL)
}

func TestGetProfileNotFound(t *testing.T) {
	ctx := context.Background()

	candidateRepo := new(MockCandidateRepo)
	candidateRepo.On("GetByUserID", ctx, "ghost").Return(nil, domain.ErrNotFound)

	uc := newCandidateUsecase(candidateRepo, new(MockUserRepo), new(MockAIService), new(MockFileStore), new(MockMatcher))
	_, err := uc.GetProfile(ctx, "ghost")

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestSignedURLFailureDegrades(t *testing.T) {
	ctx := context.Background()

	candidateRepo := new(MockCandidateRepo)
	userRepo := new(MockUserRepo)
	store := new(MockFileStore)

	cvKey := "cvs/cand1/cv.pdf"
	candidate := &domain.Candidate{ID: "cand1", UserID: "user1", Name: "Dana", CVKey: &cvKey}

	candidateRepo.On("GetByUserID", ctx, "user1").Return(candidate, nil)
	candidateRepo.On("GetProfile", ctx, "cand1").Return(nil, domain.ErrNotFound)
	candidateRepo.On("ListEducations", ctx, "cand1").Return([]domain.CandidateEducation{}, nil)
	candidateRepo.On("ListExperiences", ctx, "cand1").Return([]domain.CandidateExperience{}, nil)
	userRepo.On("GetByID", ctx, "user1").Return(&domain.User{ID: "user1"}, nil)
	store.On("SignedURL", ctx, cvKey, mock.Anything).Return("", errors.New("presign failed"))

	uc := newCandidateUsecase(candidateRepo, userRepo, new(MockAIService), store, new(MockMatcher))
	detail, err := uc.GetProfile(ctx, "user1")

	assert.NoError(t, err)
	assert.Nil(t, detail.CVURL)
}
