package usecase

import (
	"context"
	"errors"
	"time"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/logger"
	"go-jobmatch-backend/pkg/pdftext"
	"go-jobmatch-backend/pkg/storage"
)

// signedURLTTL bounds how long a resolved media link stays valid.
const signedURLTTL = 5 * time.Minute

type candidateUsecase struct {
	candidateRepo domain.CandidateRepository
	userRepo      domain.UserRepository
	ai            domain.AIService
	store         domain.FileStore
	matcher       domain.MatcherUsecase
	sweepTimeout  time.Duration
}

func NewCandidateUsecase(
	candidateRepo domain.CandidateRepository,
	userRepo domain.UserRepository,
	ai domain.AIService,
	store domain.FileStore,
	matcher domain.MatcherUsecase,
	sweepTimeout time.Duration,
) domain.CandidateUsecase {
	return &candidateUsecase{
		candidateRepo: candidateRepo,
		userRepo:      userRepo,
		ai:            ai,
		store:         store,
		matcher:       matcher,
		sweepTimeout:  sweepTimeout,
	}
}

func (u *candidateUsecase) GetProfile(ctx context.Context, userID string) (*domain.CandidateDetail, error) {
	candidate, err := u.candidateRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Candidate profile not found")
		}
		return nil, err
	}
	return u.buildDetail(ctx, userID, candidate)
}

func (u *candidateUsecase) buildDetail(ctx context.Context, userID string, candidate *domain.Candidate) (*domain.CandidateDetail, error) {
	detail := &domain.CandidateDetail{Candidate: *candidate}

	profile, err := u.candidateRepo.GetProfile(ctx, candidate.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	detail.Profile = profile

	if detail.Educations, err = u.candidateRepo.ListEducations(ctx, candidate.ID); err != nil {
		return nil, err
	}
	if detail.Experiences, err = u.candidateRepo.ListExperiences(ctx, candidate.ID); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	detail.ProfileCompleted = user.ProfileCompleted

	detail.CVURL = u.resolveKey(ctx, candidate.CVKey)
	detail.VideoURL = u.resolveKey(ctx, candidate.VideoKey)
	detail.ProfileImageURL = u.resolveKey(ctx, candidate.ProfileImageKey)
	return detail, nil
}

// resolveKey turns a storage key into a signed URL, logging instead of
// failing the request when signing is unavailable.
func (u *candidateUsecase) resolveKey(ctx context.Context, key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	url, err := u.store.SignedURL(ctx, *key, signedURLTTL)
	if err != nil {
		logger.Log.Warn("signed URL unavailable", "key", *key, "error", err)
		return nil
	}
	return &url
}

func (u *candidateUsecase) UpdateProfile(ctx context.Context, userID string, update *domain.CandidateProfileUpdate) (*domain.ProfileUpdateResult, error) {
	candidate, err := u.candidateRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Candidate profile not found")
		}
		return nil, err
	}
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		candidate.Name = *update.Name
	}
	if update.City != nil {
		candidate.City = update.City
	}
	if update.ExperienceYears != nil {
		if *update.ExperienceYears < 0 {
			return nil, apperror.BadRequest("Experience years cannot be negative")
		}
		candidate.ExperienceYears = update.ExperienceYears
	}
	if update.Category != nil {
		candidate.Category = update.Category
	}
	if update.SalaryExpectation != nil {
		candidate.SalaryExpectation = update.SalaryExpectation
	}

	var warning string
	cvUploaded := false

	if update.ProfileImage != nil {
		key, err := u.replaceFile(ctx, update.ProfileImage, storage.FolderProfileImages, candidate.ID, candidate.ProfileImageKey)
		if err != nil {
			return nil, err
		}
		candidate.ProfileImageKey = &key
	}
	if update.Video != nil {
		key, err := u.replaceFile(ctx, update.Video, storage.FolderVideos, candidate.ID, candidate.VideoKey)
		if err != nil {
			return nil, err
		}
		candidate.VideoKey = &key
	}
	if update.CV != nil {
		key, err := u.replaceFile(ctx, update.CV, storage.FolderCVs, candidate.ID, candidate.CVKey)
		if err != nil {
			return nil, err
		}
		candidate.CVKey = &key
		cvUploaded = true
	}

	if err := u.candidateRepo.Update(ctx, candidate); err != nil {
		return nil, err
	}

	// Explicit skills/languages/summary win over whatever a CV parse derived.
	if update.Skills != nil || update.Languages != nil || update.Summary != nil {
		if err := u.mergeProfile(ctx, candidate.ID, update); err != nil {
			return nil, err
		}
	} else if cvUploaded {
		if err := u.parseCV(ctx, candidate.ID, update.CV.Data); err != nil {
			logger.Log.Warn("CV parse failed", "candidate_id", candidate.ID, "error", err)
			warning = "CV uploaded but could not be analyzed; skills were not extracted"
		}
	}

	userChanged := false
	if update.CountryCode != nil {
		user.CountryCode = *update.CountryCode
		userChanged = true
	}
	if update.MobileNumber != nil {
		user.MobileNumber = *update.MobileNumber
		userChanged = true
	}

	// Completion is recomputed on every write, in both directions.
	completed := candidateComplete(candidate)
	if user.ProfileCompleted != completed {
		user.ProfileCompleted = completed
		userChanged = true
	}
	if userChanged {
		if err := u.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	u.triggerSweep(candidate.ID)

	detail, err := u.buildDetail(ctx, userID, candidate)
	if err != nil {
		return nil, err
	}
	return &domain.ProfileUpdateResult{
		Candidate:        detail,
		ProfileCompleted: completed,
		Warning:          warning,
	}, nil
}

// replaceFile uploads the new object and then removes the old one. The old
// delete is best effort; an orphaned object is preferable to a failed upload.
func (u *candidateUsecase) replaceFile(ctx context.Context, file *domain.FileUpload, folder, ownerID string, oldKey *string) (string, error) {
	key, err := u.store.Upload(ctx, file, folder, ownerID)
	if err != nil {
		return "", err
	}
	if oldKey != nil && *oldKey != "" {
		if err := u.store.Delete(ctx, *oldKey); err != nil {
			logger.Log.Warn("stale object delete failed", "key", *oldKey, "error", err)
		}
	}
	return key, nil
}

func (u *candidateUsecase) mergeProfile(ctx context.Context, candidateID string, update *domain.CandidateProfileUpdate) error {
	profile, err := u.candidateRepo.GetProfile(ctx, candidateID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		profile = &domain.CandidateProfile{CandidateID: candidateID}
	}
	if update.Skills != nil {
		profile.Skills = update.Skills
	}
	if update.Languages != nil {
		profile.Languages = update.Languages
	}
	if update.Summary != nil {
		profile.Summary = *update.Summary
	}
	return u.candidateRepo.UpsertProfile(ctx, profile)
}

func (u *candidateUsecase) parseCV(ctx context.Context, candidateID string, data []byte) error {
	text, err := pdftext.Extract(data)
	if err != nil {
		return err
	}
	extracted, err := u.ai.ExtractProfile(ctx, text)
	if err != nil {
		return err
	}
	return u.candidateRepo.UpsertProfile(ctx, &domain.CandidateProfile{
		CandidateID: candidateID,
		Skills:      extracted.Skills,
		Languages:   extracted.Languages,
		Summary:     extracted.Summary,
	})
}

func candidateComplete(c *domain.Candidate) bool {
	return c.Name != "" &&
		c.City != nil && *c.City != "" &&
		c.ExperienceYears != nil && *c.ExperienceYears >= 0 &&
		c.Category != nil && *c.Category != ""
}

// triggerSweep runs the scoring sweep out-of-band so the profile write does
// not wait on model latency.
func (u *candidateUsecase) triggerSweep(candidateID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), u.sweepTimeout)
		defer cancel()
		if _, err := u.matcher.MatchCandidateToJobs(ctx, candidateID); err != nil {
			logger.Log.Error("candidate match sweep failed", "candidate_id", candidateID, "error", err)
		}
	}()
}

func (u *candidateUsecase) ownedCandidate(ctx context.Context, userID string) (*domain.Candidate, error) {
	candidate, err := u.candidateRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Candidate profile not found")
		}
		return nil, err
	}
	return candidate, nil
}

func (u *candidateUsecase) AddEducation(ctx context.Context, userID string, edu *domain.CandidateEducation) error {
	candidate, err := u.ownedCandidate(ctx, userID)
	if err != nil {
		return err
	}
	if edu.SchoolName == "" {
		return apperror.BadRequest("School name is required")
	}
	edu.CandidateID = candidate.ID
	return u.candidateRepo.CreateEducation(ctx, edu)
}

func (u *candidateUsecase) UpdateEducation(ctx context.Context, userID string, edu *domain.CandidateEducation) error {
	candidate, err := u.ownedCandidate(ctx, userID)
	if err != nil {
		return err
	}
	existing, err := u.candidateRepo.GetEducation(ctx, edu.ID)
	if err != nil {
		return err
	}
	if existing.CandidateID != candidate.ID {
		return apperror.Forbidden("You do not own this education entry")
	}
	edu.CandidateID = candidate.ID
	return u.candidateRepo.UpdateEducation(ctx, edu)
}

func (u *candidateUsecase) DeleteEducation(ctx context.Context, userID, educationID string) error {
	candidate, err := u.ownedCandidate(ctx, userID)
	if err != nil {
		return err
	}
	existing, err := u.candidateRepo.GetEducation(ctx, educationID)
	if err != nil {
		return err
	}
	if existing.CandidateID != candidate.ID {
		return apperror.Forbidden("You do not own this education entry")
	}
	return u.candidateRepo.DeleteEducation(ctx, educationID)
}

func (u *candidateUsecase) AddExperience(ctx context.Context, userID string, exp *domain.CandidateExperience) error {
	candidate, err := u.ownedCandidate(ctx, userID)
	if err != nil {
		return err
	}
	if exp.Title == "" {
		return apperror.BadRequest("Title is required")
	}
	exp.CandidateID = candidate.ID
	return u.candidateRepo.CreateExperience(ctx, exp)
}

func (u *candidateUsecase) UpdateExperience(ctx context.Context, userID string, exp *domain.CandidateExperience) error {
	candidate, err := u.ownedCandidate(ctx, userID)
	if err != nil {
		return err
	}
	existing, err := u.candidateRepo.GetExperience(ctx, exp.ID)
	if err != nil {
		return err
	}
	if existing.CandidateID != candidate.ID {
		return apperror.Forbidden("You do not own this experience entry")
	}
	exp.CandidateID = candidate.ID
	return u.candidateRepo.UpdateExperience(ctx, exp)
}

func (u *candidateUsecase) DeleteExperience(ctx context.Context, userID, experienceID string) error {
	candidate, err := u.ownedCandidate(ctx, userID)
	if err != nil {
		return err
	}
	existing, err := u.candidateRepo.GetExperience(ctx, experienceID)
	if err != nil {
		return err
	}
	if existing.CandidateID != candidate.ID {
		return apperror.Forbidden("You do not own this experience entry")
	}
	return u.candidateRepo.DeleteExperience(ctx, experienceID)
}
