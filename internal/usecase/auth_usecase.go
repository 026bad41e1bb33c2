package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/auth"
	"go-jobmatch-backend/pkg/logger"
)

type authUsecase struct {
	userRepo      domain.UserRepository
	candidateRepo domain.CandidateRepository
	employerRepo  domain.EmployerRepository
	candidateUC   domain.CandidateUsecase
	tokens        *auth.TokenService
	mailer        domain.Mailer
	frontendURL   string
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	candidateRepo domain.CandidateRepository,
	employerRepo domain.EmployerRepository,
	candidateUC domain.CandidateUsecase,
	tokens *auth.TokenService,
	mailer domain.Mailer,
	frontendURL string,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo:      userRepo,
		candidateRepo: candidateRepo,
		employerRepo:  employerRepo,
		candidateUC:   candidateUC,
		tokens:        tokens,
		mailer:        mailer,
		frontendURL:   frontendURL,
	}
}

func (u *authUsecase) issueToken(user *domain.User) (*domain.AuthResult, error) {
	token, err := u.tokens.Issue(auth.TokenClaims{
		UserID:           user.ID,
		Email:            user.Email,
		Role:             user.RoleName(),
		RoleAdded:        user.RoleAdded,
		ProfileCompleted: user.ProfileCompleted,
		IsVerified:       user.IsVerified,
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.AuthResult{Token: token, User: user}, nil
}

func (u *authUsecase) Register(ctx context.Context, email, password, countryCode, mobileNumber string) (*domain.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperror.BadRequest("Email is required")
	}
	if len(password) < 8 {
		return nil, apperror.BadRequest("Password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	// Role stays nil until the user picks one via AssignRole.
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		CountryCode:  countryCode,
		MobileNumber: mobileNumber,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return u.issueToken(user)
}

func (u *authUsecase) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized("Invalid email or password")
		}
		return nil, err
	}
	if !auth.ComparePassword(password, user.PasswordHash) {
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	return u.issueToken(user)
}

func (u *authUsecase) GetMe(ctx context.Context, userID string) (*domain.Me, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	me := &domain.Me{User: user}
	switch user.RoleName() {
	case domain.RoleCandidate:
		// GetProfile reports a missing candidate as an apperror 404, not the
		// repository sentinel; tolerate it so a fresh account still gets /me.
		detail, err := u.candidateUC.GetProfile(ctx, userID)
		if err != nil {
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) || appErr.Code != http.StatusNotFound {
				return nil, err
			}
		}
		me.Candidate = detail
	case domain.RoleEmployer:
		employer, err := u.employerRepo.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if employer != nil {
			employer.ProfileCompleted = user.ProfileCompleted
		}
		me.Employer = employer
	}
	return me, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return u.userRepo.GetByID(ctx, userID)
}

// AssignRole is a one-time, self-service role pick. It creates the empty
// role-specific records and re-issues the token so the new claims take effect
// immediately.
func (u *authUsecase) AssignRole(ctx context.Context, userID, role string) (*domain.AuthResult, error) {
	if role != domain.RoleCandidate && role != domain.RoleEmployer {
		return nil, apperror.BadRequest("Role must be either candidate or employer")
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.RoleAdded {
		return nil, apperror.Conflict("Role has already been assigned")
	}

	switch role {
	case domain.RoleCandidate:
		candidate := &domain.Candidate{UserID: user.ID}
		if err := u.candidateRepo.Create(ctx, candidate); err != nil {
			return nil, err
		}
		profile := &domain.CandidateProfile{CandidateID: candidate.ID}
		if err := u.candidateRepo.UpsertProfile(ctx, profile); err != nil {
			return nil, err
		}
	case domain.RoleEmployer:
		if err := u.employerRepo.Create(ctx, &domain.Employer{UserID: user.ID}); err != nil {
			return nil, err
		}
	}

	user.Role = &role
	user.RoleAdded = true
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return u.issueToken(user)
}

func (u *authUsecase) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.ComparePassword(currentPassword, user.PasswordHash) {
		return apperror.Unauthorized("Current password is incorrect")
	}
	if len(newPassword) < 8 {
		return apperror.BadRequest("Password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperror.Internal(err)
	}
	user.PasswordHash = hash
	return u.userRepo.Update(ctx, user)
}

func (u *authUsecase) RequestVerification(ctx context.Context, userID string) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return apperror.BadRequest("Email is already verified")
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return apperror.Internal(err)
	}
	token := hex.EncodeToString(buf)

	user.VerificationToken = &token
	if err := u.userRepo.Update(ctx, user); err != nil {
		return err
	}

	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", strings.TrimRight(u.frontendURL, "/"), token)
	if err := u.mailer.SendVerificationEmail(ctx, user.Email, verifyURL); err != nil {
		logger.Log.Error("verification email failed", "user_id", user.ID, "error", err)
		return apperror.Internal(err)
	}
	return nil
}

func (u *authUsecase) VerifyEmail(ctx context.Context, token string) error {
	user, err := u.userRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.BadRequest("Invalid or expired verification token")
		}
		return err
	}

	user.IsVerified = true
	user.VerificationToken = nil
	return u.userRepo.Update(ctx, user)
}

// DeleteAccount removes the user. Role records, matches and applications
// follow through the database cascades.
func (u *authUsecase) DeleteAccount(ctx context.Context, userID string) error {
	return u.userRepo.Delete(ctx, userID)
}
