package v1

import (
	"net/http"

	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, login gin.HandlerFunc, authUC domain.AuthUsecase) {
	handler := &AuthHandler{authUC: authUC}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/register", login, handler.Register)
		publicAuth.POST("/login", login, handler.Login)
		publicAuth.POST("/verify-email", handler.VerifyEmail)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.GET("/me", handler.Me)
		protectedAuth.POST("/role", handler.AssignRole)
		protectedAuth.PUT("/password", handler.UpdatePassword)
		protectedAuth.POST("/request-verification", handler.RequestVerification)
		protectedAuth.DELETE("/account", handler.DeleteAccount)
	}
}

type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	CountryCode  string `json:"country_code" binding:"omitempty,country_code"`
	MobileNumber string `json:"mobile_number" binding:"omitempty,valid_phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=candidate employer"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// Register godoc
// @Summary      Register a new account
// @Description  Create an account with email and password. Role is picked later.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "Registration payload"
// @Success      201   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.FormatBindingError(err)))
		return
	}

	result, err := h.authUC.Register(c.Request.Context(), req.Email, req.Password, req.CountryCode, req.MobileNumber)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Account created", result)
}

// Login godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.FormatBindingError(err)))
		return
	}

	result, err := h.authUC.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Logged in", result)
}

// Me godoc
// @Summary      Current user with role-specific profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	me, err := h.authUC.GetMe(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", me)
}

// AssignRole godoc
// @Summary      Pick the account role (one time)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      AssignRoleRequest  true  "Role"
// @Success      200   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /auth/role [post]
// @Security     BearerAuth
func (h *AuthHandler) AssignRole(c *gin.Context) {
	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Role must be either candidate or employer"))
		return
	}
	userID := c.GetString(string(domain.KeyUserID))

	result, err := h.authUC.AssignRole(c.Request.Context(), userID, req.Role)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Role assigned", result)
}

// UpdatePassword godoc
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      UpdatePasswordRequest  true  "Passwords"
// @Success      200   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Router       /auth/password [put]
// @Security     BearerAuth
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.FormatBindingError(err)))
		return
	}
	userID := c.GetString(string(domain.KeyUserID))

	if err := h.authUC.UpdatePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Password updated", nil)
}

// RequestVerification godoc
// @Summary      Send an email verification link
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/request-verification [post]
// @Security     BearerAuth
func (h *AuthHandler) RequestVerification(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	if err := h.authUC.RequestVerification(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Verification email sent", nil)
}

// VerifyEmail godoc
// @Summary      Verify an email address
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      VerifyEmailRequest  true  "Verification token"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Token is required"))
		return
	}

	if err := h.authUC.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Email verified", nil)
}

// DeleteAccount godoc
// @Summary      Delete the account and everything attached to it
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/account [delete]
// @Security     BearerAuth
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	if err := h.authUC.DeleteAccount(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Account deleted", nil)
}
