package v1

import (
	"net/http"

	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type EmployerHandler struct {
	employerUC domain.EmployerUsecase
}

func NewEmployerHandler(r *gin.RouterGroup, employerUC domain.EmployerUsecase) {
	handler := &EmployerHandler{employerUC: employerUC}

	employers := r.Group("/employers")
	{
		employers.GET("/profile", handler.GetProfile)
		employers.PUT("/profile", handler.UpdateProfile)
		employers.GET("/dashboard", handler.GetDashboard)
	}
}

type UpdateEmployerRequest struct {
	CompanyName *string `json:"company_name"`
	City        *string `json:"city"`
}

// GetProfile godoc
// @Summary      Get employer profile
// @Tags         employers
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Employer}
// @Failure      404  {object}  response.Response
// @Router       /employers/profile [get]
// @Security     BearerAuth
func (h *EmployerHandler) GetProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	employer, err := h.employerUC.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Employer profile", employer)
}

// UpdateProfile godoc
// @Summary      Update employer profile
// @Tags         employers
// @Accept       json
// @Produce      json
// @Param        body  body      UpdateEmployerRequest  true  "Profile fields"
// @Success      200   {object}  response.Response{data=domain.Employer}
// @Router       /employers/profile [put]
// @Security     BearerAuth
func (h *EmployerHandler) UpdateProfile(c *gin.Context) {
	var req UpdateEmployerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.FormatBindingError(err)))
		return
	}
	userID := c.GetString(string(domain.KeyUserID))

	employer, err := h.employerUC.UpdateProfile(c.Request.Context(), userID, req.CompanyName, req.City)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", employer)
}

// GetDashboard godoc
// @Summary      Employer dashboard
// @Description  Match counters, posted jobs and pending matches awaiting a decision
// @Tags         employers
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.EmployerDashboard}
// @Router       /employers/dashboard [get]
// @Security     BearerAuth
func (h *EmployerHandler) GetDashboard(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	dashboard, err := h.employerUC.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard", dashboard)
}
