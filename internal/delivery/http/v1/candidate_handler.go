package v1

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// Per-file upload caps.
const (
	maxCVSize    = 10 << 20
	maxImageSize = 5 << 20
	maxVideoSize = 50 << 20
)

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
}

func NewCandidateHandler(r *gin.RouterGroup, candidateUC domain.CandidateUsecase) {
	handler := &CandidateHandler{candidateUC: candidateUC}

	candidates := r.Group("/candidates")
	{
		candidates.GET("/profile", handler.GetProfile)
		candidates.PUT("/profile", handler.UpdateProfile)

		candidates.POST("/educations", handler.AddEducation)
		candidates.PUT("/educations/:id", handler.UpdateEducation)
		candidates.DELETE("/educations/:id", handler.DeleteEducation)

		candidates.POST("/experiences", handler.AddExperience)
		candidates.PUT("/experiences/:id", handler.UpdateExperience)
		candidates.DELETE("/experiences/:id", handler.DeleteExperience)
	}
}

// GetProfile godoc
// @Summary      Get candidate profile
// @Description  Full profile of the logged-in candidate, with signed media URLs
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.CandidateDetail}
// @Failure      404  {object}  response.Response
// @Router       /candidates/profile [get]
// @Security     BearerAuth
func (h *CandidateHandler) GetProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	profile, err := h.candidateUC.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate profile", profile)
}

type candidateProfileJSON struct {
	Name              *string  `json:"name" binding:"omitempty,valid_name"`
	City              *string  `json:"city"`
	ExperienceYears   *int     `json:"experience_years"`
	Category          *string  `json:"category"`
	SalaryExpectation *float64 `json:"salary_expectation"`
	Skills            []string `json:"skills"`
	Languages         []string `json:"languages"`
	Summary           *string  `json:"summary"`
	CountryCode       *string  `json:"country_code" binding:"omitempty,country_code"`
	MobileNumber      *string  `json:"mobile_number" binding:"omitempty,valid_phone"`
}

// UpdateProfile godoc
// @Summary      Update candidate profile
// @Description  Partial update. Accepts JSON, or multipart/form-data when uploading a CV, intro video or profile image. A CV upload triggers text extraction and skill analysis.
// @Tags         candidates
// @Accept       mpfd
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.ProfileUpdateResult}
// @Failure      400  {object}  response.Response
// @Router       /candidates/profile [put]
// @Security     BearerAuth
func (h *CandidateHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	var update *domain.CandidateProfileUpdate
	var err error
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		update, err = parseProfileForm(c)
	} else {
		update, err = parseProfileJSON(c)
	}
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.candidateUC.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		c.Error(err)
		return
	}
	if result.Warning != "" {
		response.SuccessWithWarning(c, http.StatusOK, "Profile updated", result, result.Warning)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", result)
}

func parseProfileJSON(c *gin.Context) (*domain.CandidateProfileUpdate, error) {
	var req candidateProfileJSON
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, apperror.BadRequest(validation.FormatBindingError(err))
	}
	return &domain.CandidateProfileUpdate{
		Name:              req.Name,
		City:              req.City,
		ExperienceYears:   req.ExperienceYears,
		Category:          req.Category,
		SalaryExpectation: req.SalaryExpectation,
		Skills:            req.Skills,
		Languages:         req.Languages,
		Summary:           req.Summary,
		CountryCode:       req.CountryCode,
		MobileNumber:      req.MobileNumber,
	}, nil
}

func parseProfileForm(c *gin.Context) (*domain.CandidateProfileUpdate, error) {
	update := &domain.CandidateProfileUpdate{}

	update.Name = formString(c, "name")
	update.City = formString(c, "city")
	update.Category = formString(c, "category")
	update.Summary = formString(c, "summary")
	update.CountryCode = formString(c, "country_code")
	update.MobileNumber = formString(c, "mobile_number")

	if v, ok := c.GetPostForm("experience_years"); ok {
		years, err := strconv.Atoi(v)
		if err != nil {
			return nil, apperror.BadRequest("experience_years must be an integer")
		}
		update.ExperienceYears = &years
	}
	if v, ok := c.GetPostForm("salary_expectation"); ok {
		salary, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, apperror.BadRequest("salary_expectation must be a number")
		}
		update.SalaryExpectation = &salary
	}
	if v, ok := c.GetPostForm("skills"); ok {
		update.Skills = splitList(v)
	}
	if v, ok := c.GetPostForm("languages"); ok {
		update.Languages = splitList(v)
	}

	var err error
	if update.CV, err = formFile(c, "cv", maxCVSize); err != nil {
		return nil, err
	}
	if update.Video, err = formFile(c, "video", maxVideoSize); err != nil {
		return nil, err
	}
	if update.ProfileImage, err = formFile(c, "profile_image", maxImageSize); err != nil {
		return nil, err
	}
	return update, nil
}

func formString(c *gin.Context, field string) *string {
	if v, ok := c.GetPostForm(field); ok {
		return &v
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func formFile(c *gin.Context, field string, maxSize int64) (*domain.FileUpload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, apperror.BadRequest("Invalid " + field + " upload")
	}
	if header.Size > maxSize {
		return nil, apperror.BadRequest(field + " exceeds the maximum allowed size")
	}
	return readUpload(header)
}

func readUpload(header *multipart.FileHeader) (*domain.FileUpload, error) {
	f, err := header.Open()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.FileUpload{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
	}, nil
}

type EducationRequest struct {
	SchoolName string     `json:"school_name" binding:"required"`
	Degree     *string    `json:"degree"`
	StartDate  *time.Time `json:"start_date" time_format:"2006-01-02"`
	EndDate    *time.Time `json:"end_date" time_format:"2006-01-02"`
	Location   *string    `json:"location"`
}

// AddEducation godoc
// @Summary      Add an education entry
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        body  body      EducationRequest  true  "Education"
// @Success      201   {object}  response.Response
// @Router       /candidates/educations [post]
// @Security     BearerAuth
func (h *CandidateHandler) AddEducation(c *gin.Context) {
	var req EducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.FormatBindingError(err)))
		return
	}
	userID := c.GetString(string(domain.KeyUserID))

	edu := &domain.CandidateEducation{
		SchoolName: req.SchoolName,
		Degree:     req.Degree,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Location:   req.Location,
	}
	if err := h.candidateUC.AddEducation(c.Request.Context(), userID, edu); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Education added", edu)
}

func (h *CandidateHandler) UpdateEducation(c *gin.Context) {
	var req EducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.FormatBindingError(err)))
		return
	}
	userID := c.GetString(string(domain.KeyUserID))

	edu := &domain.CandidateEducation{
		ID:         c.Param("id"),
		SchoolName: req.SchoolName,
		Degree:     req.Degree,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Location:   req.Location,
	}
	if err := h.candidateUC.UpdateEducation(c.Request.Context(), userID, edu); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Education updated", edu)
}

func (h *CandidateHandler) DeleteEducation(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	if err := h.candidateUC.DeleteEducation(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Education deleted", nil)
}

type ExperienceRequest struct {
	Title       string     `json:"title" binding:"required"`
	CompanyName *string    `json:"company_name"`
	Department  *string    `json:"department"`
	StartDate   *time.Time `json:"start_date" time_format:"2006-01-02"`
	EndDate     *time.Time `json:"end_date" time_format:"2006-01-02"`
	Location    *string    `json:"location"`
}

// AddExperience godoc
// @Summary      Add a work experience entry
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        body  body      ExperienceRequest  true  "Experience"
// @Success      201   {object}  response.Response
// @Router       /candidates/experiences [post]
// @Security     BearerAuth
func (h *CandidateHandler) AddExperience(c *gin.Context) {
	var req ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.FormatBindingError(err)))
		return
	}
	userID := c.GetString(string(domain.KeyUserID))

	exp := &domain.CandidateExperience{
		Title:       req.Title,
		CompanyName: req.CompanyName,
		Department:  req.Department,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
	}
	if err := h.candidateUC.AddExperience(c.Request.Context(), userID, exp); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Experience added", exp)
}

func (h *CandidateHandler) UpdateExperience(c *gin.Context) {
	var req ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.FormatBindingError(err)))
		return
	}
	userID := c.GetString(string(domain.KeyUserID))

	exp := &domain.CandidateExperience{
		ID:          c.Param("id"),
		Title:       req.Title,
		CompanyName: req.CompanyName,
		Department:  req.Department,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
	}
	if err := h.candidateUC.UpdateExperience(c.Request.Context(), userID, exp); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Experience updated", exp)
}

func (h *CandidateHandler) DeleteExperience(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	if err := h.candidateUC.DeleteExperience(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Experience deleted", nil)
}
