package v1

import (
	"net/http"

	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

func NewJobHandler(employer *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	jobs := employer.Group("/jobs")
	{
		jobs.POST("", handler.Create)
		jobs.GET("", handler.ListMine)
		jobs.GET("/:id", handler.Get)
		jobs.PUT("/:id", handler.Update)
		jobs.DELETE("/:id", handler.Delete)
	}
}

type JobRequest struct {
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description" binding:"required"`
	Category       *string  `json:"category"`
	RequiredYears  *int     `json:"required_years"`
	RequiredSkills []string `json:"required_skills"`
	SalaryRange    *string  `json:"salary_range"`
	Requirements   string   `json:"requirements"`
	WorkType       string   `json:"work_type" binding:"required,oneof=remote hybrid onsite"`
	Location       string   `json:"location"`
}

func (r *JobRequest) toDomain() *domain.Job {
	return &domain.Job{
		Title:          r.Title,
		Description:    r.Description,
		Category:       r.Category,
		RequiredYears:  r.RequiredYears,
		RequiredSkills: r.RequiredSkills,
		SalaryRange:    r.SalaryRange,
		Requirements:   r.Requirements,
		WorkType:       r.WorkType,
		Location:       r.Location,
	}
}

// Create godoc
// @Summary      Create a job posting
// @Description  Creates the job, derives its skill profile from the description and starts a background matching sweep.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        body  body      JobRequest  true  "Job"
// @Success      201   {object}  response.Response{data=domain.JobMutationResult}
// @Failure      400   {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.FormatBindingError(err)))
		return
	}
	userID := c.GetString(string(domain.KeyUserID))

	result, err := h.jobUC.CreateJob(c.Request.Context(), userID, req.toDomain())
	if err != nil {
		c.Error(err)
		return
	}
	if result.Warning != "" {
		response.SuccessWithWarning(c, http.StatusCreated, "Job created", result, result.Warning)
		return
	}
	response.Success(c, http.StatusCreated, "Job created", result)
}

// ListMine godoc
// @Summary      List my job postings
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.JobWithProfile}
// @Router       /jobs [get]
// @Security     BearerAuth
func (h *JobHandler) ListMine(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	jobs, err := h.jobUC.ListMyJobs(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs", jobs)
}

// Get godoc
// @Summary      Get one of my job postings
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.JobWithProfile}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
// @Security     BearerAuth
func (h *JobHandler) Get(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	job, err := h.jobUC.GetJob(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job", job)
}

// Update godoc
// @Summary      Update a job posting
// @Description  A changed description re-derives the skill profile and re-runs the matching sweep.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        body  body      JobRequest  true  "Job"
// @Success      200   {object}  response.Response{data=domain.JobMutationResult}
// @Router       /jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.FormatBindingError(err)))
		return
	}
	userID := c.GetString(string(domain.KeyUserID))

	job := req.toDomain()
	job.ID = c.Param("id")

	result, err := h.jobUC.UpdateJob(c.Request.Context(), userID, job)
	if err != nil {
		c.Error(err)
		return
	}
	if result.Warning != "" {
		response.SuccessWithWarning(c, http.StatusOK, "Job updated", result, result.Warning)
		return
	}
	response.Success(c, http.StatusOK, "Job updated", result)
}

// Delete godoc
// @Summary      Delete a job posting and its matches
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	if err := h.jobUC.DeleteJob(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job deleted", nil)
}
