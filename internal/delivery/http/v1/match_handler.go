package v1

import (
	"net/http"

	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchUC domain.MatchUsecase
}

func NewMatchHandler(employer *gin.RouterGroup, candidate *gin.RouterGroup, matchUC domain.MatchUsecase) {
	handler := &MatchHandler{matchUC: matchUC}

	// Employer side: review and decide on matches for owned jobs.
	employer.GET("/jobs/:id/matches", handler.ListJobMatches)
	matches := employer.Group("/matches")
	{
		matches.POST("/:id/shortlist", handler.Shortlist)
		matches.POST("/:id/reject", handler.Reject)
	}

	// Candidate side: recommendations and applications.
	candidates := candidate.Group("/candidates")
	{
		candidates.GET("/matches", handler.ListCandidateMatches)
		candidates.POST("/matches", handler.Apply)
		candidates.GET("/recommendations", handler.ListRecommendations)
		candidates.POST("/jobs/:id/reject", handler.RejectJob)
	}
}

// ListJobMatches godoc
// @Summary      List matches for one of my jobs
// @Description  Scored candidates for the job, best first, with signed CV and video links.
// @Tags         matches
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.MatchWithCandidate}
// @Failure      403  {object}  response.Response
// @Router       /jobs/{id}/matches [get]
// @Security     BearerAuth
func (h *MatchHandler) ListJobMatches(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	matches, err := h.matchUC.GetJobMatches(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Matches", matches)
}

// Shortlist godoc
// @Summary      Shortlist a pending match
// @Description  Moves the match to shortlisted and emails the candidate. The email is best effort; email_sent reports whether it went out.
// @Tags         matches
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.ShortlistResult}
// @Failure      409  {object}  response.Response
// @Router       /matches/{id}/shortlist [post]
// @Security     BearerAuth
func (h *MatchHandler) Shortlist(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	result, err := h.matchUC.ShortlistMatch(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Match shortlisted", result)
}

// Reject godoc
// @Summary      Reject a pending match
// @Tags         matches
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Match}
// @Failure      409  {object}  response.Response
// @Router       /matches/{id}/reject [post]
// @Security     BearerAuth
func (h *MatchHandler) Reject(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	match, err := h.matchUC.RejectMatch(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Match rejected", match)
}

// ListCandidateMatches godoc
// @Summary      List my matches
// @Description  Jobs this candidate has been matched with, best score first.
// @Tags         matches
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.MatchWithJob}
// @Router       /candidates/matches [get]
// @Security     BearerAuth
func (h *MatchHandler) ListCandidateMatches(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	matches, err := h.matchUC.GetCandidateMatches(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Matches", matches)
}

type ApplyRequest struct {
	JobID   string `json:"job_id" binding:"required"`
	Score   int    `json:"match_score"`
	Summary string `json:"match_summary"`
}

// Apply godoc
// @Summary      Apply to a job
// @Description  Records a pending match and an accepted application atomically.
// @Tags         matches
// @Accept       json
// @Produce      json
// @Param        body  body      ApplyRequest  true  "Application"
// @Success      201   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /candidates/matches [post]
// @Security     BearerAuth
func (h *MatchHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(validation.FormatBindingError(err)))
		return
	}
	userID := c.GetString(string(domain.KeyUserID))

	match, app, err := h.matchUC.AddMatch(c.Request.Context(), userID, req.JobID, req.Score, req.Summary)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application recorded", gin.H{
		"match":       match,
		"application": app,
	})
}

// RejectJob godoc
// @Summary      Dismiss a recommended job
// @Description  Records a rejected application so the job never resurfaces in recommendations.
// @Tags         matches
// @Produce      json
// @Success      201  {object}  response.Response{data=domain.JobApplication}
// @Router       /candidates/jobs/{id}/reject [post]
// @Security     BearerAuth
func (h *MatchHandler) RejectJob(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	app, err := h.matchUC.RejectJob(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job dismissed", app)
}

// ListRecommendations godoc
// @Summary      List recommended jobs
// @Description  Jobs in the candidate's category not yet applied to or dismissed.
// @Tags         matches
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.JobWithEmployer}
// @Router       /candidates/recommendations [get]
// @Security     BearerAuth
func (h *MatchHandler) ListRecommendations(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	jobs, err := h.matchUC.ListJobRecommendations(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Recommended jobs", jobs)
}
