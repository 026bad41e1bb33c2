package v1

import (
	"net/http"
	"time"

	"go-jobmatch-backend/config"
	"go-jobmatch-backend/internal/delivery/http/middleware"
	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/auth"
	"go-jobmatch-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type RouterDeps struct {
	AuthUC      domain.AuthUsecase
	CandidateUC domain.CandidateUsecase
	EmployerUC  domain.EmployerUsecase
	JobUC       domain.JobUsecase
	MatchUC     domain.MatchUsecase
	Tokens      *auth.TokenService
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 64 << 20

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second

	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL))
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.GlobalRateLimit(deps.Config.RateLimitGlobalThreshold, window))
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens, deps.AuthUC))

	// Credential endpoints carry their own strict limiter.
	loginLimit := middleware.LoginRateLimit(deps.Config.RateLimitLoginThreshold, window)
	NewAuthHandler(v1, protected, loginLimit, deps.AuthUC)

	candidate := protected.Group("")
	candidate.Use(middleware.RequireRole(domain.RoleCandidate))
	NewCandidateHandler(candidate, deps.CandidateUC)

	employer := protected.Group("")
	employer.Use(middleware.RequireRole(domain.RoleEmployer))
	NewEmployerHandler(employer, deps.EmployerUC)
	NewJobHandler(employer, deps.JobUC)
	NewMatchHandler(employer, candidate, deps.MatchUC)

	return r
}
