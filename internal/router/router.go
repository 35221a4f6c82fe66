package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/simuconcursos/simulado-backend/internal/config"
	"github.com/simuconcursos/simulado-backend/internal/handler"
	"github.com/simuconcursos/simulado-backend/internal/middleware"
	"github.com/simuconcursos/simulado-backend/internal/response"
	"github.com/simuconcursos/simulado-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Practice *handler.PracticeHandler
	Exam     *handler.ExamHandler
	Question *handler.QuestionHandler
	Ingest   *handler.IngestHandler
	Stats    *handler.StatsHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireUserJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireUserJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Catalog Group (Public) ─────────────────────────────────────
	catalogAPI := router.Group("/api/v1")
	{
		catalogAPI.GET("/exams", handlers.Exam.ListExams)
		catalogAPI.GET("/exams/:id/positions", handlers.Exam.ListPositions)
	}

	// ─── 3. Practice Group (JWT + Single Device) ───────────────────────
	practiceAPI := router.Group("/api/v1/practice")
	practiceAPI.Use(
		middleware.RequireUserJWT(authService),
		middleware.CheckSingleDeviceLogin(authService),
	)
	{
		practiceAPI.GET("/subjects", handlers.Practice.ListSubjects)
		practiceAPI.GET("/progress", handlers.Stats.Progress)

		practiceAPI.POST("/sessions", handlers.Practice.Start)
		practiceAPI.GET("/sessions/current", handlers.Practice.State)
		practiceAPI.DELETE("/sessions/current", handlers.Practice.Abort)
		practiceAPI.GET("/sessions/current/question", handlers.Practice.Question)
		practiceAPI.POST("/sessions/current/answers", handlers.Practice.Answer)
		practiceAPI.POST("/sessions/current/navigate", handlers.Practice.Navigate)
		practiceAPI.POST("/sessions/current/finalize", handlers.Practice.Finalize)
	}

	// ─── 4. WebSocket Group (User WS Auth) ─────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireUserWSAuth(authService))
	{
		ws.GET("/practice/stream", handlers.WS.PracticeStream)
	}

	// ─── 5. Admin Group (JWT, Admin Only) ──────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Exam and position catalog
		adminAPI.POST("/exams", handlers.Exam.CreateExam)
		adminAPI.DELETE("/exams/:id", handlers.Exam.DeleteExam)
		adminAPI.POST("/exams/:id/positions", handlers.Exam.CreatePosition)
		adminAPI.DELETE("/positions/:id", handlers.Exam.DeletePosition)

		// Question bank
		adminAPI.GET("/questions", handlers.Question.List)
		adminAPI.POST("/questions", handlers.Question.Create)
		adminAPI.GET("/questions/:id", handlers.Question.Get)
		adminAPI.DELETE("/questions/:id", handlers.Question.Delete)
		adminAPI.PUT("/questions/:id/explanation", handlers.Question.SetExplanation)

		// Harvested-content ingestion
		adminAPI.POST("/ingest", handlers.Ingest.Ingest)
		adminAPI.POST("/ingest/backfill", handlers.Ingest.Backfill)
		adminAPI.POST("/ingest/resolve-duplicates", handlers.Ingest.ResolveDuplicates)
	}

	return router
}
