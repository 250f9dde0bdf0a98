package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spakle/amarquiz-backend/internal/config"
	"github.com/spakle/amarquiz-backend/internal/handler"
	"github.com/spakle/amarquiz-backend/internal/middleware"
	"github.com/spakle/amarquiz-backend/internal/response"
	"github.com/spakle/amarquiz-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Identity *handler.IdentityHandler
	Schedule *handler.ScheduleHandler
	Exam     *handler.ExamHandler
	Session  *handler.SessionHandler
	History  *handler.HistoryHandler
	WS       *handler.WSHandler
	System   *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	identityService *service.IdentityService,
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
	router.GET("/health", handlers.System.Health)

	// Submit path gets a tighter limiter than the rest of the API.
	apiLimiter := middleware.NewRateLimiter(120, time.Minute)
	submitLimiter := middleware.NewRateLimiter(10, time.Minute)

	// ─── Public API ────────────────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(apiLimiter.Middleware(), middleware.OptionalIdentity(identityService))
	{
		api.POST("/identity", handlers.Identity.SaveIdentity)

		// The routine is immutable once published; let clients cache it.
		api.GET("/schedule", middleware.CacheControl(3600), handlers.Schedule.GetSchedule)
		api.GET("/exams/today", handlers.Exam.GetToday)
		api.GET("/exams/today/paper", handlers.Exam.GetTodayPaper)

		api.POST("/sessions", handlers.Session.OpenSession)
		api.GET("/sessions/:session_id", handlers.Session.GetState)
		api.PUT("/sessions/:session_id/answers", handlers.Session.PutAnswer)
		api.POST("/sessions/:session_id/submit", submitLimiter.Middleware(), handlers.Session.Submit)
		api.GET("/sessions/:session_id/result", handlers.Session.GetResult)

		api.GET("/history", handlers.History.GetHistory)
	}

	// ─── WebSocket ─────────────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.OptionalIdentity(identityService))
	{
		ws.GET("/sessions/:session_id/stream", handlers.WS.SessionStream)
	}

	return router
}
