package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spakle/amarquiz-backend/internal/response"
)

// SystemHandler serves liveness/readiness probes.
type SystemHandler struct {
	pool      *pgxpool.Pool
	rdb       *redis.Client
	startTime time.Time
	log       zerolog.Logger
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		pool:      pool,
		rdb:       rdb,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

// Health godoc
// GET /health
// Pings both stores; degraded dependencies are reported, not fatal, since the
// schedule endpoints can still serve from pure derivation.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	dbStatus := "ok"
	if err := h.pool.Ping(ctx); err != nil {
		dbStatus = "down"
		h.log.Warn().Err(err).Msg("Postgres ping failed")
	}
	redisStatus := "ok"
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		redisStatus = "down"
		h.log.Warn().Err(err).Msg("Redis ping failed")
	}

	response.Success(c, http.StatusOK, gin.H{
		"status":   "ok",
		"uptime":   time.Since(h.startTime).Round(time.Second).String(),
		"postgres": dbStatus,
		"redis":    redisStatus,
	})
}
