package server

import (
	"context"
	"net/http"
	"time"

	"gymclass/internal/api"
	"gymclass/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

// @Summary      Health check
// @Description  Reports "ok", or "degraded" with 503 when a dependency is unreachable.
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Failure      503 {object} api.HealthResponse
// @Router       /health [get]
func Health(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		resp := api.HealthResponse{Status: "ok"}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.WithError(err).Warn("health check failed", "dependency", name)
				if resp.Checks == nil {
					resp.Checks = map[string]string{}
				}
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
			}
		}

		if resp.Status != "ok" {
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
