package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	healthOK       = "ok"
	healthDegraded = "degraded"
)

type HealthResponse struct {
	Status   string            `json:"status" example:"ok"`
	Services map[string]string `json:"services" example:"mongodb:ok,redis:ok,rabbitmq:ok"`
}

type HealthChecker struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthController struct {
	checkers []HealthChecker
	timeout  time.Duration
}

func NewHealthController(checkers []HealthChecker) *HealthController {
	return &HealthController{checkers: checkers, timeout: 2 * time.Second}
}

// Health godoc
// @Summary     Health check
// @Description Pings mongodb, redis and rabbitmq in parallel
// @Tags        health
// @Produce     json
// @Success     200 {object} HealthResponse
// @Failure     503 {object} HealthResponse
// @Router      /api/health [get]
func (h *HealthController) Health(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		mu       sync.Mutex
		group    errgroup.Group
		services = make(map[string]string, len(h.checkers))
		status   = healthOK
	)

	for _, checker := range h.checkers {
		group.Go(func() error {
			result := h.run(ctx, checker)

			mu.Lock()
			defer mu.Unlock()
			services[checker.Name] = result
			if result != healthOK {
				status = healthDegraded
			}
			return nil
		})
	}
	_ = group.Wait()

	code := http.StatusOK
	if status != healthOK {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:   status,
		Services: services,
	})
}

func (h *HealthController) run(ctx context.Context, checker HealthChecker) string {
	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := checker.Check(checkCtx); err != nil {
		logger.Warn(ctx, "health check failed", map[string]any{
			"service": checker.Name,
			"error":   err.Error(),
		})
		return err.Error()
	}
	return healthOK
}
