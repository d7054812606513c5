package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"qbank/internal/domain"
	"qbank/internal/dto"
	"qbank/internal/session"
)

// HealthHandler reports liveness along with the session count and cache reachability
type HealthHandler struct {
	sessions *session.Manager
	cache    domain.Cache
}

// NewHealthHandler creates a HealthHandler. cache may be nil.
func NewHealthHandler(sessions *session.Manager, cache domain.Cache) *HealthHandler {
	return &HealthHandler{sessions: sessions, cache: cache}
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{Status: dto.StatusOK, Cache: "disabled"}
	if h.sessions != nil {
		resp.Sessions = h.sessions.Count()
	}
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			resp.Cache = "unreachable"
		} else {
			resp.Cache = dto.StatusOK
		}
	}
	return c.JSON(resp)
}
