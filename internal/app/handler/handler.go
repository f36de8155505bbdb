package handler

import (
	"context"
	"net/http"
	"time"

	"formbuilder/internal/app/config"
	"formbuilder/internal/app/dto"
	"formbuilder/internal/app/formbuilder"
	"formbuilder/internal/app/middleware"
	"formbuilder/internal/app/repository"

	"github.com/gin-gonic/gin"
)

// TokenRevoker запись отозванных токенов (Redis)
type TokenRevoker interface {
	WriteJWTToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

type Handler struct {
	Service    *formbuilder.Service
	Repository *repository.Repository
	Auth       *middleware.AuthMiddleware
	Revoker    TokenRevoker
	Config     *config.Config
}

// NewHandler revoker может быть nil: тогда /api/auth/logout отвечает 503
func NewHandler(svc *formbuilder.Service, repo *repository.Repository, auth *middleware.AuthMiddleware, revoker TokenRevoker, cfg *config.Config) *Handler {
	return &Handler{
		Service:    svc,
		Repository: repo,
		Auth:       auth,
		Revoker:    revoker,
		Config:     cfg,
	}
}

// Централизованная обработка ошибок
func (h *Handler) errorResponse(c *gin.Context, statusCode int, err error, message string) {
	entry := middleware.Logger(c).WithError(err).WithField("status", statusCode)
	if statusCode >= http.StatusInternalServerError {
		entry.Error(message)
	} else {
		entry.Warn(message)
	}
	c.JSON(statusCode, dto.Envelope{
		Success: false,
		Error:   err.Error(),
		Message: message,
	})
}

func (h *Handler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, dto.Envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// writeResult отдаёт конверт сервиса как есть, выбирая код по исходу
func (h *Handler) writeResult(c *gin.Context, res formbuilder.Result, okStatus, failStatus int) {
	status := okStatus
	switch {
	case res.Unexpected:
		status = http.StatusInternalServerError
	case res.Unavailable:
		status = http.StatusServiceUnavailable
	case !res.Success:
		status = failStatus
	}
	if !res.Success {
		middleware.Logger(c).WithField("status", status).Warnf("%s: %s", res.Message, res.Error)
	}
	c.JSON(status, res)
}
