package handler

import (
	"errors"
	"net/http"
	"time"

	"formbuilder/internal/app/dto"
	"formbuilder/internal/app/middleware"

	"github.com/gin-gonic/gin"
)

// LogoutUser отзывает токен оператора до истечения его срока
// @Summary Выход
// @Description Добавляет токен в blacklist (Redis)
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Envelope
// @Failure 401 {object} dto.Envelope
// @Failure 503 {object} dto.Envelope
// @Router /api/auth/logout [post]
func (h *Handler) LogoutUser(c *gin.Context) {
	if h.Revoker == nil {
		h.errorResponse(c, http.StatusServiceUnavailable, errors.New("token blacklist is not configured"), "Logout unavailable")
		return
	}

	tokenString := middleware.BearerToken(c)
	if tokenString == "" {
		h.errorResponse(c, http.StatusUnauthorized, errors.New("authorization header missing"), "Logout failed")
		return
	}

	claims, err := middleware.ParseJWT(h.Config.JWT, tokenString)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, err, "Logout failed")
		return
	}

	// Вычисление TTL до истечения токена
	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl <= 0 {
		h.successResponse(c, http.StatusOK, "Token already expired", nil)
		return
	}

	if err := h.Revoker.WriteJWTToBlacklist(c.Request.Context(), tokenString, ttl); err != nil {
		h.errorResponse(c, http.StatusInternalServerError, err, "Logout failed")
		return
	}

	h.successResponse(c, http.StatusOK, "Logged out", nil)
}

// GetProfile оператор, от имени которого выполнен запрос
// @Summary Профиль оператора
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Envelope{data=dto.ProfileResponse}
// @Failure 401 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /api/auth/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	operator, ok := middleware.GetOperatorFromContext(c)
	if !ok {
		h.errorResponse(c, http.StatusNotFound, errors.New("authorization is disabled"), "No operator")
		return
	}

	h.successResponse(c, http.StatusOK, "", dto.ProfileResponse{
		OperatorUUID: operator.UUID.String(),
		Role:         operator.Role.String(),
		ExpiresAt:    operator.ExpiresAt,
	})
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Description Возвращает простой ответ для проверки работы сервера
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
