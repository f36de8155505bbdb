package middleware

import (
	"net/http"

	"formbuilder/internal/app/dto"

	"github.com/gin-gonic/gin"
)

// Recovery превращает панику в обработчике в 500 с единым конвертом
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		Logger(c).Errorf("panic recovered: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Envelope{
			Success: false,
			Error:   "Internal server error",
			Message: "Failed to process request",
		})
	})
}
