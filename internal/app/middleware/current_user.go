package middleware

import (
	"formbuilder/internal/app/ds"
	"formbuilder/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const operatorKey = "operator"

// Operator оператор, от имени которого выполняется запрос (из JWT)
type Operator struct {
	UUID      uuid.UUID
	Role      role.Role
	ExpiresAt int64
}

func setOperator(c *gin.Context, claims *ds.JWTClaims) {
	c.Set(operatorKey, &Operator{
		UUID:      claims.OperatorUUID,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt,
	})
}

// GetOperatorFromContext извлекает оператора из контекста; false если авторизация выключена
func GetOperatorFromContext(c *gin.Context) (*Operator, bool) {
	if v, exists := c.Get(operatorKey); exists {
		if op, ok := v.(*Operator); ok {
			return op, true
		}
	}
	return nil, false
}
