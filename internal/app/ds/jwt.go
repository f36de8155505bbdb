package ds

import (
	"formbuilder/internal/app/role"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

type JWTClaims struct {
	jwt.StandardClaims
	OperatorUUID uuid.UUID `json:"operator_uuid"`
	Role         role.Role `json:"role"`
}
