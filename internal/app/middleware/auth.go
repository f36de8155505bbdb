package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"formbuilder/internal/app/config"
	"formbuilder/internal/app/ds"
	"formbuilder/internal/app/dto"
	"formbuilder/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

// TokenBlacklist хранилище отозванных токенов (Redis)
type TokenBlacklist interface {
	IsJWTBlacklisted(ctx context.Context, token string) (bool, error)
}

type AuthMiddleware struct {
	Blacklist TokenBlacklist
	Config    *config.Config
}

// NewAuthMiddleware blacklist может быть nil (Redis не настроен)
func NewAuthMiddleware(blacklist TokenBlacklist, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		Blacklist: blacklist,
		Config:    cfg,
	}
}

// BearerToken достаёт токен из заголовка Authorization
func BearerToken(gCtx *gin.Context) string {
	jwtStr := gCtx.GetHeader("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(jwtStr, "Bearer "))
}

func abort(gCtx *gin.Context, status int, message string) {
	gCtx.AbortWithStatusJSON(status, dto.Envelope{
		Success: false,
		Error:   http.StatusText(status),
		Message: message,
	})
}

// WithAuthCheck middleware для проверки авторизации с ролями.
// При выключенной авторизации (Auth.Enabled=false) пропускает все запросы.
func (am *AuthMiddleware) WithAuthCheck(assignedRoles ...role.Role) gin.HandlerFunc {
	return func(gCtx *gin.Context) {
		if !am.Config.Auth.Enabled {
			gCtx.Next()
			return
		}

		jwtStr := BearerToken(gCtx)
		if jwtStr == "" {
			abort(gCtx, http.StatusUnauthorized, "authorization header missing")
			return
		}

		if am.Blacklist != nil {
			revoked, err := am.Blacklist.IsJWTBlacklisted(gCtx.Request.Context(), jwtStr)
			if err != nil {
				Logger(gCtx).WithError(err).Error("token blacklist check failed")
				abort(gCtx, http.StatusInternalServerError, "token blacklist unavailable")
				return
			}
			if revoked {
				abort(gCtx, http.StatusUnauthorized, "token revoked")
				return
			}
		}

		claims, err := ParseJWT(am.Config.JWT, jwtStr)
		if err != nil {
			abort(gCtx, http.StatusUnauthorized, "invalid token")
			return
		}

		if len(assignedRoles) > 0 && !hasRequiredRole(claims.Role, assignedRoles) {
			abort(gCtx, http.StatusForbidden, "insufficient role")
			return
		}

		setOperator(gCtx, claims)

		gCtx.Next()
	}
}

// ParseJWT парсит и валидирует токен оператора
func ParseJWT(cfg config.JWTConfig, tokenString string) (*ds.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if cfg.SigningMethod != nil && token.Method.Alg() != cfg.SigningMethod.Alg() {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.Token), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*ds.JWTClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}

// IssueJWT выпускает токен оператора с указанной ролью; ttl == 0 - срок из конфига
func IssueJWT(cfg config.JWTConfig, r role.Role, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = cfg.ExpiresIn
	}
	method := cfg.SigningMethod
	if method == nil {
		method = jwt.SigningMethodHS256
	}

	now := time.Now()
	token := jwt.NewWithClaims(method, ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    "form-builder",
		},
		OperatorUUID: uuid.New(),
		Role:         r,
	})
	return token.SignedString([]byte(cfg.Token))
}

// hasRequiredRole проверяет, есть ли у пользователя необходимая роль
func hasRequiredRole(userRole role.Role, requiredRoles []role.Role) bool {
	for _, requiredRole := range requiredRoles {
		if userRole == requiredRole {
			return true
		}
	}
	return false
}
