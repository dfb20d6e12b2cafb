package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "rvpark-listings/internal/errors"
)

// ContextUserID is the gin context key holding the token subject.
const ContextUserID = "user_id"

// JWTAuthMiddleware admits only HS512 tokens signed with secret whose roles
// claim contains requiredRole.
func JWTAuthMiddleware(secret, requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortWithError(c, apperrors.NewUnauthorizedError("no bearer token"))
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}))
		if err != nil || !token.Valid {
			abortWithError(c, apperrors.NewUnauthorizedError("invalid token"))
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWithError(c, apperrors.NewUnauthorizedError("invalid claims"))
			return
		}

		if !hasRole(claims["roles"], requiredRole) {
			abortWithError(c, apperrors.NewForbiddenError("admin access only"))
			return
		}

		sub, _ := claims.GetSubject()
		c.Set(ContextUserID, sub)
		c.Next()
	}
}

// roles may arrive as a JSON array or a single string.
func hasRole(raw interface{}, role string) bool {
	switch roles := raw.(type) {
	case []interface{}:
		for _, r := range roles {
			if s, ok := r.(string); ok && s == role {
				return true
			}
		}
	case []string:
		for _, s := range roles {
			if s == role {
				return true
			}
		}
	case string:
		return roles == role
	}
	return false
}

func abortWithError(c *gin.Context, err error) {
	se := apperrors.AsStandard(err)
	c.AbortWithStatusJSON(apperrors.HTTPStatus(se), gin.H{"error": se.Code, "message": se.Message})
}
