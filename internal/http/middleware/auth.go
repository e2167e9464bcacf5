package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mavedb-backend/internal/http/response"
	"github.com/yungbote/mavedb-backend/internal/platform/apierr"
	"github.com/yungbote/mavedb-backend/internal/platform/ctxutil"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
	"github.com/yungbote/mavedb-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// OptionalAuth attaches the caller when a token is present. Requests without one continue
// anonymously; a token that does not verify is rejected.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !am.attach(c) {
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if extractTokenFromAll(c) == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			c.Abort()
			return
		}
		if !am.attach(c) {
			return
		}
		if ctxutil.GetRequestData(c.Request.Context()).UserID() == 0 {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) attach(c *gin.Context) bool {
	tokenString := extractTokenFromAll(c)
	if tokenString == "" {
		return true
	}
	ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
	if err != nil {
		am.log.Debug("Token rejected", "path", c.Request.URL.Path, "error", err)
		var ae *apierr.Error
		if errors.As(err, &ae) && ae.Status >= http.StatusInternalServerError {
			response.RespondAPIError(c, err)
		} else {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		}
		c.Abort()
		return false
	}
	c.Request = c.Request.WithContext(ctx)
	return true
}

func extractTokenFromAll(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
