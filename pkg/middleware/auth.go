package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/codegrapher/graphers/internal/models"
	"github.com/codegrapher/graphers/internal/tokens"
	"github.com/codegrapher/graphers/internal/users"
	"github.com/codegrapher/graphers/pkg/logger"
	"github.com/codegrapher/graphers/pkg/metrics"
	"github.com/codegrapher/graphers/pkg/response"
	"github.com/gin-gonic/gin"
)

// UserKey is the gin context key holding the authorized *models.User.
const UserKey = "user"

// Authorizer is the minimal interface the middleware depends on
type Authorizer interface {
	Authorize(ctx context.Context, raw string) (*models.User, error)
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

// AuthMiddleware returns a Gin middleware that admits only requests carrying a
// token the authorizer accepts.
func AuthMiddleware(a Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			metrics.AuthFailures.WithLabelValues("missing").Inc()
			response.Unauthorized(c, "Not authenticated")
			return
		}

		u, err := a.Authorize(c.Request.Context(), raw)
		switch {
		case err == nil:
		case errors.Is(err, tokens.ErrExpired):
			metrics.AuthFailures.WithLabelValues("expired").Inc()
			response.Unauthorized(c, "Token has expired")
			return
		case errors.Is(err, tokens.ErrInvalid):
			metrics.AuthFailures.WithLabelValues("invalid").Inc()
			response.Unauthorized(c, "Invalid token")
			return
		case errors.Is(err, users.ErrUnauthorized):
			metrics.AuthFailures.WithLabelValues("unauthorized").Inc()
			response.Unauthorized(c, "Could not validate credentials")
			return
		default:
			logger.Errorf("authorize: %v", err)
			response.Abort(c, http.StatusInternalServerError, "Internal Server Error", "authorization check failed")
			return
		}

		c.Set(UserKey, u)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}
