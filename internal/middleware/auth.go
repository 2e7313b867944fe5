package middleware

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/oduppinsjr/rapid-web-ai/internal/apperror"
	"github.com/oduppinsjr/rapid-web-ai/internal/model"
	"github.com/oduppinsjr/rapid-web-ai/pkg/jwtutil"
	"github.com/oduppinsjr/rapid-web-ai/pkg/logger"
	"go.uber.org/zap"
)

const userIDKey = "user_id"

// UserEnsurer creates the user row on first authentication and refreshes its
// identity claims on later ones
type UserEnsurer interface {
	EnsureUser(ctx context.Context, user *model.User) (*model.User, error)
}

// Authenticator validates identity provider tokens
type Authenticator struct {
	jwt   *jwtutil.JWTUtil
	users UserEnsurer
}

// NewAuthenticator creates the bearer token middleware
func NewAuthenticator(jwt *jwtutil.JWTUtil, users UserEnsurer) *Authenticator {
	return &Authenticator{jwt: jwt, users: users}
}

// Middleware validates the JWT token, makes sure the user exists and stores the user ID
// in the context
func (a *Authenticator) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return apperror.Unauthenticated()
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			log.Warn("Invalid Authorization header format")
			return apperror.Unauthenticated()
		}

		claims, err := a.jwt.ValidateToken(parts[1])
		if err != nil {
			log.Warn("Invalid JWT token", zap.Error(err))
			return apperror.Unauthenticated()
		}

		user := &model.User{
			ID:              claims.Subject,
			Email:           optional(claims.Email),
			FirstName:       optional(claims.FirstName),
			LastName:        optional(claims.LastName),
			ProfileImageURL: optional(claims.ProfileImageURL),
		}
		if _, err := a.users.EnsureUser(c.Request().Context(), user); err != nil {
			log.Error("Failed to ensure user", zap.String("user_id", claims.Subject), zap.Error(err))
			return err
		}

		c.Set(userIDKey, claims.Subject)
		setLogger(c, log.With(zap.String("user_id", claims.Subject)))

		return next(c)
	}
}

// UserIDFromContext returns the authenticated user ID
func UserIDFromContext(c echo.Context) (string, bool) {
	userID, ok := c.Get(userIDKey).(string)
	return userID, ok && userID != ""
}

// AdminKeyMiddleware guards operator endpoints with a shared key sent in X-Admin-Key.
// An empty configured key rejects every request.
func AdminKeyMiddleware(adminKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			provided := c.Request().Header.Get("X-Admin-Key")
			if adminKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(adminKey)) != 1 {
				logger.FromContext(c).Warn("Rejected admin request")
				return apperror.Unauthenticated()
			}
			return next(c)
		}
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
