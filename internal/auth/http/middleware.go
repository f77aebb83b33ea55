package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
	authUseCase "github.com/lynlab/luppiter/internal/auth/usecase"
	apperrors "github.com/lynlab/luppiter/internal/errors"
	"github.com/lynlab/luppiter/internal/httputil"
)

// APIKeyHeader carries the API key on protected endpoints.
const APIKeyHeader = "X-Api-Key"

// PermissionOption customizes RequirePermission.
type PermissionOption func(*permissionOptions)

type permissionOptions struct {
	optional bool
}

// Optional lets requests without an API key through anonymously. A key that is present but
// unknown or insufficient is still rejected.
func Optional() PermissionOption {
	return func(o *permissionOptions) {
		o.optional = true
	}
}

// RequirePermission resolves the X-Api-Key header and checks it against permission.
//
// The middleware:
// 1. Reads the X-Api-Key header
// 2. Resolves the key with its member and grants via APIKeyUseCase.Authenticate
// 3. Evaluates the grants with the hierarchical permission model
// 4. Stores the key in the request context for handlers (GetAPIKey)
//
// Missing, unknown and insufficient keys all produce the same 401 "unauthorized" body.
// Repository failures produce 500.
//
// Usage:
//
//	router.GET("/vulcan/certs/certificates",
//	    RequirePermission(apiKeyUseCase, authDomain.PermCertsRead, logger),
//	    handler.ListHandler)
func RequirePermission(
	apiKeyUseCase authUseCase.APIKeyUseCase,
	permission string,
	logger *slog.Logger,
	opts ...PermissionOption,
) gin.HandlerFunc {
	options := permissionOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			if options.optional {
				c.Next()
				return
			}
			logger.Debug("authorization failed: missing api key",
				slog.String("permission", permission))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		apiKey, err := apiKeyUseCase.Authenticate(c.Request.Context(), key)
		if err != nil {
			logger.Debug("authorization failed: api key not resolved",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		if !apiKey.HasPermission(permission) {
			logger.Debug("authorization failed: insufficient permissions",
				slog.Int64("api_key_id", apiKey.ID),
				slog.String("permission", permission))
			httputil.HandleErrorGin(c, authDomain.ErrPermissionDenied, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithAPIKey(c.Request.Context(), apiKey))
		c.Next()
	}
}

// MemberAuthenticationMiddleware authenticates identity provider bearer tokens.
//
// Authorization header format: "Bearer <token>" (case-insensitive "bearer").
// The member must already exist; members are created by GET /vulcan/auth/me.
func MemberAuthenticationMiddleware(memberUseCase authUseCase.MemberUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		member, err := memberUseCase.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithMember(c.Request.Context(), member))
		c.Next()
	}
}

// BearerToken extracts the bearer token of the Authorization header.
func BearerToken(c *gin.Context) (string, bool) {
	const bearerPrefix = "bearer "

	authHeader := c.GetHeader("Authorization")
	if len(authHeader) <= len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	return token, token != ""
}
