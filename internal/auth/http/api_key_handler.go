package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
	"github.com/lynlab/luppiter/internal/auth/http/dto"
	authUseCase "github.com/lynlab/luppiter/internal/auth/usecase"
	apperrors "github.com/lynlab/luppiter/internal/errors"
	"github.com/lynlab/luppiter/internal/httputil"
	customValidation "github.com/lynlab/luppiter/internal/validation"
)

// APIKeyHandler handles HTTP requests for a member's API keys and their grants.
// Every route requires MemberAuthenticationMiddleware.
type APIKeyHandler struct {
	apiKeyUseCase authUseCase.APIKeyUseCase
	logger        *slog.Logger
}

// NewAPIKeyHandler creates a new API key handler.
func NewAPIKeyHandler(apiKeyUseCase authUseCase.APIKeyUseCase, logger *slog.Logger) *APIKeyHandler {
	return &APIKeyHandler{
		apiKeyUseCase: apiKeyUseCase,
		logger:        logger,
	}
}

// ListHandler lists the member's API keys.
// GET /vulcan/auth/api_keys
func (h *APIKeyHandler) ListHandler(c *gin.Context) {
	member, ok := h.member(c)
	if !ok {
		return
	}

	apiKeys, err := h.apiKeyUseCase.List(c.Request.Context(), member.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAPIKeysToResponse(apiKeys))
}

// CreateHandler issues a new API key without grants.
// POST /vulcan/auth/api_keys - Returns 201 Created with the key.
func (h *APIKeyHandler) CreateHandler(c *gin.Context) {
	member, ok := h.member(c)
	if !ok {
		return
	}

	var req dto.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	apiKey, err := h.apiKeyUseCase.Create(c.Request.Context(), member.ID, req.Memo)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapAPIKeyToResponse(apiKey))
}

// DeleteHandler removes one of the member's API keys.
// DELETE /vulcan/auth/api_keys/:key - Returns 204 No Content.
func (h *APIKeyHandler) DeleteHandler(c *gin.Context) {
	member, ok := h.member(c)
	if !ok {
		return
	}

	if err := h.apiKeyUseCase.Delete(c.Request.Context(), member.ID, c.Param("key")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ListPermissionsHandler lists the grants of one of the member's API keys.
// GET /vulcan/auth/api_keys/:key/permissions
func (h *APIKeyHandler) ListPermissionsHandler(c *gin.Context) {
	member, ok := h.member(c)
	if !ok {
		return
	}

	permissions, err := h.apiKeyUseCase.ListPermissions(c.Request.Context(), member.ID, c.Param("key"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.PermissionsResponse{Permissions: permissions})
}

// GrantPermissionHandler grants a catalog permission. Granting twice is a no-op.
// POST /vulcan/auth/api_keys/:key/permissions
func (h *APIKeyHandler) GrantPermissionHandler(c *gin.Context) {
	h.changePermission(c, h.apiKeyUseCase.GrantPermission)
}

// RevokePermissionHandler revokes a permission.
// DELETE /vulcan/auth/api_keys/:key/permissions
func (h *APIKeyHandler) RevokePermissionHandler(c *gin.Context) {
	h.changePermission(c, h.apiKeyUseCase.RevokePermission)
}

func (h *APIKeyHandler) changePermission(
	c *gin.Context,
	change func(ctx context.Context, memberID int64, key, permission string) ([]string, error),
) {
	member, ok := h.member(c)
	if !ok {
		return
	}

	var req dto.PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	permissions, err := change(c.Request.Context(), member.ID, c.Param("key"), req.Key)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.PermissionsResponse{Permissions: permissions})
}

func (h *APIKeyHandler) member(c *gin.Context) (*authDomain.Member, bool) {
	member, ok := GetMember(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return nil, false
	}
	return member, true
}
