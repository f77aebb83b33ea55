package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lynlab/luppiter/internal/auth/http/dto"
	authUseCase "github.com/lynlab/luppiter/internal/auth/usecase"
	"github.com/lynlab/luppiter/internal/httputil"
)

// PermissionHandler exposes the permission catalog.
type PermissionHandler struct {
	permissionUseCase authUseCase.PermissionUseCase
	logger            *slog.Logger
}

// NewPermissionHandler creates a new permission handler.
func NewPermissionHandler(permissionUseCase authUseCase.PermissionUseCase, logger *slog.Logger) *PermissionHandler {
	return &PermissionHandler{
		permissionUseCase: permissionUseCase,
		logger:            logger,
	}
}

// SearchHandler searches the catalog by substring.
// GET /vulcan/auth/permissions?query=Storage - Queries shorter than two characters return [].
func (h *PermissionHandler) SearchHandler(c *gin.Context) {
	permissions, err := h.permissionUseCase.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapPermissionsToResponse(permissions))
}
