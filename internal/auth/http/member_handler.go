package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lynlab/luppiter/internal/auth/http/dto"
	authUseCase "github.com/lynlab/luppiter/internal/auth/usecase"
	apperrors "github.com/lynlab/luppiter/internal/errors"
	"github.com/lynlab/luppiter/internal/httputil"
)

// MemberHandler handles HTTP requests about the calling member.
type MemberHandler struct {
	memberUseCase authUseCase.MemberUseCase
	logger        *slog.Logger
}

// NewMemberHandler creates a new member handler.
func NewMemberHandler(memberUseCase authUseCase.MemberUseCase, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{
		memberUseCase: memberUseCase,
		logger:        logger,
	}
}

// MeHandler resolves the identity provider token and returns the member, creating it on
// first sight.
// GET /vulcan/auth/me - Requires an identity provider bearer token.
func (h *MemberHandler) MeHandler(c *gin.Context) {
	token, ok := BearerToken(c)
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	member, err := h.memberUseCase.Me(c.Request.Context(), token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapMemberToResponse(member))
}
