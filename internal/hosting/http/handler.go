// Package http provides HTTP handlers for hosting instances and their backends.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
	authHTTP "github.com/lynlab/luppiter/internal/auth/http"
	apperrors "github.com/lynlab/luppiter/internal/errors"
	hostingDomain "github.com/lynlab/luppiter/internal/hosting/domain"
	"github.com/lynlab/luppiter/internal/hosting/http/dto"
	hostingUseCase "github.com/lynlab/luppiter/internal/hosting/usecase"
	"github.com/lynlab/luppiter/internal/httputil"
	customValidation "github.com/lynlab/luppiter/internal/validation"
)

// Route error codes.
const (
	invalidUUIDCode        = "invalid_uuid"
	duplicatedEntryCode    = "duplicated_entry"
	invalidCertificateCode = "invalid_certificate"
	invalidBackendCode     = "invalid_backend"
)

// InstanceHandler handles HTTP requests for hosting instances.
type InstanceHandler struct {
	instanceUseCase hostingUseCase.InstanceUseCase
	hostingDomain   string
	logger          *slog.Logger
}

// NewInstanceHandler creates a new hosting instance handler. hostingDomain is the parent of
// the generated CNAME names.
func NewInstanceHandler(
	instanceUseCase hostingUseCase.InstanceUseCase,
	hostingDomain string,
	logger *slog.Logger,
) *InstanceHandler {
	return &InstanceHandler{
		instanceUseCase: instanceUseCase,
		hostingDomain:   hostingDomain,
		logger:          logger,
	}
}

// ListHandler lists the member's instances.
// GET /vulcan/hosting/instances - Requires Hosting::Read.
func (h *InstanceHandler) ListHandler(c *gin.Context) {
	apiKey, ok := h.apiKey(c)
	if !ok {
		return
	}

	instances, err := h.instanceUseCase.List(c.Request.Context(), apiKey.MemberID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapInstancesToResponse(instances, h.hostingDomain))
}

// CreateHandler creates an instance bound to one of the member's certificates.
// POST /vulcan/hosting/instances - Requires Hosting::Write. Returns 201 Created.
func (h *InstanceHandler) CreateHandler(c *gin.Context) {
	apiKey, ok := h.apiKey(c)
	if !ok {
		return
	}

	var req dto.CreateInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	instance, err := h.instanceUseCase.Create(c.Request.Context(), hostingUseCase.CreateInstanceInput{
		MemberID:        apiKey.MemberID,
		Name:            req.Name,
		CertificateUUID: uuid.MustParse(req.Certificate),
		Domain:          req.Domain,
	})
	if err != nil {
		switch {
		case apperrors.Is(err, hostingDomain.ErrDuplicatedInstance):
			httputil.AbortWithCode(c, http.StatusBadRequest, duplicatedEntryCode, h.logger)
		case apperrors.Is(err, hostingDomain.ErrInvalidCertificate):
			httputil.AbortWithCode(c, http.StatusBadRequest, invalidCertificateCode, h.logger)
		default:
			httputil.HandleErrorGin(c, err, h.logger)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.MapInstanceToResponse(instance, h.hostingDomain))
}

// DeleteHandler removes one of the member's instances.
// DELETE /vulcan/hosting/instances/:uuid - Requires Hosting::Write. Returns 204 No Content.
func (h *InstanceHandler) DeleteHandler(c *gin.Context) {
	apiKey, instanceUUID, ok := h.instanceTarget(c)
	if !ok {
		return
	}

	if err := h.instanceUseCase.Delete(c.Request.Context(), apiKey.MemberID, instanceUUID); err != nil {
		h.handleInstanceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetBackendHandler returns the instance backend.
// GET /vulcan/hosting/instances/:uuid/backend - Requires Hosting::Read.
func (h *InstanceHandler) GetBackendHandler(c *gin.Context) {
	apiKey, instanceUUID, ok := h.instanceTarget(c)
	if !ok {
		return
	}

	backend, err := h.instanceUseCase.GetBackend(c.Request.Context(), apiKey.MemberID, instanceUUID)
	if err != nil {
		h.handleInstanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapBackendToResponse(backend))
}

// PutBackendHandler replaces the instance backend.
// PUT /vulcan/hosting/instances/:uuid/backend - Requires Hosting::Write.
func (h *InstanceHandler) PutBackendHandler(c *gin.Context) {
	apiKey, instanceUUID, ok := h.instanceTarget(c)
	if !ok {
		return
	}

	var req dto.PutBackendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	backend, err := h.instanceUseCase.PutBackend(c.Request.Context(), apiKey.MemberID, instanceUUID, req.ToDomain())
	if err != nil {
		if apperrors.Is(err, hostingDomain.ErrInvalidBackend) {
			httputil.AbortWithCode(c, http.StatusBadRequest, invalidBackendCode, h.logger)
			return
		}
		h.handleInstanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapBackendToResponse(backend))
}

func (h *InstanceHandler) handleInstanceError(c *gin.Context, err error) {
	if apperrors.Is(err, hostingDomain.ErrInstanceNotOwned) {
		httputil.AbortWithCode(c, http.StatusUnauthorized, invalidUUIDCode, h.logger)
		return
	}
	httputil.HandleErrorGin(c, err, h.logger)
}

// instanceTarget resolves the API key and the :uuid parameter. Malformed UUIDs are answered
// like unknown ones.
func (h *InstanceHandler) instanceTarget(c *gin.Context) (*authDomain.APIKey, uuid.UUID, bool) {
	apiKey, ok := h.apiKey(c)
	if !ok {
		return nil, uuid.Nil, false
	}

	instanceUUID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		httputil.AbortWithCode(c, http.StatusUnauthorized, invalidUUIDCode, h.logger)
		return nil, uuid.Nil, false
	}
	return apiKey, instanceUUID, true
}

func (h *InstanceHandler) apiKey(c *gin.Context) (*authDomain.APIKey, bool) {
	apiKey, ok := authHTTP.GetAPIKey(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return nil, false
	}
	return apiKey, true
}
