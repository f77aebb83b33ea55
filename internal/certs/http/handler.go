// Package http provides HTTP handlers for member certificates.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
	authHTTP "github.com/lynlab/luppiter/internal/auth/http"
	"github.com/lynlab/luppiter/internal/certs/http/dto"
	certsUseCase "github.com/lynlab/luppiter/internal/certs/usecase"
	apperrors "github.com/lynlab/luppiter/internal/errors"
	"github.com/lynlab/luppiter/internal/httputil"
	customValidation "github.com/lynlab/luppiter/internal/validation"
)

// invalidUUIDCode is returned for certificates that are malformed, missing or owned by
// another member.
const invalidUUIDCode = "invalid_uuid"

// CertificateHandler handles HTTP requests for certificates.
// Every route runs behind RequirePermission.
type CertificateHandler struct {
	certificateUseCase certsUseCase.CertificateUseCase
	logger             *slog.Logger
}

// NewCertificateHandler creates a new certificate handler.
func NewCertificateHandler(
	certificateUseCase certsUseCase.CertificateUseCase,
	logger *slog.Logger,
) *CertificateHandler {
	return &CertificateHandler{
		certificateUseCase: certificateUseCase,
		logger:             logger,
	}
}

// ListHandler lists the member's certificates.
// GET /vulcan/certs/certificates - Requires Certs::Read.
func (h *CertificateHandler) ListHandler(c *gin.Context) {
	apiKey, ok := h.apiKey(c)
	if !ok {
		return
	}

	certs, err := h.certificateUseCase.List(c.Request.Context(), apiKey.MemberID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCertificatesToResponse(certs))
}

// CreateHandler requests a certificate and launches its issuance.
// POST /vulcan/certs/certificates - Requires Certs::Write. Returns 201 Created.
func (h *CertificateHandler) CreateHandler(c *gin.Context) {
	apiKey, ok := h.apiKey(c)
	if !ok {
		return
	}

	var req dto.CreateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	cert, err := h.certificateUseCase.Create(c.Request.Context(), certsUseCase.CreateCertificateInput{
		MemberID: apiKey.MemberID,
		Email:    req.Email,
		Domains:  req.Domains,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCertificateToResponse(cert))
}

// GetHandler returns one of the member's certificates.
// GET /vulcan/certs/certificates/:uuid - Requires Certs::Read.
func (h *CertificateHandler) GetHandler(c *gin.Context) {
	apiKey, ok := h.apiKey(c)
	if !ok {
		return
	}
	certificateUUID, ok := h.certificateUUID(c)
	if !ok {
		return
	}

	cert, err := h.certificateUseCase.Get(c.Request.Context(), apiKey.MemberID, certificateUUID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapCertificateToResponse(cert))
}

// ProvisionHandler returns the newest provision of one of the member's certificates,
// including its private key.
// GET /vulcan/certs/certificates/:uuid/provision - Requires Certs::Write.
func (h *CertificateHandler) ProvisionHandler(c *gin.Context) {
	apiKey, ok := h.apiKey(c)
	if !ok {
		return
	}
	certificateUUID, ok := h.certificateUUID(c)
	if !ok {
		return
	}

	provision, err := h.certificateUseCase.CurrentProvision(c.Request.Context(), apiKey.MemberID, certificateUUID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapProvisionToResponse(provision))
}

func (h *CertificateHandler) certificateUUID(c *gin.Context) (uuid.UUID, bool) {
	certificateUUID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		httputil.AbortWithCode(c, http.StatusUnauthorized, invalidUUIDCode, h.logger)
		return uuid.Nil, false
	}
	return certificateUUID, true
}

// handleError answers invalid_uuid for certificates the member does not own.
func (h *CertificateHandler) handleError(c *gin.Context, err error) {
	if apperrors.Is(err, apperrors.ErrUnauthorized) {
		httputil.AbortWithCode(c, http.StatusUnauthorized, invalidUUIDCode, h.logger)
		return
	}
	httputil.HandleErrorGin(c, err, h.logger)
}

func (h *CertificateHandler) apiKey(c *gin.Context) (*authDomain.APIKey, bool) {
	apiKey, ok := authHTTP.GetAPIKey(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return nil, false
	}
	return apiKey, true
}
