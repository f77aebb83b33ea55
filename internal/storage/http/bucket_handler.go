// Package http provides HTTP handlers for storage buckets and objects.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
	authHTTP "github.com/lynlab/luppiter/internal/auth/http"
	apperrors "github.com/lynlab/luppiter/internal/errors"
	"github.com/lynlab/luppiter/internal/httputil"
	storageDomain "github.com/lynlab/luppiter/internal/storage/domain"
	"github.com/lynlab/luppiter/internal/storage/http/dto"
	storageUseCase "github.com/lynlab/luppiter/internal/storage/usecase"
	customValidation "github.com/lynlab/luppiter/internal/validation"
)

const duplicatedEntryCode = "duplicated_entry"

// BucketHandler handles HTTP requests for storage buckets.
type BucketHandler struct {
	bucketUseCase storageUseCase.BucketUseCase
	logger        *slog.Logger
}

// NewBucketHandler creates a new bucket handler.
func NewBucketHandler(bucketUseCase storageUseCase.BucketUseCase, logger *slog.Logger) *BucketHandler {
	return &BucketHandler{bucketUseCase: bucketUseCase, logger: logger}
}

// ListHandler lists the member's buckets.
// GET /vulcan/storage/buckets - Requires Storage::Read.
func (h *BucketHandler) ListHandler(c *gin.Context) {
	apiKey, ok := requireAPIKey(c, h.logger)
	if !ok {
		return
	}

	buckets, err := h.bucketUseCase.List(c.Request.Context(), apiKey.MemberID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapBucketsToResponse(buckets))
}

// CreateHandler creates a bucket.
// POST /vulcan/storage/buckets - Requires Storage::Write. Returns 201 Created.
func (h *BucketHandler) CreateHandler(c *gin.Context) {
	apiKey, ok := requireAPIKey(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateBucketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	bucket, err := h.bucketUseCase.Create(c.Request.Context(), apiKey.MemberID, req.Name, req.IsPublic)
	if err != nil {
		if apperrors.Is(err, storageDomain.ErrDuplicatedBucket) {
			httputil.AbortWithCode(c, http.StatusBadRequest, duplicatedEntryCode, h.logger)
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapBucketToResponse(bucket))
}

// UpdateHandler changes the bucket visibility.
// PUT /vulcan/storage/buckets/:name - Requires Storage::Write.
func (h *BucketHandler) UpdateHandler(c *gin.Context) {
	apiKey, ok := requireAPIKey(c, h.logger)
	if !ok {
		return
	}

	var req dto.UpdateBucketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	bucket, err := h.bucketUseCase.Update(c.Request.Context(), apiKey.MemberID, c.Param("name"), *req.IsPublic)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapBucketToResponse(bucket))
}

// DeleteHandler removes a bucket.
// DELETE /vulcan/storage/buckets/:name - Requires Storage::Write. Returns 204 No Content.
func (h *BucketHandler) DeleteHandler(c *gin.Context) {
	apiKey, ok := requireAPIKey(c, h.logger)
	if !ok {
		return
	}

	if err := h.bucketUseCase.Delete(c.Request.Context(), apiKey.MemberID, c.Param("name")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

func requireAPIKey(c *gin.Context, logger *slog.Logger) (*authDomain.APIKey, bool) {
	apiKey, ok := authHTTP.GetAPIKey(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
		return nil, false
	}
	return apiKey, true
}
