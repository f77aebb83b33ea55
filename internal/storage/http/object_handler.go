package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/lynlab/luppiter/internal/auth/http"
	apperrors "github.com/lynlab/luppiter/internal/errors"
	"github.com/lynlab/luppiter/internal/httputil"
	storageDomain "github.com/lynlab/luppiter/internal/storage/domain"
	"github.com/lynlab/luppiter/internal/storage/http/dto"
	storageUseCase "github.com/lynlab/luppiter/internal/storage/usecase"
)

const (
	objectTooLargeCode = "object_too_large"
	uploadFormField    = "file"
	// multipartOverhead is allowed on top of the object size for the multipart envelope.
	multipartOverhead = 64 * 1024
)

// ObjectHandler serves and stores bucket objects.
type ObjectHandler struct {
	objectUseCase  storageUseCase.ObjectUseCase
	maxUploadBytes int
	logger         *slog.Logger
}

// NewObjectHandler creates a new object handler.
func NewObjectHandler(
	objectUseCase storageUseCase.ObjectUseCase,
	maxUploadBytes int,
	logger *slog.Logger,
) *ObjectHandler {
	return &ObjectHandler{
		objectUseCase:  objectUseCase,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// GetHandler serves an object body with its content type.
// GET /storage/:bucket/*key - Optional Storage::Read. Anonymous readers only see public buckets.
func (h *ObjectHandler) GetHandler(c *gin.Context) {
	var readerID *int64
	if apiKey, ok := authHTTP.GetAPIKey(c.Request.Context()); ok {
		readerID = &apiKey.MemberID
	}

	object, err := h.objectUseCase.Get(c.Request.Context(), readerID, c.Param("bucket"), c.Param("key"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusOK, object.ContentType, object.Body)
}

// PutHandler stores the multipart "file" field as an object.
// POST /storage/:bucket/*key - Requires Storage::Write. Returns 201 Created.
func (h *ObjectHandler) PutHandler(c *gin.Context) {
	apiKey, ok := requireAPIKey(c, h.logger)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(h.maxUploadBytes+multipartOverhead))

	header, err := c.FormFile(uploadFormField)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httputil.AbortWithCode(c, http.StatusRequestEntityTooLarge, objectTooLargeCode, h.logger)
			return
		}
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if header.Size > int64(h.maxUploadBytes) {
		httputil.AbortWithCode(c, http.StatusRequestEntityTooLarge, objectTooLargeCode, h.logger)
		return
	}

	file, err := header.Open()
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	body, err := io.ReadAll(file)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	object, err := h.objectUseCase.Put(c.Request.Context(), storageUseCase.PutObjectInput{
		MemberID:    apiKey.MemberID,
		BucketName:  c.Param("bucket"),
		Key:         c.Param("key"),
		ContentType: header.Header.Get("Content-Type"),
		Body:        body,
	})
	if err != nil {
		if apperrors.Is(err, storageDomain.ErrObjectTooLarge) {
			httputil.AbortWithCode(c, http.StatusRequestEntityTooLarge, objectTooLargeCode, h.logger)
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapObjectToResponse(object))
}
