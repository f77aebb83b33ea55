// Package http provides HTTP handlers for cloud container tasks.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
	authHTTP "github.com/lynlab/luppiter/internal/auth/http"
	cloudcontainerDomain "github.com/lynlab/luppiter/internal/cloudcontainer/domain"
	"github.com/lynlab/luppiter/internal/cloudcontainer/http/dto"
	cloudcontainerUseCase "github.com/lynlab/luppiter/internal/cloudcontainer/usecase"
	apperrors "github.com/lynlab/luppiter/internal/errors"
	"github.com/lynlab/luppiter/internal/httputil"
	customValidation "github.com/lynlab/luppiter/internal/validation"
)

// Route error codes.
const (
	invalidUUIDCode     = "invalid_uuid"
	startTaskFailedCode = "start_task_failed"
)

// TaskHandler handles HTTP requests for cloud container tasks.
type TaskHandler struct {
	taskUseCase cloudcontainerUseCase.TaskUseCase
	logger      *slog.Logger
}

// NewTaskHandler creates a new cloud container task handler.
func NewTaskHandler(taskUseCase cloudcontainerUseCase.TaskUseCase, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskUseCase: taskUseCase,
		logger:      logger,
	}
}

// ListHandler lists the member's tasks.
// GET /vulcan/cloudcontainer/tasks - Requires CloudContainer::Read.
func (h *TaskHandler) ListHandler(c *gin.Context) {
	apiKey, ok := h.apiKey(c)
	if !ok {
		return
	}

	tasks, err := h.taskUseCase.List(c.Request.Context(), apiKey.MemberID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTasksToResponse(tasks))
}

// CreateHandler creates a task.
// POST /vulcan/cloudcontainer/tasks - Requires CloudContainer::Write. Returns 201 Created.
func (h *TaskHandler) CreateHandler(c *gin.Context) {
	apiKey, ok := h.apiKey(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	task, err := h.taskUseCase.Create(c.Request.Context(), cloudcontainerUseCase.CreateTaskInput{
		MemberID:       apiKey.MemberID,
		Name:           req.Name,
		DockerImage:    req.Image,
		DockerCommands: req.Commands,
		DockerEnvs:     req.Envs,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapTaskToResponse(task))
}

// UpdateHandler changes the given fields of one of the member's tasks.
// PUT /vulcan/cloudcontainer/tasks/:uuid - Requires CloudContainer::Write.
func (h *TaskHandler) UpdateHandler(c *gin.Context) {
	apiKey, taskUUID, ok := h.taskTarget(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	task, err := h.taskUseCase.Update(c.Request.Context(), apiKey.MemberID, taskUUID, req.ToPatch())
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapTaskToResponse(task))
}

// DeleteHandler removes one of the member's tasks with its histories and returns it.
// DELETE /vulcan/cloudcontainer/tasks/:uuid - Requires CloudContainer::Write.
func (h *TaskHandler) DeleteHandler(c *gin.Context) {
	apiKey, taskUUID, ok := h.taskTarget(c)
	if !ok {
		return
	}

	task, err := h.taskUseCase.Delete(c.Request.Context(), apiKey.MemberID, taskUUID)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapTaskToResponse(task))
}

// RunHandler starts a container for the task. The body is optional.
// POST /vulcan/cloudcontainer/tasks/:uuid/run - Requires CloudContainer::Write. Returns 201 Created.
func (h *TaskHandler) RunHandler(c *gin.Context) {
	apiKey, taskUUID, ok := h.taskTarget(c)
	if !ok {
		return
	}

	var req dto.RunTaskRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.HandleValidationErrorGin(c, err, h.logger)
			return
		}
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	history, err := h.taskUseCase.Run(c.Request.Context(), apiKey.MemberID, taskUUID, req.Envs)
	if err != nil {
		if apperrors.Is(err, cloudcontainerDomain.ErrStartTaskFailed) {
			h.logger.Error("failed to start task",
				slog.String("task_uuid", taskUUID.String()),
				slog.Any("error", err))
			httputil.AbortWithCode(c, http.StatusInternalServerError, startTaskFailedCode, h.logger)
			return
		}
		h.handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MapHistoryToResponse(history))
}

// ListHistoriesHandler lists executions of one of the member's tasks, newest first.
// GET /vulcan/cloudcontainer/tasks/:uuid/histories?offset=0&limit=50 - Requires CloudContainer::Read.
func (h *TaskHandler) ListHistoriesHandler(c *gin.Context) {
	apiKey, taskUUID, ok := h.taskTarget(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	histories, err := h.taskUseCase.ListHistories(c.Request.Context(), apiKey.MemberID, taskUUID, offset, limit)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapHistoriesToResponse(histories))
}

func (h *TaskHandler) handleTaskError(c *gin.Context, err error) {
	if apperrors.Is(err, cloudcontainerDomain.ErrTaskNotOwned) {
		httputil.AbortWithCode(c, http.StatusUnauthorized, invalidUUIDCode, h.logger)
		return
	}
	httputil.HandleErrorGin(c, err, h.logger)
}

// taskTarget resolves the API key and the :uuid parameter. Malformed UUIDs are answered like
// unknown ones.
func (h *TaskHandler) taskTarget(c *gin.Context) (*authDomain.APIKey, uuid.UUID, bool) {
	apiKey, ok := h.apiKey(c)
	if !ok {
		return nil, uuid.Nil, false
	}

	taskUUID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		httputil.AbortWithCode(c, http.StatusUnauthorized, invalidUUIDCode, h.logger)
		return nil, uuid.Nil, false
	}
	return apiKey, taskUUID, true
}

func (h *TaskHandler) apiKey(c *gin.Context) (*authDomain.APIKey, bool) {
	apiKey, ok := authHTTP.GetAPIKey(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return nil, false
	}
	return apiKey, true
}
