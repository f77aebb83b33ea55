// Package dto provides data transfer objects for the cloud container HTTP API.
package dto

import (
	"errors"
	"strings"

	validation "github.com/jellydator/validation"

	cloudcontainerDomain "github.com/lynlab/luppiter/internal/cloudcontainer/domain"
	customValidation "github.com/lynlab/luppiter/internal/validation"
)

// envVariable accepts KEY=VALUE pairs with a non-empty key.
var envVariable = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	key, _, found := strings.Cut(s, "=")
	if !found || strings.TrimSpace(key) == "" {
		return errors.New("must be in KEY=VALUE format")
	}
	return nil
})

// CreateTaskRequest contains the parameters for creating a task.
type CreateTaskRequest struct {
	Name     string   `json:"name"`
	Image    string   `json:"image"`
	Commands []string `json:"commands"`
	Envs     []string `json:"envs"`
}

// Validate checks if the create task request is valid.
func (r *CreateTaskRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.Image, validation.Required, customValidation.NoWhitespace, validation.Length(1, 255)),
		validation.Field(&r.Envs, validation.Each(envVariable)),
	)
}

// UpdateTaskRequest contains the task fields to change. Omitted fields are kept.
type UpdateTaskRequest struct {
	Name     *string  `json:"name"`
	Image    *string  `json:"image"`
	Commands []string `json:"commands"`
	Envs     []string `json:"envs"`
}

// Validate checks if the update task request is valid.
func (r *UpdateTaskRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Length(0, 255)),
		validation.Field(&r.Image, customValidation.NoWhitespace, validation.Length(0, 255)),
		validation.Field(&r.Envs, validation.Each(envVariable)),
	)
}

// ToPatch converts the request to a domain patch.
func (r *UpdateTaskRequest) ToPatch() cloudcontainerDomain.TaskPatch {
	return cloudcontainerDomain.TaskPatch{
		Name:           r.Name,
		DockerImage:    r.Image,
		DockerCommands: r.Commands,
		DockerEnvs:     r.Envs,
	}
}

// RunTaskRequest contains per-execution environment variables appended to the task envs.
type RunTaskRequest struct {
	Envs []string `json:"envs"`
}

// Validate checks if the run task request is valid.
func (r *RunTaskRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Envs, validation.Each(envVariable)),
	)
}
