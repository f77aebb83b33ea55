package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	cloudcontainerDomain "github.com/lynlab/luppiter/internal/cloudcontainer/domain"
	"github.com/lynlab/luppiter/internal/database"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

// MySQLTaskRepository implements Task persistence for MySQL.
// Uses BINARY(16) for UUID storage and JSON columns for commands and envs.
type MySQLTaskRepository struct {
	db *sql.DB
}

// Create inserts a new Task and sets its generated ID.
func (m *MySQLTaskRepository) Create(ctx context.Context, task *cloudcontainerDomain.Task) error {
	querier := database.GetTx(ctx, m.db)

	id, err := task.UUID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal cloud container task uuid")
	}
	commands, envs, err := marshalTaskArrays(task)
	if err != nil {
		return err
	}

	query := `INSERT INTO cloudcontainer_tasks
			  (uuid, name, member_id, docker_image, docker_commands, docker_envs, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		id,
		task.Name,
		task.MemberID,
		task.DockerImage,
		commands,
		envs,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create cloud container task")
	}

	task.ID, err = result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get cloud container task id")
	}
	return nil
}

// GetByUUID retrieves a Task by its UUID.
func (m *MySQLTaskRepository) GetByUUID(
	ctx context.Context,
	taskUUID uuid.UUID,
) (*cloudcontainerDomain.Task, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := taskUUID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal cloud container task uuid")
	}

	query := `SELECT ` + taskColumns + ` FROM cloudcontainer_tasks WHERE uuid = ?`

	task, err := scanMySQLTask(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cloudcontainerDomain.ErrTaskNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get cloud container task")
	}
	return task, nil
}

// ListByMember returns the member's tasks, newest first.
func (m *MySQLTaskRepository) ListByMember(
	ctx context.Context,
	memberID int64,
) ([]*cloudcontainerDomain.Task, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + taskColumns + ` FROM cloudcontainer_tasks WHERE member_id = ? ORDER BY id DESC`

	rows, err := querier.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list cloud container tasks")
	}
	defer func() {
		_ = rows.Close()
	}()

	tasks := make([]*cloudcontainerDomain.Task, 0)
	for rows.Next() {
		task, err := scanMySQLTask(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan cloud container task")
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate cloud container tasks")
	}
	return tasks, nil
}

// Update persists the mutable task fields.
func (m *MySQLTaskRepository) Update(ctx context.Context, task *cloudcontainerDomain.Task) error {
	querier := database.GetTx(ctx, m.db)

	commands, envs, err := marshalTaskArrays(task)
	if err != nil {
		return err
	}

	query := `UPDATE cloudcontainer_tasks
			  SET name = ?, docker_image = ?, docker_commands = ?, docker_envs = ?, updated_at = ?
			  WHERE id = ?`

	// MySQL reports changed rather than matched rows, so a missing row is not detected here.
	_, err = querier.ExecContext(ctx, query, task.Name, task.DockerImage, commands, envs, task.UpdatedAt, task.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update cloud container task")
	}
	return nil
}

// Delete removes a Task by ID. Histories cascade.
func (m *MySQLTaskRepository) Delete(ctx context.Context, taskID int64) error {
	querier := database.GetTx(ctx, m.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM cloudcontainer_tasks WHERE id = ?`, taskID); err != nil {
		return apperrors.Wrap(err, "failed to delete cloud container task")
	}
	return nil
}

func marshalTaskArrays(task *cloudcontainerDomain.Task) ([]byte, []byte, error) {
	commands, err := json.Marshal(nonNil(task.DockerCommands))
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal docker commands")
	}
	envs, err := json.Marshal(nonNil(task.DockerEnvs))
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal docker envs")
	}
	return commands, envs, nil
}

func scanMySQLTask(row rowScanner) (*cloudcontainerDomain.Task, error) {
	var task cloudcontainerDomain.Task
	var commands, envs []byte
	if err := row.Scan(
		&task.ID,
		&task.UUID,
		&task.Name,
		&task.MemberID,
		&task.DockerImage,
		&commands,
		&envs,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(commands, &task.DockerCommands); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal docker commands")
	}
	if err := json.Unmarshal(envs, &task.DockerEnvs); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal docker envs")
	}
	task.DockerCommands = nonNil(task.DockerCommands)
	task.DockerEnvs = nonNil(task.DockerEnvs)
	return &task, nil
}

// NewMySQLTaskRepository creates a new MySQL Task repository.
func NewMySQLTaskRepository(db *sql.DB) *MySQLTaskRepository {
	return &MySQLTaskRepository{db: db}
}
