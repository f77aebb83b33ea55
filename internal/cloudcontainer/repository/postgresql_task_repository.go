// Package repository implements cloud container task and history persistence for PostgreSQL
// and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	cloudcontainerDomain "github.com/lynlab/luppiter/internal/cloudcontainer/domain"
	"github.com/lynlab/luppiter/internal/database"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

const taskColumns = `id, uuid, name, member_id, docker_image, docker_commands, docker_envs, created_at, updated_at`

// PostgreSQLTaskRepository implements Task persistence for PostgreSQL. Commands and envs are
// TEXT[] columns.
type PostgreSQLTaskRepository struct {
	db *sql.DB
}

// Create inserts a new Task and sets its generated ID.
func (p *PostgreSQLTaskRepository) Create(ctx context.Context, task *cloudcontainerDomain.Task) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO cloudcontainer_tasks
			  (uuid, name, member_id, docker_image, docker_commands, docker_envs, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		task.UUID,
		task.Name,
		task.MemberID,
		task.DockerImage,
		pq.Array(task.DockerCommands),
		pq.Array(task.DockerEnvs),
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create cloud container task")
	}
	return nil
}

// GetByUUID retrieves a Task by its UUID.
func (p *PostgreSQLTaskRepository) GetByUUID(
	ctx context.Context,
	taskUUID uuid.UUID,
) (*cloudcontainerDomain.Task, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + taskColumns + ` FROM cloudcontainer_tasks WHERE uuid = $1`

	task, err := scanPostgreSQLTask(querier.QueryRowContext(ctx, query, taskUUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, cloudcontainerDomain.ErrTaskNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get cloud container task")
	}
	return task, nil
}

// ListByMember returns the member's tasks, newest first.
func (p *PostgreSQLTaskRepository) ListByMember(
	ctx context.Context,
	memberID int64,
) ([]*cloudcontainerDomain.Task, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + taskColumns + ` FROM cloudcontainer_tasks WHERE member_id = $1 ORDER BY id DESC`

	rows, err := querier.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list cloud container tasks")
	}
	defer func() {
		_ = rows.Close()
	}()

	tasks := make([]*cloudcontainerDomain.Task, 0)
	for rows.Next() {
		task, err := scanPostgreSQLTask(rows)
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
func (p *PostgreSQLTaskRepository) Update(ctx context.Context, task *cloudcontainerDomain.Task) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE cloudcontainer_tasks
			  SET name = $1, docker_image = $2, docker_commands = $3, docker_envs = $4, updated_at = $5
			  WHERE id = $6`

	result, err := querier.ExecContext(
		ctx,
		query,
		task.Name,
		task.DockerImage,
		pq.Array(task.DockerCommands),
		pq.Array(task.DockerEnvs),
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update cloud container task")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return cloudcontainerDomain.ErrTaskNotFound
	}
	return nil
}

// Delete removes a Task by ID. Histories cascade.
func (p *PostgreSQLTaskRepository) Delete(ctx context.Context, taskID int64) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM cloudcontainer_tasks WHERE id = $1`, taskID); err != nil {
		return apperrors.Wrap(err, "failed to delete cloud container task")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgreSQLTask(row rowScanner) (*cloudcontainerDomain.Task, error) {
	var task cloudcontainerDomain.Task
	var commands, envs pq.StringArray
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
	task.DockerCommands = nonNil(commands)
	task.DockerEnvs = nonNil(envs)
	return &task, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// NewPostgreSQLTaskRepository creates a new PostgreSQL Task repository.
func NewPostgreSQLTaskRepository(db *sql.DB) *PostgreSQLTaskRepository {
	return &PostgreSQLTaskRepository{db: db}
}
