package repository

import (
	"context"
	"database/sql"

	cloudcontainerDomain "github.com/lynlab/luppiter/internal/cloudcontainer/domain"
	"github.com/lynlab/luppiter/internal/database"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

// MySQLHistoryRepository implements History persistence for MySQL.
type MySQLHistoryRepository struct {
	db *sql.DB
}

// Create inserts a new History and sets its generated ID.
func (m *MySQLHistoryRepository) Create(ctx context.Context, history *cloudcontainerDomain.History) error {
	querier := database.GetTx(ctx, m.db)

	id, err := history.UUID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal cloud container history uuid")
	}

	query := `INSERT INTO cloudcontainer_histories
			  (uuid, task_id, container_id, exit_code, stdout, stderr, terminated_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		id,
		history.TaskID,
		history.ContainerID,
		history.ExitCode,
		nonNilBytes(history.Stdout),
		nonNilBytes(history.Stderr),
		history.TerminatedAt,
		history.CreatedAt,
		history.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create cloud container history")
	}

	history.ID, err = result.LastInsertId()
	if err != nil {
		return apperrors.Wrap(err, "failed to get cloud container history id")
	}
	return nil
}

// Update persists the execution outcome.
func (m *MySQLHistoryRepository) Update(ctx context.Context, history *cloudcontainerDomain.History) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE cloudcontainer_histories
			  SET exit_code = ?, stdout = ?, stderr = ?, terminated_at = ?, updated_at = ?
			  WHERE id = ?`

	_, err := querier.ExecContext(
		ctx,
		query,
		history.ExitCode,
		nonNilBytes(history.Stdout),
		nonNilBytes(history.Stderr),
		history.TerminatedAt,
		history.UpdatedAt,
		history.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update cloud container history")
	}
	return nil
}

// ListByTask returns the task's histories, newest first.
func (m *MySQLHistoryRepository) ListByTask(
	ctx context.Context,
	taskID int64,
	offset, limit int,
) ([]*cloudcontainerDomain.History, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + historyColumns + ` FROM cloudcontainer_histories
			  WHERE task_id = ? ORDER BY id DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, taskID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list cloud container histories")
	}
	return scanHistories(rows)
}

// NewMySQLHistoryRepository creates a new MySQL History repository.
func NewMySQLHistoryRepository(db *sql.DB) *MySQLHistoryRepository {
	return &MySQLHistoryRepository{db: db}
}
