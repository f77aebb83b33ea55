package repository

import (
	"context"
	"database/sql"

	cloudcontainerDomain "github.com/lynlab/luppiter/internal/cloudcontainer/domain"
	"github.com/lynlab/luppiter/internal/database"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

const historyColumns = `id, uuid, task_id, container_id, exit_code, stdout, stderr, terminated_at, created_at, updated_at`

// PostgreSQLHistoryRepository implements History persistence for PostgreSQL.
type PostgreSQLHistoryRepository struct {
	db *sql.DB
}

// Create inserts a new History and sets its generated ID.
func (p *PostgreSQLHistoryRepository) Create(ctx context.Context, history *cloudcontainerDomain.History) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO cloudcontainer_histories
			  (uuid, task_id, container_id, exit_code, stdout, stderr, terminated_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		history.UUID,
		history.TaskID,
		history.ContainerID,
		history.ExitCode,
		nonNilBytes(history.Stdout),
		nonNilBytes(history.Stderr),
		history.TerminatedAt,
		history.CreatedAt,
		history.UpdatedAt,
	).Scan(&history.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to create cloud container history")
	}
	return nil
}

// Update persists the execution outcome.
func (p *PostgreSQLHistoryRepository) Update(ctx context.Context, history *cloudcontainerDomain.History) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE cloudcontainer_histories
			  SET exit_code = $1, stdout = $2, stderr = $3, terminated_at = $4, updated_at = $5
			  WHERE id = $6`

	result, err := querier.ExecContext(
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

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return cloudcontainerDomain.ErrHistoryNotFound
	}
	return nil
}

// ListByTask returns the task's histories, newest first.
func (p *PostgreSQLHistoryRepository) ListByTask(
	ctx context.Context,
	taskID int64,
	offset, limit int,
) ([]*cloudcontainerDomain.History, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + historyColumns + ` FROM cloudcontainer_histories
			  WHERE task_id = $1 ORDER BY id DESC LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, taskID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list cloud container histories")
	}
	return scanHistories(rows)
}

// scanHistory reads a historyColumns row. Nullable exit_code and terminated_at scan into
// pointers.
func scanHistory(row rowScanner) (*cloudcontainerDomain.History, error) {
	var history cloudcontainerDomain.History
	if err := row.Scan(
		&history.ID,
		&history.UUID,
		&history.TaskID,
		&history.ContainerID,
		&history.ExitCode,
		&history.Stdout,
		&history.Stderr,
		&history.TerminatedAt,
		&history.CreatedAt,
		&history.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &history, nil
}

func scanHistories(rows *sql.Rows) ([]*cloudcontainerDomain.History, error) {
	defer func() {
		_ = rows.Close()
	}()

	histories := make([]*cloudcontainerDomain.History, 0)
	for rows.Next() {
		history, err := scanHistory(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan cloud container history")
		}
		histories = append(histories, history)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate cloud container histories")
	}
	return histories, nil
}

func nonNilBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

// NewPostgreSQLHistoryRepository creates a new PostgreSQL History repository.
func NewPostgreSQLHistoryRepository(db *sql.DB) *PostgreSQLHistoryRepository {
	return &PostgreSQLHistoryRepository{db: db}
}
