package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/lynlab/luppiter/internal/auth/usecase"
)

// RunSeedPermissions inserts the missing catalog permissions. Safe to run repeatedly.
//
// Requirements: Database must be migrated and accessible.
func RunSeedPermissions(
	ctx context.Context,
	permissionUseCase authUseCase.PermissionUseCase,
	logger *slog.Logger,
	writer io.Writer,
) error {
	logger.Info("seeding permissions")

	created, err := permissionUseCase.Seed(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed permissions: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Seeded %d permission(s)\n", created)

	logger.Info("permissions seeded", slog.Int("created", created))
	return nil
}
