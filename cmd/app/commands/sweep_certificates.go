package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	certsUseCase "github.com/lynlab/luppiter/internal/certs/usecase"
)

// RunSweepCertificates marks issued certificates close to expiry as almost_expired and
// past-expiry ones as expired. Supports dry-run mode and text/JSON output.
//
// Requirements: Database must be migrated and accessible.
func RunSweepCertificates(
	ctx context.Context,
	expiryUseCase certsUseCase.ExpiryUseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("sweeping certificates",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	result, err := expiryUseCase.Sweep(ctx, time.Duration(days)*24*time.Hour, dryRun)
	if err != nil {
		return fmt.Errorf("failed to sweep certificates: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, result); err != nil {
			return err
		}
	} else {
		outputSweepText(writer, result)
	}

	logger.Info("sweep completed",
		slog.Int("checked", result.Checked),
		slog.Int("changed", len(result.Changes)),
		slog.Bool("dry_run", dryRun),
	)
	return nil
}

func outputSweepText(w io.Writer, result *certsUseCase.SweepResult) {
	verb := "Moved"
	if result.DryRun {
		verb = "Dry-run mode: Would move"
	}

	_, _ = fmt.Fprintf(w, "%s %d of %d certificate(s)\n", verb, len(result.Changes), result.Checked)
	for _, change := range result.Changes {
		_, _ = fmt.Fprintf(w, "  %s: %s -> %s (expires %s)\n",
			change.UUID, change.From, change.To, change.ExpireAt.Format(time.RFC3339))
	}
}
