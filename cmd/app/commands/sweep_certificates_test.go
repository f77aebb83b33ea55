package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	certsDomain "github.com/lynlab/luppiter/internal/certs/domain"
	certsUseCase "github.com/lynlab/luppiter/internal/certs/usecase"
	certsMocks "github.com/lynlab/luppiter/internal/certs/usecase/mocks"
)

func TestRunSweepCertificates(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	window := 30 * 24 * time.Hour
	certUUID := uuid.New()

	result := func(dryRun bool) *certsUseCase.SweepResult {
		return &certsUseCase.SweepResult{
			Checked: 4,
			DryRun:  dryRun,
			Changes: []certsUseCase.SweepChange{{
				UUID:     certUUID,
				From:     certsDomain.StateIssued,
				To:       certsDomain.StateAlmostExpired,
				ExpireAt: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
			}},
		}
	}

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &certsMocks.MockExpiryUseCase{}
		mockUseCase.On("Sweep", ctx, window, false).Return(result(false), nil)

		var out bytes.Buffer
		err := RunSweepCertificates(ctx, mockUseCase, logger, &out, 30, false, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Moved 1 of 4 certificate(s)")
		require.Contains(t, out.String(), certUUID.String())
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &certsMocks.MockExpiryUseCase{}
		mockUseCase.On("Sweep", ctx, window, true).Return(result(true), nil)

		var out bytes.Buffer
		err := RunSweepCertificates(ctx, mockUseCase, logger, &out, 30, true, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"checked": 4`)
		require.Contains(t, out.String(), `"dryRun": true`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-days", func(t *testing.T) {
		err := RunSweepCertificates(ctx, &certsMocks.MockExpiryUseCase{}, logger, &bytes.Buffer{}, -1, false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "days must be a positive number")
	})
}
