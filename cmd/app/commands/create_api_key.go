package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
	authUseCase "github.com/lynlab/luppiter/internal/auth/usecase"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

// CreateAPIKeyInput holds the create-api-key flags.
type CreateAPIKeyInput struct {
	MemberUUID  string
	Memo        string
	Permissions []string
	Format      string
}

// RunCreateAPIKey bootstraps an API key for a member without going through the identity
// provider. The member is created when it does not exist yet, then every requested
// permission is granted to the new key.
//
// Requirements: Database must be migrated and permissions seeded.
func RunCreateAPIKey(
	ctx context.Context,
	memberRepo authUseCase.MemberRepository,
	apiKeyUseCase authUseCase.APIKeyUseCase,
	logger *slog.Logger,
	writer io.Writer,
	input CreateAPIKeyInput,
) error {
	if err := validateFormat(input.Format); err != nil {
		return err
	}

	memberUUID, err := uuid.Parse(strings.TrimSpace(input.MemberUUID))
	if err != nil {
		return fmt.Errorf("invalid member uuid: %w", err)
	}

	member, err := findOrCreateMember(ctx, memberRepo, memberUUID)
	if err != nil {
		return err
	}

	apiKey, err := apiKeyUseCase.Create(ctx, member.ID, input.Memo)
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}

	granted := []string{}
	for _, permission := range input.Permissions {
		granted, err = apiKeyUseCase.GrantPermission(ctx, member.ID, apiKey.Key, permission)
		if err != nil {
			return fmt.Errorf("failed to grant permission %q: %w", permission, err)
		}
	}

	logger.Info("api key created",
		slog.Int64("member_id", member.ID),
		slog.Int("permission_count", len(granted)),
	)

	if input.Format == "json" {
		return writeJSON(writer, map[string]any{
			"memberUuid":  member.UUID.String(),
			"key":         apiKey.Key,
			"memo":        apiKey.Memo,
			"permissions": granted,
		})
	}

	_, _ = fmt.Fprintf(writer, "API key created for member %s\n", member.UUID)
	_, _ = fmt.Fprintf(writer, "Key: %s\n", apiKey.Key)
	_, _ = fmt.Fprintf(writer, "Permissions: %s\n", strings.Join(granted, ", "))
	_, _ = fmt.Fprintln(writer, "Store the key now, it grants access to every permission listed above.")
	return nil
}

func findOrCreateMember(
	ctx context.Context,
	memberRepo authUseCase.MemberRepository,
	memberUUID uuid.UUID,
) (*authDomain.Member, error) {
	member, err := memberRepo.GetByUUID(ctx, memberUUID)
	if err == nil {
		return member, nil
	}
	if !apperrors.Is(err, authDomain.ErrMemberNotFound) {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	now := time.Now().UTC()
	member = &authDomain.Member{UUID: memberUUID, CreatedAt: now, UpdatedAt: now}
	if err := memberRepo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return member, nil
}
