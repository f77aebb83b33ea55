// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"time"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
	authService "github.com/lynlab/luppiter/internal/auth/service"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

// memberUseCase implements MemberUseCase on top of the identity provider.
type memberUseCase struct {
	memberRepo       MemberRepository
	identityProvider authService.IdentityProvider
}

// Me returns the member behind token, creating it when the identity is seen for the first time.
func (m *memberUseCase) Me(ctx context.Context, token string) (*authDomain.Member, error) {
	identity, err := m.identityProvider.Identify(ctx, token)
	if err != nil {
		return nil, err
	}

	member, err := m.memberRepo.GetByUUID(ctx, identity.UUID)
	if err == nil {
		return member, nil
	}
	if !apperrors.Is(err, authDomain.ErrMemberNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	member = &authDomain.Member{
		UUID:      identity.UUID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.memberRepo.Create(ctx, member); err != nil {
		// A concurrent first request created it already.
		if apperrors.Is(err, apperrors.ErrConflict) {
			return m.memberRepo.GetByUUID(ctx, identity.UUID)
		}
		return nil, err
	}

	return member, nil
}

// Authenticate returns the existing member behind token.
func (m *memberUseCase) Authenticate(ctx context.Context, token string) (*authDomain.Member, error) {
	identity, err := m.identityProvider.Identify(ctx, token)
	if err != nil {
		return nil, err
	}

	member, err := m.memberRepo.GetByUUID(ctx, identity.UUID)
	if err != nil {
		if apperrors.Is(err, authDomain.ErrMemberNotFound) {
			return nil, authDomain.ErrInvalidCredential
		}
		return nil, err
	}
	return member, nil
}

// NewMemberUseCase creates a new MemberUseCase with the provided dependencies.
func NewMemberUseCase(memberRepo MemberRepository, identityProvider authService.IdentityProvider) MemberUseCase {
	return &memberUseCase{
		memberRepo:       memberRepo,
		identityProvider: identityProvider,
	}
}
