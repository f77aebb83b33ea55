// Package http provides HTTP handlers and middleware for members, API keys and permissions.
package http

import (
	"context"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
)

// apiKeyKey is a context key type for storing the resolved API key.
type apiKeyKey struct{}

// memberKey is a context key type for storing the authenticated member.
type memberKey struct{}

// WithAPIKey stores a resolved API key in the context.
// Called by RequirePermission after the key passed the permission check.
func WithAPIKey(ctx context.Context, apiKey *authDomain.APIKey) context.Context {
	return context.WithValue(ctx, apiKeyKey{}, apiKey)
}

// GetAPIKey retrieves the resolved API key from the context.
// Returns (nil, false) for anonymous requests admitted by an optional permission check.
func GetAPIKey(ctx context.Context) (*authDomain.APIKey, bool) {
	apiKey, ok := ctx.Value(apiKeyKey{}).(*authDomain.APIKey)
	return apiKey, ok && apiKey != nil
}

// WithMember stores an authenticated member in the context.
func WithMember(ctx context.Context, member *authDomain.Member) context.Context {
	return context.WithValue(ctx, memberKey{}, member)
}

// GetMember retrieves the authenticated member from the context.
func GetMember(ctx context.Context) (*authDomain.Member, bool) {
	member, ok := ctx.Value(memberKey{}).(*authDomain.Member)
	return member, ok && member != nil
}
