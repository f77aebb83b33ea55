package dto

import (
	"time"

	"github.com/samber/lo"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
)

// MemberResponse represents a member in API responses.
type MemberResponse struct {
	UUID      string    `json:"uuid"`
	CreatedAt time.Time `json:"createdAt"`
}

// MapMemberToResponse converts a domain member to an API response.
func MapMemberToResponse(member *authDomain.Member) MemberResponse {
	return MemberResponse{
		UUID:      member.UUID.String(),
		CreatedAt: member.CreatedAt,
	}
}

// APIKeyResponse represents an API key in API responses.
type APIKeyResponse struct {
	Key         string    `json:"key"`
	Memo        string    `json:"memo"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MapAPIKeyToResponse converts a domain API key to an API response.
func MapAPIKeyToResponse(apiKey *authDomain.APIKey) APIKeyResponse {
	permissions := apiKey.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	return APIKeyResponse{
		Key:         apiKey.Key,
		Memo:        apiKey.Memo,
		Permissions: permissions,
		CreatedAt:   apiKey.CreatedAt,
	}
}

// MapAPIKeysToResponse converts domain API keys to API responses.
func MapAPIKeysToResponse(apiKeys []*authDomain.APIKey) []APIKeyResponse {
	return lo.Map(apiKeys, func(apiKey *authDomain.APIKey, _ int) APIKeyResponse {
		return MapAPIKeyToResponse(apiKey)
	})
}

// PermissionsResponse lists permission strings.
type PermissionsResponse struct {
	Permissions []string `json:"permissions"`
}

// MapPermissionsToResponse converts catalog permissions to their keys.
func MapPermissionsToResponse(permissions []*authDomain.Permission) PermissionsResponse {
	return PermissionsResponse{
		Permissions: lo.Map(permissions, func(p *authDomain.Permission, _ int) string {
			return p.Key
		}),
	}
}
