package domain

import (
	"time"

	"github.com/google/uuid"
)

// Member is a tenant identity keyed by the identity provider's UUID.
type Member struct {
	ID        int64
	UUID      uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is what the identity provider returns for a bearer token.
type Identity struct {
	UUID uuid.UUID `json:"uuid"`
}
