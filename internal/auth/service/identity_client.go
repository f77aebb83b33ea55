package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
	apperrors "github.com/lynlab/luppiter/internal/errors"
)

const identityMePath = "/apis/v1/me"

// identityClient calls the identity provider's "me" endpoint.
type identityClient struct {
	baseURL string
	client  *retryablehttp.Client
	logger  *slog.Logger
}

// Identify exchanges a bearer token for the identity of its owner.
func (c *identityClient) Identify(ctx context.Context, token string) (*authDomain.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, authDomain.ErrInvalidCredential
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+identityMePath, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build identity request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, fmt.Sprintf("identity provider request failed: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("identity provider rejected token", slog.Int("status_code", resp.StatusCode))
		return nil, authDomain.ErrInvalidCredential
	}

	var body struct {
		UUID string `json:"uuid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, "invalid identity provider response")
	}

	id, err := uuid.Parse(body.UUID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, "identity provider returned an invalid uuid")
	}

	return &authDomain.Identity{UUID: id}, nil
}

// NewIdentityClient creates an IdentityProvider backed by the HTTP identity provider at baseURL.
func NewIdentityClient(baseURL string, client *retryablehttp.Client, logger *slog.Logger) IdentityProvider {
	return &identityClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}
