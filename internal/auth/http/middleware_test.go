package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/lynlab/luppiter/internal/auth/domain"
	usecaseMocks "github.com/lynlab/luppiter/internal/auth/usecase/mocks"
	"github.com/lynlab/luppiter/internal/httputil"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPermissionRouter(
	apiKeyUseCase *usecaseMocks.MockAPIKeyUseCase,
	permission string,
	opts ...PermissionOption,
) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/test", RequirePermission(apiKeyUseCase, permission, newTestLogger(), opts...), func(c *gin.Context) {
		apiKey, ok := GetAPIKey(c.Request.Context())
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"api_key_id": apiKey.ID})
	})
	return router
}

func TestRequirePermission(t *testing.T) {
	grantedKey := &authDomain.APIKey{ID: 7, Key: "granted", Permissions: []string{"Storage::*"}}
	limitedKey := &authDomain.APIKey{ID: 8, Key: "limited", Permissions: []string{"Storage::Read"}}

	tests := []struct {
		name           string
		apiKey         string
		setupMock      func(m *usecaseMocks.MockAPIKeyUseCase)
		permission     string
		opts           []PermissionOption
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "missing key",
			permission:     "Storage::Read",
			setupMock:      func(m *usecaseMocks.MockAPIKeyUseCase) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "unauthorized",
		},
		{
			name:       "unknown key",
			apiKey:     "unknown",
			permission: "Storage::Read",
			setupMock: func(m *usecaseMocks.MockAPIKeyUseCase) {
				m.On("Authenticate", mock.Anything, "unknown").Return(nil, authDomain.ErrInvalidCredential).Once()
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "unauthorized",
		},
		{
			name:       "insufficient permission",
			apiKey:     "limited",
			permission: "Storage::Write",
			setupMock: func(m *usecaseMocks.MockAPIKeyUseCase) {
				m.On("Authenticate", mock.Anything, "limited").Return(limitedKey, nil).Once()
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "unauthorized",
		},
		{
			name:       "exact grant does not imply deeper scope",
			apiKey:     "limited",
			permission: "Storage::Read::Specific",
			setupMock: func(m *usecaseMocks.MockAPIKeyUseCase) {
				m.On("Authenticate", mock.Anything, "limited").Return(limitedKey, nil).Once()
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "unauthorized",
		},
		{
			name:       "wildcard grant",
			apiKey:     "granted",
			permission: "Storage::Write",
			setupMock: func(m *usecaseMocks.MockAPIKeyUseCase) {
				m.On("Authenticate", mock.Anything, "granted").Return(grantedKey, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"api_key_id":7`,
		},
		{
			name:           "optional without key",
			permission:     "Storage::Read",
			opts:           []PermissionOption{Optional()},
			setupMock:      func(m *usecaseMocks.MockAPIKeyUseCase) {},
			expectedStatus: http.StatusOK,
			expectedBody:   `"anonymous":true`,
		},
		{
			name:       "optional with insufficient key",
			apiKey:     "limited",
			permission: "Storage::Write",
			opts:       []PermissionOption{Optional()},
			setupMock: func(m *usecaseMocks.MockAPIKeyUseCase) {
				m.On("Authenticate", mock.Anything, "limited").Return(limitedKey, nil).Once()
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "unauthorized",
		},
		{
			name:       "repository failure",
			apiKey:     "granted",
			permission: "Storage::Read",
			setupMock: func(m *usecaseMocks.MockAPIKeyUseCase) {
				m.On("Authenticate", mock.Anything, "granted").Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiKeyUseCase := &usecaseMocks.MockAPIKeyUseCase{}
			tt.setupMock(apiKeyUseCase)
			router := newPermissionRouter(apiKeyUseCase, tt.permission, tt.opts...)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.apiKey != "" {
				req.Header.Set(APIKeyHeader, tt.apiKey)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			apiKeyUseCase.AssertExpectations(t)
		})
	}
}

func TestRequirePermission_SameBodyForEveryRejection(t *testing.T) {
	apiKeyUseCase := &usecaseMocks.MockAPIKeyUseCase{}
	apiKeyUseCase.On("Authenticate", mock.Anything, "unknown").Return(nil, authDomain.ErrInvalidCredential)
	apiKeyUseCase.On("Authenticate", mock.Anything, "limited").
		Return(&authDomain.APIKey{Permissions: []string{"Hosting::Read"}}, nil)
	router := newPermissionRouter(apiKeyUseCase, "Certs::Write")

	bodies := make([]httputil.ErrorResponse, 0, 3)
	for _, key := range []string{"", "unknown", "limited"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if key != "" {
			req.Header.Set(APIKeyHeader, key)
		}
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		var body httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		bodies = append(bodies, body)
	}

	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, bodies[1], bodies[2])
}

func TestMemberAuthenticationMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	member := &authDomain.Member{ID: 3, UUID: uuid.New()}

	tests := []struct {
		name           string
		header         string
		setupMock      func(m *usecaseMocks.MockMemberUseCase)
		expectedStatus int
	}{
		{
			name:           "missing header",
			setupMock:      func(m *usecaseMocks.MockMemberUseCase) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed header",
			header:         "Basic abc",
			setupMock:      func(m *usecaseMocks.MockMemberUseCase) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "unknown member",
			header: "Bearer token",
			setupMock: func(m *usecaseMocks.MockMemberUseCase) {
				m.On("Authenticate", mock.Anything, "token").Return(nil, authDomain.ErrInvalidCredential).Once()
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "case insensitive bearer",
			header: "bearer token",
			setupMock: func(m *usecaseMocks.MockMemberUseCase) {
				m.On("Authenticate", mock.Anything, "token").Return(member, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memberUseCase := &usecaseMocks.MockMemberUseCase{}
			tt.setupMock(memberUseCase)

			router := gin.New()
			router.GET("/test", MemberAuthenticationMiddleware(memberUseCase, newTestLogger()), func(c *gin.Context) {
				got, ok := GetMember(c.Request.Context())
				require.True(t, ok)
				c.JSON(http.StatusOK, gin.H{"id": got.ID})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			memberUseCase.AssertExpectations(t)
		})
	}
}
