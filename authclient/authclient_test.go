package authclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sweetshoplabs/sweetshop-web/apiclient"
	"github.com/sweetshoplabs/sweetshop-web/authclient"
	weberrors "github.com/sweetshoplabs/sweetshop-web/internal/errors"
	"github.com/sweetshoplabs/sweetshop-web/kvstore"
)

const (
	testEmail    = "alice@example.com"
	testUsername = "alice"
	testPassword = "sugarrush99"
)

// testFixture wires an auth service against a fake API server.
type testFixture struct {
	service  *authclient.Service
	tokens   kvstore.Store
	requests *int64
}

// setupTestFixture builds the token store, API client and auth service against
// the given fake API handler, counting every request that reaches the server.
func setupTestFixture(t *testing.T, handler http.HandlerFunc) *testFixture {
	t.Helper()

	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	tokens := kvstore.NewMemory()
	api := apiclient.New(server.URL, apiclient.WithTokenSource(func() string {
		token, _ := tokens.Get(authclient.AccessTokenKey)
		return token
	}))

	service, err := authclient.NewService(api, tokens)
	require.NoError(t, err)

	return &testFixture{service: service, tokens: tokens, requests: &requests}
}

func (f *testFixture) requestCount() int64 {
	return atomic.LoadInt64(f.requests)
}

func loginHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access":  "access-token-1",
			"refresh": "refresh-token-1",
			"user":    map[string]any{"id": 1, "email": testEmail, "username": testUsername, "is_admin": false},
		})
	}
}

func TestNewService_RequiresDependencies(t *testing.T) {
	_, err := authclient.NewService(nil, kvstore.NewMemory())
	require.Error(t, err)
	require.Contains(t, err.Error(), "api client is required")

	_, err = authclient.NewService(apiclient.New("http://localhost"), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "token store is required")
}

func TestLogin_StoresTokensBeforeReturning(t *testing.T) {
	f := setupTestFixture(t, loginHandler(t))

	pair, err := f.service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	require.Equal(t, "access-token-1", pair.Access)
	require.Equal(t, "refresh-token-1", pair.Refresh)

	access, ok := f.tokens.Get(authclient.AccessTokenKey)
	require.True(t, ok)
	require.Equal(t, "access-token-1", access)

	refresh, ok := f.tokens.Get(authclient.RefreshTokenKey)
	require.True(t, ok)
	require.Equal(t, "refresh-token-1", refresh)
}

func TestLogin_FailureStoresNothing(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "No active account found with the given credentials"}`))
	})

	_, err := f.service.Login(context.Background(), testEmail, "wrong")
	require.Error(t, err)

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "No active account found with the given credentials", apiErr.Detail)

	_, ok := f.tokens.Get(authclient.AccessTokenKey)
	require.False(t, ok)
	require.False(t, f.service.IsAuthenticated())
}

func TestRegister_AutoLogsIn(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":    map[string]any{"id": 7, "email": testEmail, "username": testUsername, "is_admin": false},
			"access":  "fresh-access",
			"refresh": "fresh-refresh",
		})
	})

	resp, err := f.service.Register(context.Background(), authclient.RegistrationForm{
		Email:     testEmail,
		Username:  testUsername,
		Password:  testPassword,
		Password2: testPassword,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	require.Equal(t, testUsername, resp.User.Username)

	require.True(t, f.service.IsAuthenticated())
	access, _ := f.tokens.Get(authclient.AccessTokenKey)
	require.Equal(t, "fresh-access", access)
}

func TestRegister_ShortPasswordNeverReachesNetwork(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("validation failures must not reach the server")
	})

	_, err := f.service.Register(context.Background(), authclient.RegistrationForm{
		Email:     testEmail,
		Username:  testUsername,
		Password:  "short",
		Password2: "short",
	})
	require.Error(t, err)

	var validationErr *authclient.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "Password must be at least 8 characters", validationErr.FieldError("password"))
	require.Zero(t, f.requestCount())
	require.False(t, f.service.IsAuthenticated())
}

func TestGetUserProfile_WithoutTokenFailsLocally(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("profile fetch without a token must not reach the server")
	})

	_, err := f.service.GetUserProfile(context.Background())
	require.ErrorIs(t, err, weberrors.ErrNoAccessToken)
	require.Zero(t, f.requestCount())
}

func TestGetUserProfile_SendsStoredToken(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/profile/", r.URL.Path)
		require.Equal(t, "Bearer access-token-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 1, "email": testEmail, "username": testUsername, "is_admin": true,
		})
	})
	f.tokens.Set(authclient.AccessTokenKey, "access-token-1")

	user, err := f.service.GetUserProfile(context.Background())
	require.NoError(t, err)
	require.Equal(t, testEmail, user.Email)
	require.True(t, user.IsAdmin)
}

func TestIsAuthenticated_IsAPresenceCheckOnly(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	require.False(t, f.service.IsAuthenticated())

	// Any non-empty string counts; validity is the API's concern.
	f.tokens.Set(authclient.AccessTokenKey, "not-even-a-jwt")
	require.True(t, f.service.IsAuthenticated())

	f.tokens.Set(authclient.AccessTokenKey, "")
	require.False(t, f.service.IsAuthenticated())
}

func TestLogout_ClearsBothTokensWithoutNetwork(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("logout is local only")
	})
	f.tokens.Set(authclient.AccessTokenKey, "a")
	f.tokens.Set(authclient.RefreshTokenKey, "r")

	f.service.Logout()

	_, ok := f.tokens.Get(authclient.AccessTokenKey)
	require.False(t, ok)
	_, ok = f.tokens.Get(authclient.RefreshTokenKey)
	require.False(t, ok)
	require.Zero(t, f.requestCount())
}
