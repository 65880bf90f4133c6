// Package authclient wraps the /auth endpoints of the sweet shop API and
// owns the stored token pair. Presence of an access token in the store is the
// sole local signal of "authenticated"; token validity is only discovered
// when a later API call fails.
package authclient

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sweetshoplabs/sweetshop-web/apiclient"
	weberrors "github.com/sweetshoplabs/sweetshop-web/internal/errors"
	"github.com/sweetshoplabs/sweetshop-web/kvstore"
)

// Storage keys for the token pair. Written together on login/register,
// deleted together on logout.
const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
)

// User is the profile the API reports for the logged-in visitor. Created and
// owned server-side; read-only here.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// RegistrationForm is the payload for /auth/register/. Password2 is the
// confirmation field the backend expects.
type RegistrationForm struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// TokenPair is the credential pair issued by login and register. Both tokens
// are opaque strings as far as this client is concerned.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterResponse is the register payload: the created user plus tokens.
type RegisterResponse struct {
	User    *User  `json:"user"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type Service struct {
	api    *apiclient.Client
	tokens kvstore.Store
}

func NewService(api *apiclient.Client, tokens kvstore.Store) (*Service, error) {
	if api == nil {
		return nil, errors.New("[authclient.NewService] api client is required")
	}
	if tokens == nil {
		return nil, errors.New("[authclient.NewService] token store is required")
	}
	return &Service{api: api, tokens: tokens}, nil
}

// Register creates a new account. The form is validated locally first; a
// validation failure never reaches the network. On success both tokens are
// stored before returning, so the new account is immediately logged in.
func (s *Service) Register(ctx context.Context, form RegistrationForm) (*RegisterResponse, error) {
	if err := ValidateRegistration(form); err != nil {
		return nil, err
	}

	var resp RegisterResponse
	if err := s.api.Post(ctx, "/auth/register/", form, &resp); err != nil {
		return nil, errors.Wrap(err, "[Service.Register] POST /auth/register/")
	}

	if resp.Access != "" {
		s.storeTokens(resp.Access, resp.Refresh)
	}
	return &resp, nil
}

// Login exchanges credentials for a token pair. Tokens are stored
// synchronously before returning, so an immediately following profile fetch
// can use them.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	credentials := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var pair TokenPair
	if err := s.api.Post(ctx, "/auth/login/", credentials, &pair); err != nil {
		return nil, errors.Wrap(err, "[Service.Login] POST /auth/login/")
	}

	if pair.Access != "" {
		s.storeTokens(pair.Access, pair.Refresh)
	}
	return &pair, nil
}

// Logout deletes both stored tokens. Purely local, no network call: the API
// has no logout endpoint and the refresh token is simply forgotten.
func (s *Service) Logout() {
	s.tokens.Delete(AccessTokenKey)
	s.tokens.Delete(RefreshTokenKey)
}

// GetUserProfile fetches the current user. Fails locally with
// ErrNoAccessToken when no token is stored.
func (s *Service) GetUserProfile(ctx context.Context) (*User, error) {
	if !s.IsAuthenticated() {
		return nil, weberrors.ErrNoAccessToken
	}

	var user User
	if err := s.api.Get(ctx, "/auth/profile/", &user); err != nil {
		return nil, errors.Wrap(err, "[Service.GetUserProfile] GET /auth/profile/")
	}
	return &user, nil
}

// IsAuthenticated reports whether an access token exists in storage. This is
// a presence check only; it says nothing about signature or expiry.
func (s *Service) IsAuthenticated() bool {
	token, ok := s.tokens.Get(AccessTokenKey)
	return ok && token != ""
}

// AccessToken exposes the stored access token for the request layer.
func (s *Service) AccessToken() string {
	token, _ := s.tokens.Get(AccessTokenKey)
	return token
}

func (s *Service) storeTokens(access, refresh string) {
	s.tokens.Set(AccessTokenKey, access)
	s.tokens.Set(RefreshTokenKey, refresh)
}
