package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmatveev/authd/internal/common"
	"github.com/dmatveev/authd/internal/logging"
	"github.com/dmatveev/authd/internal/server/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth struct {
	signUpUser *models.User
	signUpErr  error
	loginErr   error
	verifyTok  string
	verifyErr  error
	resendErr  error
}

func (s *stubAuth) SignUp(ctx context.Context, email, username, fullName, plainPassword string) (*models.User, error) {
	return s.signUpUser, s.signUpErr
}

func (s *stubAuth) Login(ctx context.Context, email, plainPassword string) error {
	return s.loginErr
}

func (s *stubAuth) VerifyCode(ctx context.Context, email, code string) (string, error) {
	return s.verifyTok, s.verifyErr
}

func (s *stubAuth) ResendCode(ctx context.Context, email string) error {
	return s.resendErr
}

type stubUsers struct {
	user      *models.User
	userErr   error
	list      []*models.User
	deleteErr error

	lastGetID string
}

func (s *stubUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.lastGetID = id
	return s.user, s.userErr
}

func (s *stubUsers) List(ctx context.Context) ([]*models.User, error) {
	return s.list, nil
}

func (s *stubUsers) Update(ctx context.Context, id, fullName, username, plainPassword string) (*models.User, error) {
	return s.user, s.userErr
}

func (s *stubUsers) Delete(ctx context.Context, id string) error {
	return s.deleteErr
}

type stubParser struct {
	userID string
	err    error
}

func (s *stubParser) UserID(string) (string, error) { return s.userID, s.err }

func sampleUser() *models.User {
	return &models.User{
		ID:       "u-1",
		Email:    "a@x.com",
		Username: "alice",
		FullName: "Alice A",
		Role:     models.RoleUser,
		Audit:    models.Audit{CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}
}

func newTestRouter(auth *stubAuth, users *stubUsers, parser TokenParser) *gin.Engine {
	if parser == nil {
		parser = &stubParser{userID: "u-1"}
	}
	logger := logging.NewSlogLogger(slog.New(slog.DiscardHandler))
	return NewRouter(NewHandler(auth, users, logger), parser)
}

func doJSON(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignUpEndpoint(t *testing.T) {
	user := sampleUser()

	tests := []struct {
		name       string
		auth       *stubAuth
		body       string
		wantStatus int
	}{
		{
			name:       "created",
			auth:       &stubAuth{signUpUser: user},
			body:       `{"email":"a@x.com","username":"alice","password":"longenough"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "conflict",
			auth:       &stubAuth{signUpErr: fmt.Errorf("%w: email is already registered", common.ErrConflict)},
			body:       `{"email":"a@x.com","username":"alice","password":"longenough"}`,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "invalid email",
			auth:       &stubAuth{},
			body:       `{"email":"not-an-email","username":"alice","password":"longenough"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "short password",
			auth:       &stubAuth{},
			body:       `{"email":"a@x.com","username":"alice","password":"short"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store down",
			auth:       &stubAuth{signUpErr: fmt.Errorf("%w: dial tcp", common.ErrUnavailable)},
			body:       `{"email":"a@x.com","username":"alice","password":"longenough"}`,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(tt.auth, &stubUsers{}, nil)
			w := doJSON(r, http.MethodPost, "/api/v1/auth/signup", tt.body, nil)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestSignUpEndpoint_DeliveryFailureStillReturnsAccount(t *testing.T) {
	auth := &stubAuth{
		signUpUser: sampleUser(),
		signUpErr:  fmt.Errorf("%w: smtp down", common.ErrDeliveryFailed),
	}
	r := newTestRouter(auth, &stubUsers{}, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/auth/signup",
		`{"email":"a@x.com","username":"alice","password":"longenough"}`, nil)

	require.Equal(t, http.StatusBadGateway, w.Code)
	var body struct {
		User userResponse `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "u-1", body.User.ID)
}

func TestLoginEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		loginErr   error
		wantStatus int
	}{
		{"code sent", nil, http.StatusOK},
		{"wrong password", common.ErrInvalidCredentials, http.StatusUnauthorized},
		// Unknown address must be indistinguishable from a bad password.
		{"unknown email", common.ErrNotFound, http.StatusUnauthorized},
		{"mail down", fmt.Errorf("%w: smtp", common.ErrDeliveryFailed), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&stubAuth{loginErr: tt.loginErr}, &stubUsers{}, nil)
			w := doJSON(r, http.MethodPost, "/api/v1/auth/login",
				`{"email":"a@x.com","password":"pw"}`, nil)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestVerifyEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		auth       *stubAuth
		body       string
		wantStatus int
		wantToken  string
	}{
		{
			name:       "verified",
			auth:       &stubAuth{verifyTok: "jwt-token"},
			body:       `{"email":"a@x.com","code":"123456"}`,
			wantStatus: http.StatusOK,
			wantToken:  "jwt-token",
		},
		{
			name:       "expired",
			auth:       &stubAuth{verifyErr: common.ErrCodeExpired},
			body:       `{"email":"a@x.com","code":"123456"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "mismatch",
			auth:       &stubAuth{verifyErr: common.ErrCodeMismatch},
			body:       `{"email":"a@x.com","code":"123456"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown email",
			auth:       &stubAuth{verifyErr: common.ErrNotFound},
			body:       `{"email":"a@x.com","code":"123456"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "non-numeric code rejected before the service",
			auth:       &stubAuth{verifyTok: "should-not-be-returned"},
			body:       `{"email":"a@x.com","code":"abcdef"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(tt.auth, &stubUsers{}, nil)
			w := doJSON(r, http.MethodPost, "/api/v1/auth/verify", tt.body, nil)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantToken != "" {
				var resp tokenResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantToken, resp.Token)
			}
		})
	}
}

func TestResendEndpoint(t *testing.T) {
	r := newTestRouter(&stubAuth{resendErr: common.ErrNotFound}, &stubUsers{}, nil)
	w := doJSON(r, http.MethodPost, "/api/v1/auth/resend", `{"email":"ghost@x.com"}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(&stubAuth{}, &stubUsers{user: sampleUser()}, &stubParser{err: common.ErrInvalidToken})

	w := doJSON(r, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "no header")

	w = doJSON(r, http.MethodGet, "/api/v1/users/me", "", map[string]string{
		"Authorization": "Bearer bad-token",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "rejected token")
}

func TestMeEndpoint(t *testing.T) {
	users := &stubUsers{user: sampleUser()}
	r := newTestRouter(&stubAuth{}, users, &stubParser{userID: "u-1"})

	w := doJSON(r, http.MethodGet, "/api/v1/users/me", "", map[string]string{
		"Authorization": "Bearer good-token",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", users.lastGetID, "must resolve the account from the token")

	var resp userResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "user", resp.Role)
}

func TestUserEndpoints(t *testing.T) {
	authz := map[string]string{"Authorization": "Bearer good-token"}
	users := &stubUsers{user: sampleUser(), list: []*models.User{sampleUser()}}
	r := newTestRouter(&stubAuth{}, users, &stubParser{userID: "u-1"})

	w := doJSON(r, http.MethodGet, "/api/v1/users", "", authz)
	require.Equal(t, http.StatusOK, w.Code)
	var list []userResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = doJSON(r, http.MethodGet, "/api/v1/users/u-1", "", authz)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPut, "/api/v1/users/u-1",
		`{"username":"alice2","password":"longenough"}`, authz)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/v1/users/u-1", "", authz)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUserEndpoints_NotFound(t *testing.T) {
	authz := map[string]string{"Authorization": "Bearer good-token"}
	users := &stubUsers{userErr: common.ErrNotFound, deleteErr: common.ErrNotFound}
	r := newTestRouter(&stubAuth{}, users, &stubParser{userID: "u-1"})

	w := doJSON(r, http.MethodGet, "/api/v1/users/missing", "", authz)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/v1/users/missing", "", authz)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(&stubAuth{}, &stubUsers{}, nil)
	w := doJSON(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
