package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"club-cms-api/internal/core/auth"
	"club-cms-api/internal/domain"
	resp "club-cms-api/internal/transport/http/response"
)

type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) Verify(token string) (*auth.Claims, error) {
	args := m.Called(token)
	c, _ := args.Get(0).(*auth.Claims)
	return c, args.Error(1)
}

func newJWTer(t *testing.T) *auth.JWTer {
	t.Helper()
	j, err := auth.NewJWTer(auth.TokenConfig{Secret: []byte("test-secret"), Issuer: "club-cms-api"})
	require.NoError(t, err)
	return j
}

func guardedEngine(v TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	l := zap.NewNop()
	r := gin.New()
	me := func(c *gin.Context) {
		id, _ := IdentityFrom(c)
		c.JSON(http.StatusOK, resp.OK(gin.H{"id": id.ID, "role": c.GetString(KeyRole)}))
	}
	r.GET("/me", Authenticate(v, l), me)
	r.GET("/admin", Authenticate(v, l), RequireRole(domain.RoleAdmin, l), me)
	r.GET("/misconfigured", RequireRole(domain.RoleAdmin, l), me)
	return r
}

func call(r http.Handler, path, authz string) (*httptest.ResponseRecorder, resp.Resp) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body resp.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestAuthenticate(t *testing.T) {
	j := newJWTer(t)
	userTok, err := j.Issue(auth.Identity{ID: "u1", Email: "fan@club.test", Role: "USER"})
	require.NoError(t, err)
	r := guardedEngine(j)

	tests := []struct {
		name       string
		authz      string
		wantStatus int
		wantCode   string
	}{
		{"no header", "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"bearer without token", "Bearer ", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized, "INVALID_OR_EXPIRED_TOKEN"},
		{"tampered", "Bearer " + userTok + "x", http.StatusUnauthorized, "INVALID_OR_EXPIRED_TOKEN"},
		{"valid", "Bearer " + userTok, http.StatusOK, ""},
		{"lowercase scheme", "bearer " + userTok, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := call(r, "/me", tt.authz)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, body.ErrCode)
		})
	}

	_, body := call(r, "/me", "Bearer "+userTok)
	assert.Equal(t, map[string]any{"id": "u1", "role": "USER"}, body.Data)
}

func TestAuthenticate_ExpiredMessage(t *testing.T) {
	v := new(mockVerifier)
	v.On("Verify", "old").Return(nil, fmt.Errorf("%w: token is expired", auth.ErrTokenExpired))
	v.On("Verify", "bad").Return(nil, fmt.Errorf("%w: signature is invalid", auth.ErrTokenInvalid))
	r := guardedEngine(v)

	w, body := call(r, "/me", "Bearer old")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_OR_EXPIRED_TOKEN", body.ErrCode)
	assert.Equal(t, "token expired", body.Msg)

	_, body = call(r, "/me", "Bearer bad")
	assert.Equal(t, "INVALID_OR_EXPIRED_TOKEN", body.ErrCode)
	assert.Equal(t, "invalid or expired token", body.Msg)
	v.AssertExpectations(t)
}

func TestRequireRole(t *testing.T) {
	j := newJWTer(t)
	userTok, err := j.Issue(auth.Identity{ID: "u1", Email: "fan@club.test", Role: "USER"})
	require.NoError(t, err)
	adminTok, err := j.Issue(auth.Identity{ID: "a1", Email: "boss@club.test", Role: "ADMIN"})
	require.NoError(t, err)
	r := guardedEngine(j)

	w, body := call(r, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "MISSING_TOKEN", body.ErrCode)

	w, body = call(r, "/admin", "Bearer "+userTok)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", body.ErrCode)

	w, _ = call(r, "/admin", "Bearer "+adminTok)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_WithoutAuthenticate(t *testing.T) {
	j := newJWTer(t)
	adminTok, err := j.Issue(auth.Identity{ID: "a1", Email: "boss@club.test", Role: "ADMIN"})
	require.NoError(t, err)
	r := guardedEngine(j)

	w, body := call(r, "/misconfigured", "Bearer "+adminTok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "MISSING_TOKEN", body.ErrCode)
}

func TestBearerToken(t *testing.T) {
	tok, ok := bearerToken("  Bearer   abc  ")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = bearerToken("Bearerabc")
	assert.False(t, ok)
}
