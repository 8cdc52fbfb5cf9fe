package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"club-cms-api/internal/domain"
)

func TestNew_DataNeverNull(t *testing.T) {
	b, err := json.Marshal(OK(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":200,"msg":"OK","data":{}}`, string(b))
}

func TestError_DefaultMsg(t *testing.T) {
	r := Error(CodeNotFound, "NEWS_NOT_FOUND", "")
	assert.Equal(t, "Not Found", r.Msg)
	assert.Equal(t, "NEWS_NOT_FOUND", r.ErrCode)
}

func TestFail(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"conflict", domain.ErrEmailAlreadyExists, http.StatusConflict, "EMAIL_ALREADY_EXISTS", "email already registered"},
		{"wrapped not found", fmt.Errorf("svc: %w", domain.ErrUserNotFound), http.StatusNotFound, "USER_NOT_FOUND", "user not found"},
		{"validation", domain.Validation("email is required"), http.StatusBadRequest, "VALIDATION_ERROR", "email is required"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "insufficient role"},
		{"deadline", fmt.Errorf("repo.UserRepo.List: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "TIMEOUT", "request timed out"},
		{"plain error hidden", errors.New("pq: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			Fail(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.True(t, c.IsAborted())
			var body Resp
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Code)
			assert.Equal(t, tt.wantCode, body.ErrCode)
			assert.Equal(t, tt.wantMsg, body.Msg)
		})
	}
}

func TestFail_InternalRecordedOnContext(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Fail(c, errors.New("disk full"))
	require.Len(t, c.Errors, 1)
	assert.EqualError(t, c.Errors[0].Err, "disk full")
}
