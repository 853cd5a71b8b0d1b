package middleware

import (
	"context"
	"errors"
	"kittygram_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeUsers struct {
	ensured map[uint]string
	err     error
}

func (f *fakeUsers) Ensure(ctx context.Context, id uint, username string) error {
	if f.err != nil {
		return f.err
	}
	f.ensured[id] = username
	return nil
}

func newTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		if claims := util.GetUserFromContext(c); claims != nil {
			c.String(http.StatusOK, claims.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	return r
}

func doRequest(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	users := &fakeUsers{ensured: map[uint]string{}}
	r := newTestRouter(AuthMiddleware(testSecret, users))

	token, err := util.GenerateJWT(7, "tom", testSecret, time.Hour)
	require.NoError(t, err)

	w := doRequest(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tom", w.Body.String())
	assert.Equal(t, "tom", users.ensured[7])

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "garbage").Code)

	other, err := util.GenerateJWT(7, "tom", "other-secret", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, other).Code)

	expired, err := util.GenerateJWT(7, "tom", testSecret, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, expired).Code)
}

func TestAuthMiddleware_EnsureFailure(t *testing.T) {
	users := &fakeUsers{err: errors.New("db down")}
	r := newTestRouter(AuthMiddleware(testSecret, users))

	token, err := util.GenerateJWT(1, "tom", testSecret, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, token).Code)
}

func TestTryAuthMiddleware(t *testing.T) {
	users := &fakeUsers{ensured: map[uint]string{}}
	r := newTestRouter(TryAuthMiddleware(testSecret, users))

	w := doRequest(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	token, err := util.GenerateJWT(3, "felix", testSecret, time.Hour)
	require.NoError(t, err)
	w = doRequest(r, token)
	assert.Equal(t, "felix", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "garbage").Code)
}
