package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	page, limit := ParsePagination("", "")
	assert.Equal(t, DefaultPage, page)
	assert.Equal(t, DefaultLimit, limit)

	page, limit = ParsePagination("3", "500")
	assert.Equal(t, 3, page)
	assert.Equal(t, MaxLimit, limit)

	page, limit = ParsePagination("-1", "abc")
	assert.Equal(t, DefaultPage, page)
	assert.Equal(t, DefaultLimit, limit)
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/cats", nil)
	return c, w
}

func TestValidationFailed_ListsFieldErrors(t *testing.T) {
	c, w := newTestContext()
	errs := FieldErrors{}
	errs.Add("color", ErrColorHasNoName.Error())

	ValidationFailed(c, errs)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, []string{ErrColorHasNoName.Error()}, resp.Errors["color"])
	assert.Nil(t, resp.Data)
}

func TestLogInternalError_HidesCause(t *testing.T) {
	c, w := newTestContext()

	LogInternalError(c, errors.New("dial tcp: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestSuccess_WrapsPage(t *testing.T) {
	c, w := newTestContext()

	Success(c, NewPage([]string{"Tom"}, 11, 2, 10))

	var resp struct {
		Data PageResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(11), resp.Data.Total)
	assert.Equal(t, 2, resp.Data.Page)
	assert.NotContains(t, w.Body.String(), `"errors"`)
}
