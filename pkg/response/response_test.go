package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/cornucopia-api/pkg/apperror"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestErrorWritesKindStatusAsText(t *testing.T) {
	cases := []struct {
		err    error
		status int
		body   string
	}{
		{apperror.Validation("nothing to update"), http.StatusBadRequest, "nothing to update"},
		{apperror.Cast("xyz"), http.StatusNotFound, `malformed id "xyz"`},
		{apperror.NotFound("recipe not found"), http.StatusNotFound, "recipe not found"},
		{apperror.Auth("invalid bearer token"), http.StatusUnauthorized, "invalid bearer token"},
		{apperror.Internal("query", errors.New("connection reset")), http.StatusInternalServerError, "InternalServerError"},
		{errors.New("boom"), http.StatusInternalServerError, "InternalServerError"},
	}
	for _, tc := range cases {
		c, w := testContext()
		Error(c, tc.err)
		assert.True(t, c.IsAborted())
		assert.Equal(t, tc.status, w.Code)
		assert.Equal(t, tc.body, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	}
}

func TestEnvelopeMarksFailures(t *testing.T) {
	c, w := testContext()
	c.Set("request_id", "rid-1")
	Envelope(c, http.StatusServiceUnavailable, map[string]string{"redis": "down"}, "degraded")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var res APIResponse[map[string]string]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Equal(t, "rid-1", res.RequestID)
	assert.Equal(t, "down", res.Data["redis"])

	c, w = testContext()
	Envelope(c, 0, "ok", "healthy")
	require.Equal(t, http.StatusOK, w.Code)
	var ok APIResponse[string]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ok))
	assert.True(t, ok.Success)
	assert.Equal(t, http.StatusOK, ok.Status)
}

func TestNoContent(t *testing.T) {
	c, w := testContext()
	NoContent(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
