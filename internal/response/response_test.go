package response

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kyiku/aggpack/internal/testutil"
)

func TestSuccess(t *testing.T) {
	tc := testutil.NewTestContext(http.MethodGet, "/", nil)

	err := Success(tc.Context, map[string]interface{}{
		"job_id": "abc",
		"count":  3,
	})

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, tc.GetResponseCode())

	body := tc.GetResponseBody()
	assert.Equal(t, false, body["error"])
	assert.Equal(t, "abc", body["job_id"])
	assert.Equal(t, float64(3), body["count"])
}

func TestError(t *testing.T) {
	tc := testutil.NewTestContext(http.MethodGet, "/", nil)

	err := Error(tc.Context, http.StatusBadRequest, "bad input")

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, tc.GetResponseCode())

	body := tc.GetResponseBody()
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "bad input", body["message"])
}

func TestErrorWithCode(t *testing.T) {
	tc := testutil.NewTestContext(http.MethodGet, "/", nil)

	err := ErrorWithCode(tc.Context, http.StatusNotFound, "JOB_NOT_FOUND", "missing")

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, tc.GetResponseCode())

	body := tc.GetResponseBody()
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "JOB_NOT_FOUND", body["code"])
	assert.Equal(t, "missing", body["message"])
}
