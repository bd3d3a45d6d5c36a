package middleware

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/kyiku/aggpack/internal/testutil"
)

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name            string
		origin          string
		method          string
		wantAllowOrigin string
		wantStatus      int
	}{
		{
			name:            "正常系: 設定されたオリジン",
			origin:          "https://agg.example.com",
			method:          http.MethodGet,
			wantAllowOrigin: "https://agg.example.com",
			wantStatus:      http.StatusOK,
		},
		{
			name:            "正常系: localhostオリジン",
			origin:          "http://localhost:3000",
			method:          http.MethodGet,
			wantAllowOrigin: "http://localhost:3000",
			wantStatus:      http.StatusOK,
		},
		{
			name:            "正常系: CloudFrontオリジン",
			origin:          "https://example.cloudfront.net",
			method:          http.MethodGet,
			wantAllowOrigin: "https://example.cloudfront.net",
			wantStatus:      http.StatusOK,
		},
		{
			name:            "正常系: PREFLIGHTリクエスト",
			origin:          "https://agg.example.com",
			method:          http.MethodOptions,
			wantAllowOrigin: "https://agg.example.com",
			wantStatus:      http.StatusNoContent,
		},
		{
			name:            "異常系: 許可されないオリジン",
			origin:          "https://evil.example.com",
			method:          http.MethodGet,
			wantAllowOrigin: "",
			wantStatus:      http.StatusOK,
		},
		{
			name:            "異常系: オリジンなし",
			origin:          "",
			method:          http.MethodGet,
			wantAllowOrigin: "",
			wantStatus:      http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContext(tt.method, "/", nil)
			if tt.origin != "" {
				tc.Request.Header.Set("Origin", tt.origin)
			}

			mw := CORSMiddleware("https://agg.example.com")
			handler := mw(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})

			err := handler(tc.Context)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, tc.GetResponseCode())
			assert.Equal(t, tt.wantAllowOrigin, tc.Recorder.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
