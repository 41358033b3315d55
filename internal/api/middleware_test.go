package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequireBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Authorization header required",
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid authorization header format",
		},
		{
			name:       "bare token without scheme",
			authHeader: "some-token",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid authorization header format",
		},
		{
			name:       "bearer with empty token",
			authHeader: "Bearer ",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid authorization header format",
		},
		{
			name:       "valid bearer token",
			authHeader: "Bearer my-secret",
			wantStatus: http.StatusOK,
			wantBody:   "my-secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.POST("/protected", RequireBearerToken(), func(c *gin.Context) {
				c.String(http.StatusOK, GetBearerToken(c))
			})

			req := httptest.NewRequest(http.MethodPost, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestGetBearerToken_Unset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "", GetBearerToken(c))
}
