package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"school_edu_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: options", ErrValidation), http.StatusBadRequest},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrPermissionDenied, http.StatusForbidden},
		{ErrNoQuestions, http.StatusNotFound},
		{ErrSessionNotFound, http.StatusNotFound},
		{ErrSessionQuestionNotFound, http.StatusNotFound},
		{ErrSessionEnded, http.StatusConflict},
		{ErrAlreadyAnswered, http.StatusConflict},
		{fmt.Errorf("next batch: %w", ErrConcurrentUpdate), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Code)
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "Internal server error", body.Message)
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		query       string
		page, limit int
	}{
		{"", DefaultPage, DefaultLimit},
		{"page=3&limit=5", 3, 5},
		{"page=-1&limit=abc", DefaultPage, DefaultLimit},
		{"limit=1000", DefaultPage, MaxLimit},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		page, limit := ParsePage(c)
		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.limit, limit, tt.query)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 85.71, Round2(600.0/7))
	assert.Equal(t, 62.5, Round2(62.5))
}

func TestResolveImageURL(t *testing.T) {
	assert.Equal(t, "", ResolveImageURL("http://a.test", ""))
	assert.Equal(t, "https://cdn.test/x.png", ResolveImageURL("http://a.test", "https://cdn.test/x.png"))
	assert.Equal(t, "http://a.test/uploads/x.png", ResolveImageURL("http://a.test/", "/uploads/x.png"))
}

func TestRequestBaseURL(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "http://internal:8080/api", nil)
	assert.Equal(t, "http://internal:8080", RequestBaseURL(c))

	c.Request.Header.Set("X-Forwarded-Proto", "https, http")
	c.Request.Header.Set("X-Forwarded-Host", "school.test")
	assert.Equal(t, "https://school.test", RequestBaseURL(c))
	assert.Equal(t, "https://school.test/uploads/a.png", ImageURLResolver(c)("uploads/a.png"))
}

func TestJWT(t *testing.T) {
	user := &model.User{Email: "s@school.test", Role: model.Student, ClassID: 4}
	user.ID = 12

	token, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(12), claims.UserID)
	assert.Equal(t, uint(4), claims.ClassID)
	assert.True(t, claims.IsStudent())

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)

	expired, err := GenerateJWT(user, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.Error(t, err)
}

func TestHasAllowedExtension(t *testing.T) {
	assert.True(t, HasAllowedExtension("a.JPG", AllowedImageExtensions))
	assert.False(t, HasAllowedExtension("a.svg", AllowedImageExtensions))
	assert.False(t, HasAllowedExtension("noext", AllowedImageExtensions))
}
