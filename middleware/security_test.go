package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
}

func TestInputValidationMiddlewareRejectsUnknownContentType(t *testing.T) {
	r := gin.New()
	r.Use(InputValidationMiddleware())
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("<xml/>"))
	req.Header.Set("Content-Type", "application/xml")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestInputValidationMiddlewareAllowsJSON(t *testing.T) {
	r := gin.New()
	r.Use(InputValidationMiddleware())
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "&lt;script&gt;", SanitizeInput("<script>"))
	assert.Equal(t, "plain text", SanitizeInput("  plain text  "))
	assert.Equal(t, "&amp;&quot;", SanitizeInput(`&"`))
}

func TestValidatePasswordStrength(t *testing.T) {
	ok, _ := ValidatePasswordStrength("Str0ngPass")
	assert.True(t, ok)

	ok, reasons := ValidatePasswordStrength("short")
	assert.False(t, ok)
	assert.NotEmpty(t, reasons)

	ok, reasons = ValidatePasswordStrength("alllowercase1")
	assert.False(t, ok)
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "uppercase")
}

func TestGenerateSecureToken(t *testing.T) {
	a, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.Len(t, a, 64)

	b, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestRateLimiterSeparatesKeys(t *testing.T) {
	rl := NewRateLimiter()

	first := rl.GetLimiterWithConfig("a", 1, 1)
	second := rl.GetLimiterWithConfig("b", 1, 1)
	assert.NotSame(t, first, second)

	again := rl.GetLimiterWithConfig("a", 1, 1)
	assert.Same(t, first, again)
}
