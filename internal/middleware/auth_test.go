package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"edushareqa/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(jwtService *jwt.Service, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuth(jwtService))
	handlers := append(extra, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": UserID(c),
			"roles":   Roles(c),
		})
	})
	router.GET("/protected", handlers...)
	return router
}

func TestJWTAuth_ValidToken(t *testing.T) {
	jwtService := jwt.New("test-secret-123", 1*time.Hour)
	validToken, err := jwtService.GenerateToken(42, []string{"STUDENT"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	protectedRouter(jwtService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
	assert.Contains(t, w.Body.String(), "STUDENT")
}

func TestJWTAuth_QueryToken(t *testing.T) {
	jwtService := jwt.New("test-secret-123", 1*time.Hour)
	validToken, err := jwtService.GenerateToken(9, []string{"TEACHER"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected?token="+validToken, nil)
	protectedRouter(jwtService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "TEACHER")
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	router := gin.New()
	router.Use(JWTAuth(jwt.New("wrong-secret", 1*time.Hour)))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("This handler should not be reached")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer invalid-jwt-here")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuth_NoToken(t *testing.T) {
	router := gin.New()
	router.Use(JWTAuth(jwt.New("secret", 1*time.Hour)))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("Should not reach here")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_HEADER_MISSING")
}

func TestJWTAuth_WrongFormat(t *testing.T) {
	router := gin.New()
	router.Use(JWTAuth(jwt.New("secret", 1*time.Hour)))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("Should not reach here")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic dGVzdA==")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
}

func TestRequireRole(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	router := protectedRouter(jwtService, RequireRole("TEACHER", "ADMIN"))

	cases := []struct {
		roles []string
		want  int
	}{
		{[]string{"STUDENT"}, http.StatusForbidden},
		{[]string{"TEACHER"}, http.StatusOK},
		{[]string{"STUDENT", "ADMIN"}, http.StatusOK},
		{nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		token, err := jwtService.GenerateToken(1, tc.roles)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		assert.Equal(t, tc.want, w.Code, "roles %v", tc.roles)
	}
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	router := gin.New()
	router.GET("/x", RequireRole("ADMIN"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:5173"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger_RecoversPanic(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	router := gin.New()
	router.Use(RequestID(), RequestLogger(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	router.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get("X-Request-ID"))
	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "fixed-id", entries[0].ContextMap()["request_id"])
}
