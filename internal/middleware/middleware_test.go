package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, secret string, role string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, services.Claims{
		UserID: 9,
		Email:  "ana@autolote.hn",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", handlers...)
	return r
}

func TestAuth(t *testing.T) {
	var actor services.Actor
	r := newRouter(Actor(), Auth("secret"), func(c *gin.Context) {
		actor, _ = services.ActorFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"bad format", "Token abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signedToken(t, "other", models.RoleAdmin, time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"expired", "Bearer " + signedToken(t, "secret", models.RoleAdmin, time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"valid", "Bearer " + signedToken(t, "secret", models.RoleSeller, time.Now().Add(time.Hour)), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	assert.Equal(t, uint(9), actor.UserID)
	assert.Equal(t, models.RoleSeller, actor.Role)
	assert.NotEmpty(t, actor.IP)
}

func TestAuth_QueryToken(t *testing.T) {
	r := newRouter(Auth("secret"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	token := signedToken(t, "secret", models.RoleAdmin, time.Now().Add(time.Hour))
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	for role, want := range map[string]int{
		models.RoleAdmin:  http.StatusOK,
		models.RoleSeller: http.StatusForbidden,
	} {
		r := newRouter(func(c *gin.Context) { c.Set("userRole", role) }, RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, want, w.Code, role)
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://consola.autolote.hn/"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://consola.autolote.hn")
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://consola.autolote.hn", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://otro.com")
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://consola.autolote.hn")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
