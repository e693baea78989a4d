package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mailgun-admin/internal/core/domain"
	"mailgun-admin/internal/core/ports"
	"mailgun-admin/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withAdmin stands in for JWTAuth in tests of the downstream middleware.
func withAdmin(perms ...domain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxAdmin, domain.Admin{Subject: "ops@example.com", Permissions: perms})
		c.Next()
	}
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenSvc := mocks.NewMockTokenService(ctrl)

	router := gin.New()
	router.GET("/test", JWTAuth(tokenSvc, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_001")
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenSvc := mocks.NewMockTokenService(ctrl)
	tokenSvc.EXPECT().Validate("bad-token").Return(nil, errors.New("invalid"))

	router := gin.New()
	router.GET("/test", JWTAuth(tokenSvc, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tokenSvc := mocks.NewMockTokenService(ctrl)
	tokenSvc.EXPECT().Validate("good-token").Return(&ports.TokenClaims{
		Subject:     "ops@example.com",
		Permissions: []domain.Permission{domain.PermissionAccess},
	}, nil)

	var got domain.Admin
	router := gin.New()
	router.GET("/test", JWTAuth(tokenSvc, zerolog.Nop()), func(c *gin.Context) {
		got, _ = AdminFrom(c)
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ops@example.com", got.Subject)
	assert.True(t, got.Has(domain.PermissionAccess))
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name   string
		perms  []domain.Permission
		status int
	}{
		{"access granted", []domain.Permission{domain.PermissionAccess}, http.StatusOK},
		{"admin implies access", []domain.Permission{domain.PermissionAdmin}, http.StatusOK},
		{"no permissions", nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/test", withAdmin(tt.perms...), RequirePermission(domain.PermissionAccess), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequirePermission_NoAdmin(t *testing.T) {
	router := gin.New()
	router.GET("/test", RequirePermission(domain.PermissionAccess), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireConfigure(t *testing.T) {
	tests := []struct {
		name       string
		production bool
		perms      []domain.Permission
		status     int
	}{
		{"dev dashboard user", false, []domain.Permission{domain.PermissionAccess}, http.StatusOK},
		{"live dashboard user", true, []domain.Permission{domain.PermissionAccess}, http.StatusForbidden},
		{"live admin", true, []domain.Permission{domain.PermissionAdmin}, http.StatusOK},
		{"dev without access", false, nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.POST("/test", withAdmin(tt.perms...), RequireConfigure(tt.production), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequestID_Generated(t *testing.T) {
	var seen string
	router := gin.New()
	router.GET("/test", RequestID(), func(c *gin.Context) {
		seen = c.GetString(CtxRequestID)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(HeaderRequestID))
}

func TestRequestID_Propagated(t *testing.T) {
	router := gin.New()
	router.GET("/test", RequestID(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(HeaderRequestID))
}

func TestRefresh_ClearsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dash := mocks.NewMockDashboardService(ctrl)
	dash.EXPECT().ClearCache(gomock.Any()).Return(nil)

	router := gin.New()
	router.GET("/test", Refresh(dash, zerolog.Nop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test?refresh=true", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRefresh_ErrorDoesNotBlock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dash := mocks.NewMockDashboardService(ctrl)
	dash.EXPECT().ClearCache(gomock.Any()).Return(errors.New("redis down"))

	router := gin.New()
	router.GET("/test", Refresh(dash, zerolog.Nop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test?refresh=1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRefresh_NotRequested(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: ClearCache must not be called.
	dash := mocks.NewMockDashboardService(ctrl)

	router := gin.New()
	router.GET("/test", Refresh(dash, zerolog.Nop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), RequestLogger(zerolog.Nop()))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRecovery_PanicRecovered(t *testing.T) {
	router := gin.New()
	router.Use(Recovery(zerolog.Nop()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "SYS_001")
}
