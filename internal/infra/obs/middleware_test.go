package obs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func requestIDRouter(capture *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware{}.RequestID())
	router.GET("/", func(c *gin.Context) {
		*capture = RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequestIDStampedOnContext(t *testing.T) {
	var fromCtx string
	router := requestIDRouter(&fromCtx)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, fromCtx)
	assert.Equal(t, fromCtx, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDAcceptsCallerValue(t *testing.T) {
	var fromCtx string
	router := requestIDRouter(&fromCtx)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-1", fromCtx)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))
}

func TestRequestIDFromBareContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, RequestIDFromContext(req.Context()))
}
