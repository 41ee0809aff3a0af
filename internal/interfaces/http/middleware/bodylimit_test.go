package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bodyLimitRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(BodyLimit(limit))
	router.POST("/orders", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/orders", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestBodyLimit(t *testing.T) {
	t.Run("passes a body under the limit", func(t *testing.T) {
		router := bodyLimitRouter(1024)

		req := httptest.NewRequest("POST", "/orders", strings.NewReader("small body"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects by declared Content-Length", func(t *testing.T) {
		router := bodyLimitRouter(100)

		req := httptest.NewRequest("POST", "/orders", strings.NewReader(strings.Repeat("x", 200)))
		req.ContentLength = 200
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
	})

	t.Run("ignores requests without a body", func(t *testing.T) {
		router := bodyLimitRouter(10)

		req := httptest.NewRequest("GET", "/orders", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("caps streaming bodies without Content-Length", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(BodyLimit(50))
		router.POST("/orders", func(c *gin.Context) {
			buf := make([]byte, 200)
			if _, err := c.Request.Body.Read(buf); err != nil {
				c.String(http.StatusBadRequest, "body too large")
				return
			}
			c.String(http.StatusOK, "ok")
		})

		// ContentLength -1 skips the header check, leaving MaxBytesReader to
		// stop the read.
		req := httptest.NewRequest("POST", "/orders", strings.NewReader(strings.Repeat("x", 100)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
