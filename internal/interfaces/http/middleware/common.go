package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CORSConfig controls which cross-origin requests the API accepts.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORSConfig returns a config with an empty origin whitelist.
// Until origins are configured explicitly, every cross-origin request
// is rejected.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:     []string{},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// CORS returns the middleware with the default config applied.
func CORS() gin.HandlerFunc {
	return CORSWithConfig(DefaultCORSConfig())
}

// CORSWithConfig handles cross-origin requests against the given config.
// Preflight OPTIONS requests are always answered with 204 so the
// browser gets a definitive response either way.
func CORSWithConfig(cfg CORSConfig) gin.HandlerFunc {
	wildcard := false
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			wildcard = true
			break
		}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin == "" || len(cfg.AllowOrigins) == 0 {
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
			c.Next()
			return
		}

		switch {
		case wildcard:
			// Credentials cannot be combined with a wildcard origin,
			// browsers refuse the response.
			c.Header("Access-Control-Allow-Origin", "*")
		case originAllowed(origin, cfg.AllowOrigins):
			c.Header("Access-Control-Allow-Origin", origin)
			if cfg.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
		default:
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
			c.Next()
			return
		}

		setCORSHeaders(c, cfg)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func originAllowed(origin string, allowed []string) bool {
	for _, o := range allowed {
		if o == origin {
			return true
		}
	}
	return false
}

func setCORSHeaders(c *gin.Context, cfg CORSConfig) {
	if len(cfg.AllowMethods) > 0 {
		c.Header("Access-Control-Allow-Methods", strings.Join(cfg.AllowMethods, ", "))
	}
	if len(cfg.AllowHeaders) > 0 {
		c.Header("Access-Control-Allow-Headers", strings.Join(cfg.AllowHeaders, ", "))
	}
	if len(cfg.ExposeHeaders) > 0 {
		c.Header("Access-Control-Expose-Headers", strings.Join(cfg.ExposeHeaders, ", "))
	}
	if cfg.MaxAge > 0 {
		c.Header("Access-Control-Max-Age", strconv.Itoa(int(cfg.MaxAge.Seconds())))
	}
}

// RequestID attaches a request ID to the context and response. A valid
// X-Request-ID supplied by the client is propagated unchanged so a
// caller can correlate its own logs with ours.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Request.Header.Get("X-Request-ID")
		if id == "" {
			id = generateRequestID()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// generateRequestID returns 16 random bytes hex encoded.
func generateRequestID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d-%s", time.Now().UnixNano(), fallbackRandomString(8))
	}
	return hex.EncodeToString(buf)
}

func fallbackRandomString(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[time.Now().UnixNano()%int64(len(alphabet))]
	}
	return string(b)
}

// SecurityConfig controls the security response headers. X-Frame-Options
// and X-Content-Type-Options are always emitted, the rest is opt-in.
type SecurityConfig struct {
	XFrameOptions              string
	XSSProtection              string
	ReferrerPolicy             string
	HSTSEnabled                bool
	HSTSMaxAge                 int
	HSTSIncludeSubdomains      bool
	HSTSPreload                bool
	CSPEnabled                 bool
	CSPDirective               string
	PermissionsPolicyEnabled   bool
	PermissionsPolicyDirective string
}

// DefaultSecurityConfig returns headers suited to a JSON API that is
// never rendered in a browser frame. HSTS stays off because TLS
// usually terminates at a proxy in front of this service.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		XFrameOptions:              "DENY",
		XSSProtection:              "1; mode=block",
		ReferrerPolicy:             "strict-origin-when-cross-origin",
		HSTSEnabled:                false,
		HSTSMaxAge:                 31536000,
		HSTSIncludeSubdomains:      true,
		HSTSPreload:                false,
		CSPEnabled:                 true,
		CSPDirective:               "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; font-src 'self'; connect-src 'self'; frame-ancestors 'none'",
		PermissionsPolicyEnabled:   true,
		PermissionsPolicyDirective: "camera=(), microphone=(), geolocation=(), payment=()",
	}
}

// Secure returns the security-header middleware with defaults.
func Secure() gin.HandlerFunc {
	return SecureWithConfig(DefaultSecurityConfig())
}

// SecureWithConfig sets the configured security headers on every response.
func SecureWithConfig(cfg SecurityConfig) gin.HandlerFunc {
	frameOptions := cfg.XFrameOptions
	if frameOptions == "" {
		frameOptions = "DENY"
	}

	hsts := ""
	if cfg.HSTSEnabled {
		hsts = "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
		if cfg.HSTSPreload {
			hsts += "; preload"
		}
	}

	return func(c *gin.Context) {
		c.Header("X-Frame-Options", frameOptions)
		c.Header("X-Content-Type-Options", "nosniff")
		if cfg.XSSProtection != "" {
			c.Header("X-XSS-Protection", cfg.XSSProtection)
		}
		if cfg.ReferrerPolicy != "" {
			c.Header("Referrer-Policy", cfg.ReferrerPolicy)
		}
		if hsts != "" {
			c.Header("Strict-Transport-Security", hsts)
		}
		if cfg.CSPEnabled && cfg.CSPDirective != "" {
			c.Header("Content-Security-Policy", cfg.CSPDirective)
		}
		if cfg.PermissionsPolicyEnabled && cfg.PermissionsPolicyDirective != "" {
			c.Header("Permissions-Policy", cfg.PermissionsPolicyDirective)
		}
		c.Next()
	}
}

// Timeout advertises the server-side request timeout to clients via
// the X-Request-Timeout header. Enforcement happens in the handlers
// through the request context.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Request-Timeout", timeout.String())
		c.Next()
	}
}
