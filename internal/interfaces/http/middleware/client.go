package middleware

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/promoshop/backend/internal/infrastructure/logger"
)

// Keys used to carry the acting client's identity through a request.
const (
	ClientIDKey     = "client_id"
	ClientHeaderKey = "X-Client-ID"
)

// MaxClientIDLength bounds header-provided client IDs
const MaxClientIDLength = 100

var clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ClientContextConfig holds configuration for the client context middleware
type ClientContextConfig struct {
	// SkipPaths are paths that never carry a client identity
	SkipPaths []string
	// Logger receives extraction failures; nil disables logging
	Logger *zap.Logger
}

// DefaultClientContextConfig returns the default client context configuration
func DefaultClientContextConfig() ClientContextConfig {
	return ClientContextConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/metrics"},
	}
}

// ClientContext extracts the acting client's ID from the request and makes
// it available to handlers, telemetry and the request-scoped logger.
// Extraction order: client_id query parameter, then X-Client-ID header.
// The identity is optional; admin endpoints run without one.
func ClientContext() gin.HandlerFunc {
	return ClientContextWithConfig(DefaultClientContextConfig())
}

// ClientContextWithConfig returns client context middleware with custom configuration
func ClientContextWithConfig(cfg ClientContextConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		clientID := c.Query(ClientIDKey)
		if clientID == "" {
			clientID = c.GetHeader(ClientHeaderKey)
		}

		if clientID != "" {
			if !isValidClientID(clientID) {
				if cfg.Logger != nil {
					cfg.Logger.Warn("Rejected malformed client ID",
						zap.String("path", path),
					)
				}
				c.Next()
				return
			}

			c.Set(ClientIDKey, clientID)

			ctx := c.Request.Context()
			ctx, _ = logger.WithClientID(ctx, logger.FromContext(ctx), clientID)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// isValidClientID checks length and charset so header-injected values cannot
// pollute logs or trace attributes.
func isValidClientID(clientID string) bool {
	if len(clientID) > MaxClientIDLength {
		return false
	}
	return clientIDPattern.MatchString(clientID)
}

// GetClientID returns the client ID stored by ClientContext, or empty.
func GetClientID(c *gin.Context) string {
	if clientID, exists := c.Get(ClientIDKey); exists {
		if id, ok := clientID.(string); ok {
			return id
		}
	}
	return ""
}
