// Package middleware provides HTTP middleware for the backend API.
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/promoshop/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig configures the profiling label middleware.
type ProfilingConfig struct {
	// Enabled controls whether profiling labels are attached to requests.
	Enabled bool
	// SkipPaths are exact paths excluded from labeling, health checks mostly.
	SkipPaths []string
	// SkipPathPrefixes are path prefixes excluded from labeling.
	SkipPathPrefixes []string
}

// DefaultProfilingConfig returns the default profiling middleware configuration.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled: true,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/metrics",
		},
		SkipPathPrefixes: []string{
			"/debug",
		},
	}
}

// Profiling returns the profiling label middleware with default configuration.
func Profiling() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}

// ProfilingWithConfig returns a middleware that runs each request under
// Pyroscope labels: controller, route, method and client_id. The labels let
// the profiler UI slice flame graphs per endpoint or per client. Register it
// after ClientContext so the client label is populated.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return noopMiddleware
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		labels := extractProfilingLabels(c)
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func extractProfilingLabels(c *gin.Context) map[string]string {
	labels := make(map[string]string, 4)

	if method := c.Request.Method; method != "" {
		labels[telemetry.ProfilingLabelMethod] = method
	}

	// The matched pattern, not the raw path, to keep cardinality bounded.
	route := c.FullPath()
	if route != "" {
		labels[telemetry.ProfilingLabelRoute] = route
	}

	if controller := extractControllerFromRoute(route); controller != "" {
		labels[telemetry.ProfilingLabelController] = controller
	}

	if clientID := GetClientID(c); clientID != "" {
		labels[telemetry.ProfilingLabelClientID] = clientID
	}

	return labels
}

// extractControllerFromRoute derives a controller name from a route pattern:
// "/api/v1/orders/:orderNumber" becomes "orders".
func extractControllerFromRoute(route string) string {
	if route == "" {
		return ""
	}

	parts := strings.Split(route, "/")
	for i, part := range parts {
		if part == "" || part == "api" || isVersionSegment(part) {
			continue
		}
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "{") {
			continue
		}

		// The segment before a path parameter is the resource name.
		if i+1 < len(parts) && (strings.HasPrefix(parts[i+1], ":") || strings.HasPrefix(parts[i+1], "{")) {
			return part
		}
		return part
	}

	return ""
}

// isVersionSegment reports whether a path segment is an API version like v1.
func isVersionSegment(segment string) bool {
	if len(segment) < 2 {
		return false
	}
	if segment[0] != 'v' && segment[0] != 'V' {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}

// ProfilingAttributeInjector is an alias for the default profiling
// middleware, kept for call sites that chain it explicitly after
// ClientContext.
func ProfilingAttributeInjector() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}
