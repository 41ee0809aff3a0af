// Package telemetry wires OpenTelemetry metrics, traces and logs, plus
// continuous profiling, into the backend.
//
// This file holds the Pyroscope label helpers. Labels let the profiler UI
// slice flame graphs by handler, operation or client.
package telemetry

import (
	"context"
	"maps"
	"runtime/pprof"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys.
const (
	// ProfilingLabelController is the handler/controller name.
	ProfilingLabelController = "controller"
	// ProfilingLabelRoute is the route pattern.
	ProfilingLabelRoute = "route"
	// ProfilingLabelMethod is the HTTP method.
	ProfilingLabelMethod = "method"
	// ProfilingLabelClientID is the client identifier.
	ProfilingLabelClientID = "client_id"
	// ProfilingLabelOperation is the business operation name.
	ProfilingLabelOperation = "operation"
	// ProfilingLabelRegion names a code region such as "db_query" or "pdf_render".
	ProfilingLabelRegion = "region"
)

// Business operation names used with OperationLabels and TradeOperationLabels.
const (
	OperationPlaceOrder     = "place_order"
	OperationProcessOrder   = "process_order"
	OperationRenderDocument = "render_document"
	OperationImportCatalog  = "import_catalog"
)

// MaxLabelValueLength caps label values. Longer values are truncated before
// they reach the profiler.
const MaxLabelValueLength = 128

// HighCardinalityLabels lists label keys that sanitizeLabels drops outright.
// Unbounded values like request or order IDs blow up the profiler's series
// count. Do not modify this map at runtime.
//
// client_id is deliberately absent: the client base is low-to-medium
// cardinality. Revisit if it grows past a thousand or so.
var HighCardinalityLabels = map[string]bool{
	"user_id":    true,
	"request_id": true,
	"order_id":   true,
	"trace_id":   true,
	"span_id":    true,
	"session_id": true,
}

// WithProfilingLabels runs fn with the given profiling labels attached.
// The labels map is copied, so the caller may reuse it afterwards.
//
//	telemetry.WithProfilingLabels(ctx, telemetry.TradeOperationLabels(telemetry.OperationProcessOrder, clientID), func(c context.Context) {
//	    reconcile(c)
//	})
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	if len(labels) == 0 {
		fn(ctx)
		return
	}

	labelsCopy := make(map[string]string, len(labels))
	maps.Copy(labelsCopy, labels)

	labelPairs := sanitizeLabels(labelsCopy)
	if len(labelPairs) == 0 {
		fn(ctx)
		return
	}

	pyroscope.TagWrapper(ctx, pyroscope.Labels(labelPairs...), fn)
}

// WithPprofLabels is the same as WithProfilingLabels but goes through Go's
// native pprof label API, for use with standard profiling tools when the
// Pyroscope SDK is not in play. Both produce identical label behavior.
func WithPprofLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	if len(labels) == 0 {
		fn(ctx)
		return
	}

	labelsCopy := make(map[string]string, len(labels))
	maps.Copy(labelsCopy, labels)

	labelPairs := sanitizeLabels(labelsCopy)
	if len(labelPairs) == 0 {
		fn(ctx)
		return
	}

	pprof.Do(ctx, pprof.Labels(labelPairs...), fn)
}

// ProfilingScope accumulates labels incrementally before running a function
// under them.
type ProfilingScope struct {
	labels map[string]string
}

// NewProfilingScope creates a ProfilingScope seeded with the given labels.
func NewProfilingScope(labels map[string]string) *ProfilingScope {
	scope := &ProfilingScope{
		labels: make(map[string]string),
	}
	maps.Copy(scope.labels, labels)
	return scope
}

// WithLabel adds a single label to the scope.
func (s *ProfilingScope) WithLabel(key, value string) *ProfilingScope {
	s.labels[key] = value
	return s
}

// WithController adds the controller label.
func (s *ProfilingScope) WithController(controller string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelController, controller)
}

// WithRoute adds the route label.
func (s *ProfilingScope) WithRoute(route string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelRoute, route)
}

// WithMethod adds the method label.
func (s *ProfilingScope) WithMethod(method string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelMethod, method)
}

// WithClientID adds the client_id label.
func (s *ProfilingScope) WithClientID(clientID string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelClientID, clientID)
}

// WithOperation adds the operation label.
func (s *ProfilingScope) WithOperation(operation string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelOperation, operation)
}

// WithRegion adds the region label.
func (s *ProfilingScope) WithRegion(region string) *ProfilingScope {
	return s.WithLabel(ProfilingLabelRegion, region)
}

// Labels returns a copy of the accumulated labels.
func (s *ProfilingScope) Labels() map[string]string {
	result := make(map[string]string, len(s.labels))
	maps.Copy(result, s.labels)
	return result
}

// Run executes fn with the accumulated labels.
func (s *ProfilingScope) Run(ctx context.Context, fn func(context.Context)) {
	WithProfilingLabels(ctx, s.labels, fn)
}

// sanitizeLabels turns a label map into the flat key/value slice the
// profiler APIs expect. It drops empty and high-cardinality entries,
// truncates long values, normalizes keys to snake_case and sorts keys so
// the output is deterministic.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}

	pairs := make([]string, 0, len(labels)*2)

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := labels[key]

		if key == "" || value == "" {
			continue
		}

		// Dropped silently; logging here would spam hot paths.
		if HighCardinalityLabels[key] {
			continue
		}

		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}

		sanitizedKey := sanitizeLabelKey(key)
		if sanitizedKey == "" {
			continue
		}

		pairs = append(pairs, sanitizedKey, value)
	}

	return pairs
}

// sanitizeLabelKey normalizes a label key to snake_case, stripping anything
// that is not alphanumeric or underscore.
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")

	result := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			result = append(result, c)
		}
	}

	return string(result)
}

// HTTPRequestLabels builds the standard label set for HTTP request
// profiling. Empty arguments produce no label.
func HTTPRequestLabels(controller, route, method, clientID string) map[string]string {
	labels := make(map[string]string, 4)

	if controller != "" {
		labels[ProfilingLabelController] = controller
	}
	if route != "" {
		labels[ProfilingLabelRoute] = route
	}
	if method != "" {
		labels[ProfilingLabelMethod] = method
	}
	if clientID != "" {
		labels[ProfilingLabelClientID] = clientID
	}

	return labels
}

// OperationLabels builds labels for a named operation, merged with any
// extra labels.
func OperationLabels(operation string, extraLabels map[string]string) map[string]string {
	labels := make(map[string]string, len(extraLabels)+1)
	labels[ProfilingLabelOperation] = operation
	maps.Copy(labels, extraLabels)

	return labels
}

// TradeOperationLabels builds labels for a trade workflow operation such as
// order placement or fulfillment. The client ID may be empty.
func TradeOperationLabels(operation, clientID string) map[string]string {
	labels := map[string]string{
		ProfilingLabelOperation: operation,
	}
	if clientID != "" {
		labels[ProfilingLabelClientID] = clientID
	}
	return labels
}

// RegionLabels builds labels for a code region such as a database call or
// an external render.
func RegionLabels(region string, extraLabels map[string]string) map[string]string {
	labels := make(map[string]string, len(extraLabels)+1)
	labels[ProfilingLabelRegion] = region
	maps.Copy(labels, extraLabels)

	return labels
}
