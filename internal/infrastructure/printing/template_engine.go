package printing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"maps"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateEngine handles rendering HTML templates with document data.
// It uses Go's html/template package with custom formatting functions.
type TemplateEngine struct {
	funcMap template.FuncMap
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithFuncs adds or overrides template functions
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a new template engine with default configuration
func NewTemplateEngine(opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{}

	e.funcMap = template.FuncMap{
		// Money formatting
		"formatMoney":    formatMoney,
		"formatMoneyRaw": formatMoneyRaw,

		// Date formatting
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,

		// Number formatting
		"formatDecimal": formatDecimal,
		"formatInt":     formatInt,
		"formatPercent": formatPercent,

		// String utilities
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
		"title":    titleCase,
		"trim":     strings.TrimSpace,
		"truncate": truncate,
		"join":     strings.Join,

		// Arithmetic
		"add": add,
		"sub": sub,
		"mul": mul,

		// Conditional
		"default": defaultFunc,

		// Safe HTML
		"safeHTML": safeHTML,
		"safeCSS":  safeCSS,

		// Misc
		"now": time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// RenderTemplateRequest represents a request to render a template
type RenderTemplateRequest struct {
	// Template is the document template to render
	Template *RenderTemplate
	// Data is the document data to bind to the template
	Data interface{}
	// AdditionalFuncs are extra template functions (optional)
	AdditionalFuncs template.FuncMap
}

// RenderTemplateResult contains the rendered HTML output
type RenderTemplateResult struct {
	// HTML is the rendered HTML content
	HTML string
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// Render renders a document template with the provided data
func (e *TemplateEngine) Render(ctx context.Context, req *RenderTemplateRequest) (*RenderTemplateResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if req.Template == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "template is nil", nil)
	}
	if req.Template.Content == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}

	startTime := time.Now()

	funcMap := make(template.FuncMap)
	maps.Copy(funcMap, e.funcMap)
	if req.AdditionalFuncs != nil {
		maps.Copy(funcMap, req.AdditionalFuncs)
	}

	tmpl, err := template.New(req.Template.Name).Funcs(funcMap).Parse(req.Template.Content)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, req.Data); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}

	return &RenderTemplateResult{
		HTML:           buf.String(),
		RenderDuration: time.Since(startTime),
	}, nil
}

// RenderString renders a template string with the provided data
func (e *TemplateEngine) RenderString(ctx context.Context, name, content string, data interface{}) (string, error) {
	if content == "" {
		return "", NewRenderError(ErrCodeInvalidHTML, "template content is empty", nil)
	}

	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeInvalidHTML, "failed to parse template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template", err)
	}

	return buf.String(), nil
}

// GetFuncMap returns a copy of the template function map
func (e *TemplateEngine) GetFuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}

// formatMoney formats a decimal value as Swiss francs.
// Example: 1234.5 -> "CHF 1'234.50"
func formatMoney(v interface{}) string {
	return "CHF " + formatMoneyRaw(v)
}

// formatMoneyRaw formats a decimal value with Swiss thousand separators.
// Example: 1234.5 -> "1'234.50"
func formatMoneyRaw(v interface{}) string {
	d := toDecimal(v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	parts := strings.Split(d.StringFixed(2), ".")
	intPart := parts[0]
	decPart := "00"
	if len(parts) > 1 {
		decPart = parts[1]
	}

	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune('\'')
		}
		result.WriteRune(c)
	}

	return sign + result.String() + "." + decPart
}

// FormatMoneyValue formats a decimal as Swiss francs for data providers
func FormatMoneyValue(d decimal.Decimal) string {
	return formatMoney(d)
}

// formatDate formats a time value as a date.
// Example: "02.01.2006"
func formatDate(v interface{}) string {
	t, ok := toTime(v)
	if !ok {
		return ""
	}
	return t.Format("02.01.2006")
}

// formatDateTime formats a time value as date and time
func formatDateTime(v interface{}) string {
	t, ok := toTime(v)
	if !ok {
		return ""
	}
	return t.Format("02.01.2006 15:04")
}

// formatDecimal formats a decimal with a fixed number of places
func formatDecimal(v interface{}, places int) string {
	return toDecimal(v).StringFixed(int32(places))
}

// formatInt formats a value as an integer
func formatInt(v interface{}) string {
	return toDecimal(v).StringFixed(0)
}

// formatPercent formats a decimal as a percentage.
// Example: 8.1 -> "8.1%"
func formatPercent(v interface{}) string {
	d := toDecimal(v)
	return d.String() + "%"
}

// truncate shortens a string to the given length, appending an ellipsis
func truncate(s string, length int) string {
	if length <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}
	if length <= 3 {
		return string(runes[:length])
	}
	return string(runes[:length-3]) + "..."
}

// titleCase converts a string to title case
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func add(a, b interface{}) decimal.Decimal {
	return toDecimal(a).Add(toDecimal(b))
}

func sub(a, b interface{}) decimal.Decimal {
	return toDecimal(a).Sub(toDecimal(b))
}

func mul(a, b interface{}) decimal.Decimal {
	return toDecimal(a).Mul(toDecimal(b))
}

// defaultFunc returns the fallback when the value is empty
func defaultFunc(fallback, value interface{}) interface{} {
	if value == nil {
		return fallback
	}
	if s, ok := value.(string); ok && s == "" {
		return fallback
	}
	return value
}

func safeHTML(s string) template.HTML {
	return template.HTML(s)
}

func safeCSS(s string) template.CSS {
	return template.CSS(s)
}

// toDecimal converts supported numeric types to decimal
func toDecimal(v interface{}) decimal.Decimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case float32:
		return decimal.NewFromFloat(float64(x))
	case float64:
		return decimal.NewFromFloat(x)
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		d, err := decimal.NewFromString(fmt.Sprintf("%v", v))
		if err != nil {
			return decimal.Zero
		}
		return d
	}
}

// toTime converts supported time types
func toTime(v interface{}) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, true
	default:
		return time.Time{}, false
	}
}
