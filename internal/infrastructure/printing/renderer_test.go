package printing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoshop/backend/internal/domain/printing"
)

func TestRenderError(t *testing.T) {
	t.Run("formats message without cause", func(t *testing.T) {
		err := NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
		assert.Equal(t, "HTML content is empty", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("appends cause to message", func(t *testing.T) {
		cause := errors.New("exit status 1")
		err := NewRenderError(ErrCodeRenderFailed, "wkhtmltopdf failed", cause)
		assert.Equal(t, "wkhtmltopdf failed: exit status 1", err.Error())
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("matches with errors.As", func(t *testing.T) {
		var wrapped error = NewRenderError(ErrCodeRenderTimeout, "rendering timed out", context.DeadlineExceeded)

		var renderErr *RenderError
		require.ErrorAs(t, wrapped, &renderErr)
		assert.Equal(t, ErrCodeRenderTimeout, renderErr.Code)
	})
}

func TestEstimatePageCount(t *testing.T) {
	tests := []struct {
		name     string
		pdf      string
		expected int
	}{
		{
			name:     "single page",
			pdf:      "%PDF-1.4\n/Type /Pages\n/Type /Page\n",
			expected: 1,
		},
		{
			name:     "three pages",
			pdf:      "%PDF-1.4\n/Type /Pages\n/Type /Page\n/Type /Page\n/Type /Page\n",
			expected: 3,
		},
		{
			name:     "no markers falls back to one",
			pdf:      "%PDF-1.4\nnothing here",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, estimatePageCount([]byte(tt.pdf)))
		})
	}
}

func TestMmToInches(t *testing.T) {
	assert.InDelta(t, 1.0, mmToInches(25.4), 0.0001)
	assert.InDelta(t, 8.2677, mmToInches(210), 0.001)
	assert.Zero(t, mmToInches(0))
}

// fakeBinary writes an executable placeholder so the renderer constructor
// can resolve a binary path without wkhtmltopdf installed.
func fakeBinary(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "wkhtmltopdf")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	return path
}

func TestNewWkhtmltopdfRenderer(t *testing.T) {
	t.Run("missing binary returns BINARY_NOT_FOUND", func(t *testing.T) {
		_, err := NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{
			BinaryPath: "/nonexistent/wkhtmltopdf",
		})
		require.Error(t, err)

		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, ErrCodeBinaryNotFound, renderErr.Code)
	})

	t.Run("applies defaults", func(t *testing.T) {
		renderer, err := NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{
			BinaryPath: fakeBinary(t),
		})
		require.NoError(t, err)

		assert.Equal(t, defaultTimeout, renderer.config.DefaultTimeout)
		assert.Equal(t, defaultDPI, renderer.config.DPI)
		assert.Equal(t, defaultImageQuality, renderer.config.ImageQuality)
		assert.NotEmpty(t, renderer.config.TempDir)
		assert.NoError(t, renderer.Close())
	})
}

func TestWkhtmltopdfRenderValidation(t *testing.T) {
	renderer, err := NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{
		BinaryPath: fakeBinary(t),
	})
	require.NoError(t, err)

	assertCode := func(t *testing.T, err error, code string) {
		t.Helper()
		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, code, renderErr.Code)
	}

	t.Run("nil request", func(t *testing.T) {
		_, err := renderer.Render(context.Background(), nil)
		assertCode(t, err, ErrCodeInvalidHTML)
	})

	t.Run("blank HTML", func(t *testing.T) {
		_, err := renderer.Render(context.Background(), &RenderRequest{HTML: "   \n"})
		assertCode(t, err, ErrCodeInvalidHTML)
	})

	t.Run("unknown paper size", func(t *testing.T) {
		_, err := renderer.Render(context.Background(), &RenderRequest{
			HTML:      "<p>hi</p>",
			PaperSize: printing.PaperSize("A3"),
		})
		assertCode(t, err, ErrCodeInvalidPaperSize)
	})
}

func TestWkhtmltopdfBuildArgs(t *testing.T) {
	newRenderer := func(t *testing.T) *WkhtmltopdfRenderer {
		t.Helper()
		renderer, err := NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{
			BinaryPath: fakeBinary(t),
			TempDir:    t.TempDir(),
		})
		require.NoError(t, err)
		return renderer
	}

	t.Run("portrait A4 with margins and title", func(t *testing.T) {
		renderer := newRenderer(t)
		req := &RenderRequest{
			HTML:        "<p>doc</p>",
			PaperSize:   printing.PaperSizeA4,
			Orientation: printing.OrientationPortrait,
			Margins:     printing.Margins{Top: 20, Right: 15, Bottom: 20, Left: 15},
			Title:       "Invoice 1735689600000",
		}

		args, footerPath := renderer.buildArgs(req, "/tmp/in.html", "/tmp/out.pdf")
		joined := strings.Join(args, " ")

		assert.Empty(t, footerPath)
		assert.Contains(t, joined, "--page-size A4")
		assert.Contains(t, joined, "--orientation Portrait")
		assert.Contains(t, joined, "--margin-top 20mm")
		assert.Contains(t, joined, "--margin-left 15mm")
		assert.Contains(t, joined, "--title Invoice 1735689600000")
		assert.Contains(t, joined, "--disable-javascript")
		assert.Equal(t, "/tmp/out.pdf", args[len(args)-1])
		assert.Equal(t, "/tmp/in.html", args[len(args)-2])
	})

	t.Run("landscape A5", func(t *testing.T) {
		renderer := newRenderer(t)
		req := &RenderRequest{
			HTML:        "<p>doc</p>",
			PaperSize:   printing.PaperSizeA5,
			Orientation: printing.OrientationLandscape,
		}

		args, _ := renderer.buildArgs(req, "in.html", "out.pdf")
		joined := strings.Join(args, " ")

		assert.Contains(t, joined, "--page-size A5")
		assert.Contains(t, joined, "--orientation Landscape")
	})

	t.Run("footer is written to a temp file", func(t *testing.T) {
		renderer := newRenderer(t)
		req := &RenderRequest{
			HTML:       "<p>doc</p>",
			PaperSize:  printing.PaperSizeA4,
			FooterHTML: "<span>page</span>",
		}

		args, footerPath := renderer.buildArgs(req, "in.html", "out.pdf")
		require.NotEmpty(t, footerPath)
		t.Cleanup(func() { os.Remove(footerPath) })

		assert.Contains(t, strings.Join(args, " "), "--footer-html "+footerPath)

		content, err := os.ReadFile(footerPath)
		require.NoError(t, err)
		assert.Equal(t, "<span>page</span>", string(content))
	})
}

func TestChromedpBuildPrintParams(t *testing.T) {
	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
	require.NoError(t, err)
	t.Cleanup(func() { renderer.Close() })

	t.Run("converts paper size and margins to inches", func(t *testing.T) {
		params := renderer.buildPrintParams(&RenderRequest{
			PaperSize:   printing.PaperSizeA4,
			Orientation: printing.OrientationPortrait,
			Margins:     printing.Margins{Top: 20, Right: 15, Bottom: 20, Left: 15},
		})

		assert.InDelta(t, 8.2677, params.paperWidth, 0.001)
		assert.InDelta(t, 11.6929, params.paperHeight, 0.001)
		assert.False(t, params.landscape)
		assert.InDelta(t, mmToInches(20), params.marginTop, 0.0001)
		assert.InDelta(t, mmToInches(15), params.marginRight, 0.0001)
		assert.False(t, params.displayHeaderFooter)
	})

	t.Run("landscape A5", func(t *testing.T) {
		params := renderer.buildPrintParams(&RenderRequest{
			PaperSize:   printing.PaperSizeA5,
			Orientation: printing.OrientationLandscape,
		})

		assert.InDelta(t, mmToInches(148), params.paperWidth, 0.0001)
		assert.InDelta(t, mmToInches(210), params.paperHeight, 0.0001)
		assert.True(t, params.landscape)
	})

	t.Run("footer enables header/footer and enforces bottom margin", func(t *testing.T) {
		params := renderer.buildPrintParams(&RenderRequest{
			PaperSize:  printing.PaperSizeA4,
			Margins:    printing.Margins{Bottom: 2},
			FooterHTML: "<span class=pageNumber></span>",
		})

		assert.True(t, params.displayHeaderFooter)
		assert.Equal(t, "<span class=pageNumber></span>", params.footerTemplate)
		assert.Equal(t, "<span></span>", params.headerTemplate)
		assert.InDelta(t, mmToInches(10), params.marginBottom, 0.0001)
	})
}

func TestChromedpBuildCompleteHTML(t *testing.T) {
	renderer, err := NewChromedpRenderer(nil)
	require.NoError(t, err)
	t.Cleanup(func() { renderer.Close() })

	t.Run("wraps fragments in a document", func(t *testing.T) {
		html := renderer.buildCompleteHTML(&RenderRequest{
			HTML:  "<p>hello</p>",
			Title: "Delivery Note 42",
		})

		assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
		assert.Contains(t, html, `<meta charset="UTF-8">`)
		assert.Contains(t, html, "<title>Delivery Note 42</title>")
		assert.Contains(t, html, "<body><p>hello</p></body>")
	})

	t.Run("passes complete documents through unchanged", func(t *testing.T) {
		full := "<!DOCTYPE html><html><body>done</body></html>"
		assert.Equal(t, full, renderer.buildCompleteHTML(&RenderRequest{HTML: full}))
	})
}
