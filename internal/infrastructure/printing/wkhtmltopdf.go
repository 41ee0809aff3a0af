package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/promoshop/backend/internal/domain/printing"
	"go.uber.org/zap"
)

const (
	defaultBinaryPath   = "wkhtmltopdf"
	defaultTimeout      = 30 * time.Second
	defaultDPI          = 96
	defaultImageQuality = 94
)

// WkhtmltopdfConfig contains configuration for the wkhtmltopdf renderer
type WkhtmltopdfConfig struct {
	// BinaryPath is the path to the wkhtmltopdf binary
	// If empty, will search in PATH
	BinaryPath string
	// DefaultTimeout for rendering operations
	DefaultTimeout time.Duration
	// TempDir for temporary files during rendering
	TempDir string
	// DPI for rendering (default: 96)
	DPI int
	// ImageQuality (0-100, default: 94)
	ImageQuality int
	// Logger for debug output
	Logger *zap.Logger
}

// WkhtmltopdfRenderer renders HTML to PDF using the wkhtmltopdf command-line
// tool. It is the fallback for environments without a Chrome binary.
type WkhtmltopdfRenderer struct {
	config *WkhtmltopdfConfig
	logger *zap.Logger
}

// NewWkhtmltopdfRenderer creates a new wkhtmltopdf-based PDF renderer
func NewWkhtmltopdfRenderer(config *WkhtmltopdfConfig) (*WkhtmltopdfRenderer, error) {
	if config == nil {
		config = &WkhtmltopdfConfig{}
	}

	if config.BinaryPath == "" {
		config.BinaryPath = defaultBinaryPath
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultTimeout
	}
	if config.TempDir == "" {
		config.TempDir = os.TempDir()
	}
	if config.DPI == 0 {
		config.DPI = defaultDPI
	}
	if config.ImageQuality == 0 {
		config.ImageQuality = defaultImageQuality
	}

	binaryPath, err := resolveBinaryPath(config.BinaryPath)
	if err != nil {
		return nil, NewRenderError(ErrCodeBinaryNotFound,
			fmt.Sprintf("wkhtmltopdf binary not found: %s", config.BinaryPath), err)
	}
	config.BinaryPath = binaryPath

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WkhtmltopdfRenderer{
		config: config,
		logger: logger,
	}, nil
}

// resolveBinaryPath finds the full path to the binary
func resolveBinaryPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		return path, nil
	}

	return exec.LookPath(path)
}

// Render converts HTML content to PDF
func (r *WkhtmltopdfRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if !req.PaperSize.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.PaperSize), nil)
	}

	startTime := time.Now()

	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.config.DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	htmlFile, err := os.CreateTemp(r.config.TempDir, "document-*.html")
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to create temp HTML file", err)
	}
	htmlPath := htmlFile.Name()
	defer os.Remove(htmlPath)

	if _, err := htmlFile.WriteString(req.HTML); err != nil {
		htmlFile.Close()
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to write HTML to temp file", err)
	}
	htmlFile.Close()

	pdfFile, err := os.CreateTemp(r.config.TempDir, "output-*.pdf")
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to create temp PDF file", err)
	}
	pdfPath := pdfFile.Name()
	pdfFile.Close()
	defer os.Remove(pdfPath)

	args, footerPath := r.buildArgs(req, htmlPath, pdfPath)
	if footerPath != "" {
		defer os.Remove(footerPath)
	}

	r.logger.Debug("executing wkhtmltopdf",
		zap.String("binary", r.config.BinaryPath),
		zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, r.config.BinaryPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}

		r.logger.Error("wkhtmltopdf failed",
			zap.Error(err),
			zap.String("stderr", stderr.String()),
			zap.String("stdout", stdout.String()))

		return nil, NewRenderError(ErrCodeRenderFailed,
			"wkhtmltopdf execution failed: "+stderr.String(), err)
	}

	pdfData, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to read generated PDF", err)
	}

	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	pageCount := estimatePageCount(pdfData)
	renderDuration := time.Since(startTime)

	r.logger.Info("PDF rendered",
		zap.Int("bytes", len(pdfData)),
		zap.Int("pages", pageCount),
		zap.Duration("duration", renderDuration))

	return &RenderResult{
		PDFData:        pdfData,
		PageCount:      pageCount,
		RenderDuration: renderDuration,
	}, nil
}

// buildArgs constructs the command-line arguments for wkhtmltopdf.
// Returns the args and the path of the footer temp file, if one was written.
func (r *WkhtmltopdfRenderer) buildArgs(req *RenderRequest, htmlPath, pdfPath string) ([]string, string) {
	args := []string{
		"--quiet",
		"--encoding", "UTF-8",
		"--dpi", strconv.Itoa(r.config.DPI),
		"--image-quality", strconv.Itoa(r.config.ImageQuality),
		"--disable-javascript",
		"--disable-local-file-access",
	}

	switch req.PaperSize {
	case printing.PaperSizeA5:
		args = append(args, "--page-size", "A5")
	default:
		args = append(args, "--page-size", "A4")
	}

	if req.Orientation == printing.OrientationLandscape {
		args = append(args, "--orientation", "Landscape")
	} else {
		args = append(args, "--orientation", "Portrait")
	}

	args = append(args,
		"--margin-top", fmt.Sprintf("%dmm", req.Margins.Top),
		"--margin-right", fmt.Sprintf("%dmm", req.Margins.Right),
		"--margin-bottom", fmt.Sprintf("%dmm", req.Margins.Bottom),
		"--margin-left", fmt.Sprintf("%dmm", req.Margins.Left),
	)

	if req.Title != "" {
		args = append(args, "--title", req.Title)
	}

	footerPath := ""
	if req.FooterHTML != "" {
		path, err := r.writeTempHTML(req.FooterHTML, "footer-*.html")
		if err != nil {
			r.logger.Warn("failed to create footer temp file", zap.Error(err))
		} else {
			args = append(args, "--footer-html", path)
			footerPath = path
		}
	}

	args = append(args, htmlPath, pdfPath)

	return args, footerPath
}

// writeTempHTML writes HTML content to a temporary file
func (r *WkhtmltopdfRenderer) writeTempHTML(html, pattern string) (string, error) {
	file, err := os.CreateTemp(r.config.TempDir, pattern)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.WriteString(html); err != nil {
		os.Remove(file.Name())
		return "", err
	}

	return file.Name(), nil
}

// Close releases resources (no-op for wkhtmltopdf)
func (r *WkhtmltopdfRenderer) Close() error {
	return nil
}

// estimatePageCount estimates the page count from PDF data by counting
// "/Type /Page" objects, minus the parent "/Type /Pages" objects.
func estimatePageCount(pdfData []byte) int {
	count := bytes.Count(pdfData, []byte("/Type /Page"))
	parentCount := bytes.Count(pdfData, []byte("/Type /Pages"))
	count = count - parentCount
	return max(count, 1)
}

// Ensure WkhtmltopdfRenderer implements PDFRenderer
var _ PDFRenderer = (*WkhtmltopdfRenderer)(nil)
