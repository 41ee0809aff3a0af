package printing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/promoshop/backend/internal/domain/printing"
	"go.uber.org/zap"
)

// RenderTemplate is an HTML template plus its page layout
type RenderTemplate struct {
	Name        string
	DocType     printing.DocType
	Content     string
	PaperSize   printing.PaperSize
	Orientation printing.Orientation
	Margins     printing.Margins
}

// TemplateStore resolves the template to use for a document type. Built-in
// templates can be overridden by HTML files in a configured directory,
// named after the lowercased document type (invoice.html,
// delivery_note.html).
type TemplateStore struct {
	mu        sync.RWMutex
	templates map[printing.DocType]*RenderTemplate
	logger    *zap.Logger
}

// NewTemplateStore creates a template store seeded with the built-in templates
func NewTemplateStore(logger *zap.Logger) *TemplateStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	store := &TemplateStore{
		templates: make(map[printing.DocType]*RenderTemplate),
		logger:    logger,
	}

	for _, docType := range printing.AllDocTypes() {
		store.templates[docType] = defaultTemplateFor(docType)
	}

	return store
}

// LoadOverrides replaces built-in templates with files from the directory.
// Missing files keep the built-in template; a missing directory is not an
// error.
func (s *TemplateStore) LoadOverrides(dir string) error {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, docType := range printing.AllDocTypes() {
		fileName := strings.ToLower(string(docType)) + ".html"
		path := filepath.Join(dir, fileName)

		content, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to read template override %s: %w", path, err)
		}
		if len(content) == 0 {
			continue
		}

		tmpl := defaultTemplateFor(docType)
		tmpl.Content = string(content)
		s.templates[docType] = tmpl

		s.logger.Info("template override loaded",
			zap.String("docType", string(docType)),
			zap.String("path", path))
	}

	return nil
}

// Get returns the template for the document type
func (s *TemplateStore) Get(docType printing.DocType) (*RenderTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tmpl, ok := s.templates[docType]
	if !ok {
		return nil, fmt.Errorf("no template registered for document type: %s", docType)
	}
	return tmpl, nil
}

// Set registers or replaces the template for a document type
func (s *TemplateStore) Set(tmpl *RenderTemplate) {
	if tmpl == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[tmpl.DocType] = tmpl
}
