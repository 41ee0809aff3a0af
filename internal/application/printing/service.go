// Package printing implements the document generation workflow: resolving
// the order, loading document data, rendering HTML to PDF and tracking the
// result as a Document aggregate.
package printing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/printing"
	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/promoshop/backend/internal/domain/trade"
	infra "github.com/promoshop/backend/internal/infrastructure/printing"
	"github.com/promoshop/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DocumentDataLoader loads the data for one document type of an order
type DocumentDataLoader interface {
	LoadData(ctx context.Context, docType printing.DocType, orderID uuid.UUID) (*infra.DocumentData, error)
}

// DocumentService handles document generation and retrieval
type DocumentService struct {
	documentRepo   printing.DocumentRepository
	orderRepo      trade.OrderRepository
	dataLoader     DocumentDataLoader
	templateStore  *infra.TemplateStore
	templateEngine *infra.TemplateEngine
	pdfRenderer    infra.PDFRenderer
	pdfStorage     infra.PDFStorage
	logger         *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documentRepo printing.DocumentRepository,
	orderRepo trade.OrderRepository,
	dataLoader DocumentDataLoader,
	templateStore *infra.TemplateStore,
	templateEngine *infra.TemplateEngine,
	pdfRenderer infra.PDFRenderer,
	pdfStorage infra.PDFStorage,
	logger *zap.Logger,
) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		documentRepo:   documentRepo,
		orderRepo:      orderRepo,
		dataLoader:     dataLoader,
		templateStore:  templateStore,
		templateEngine: templateEngine,
		pdfRenderer:    pdfRenderer,
		pdfStorage:     pdfStorage,
		logger:         logger,
	}
}

// Generate renders a PDF document for an order and records it. Every call
// produces a new Document so earlier generations stay available.
func (s *DocumentService) Generate(ctx context.Context, req GenerateDocumentRequest) (*DocumentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "generate")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrDocumentType, req.DocumentType,
		telemetry.SpanAttrOrderNumber, req.OrderNumber,
	)

	docType := printing.DocType(strings.ToUpper(req.DocumentType))
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid document type: "+req.DocumentType)
	}

	order, err := s.orderRepo.FindByOrderNumber(ctx, req.OrderNumber)
	if err != nil {
		return nil, err
	}
	if req.ClientID != "" && order.ClientID != req.ClientID {
		return nil, shared.ErrNotFound
	}

	doc, err := printing.NewDocument(docType, order.ID, order.OrderNumber, order.ClientID)
	if err != nil {
		return nil, err
	}

	if err := s.documentRepo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	if err := doc.StartRendering(); err != nil {
		return nil, err
	}
	if err := s.documentRepo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to update document status: %w", err)
	}

	data, err := s.dataLoader.LoadData(ctx, docType, order.ID)
	if err != nil {
		// Domain errors surface as-is so the caller sees why the order
		// cannot be documented, e.g. it has not been processed yet.
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			s.failDocument(ctx, doc, domainErr.Message)
			return nil, err
		}
		s.logger.Error("document data loading failed",
			zap.Error(err), zap.String("documentId", doc.ID.String()))
		s.failDocument(ctx, doc, "Failed to load document data.")
		return nil, fmt.Errorf("failed to load document data: %w", err)
	}

	tmpl, err := s.templateStore.Get(docType)
	if err != nil {
		s.failDocument(ctx, doc, "No template available for this document type.")
		return nil, fmt.Errorf("failed to resolve template: %w", err)
	}

	htmlResult, err := s.templateEngine.Render(ctx, &infra.RenderTemplateRequest{
		Template: tmpl,
		Data:     data,
	})
	if err != nil {
		s.logger.Error("template rendering failed",
			zap.Error(err), zap.String("documentId", doc.ID.String()))
		s.failDocument(ctx, doc, "Template rendering failed.")
		return nil, fmt.Errorf("failed to render template: %w", err)
	}

	// The render holds a browser or a spawned binary for seconds; label it
	// so it stands out in flame graphs.
	var pdfResult *infra.RenderResult
	labels := telemetry.RegionLabels("pdf_render", map[string]string{
		telemetry.ProfilingLabelOperation: telemetry.OperationRenderDocument,
	})
	telemetry.WithProfilingLabels(ctx, labels, func(c context.Context) {
		pdfResult, err = s.pdfRenderer.Render(c, &infra.RenderRequest{
			HTML:        htmlResult.HTML,
			PaperSize:   tmpl.PaperSize,
			Orientation: tmpl.Orientation,
			Margins:     tmpl.Margins,
			Title:       fmt.Sprintf("%s %s", docType.DisplayName(), order.OrderNumber),
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("PDF rendering failed",
			zap.Error(err), zap.String("documentId", doc.ID.String()))
		s.failDocument(ctx, doc, "PDF generation failed. Please try again later.")
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	storeResult, err := s.pdfStorage.Store(ctx, &infra.StoreRequest{
		DocumentID:  doc.ID,
		OrderNumber: order.OrderNumber,
		DocTypeSlug: strings.ToLower(string(docType)),
		PDFData:     pdfResult.PDFData,
	})
	if err != nil {
		s.logger.Error("PDF storage failed",
			zap.Error(err), zap.String("documentId", doc.ID.String()))
		s.failDocument(ctx, doc, "Failed to save PDF file. Please try again later.")
		return nil, fmt.Errorf("failed to store PDF: %w", err)
	}

	if err := doc.Complete(storeResult.Path, storeResult.URL); err != nil {
		return nil, err
	}
	if err := s.documentRepo.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to update document status: %w", err)
	}

	s.logger.Info("document generated",
		zap.String("documentId", doc.ID.String()),
		zap.String("docType", string(docType)),
		zap.String("orderNumber", order.OrderNumber),
		zap.Int64("size", storeResult.Size))

	response := ToDocumentResponse(doc)
	return &response, nil
}

// Get retrieves a document record by ID
func (s *DocumentService) Get(ctx context.Context, documentID uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc)
	return &response, nil
}

// GetForOrder returns the documents generated for an order, newest first.
// docType narrows the list to one document type when non-empty.
func (s *DocumentService) GetForOrder(ctx context.Context, orderNumber, docType string) ([]DocumentResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	var docs []printing.Document
	if docType != "" {
		dt := printing.DocType(strings.ToUpper(docType))
		if !dt.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid document type: "+docType)
		}
		docs, err = s.documentRepo.FindByOrderAndType(ctx, order.ID, dt)
	} else {
		docs, err = s.documentRepo.FindByOrder(ctx, order.ID)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		responses = append(responses, ToDocumentResponse(&docs[i]))
	}
	return responses, nil
}

// List returns documents matching the filter with pagination
func (s *DocumentService) List(ctx context.Context, filter DocumentListFilter) ([]DocumentResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	repoFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  map[string]interface{}{},
	}
	if filter.DocumentType != "" {
		repoFilter.Filters["document_type"] = strings.ToUpper(filter.DocumentType)
	}
	if filter.Status != "" {
		repoFilter.Filters["status"] = strings.ToUpper(filter.Status)
	}

	docs, err := s.documentRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.documentRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		responses = append(responses, ToDocumentResponse(&docs[i]))
	}
	return responses, total, nil
}

// GetFile streams the stored PDF of a completed document
func (s *DocumentService) GetFile(ctx context.Context, documentID uuid.UUID) (io.ReadCloser, string, error) {
	doc, err := s.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, "", err
	}
	if !doc.IsCompleted() || doc.StoragePath == "" {
		return nil, "", shared.NewDomainError("INVALID_STATE", "Document has no generated PDF")
	}

	reader, err := s.pdfStorage.Get(ctx, doc.StoragePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read PDF: %w", err)
	}

	fileName := fmt.Sprintf("%s-%s.pdf",
		strings.ToLower(string(doc.DocumentType)), doc.OrderNumber)
	return reader, fileName, nil
}

// GetDocumentTypes returns all document types the system can generate
func (s *DocumentService) GetDocumentTypes() []DocumentTypeResponse {
	types := printing.AllDocTypes()
	responses := make([]DocumentTypeResponse, 0, len(types))
	for _, dt := range types {
		responses = append(responses, DocumentTypeResponse{
			Value:       string(dt),
			DisplayName: dt.DisplayName(),
		})
	}
	return responses
}

// failDocument marks a document failed and persists it, keeping the
// original error as the primary failure.
func (s *DocumentService) failDocument(ctx context.Context, doc *printing.Document, message string) {
	if err := doc.Fail(message); err != nil {
		s.logger.Warn("could not mark document failed",
			zap.Error(err), zap.String("documentId", doc.ID.String()))
		return
	}
	if err := s.documentRepo.Save(ctx, doc); err != nil {
		s.logger.Warn("could not persist failed document",
			zap.Error(err), zap.String("documentId", doc.ID.String()))
	}
}
