package printing

import (
	"time"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/shared"
)

// Document represents one PDF generation run for an order. Regenerating a
// document for the same order creates a new Document; earlier runs keep
// their files.
type Document struct {
	shared.BaseAggregateRoot
	DocumentType DocType        `gorm:"type:varchar(20);not null;index:idx_documents_order_type"`
	OrderID      uuid.UUID      `gorm:"type:uuid;not null;index;index:idx_documents_order_type"`
	OrderNumber  string         `gorm:"type:varchar(50);not null;index"`
	ClientID     string         `gorm:"type:varchar(100);not null;index"`
	Status       DocumentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PdfURL       string         `gorm:"type:varchar(1000)"`
	StoragePath  string         `gorm:"type:varchar(500)"`
	ErrorMessage string         `gorm:"type:text"`
	GeneratedAt  *time.Time
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "documents"
}

// NewDocument creates a new document in pending state
func NewDocument(docType DocType, orderID uuid.UUID, orderNumber, clientID string) (*Document, error) {
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOC_TYPE", "Invalid document type: "+string(docType))
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if clientID == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_ID", "Client ID cannot be empty")
	}

	doc := &Document{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DocumentType:      docType,
		OrderID:           orderID,
		OrderNumber:       orderNumber,
		ClientID:          clientID,
		Status:            DocumentStatusPending,
	}

	doc.AddDomainEvent(NewDocumentRequestedEvent(doc))

	return doc, nil
}

// StartRendering marks the document as rendering
func (d *Document) StartRendering() error {
	if !d.Status.CanTransitionTo(DocumentStatusRendering) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot start rendering from status: "+d.Status.String())
	}

	d.Status = DocumentStatusRendering
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// Complete marks the document as completed with the stored PDF location
func (d *Document) Complete(storagePath, pdfURL string) error {
	if !d.Status.CanTransitionTo(DocumentStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot complete from status: "+d.Status.String())
	}
	if pdfURL == "" {
		return shared.NewDomainError("INVALID_PDF_URL", "PDF URL cannot be empty")
	}

	d.Status = DocumentStatusCompleted
	d.StoragePath = storagePath
	d.PdfURL = pdfURL
	now := time.Now()
	d.GeneratedAt = &now
	d.UpdatedAt = now
	d.IncrementVersion()

	d.AddDomainEvent(NewDocumentGeneratedEvent(d))

	return nil
}

// Fail marks the document as failed with an error message
func (d *Document) Fail(errorMessage string) error {
	if d.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot fail a document that is already in terminal status: "+d.Status.String())
	}

	d.Status = DocumentStatusFailed
	d.ErrorMessage = errorMessage
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDocumentFailedEvent(d))

	return nil
}

// IsCompleted returns true if the document was generated
func (d *Document) IsCompleted() bool {
	return d.Status == DocumentStatusCompleted
}

// IsFailed returns true if the generation failed
func (d *Document) IsFailed() bool {
	return d.Status == DocumentStatusFailed
}

// HasPDF returns true if a PDF has been stored
func (d *Document) HasPDF() bool {
	return d.PdfURL != ""
}
