package printing

import (
	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeDocumentRequested = "DocumentRequested"
	EventTypeDocumentGenerated = "DocumentGenerated"
	EventTypeDocumentFailed    = "DocumentFailed"
)

// DocumentRequestedEvent is raised when a document generation run starts
type DocumentRequestedEvent struct {
	shared.BaseDomainEvent
	DocumentID   uuid.UUID `json:"document_id"`
	DocumentType DocType   `json:"document_type"`
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	ClientID     string    `json:"client_id"`
}

// NewDocumentRequestedEvent creates a new DocumentRequestedEvent
func NewDocumentRequestedEvent(doc *Document) *DocumentRequestedEvent {
	return &DocumentRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentRequested, "Document", doc.ID),
		DocumentID:      doc.ID,
		DocumentType:    doc.DocumentType,
		OrderID:         doc.OrderID,
		OrderNumber:     doc.OrderNumber,
		ClientID:        doc.ClientID,
	}
}

// DocumentGeneratedEvent is raised when a PDF was rendered and stored
type DocumentGeneratedEvent struct {
	shared.BaseDomainEvent
	DocumentID   uuid.UUID `json:"document_id"`
	DocumentType DocType   `json:"document_type"`
	OrderNumber  string    `json:"order_number"`
	PdfURL       string    `json:"pdf_url"`
}

// NewDocumentGeneratedEvent creates a new DocumentGeneratedEvent
func NewDocumentGeneratedEvent(doc *Document) *DocumentGeneratedEvent {
	return &DocumentGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentGenerated, "Document", doc.ID),
		DocumentID:      doc.ID,
		DocumentType:    doc.DocumentType,
		OrderNumber:     doc.OrderNumber,
		PdfURL:          doc.PdfURL,
	}
}

// DocumentFailedEvent is raised when a generation run failed
type DocumentFailedEvent struct {
	shared.BaseDomainEvent
	DocumentID   uuid.UUID `json:"document_id"`
	DocumentType DocType   `json:"document_type"`
	OrderNumber  string    `json:"order_number"`
	ErrorMessage string    `json:"error_message"`
}

// NewDocumentFailedEvent creates a new DocumentFailedEvent
func NewDocumentFailedEvent(doc *Document) *DocumentFailedEvent {
	return &DocumentFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentFailed, "Document", doc.ID),
		DocumentID:      doc.ID,
		DocumentType:    doc.DocumentType,
		OrderNumber:     doc.OrderNumber,
		ErrorMessage:    doc.ErrorMessage,
	}
}
