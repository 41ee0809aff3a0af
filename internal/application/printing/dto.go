package printing

import (
	"time"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/printing"
)

// GenerateDocumentRequest asks for a PDF to be generated for an order
type GenerateDocumentRequest struct {
	DocumentType string `json:"document_type" binding:"required"`
	OrderNumber  string `json:"order_number" binding:"required"`
	// ClientID restricts generation to the order's owner when set.
	// Back-office calls leave it empty.
	ClientID string `json:"client_id,omitempty"`
}

// DocumentListFilter holds the query parameters for listing documents
type DocumentListFilter struct {
	DocumentType string `form:"document_type"`
	Status       string `form:"status"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
	OrderBy      string `form:"order_by"`
	OrderDir     string `form:"order_dir"`
}

// DocumentResponse is the API representation of a generated document
type DocumentResponse struct {
	ID           uuid.UUID  `json:"id"`
	DocumentType string     `json:"document_type"`
	OrderID      uuid.UUID  `json:"order_id"`
	OrderNumber  string     `json:"order_number"`
	ClientID     string     `json:"client_id"`
	Status       string     `json:"status"`
	PdfURL       string     `json:"pdf_url,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	GeneratedAt  *time.Time `json:"generated_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DocumentTypeResponse describes an available document type
type DocumentTypeResponse struct {
	Value       string `json:"value"`
	DisplayName string `json:"display_name"`
}

// ToDocumentResponse converts a Document aggregate to its API representation
func ToDocumentResponse(doc *printing.Document) DocumentResponse {
	return DocumentResponse{
		ID:           doc.ID,
		DocumentType: string(doc.DocumentType),
		OrderID:      doc.OrderID,
		OrderNumber:  doc.OrderNumber,
		ClientID:     doc.ClientID,
		Status:       doc.Status.String(),
		PdfURL:       doc.PdfURL,
		ErrorMessage: doc.ErrorMessage,
		GeneratedAt:  doc.GeneratedAt,
		CreatedAt:    doc.CreatedAt,
	}
}
