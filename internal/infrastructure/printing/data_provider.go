package printing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/printing"
	"github.com/shopspring/decimal"
)

// SwissVATRate is the standard Swiss VAT rate in percent
var SwissVATRate = decimal.NewFromFloat(8.1)

// DataProvider loads and shapes the data for one document type
type DataProvider interface {
	// GetDocType returns the document type this provider handles
	GetDocType() printing.DocType
	// GetData builds the template data for an order
	GetData(ctx context.Context, orderID uuid.UUID) (*DocumentData, error)
}

// DocumentData is the root object bound to document templates
type DocumentData struct {
	Meta     DocumentMeta
	Seller   SellerInfo
	Client   ClientInfo
	Document interface{}
}

// DocumentMeta carries common header fields
type DocumentMeta struct {
	DocType              string
	Title                string
	OrderNumber          string
	OrderDate            time.Time
	OrderDateFormatted   string
	GeneratedAt          time.Time
	GeneratedAtFormatted string
}

// SellerInfo identifies the issuing company on the document
type SellerInfo struct {
	Name      string
	Address   string
	City      string
	ZipCode   string
	Phone     string
	Email     string
	VATNumber string
}

// ClientInfo identifies the ordering shop on the document
type ClientInfo struct {
	ClientID    string
	ContactName string
	ShopName    string
	Address     string
	City        string
	ZipCode     string
	Email       string
	Phone       string
}

// DocumentLine is one billed or shipped order line
type DocumentLine struct {
	Index              int
	ProductName        string
	Category           string
	Quantity           int
	UnitPrice          decimal.Decimal
	Amount             decimal.Decimal
	UnitPriceFormatted string
	AmountFormatted    string
}

// CategoryBlock groups lines of one product category
type CategoryBlock struct {
	Category string
	Lines    []DocumentLine
}

// InvoiceData holds the billing section of an invoice. Only delivered
// lines are billed; shortfalls are invoiced once their replacement
// delivery is processed.
type InvoiceData struct {
	Categories         []CategoryBlock
	LineCount          int
	TotalQuantity      int
	Subtotal           decimal.Decimal
	VATRate            decimal.Decimal
	VATAmount          decimal.Decimal
	Total              decimal.Decimal
	SubtotalFormatted  string
	VATAmountFormatted string
	TotalFormatted     string
}

// DeliveryNoteData holds shipped and outstanding lines of a delivery note
type DeliveryNoteData struct {
	Delivered      []CategoryBlock
	Remaining      []DocumentLine
	DeliveredCount int
	RemainingCount int
}

// NewDocumentData creates the common envelope for a document
func NewDocumentData(docType printing.DocType, orderNumber string) *DocumentData {
	now := time.Now()
	return &DocumentData{
		Meta: DocumentMeta{
			DocType:              string(docType),
			Title:                docType.DisplayName(),
			OrderNumber:          orderNumber,
			GeneratedAt:          now,
			GeneratedAtFormatted: now.Format("02.01.2006"),
		},
	}
}
