package providers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/partner"
	"github.com/promoshop/backend/internal/domain/printing"
	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/promoshop/backend/internal/domain/shared/valueobject"
	"github.com/promoshop/backend/internal/domain/trade"
	infra "github.com/promoshop/backend/internal/infrastructure/printing"
)

// InvoiceProvider builds invoice data from an order. Only delivered lines
// are billed; the VAT is the standard Swiss rate on the subtotal.
type InvoiceProvider struct {
	orderRepo   trade.OrderRepository
	profileRepo partner.ClientProfileRepository
	seller      infra.SellerInfo
}

// NewInvoiceProvider creates a new InvoiceProvider.
func NewInvoiceProvider(
	orderRepo trade.OrderRepository,
	profileRepo partner.ClientProfileRepository,
	seller infra.SellerInfo,
) *InvoiceProvider {
	return &InvoiceProvider{
		orderRepo:   orderRepo,
		profileRepo: profileRepo,
		seller:      seller,
	}
}

// GetDocType returns the document type this provider handles.
func (p *InvoiceProvider) GetDocType() printing.DocType {
	return printing.DocTypeInvoice
}

// GetData retrieves invoice data for rendering.
func (p *InvoiceProvider) GetData(ctx context.Context, orderID uuid.UUID) (*infra.DocumentData, error) {
	order, err := p.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if !order.IsProcessed() {
		return nil, shared.NewDomainError("INVALID_STATE",
			"Cannot generate an invoice for an order that has not been processed")
	}

	client, err := loadClientInfo(ctx, p.profileRepo, order.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load client profile: %w", err)
	}

	delivered := order.DeliveredItems()
	categories := groupByCategory(delivered)

	subtotal := valueobject.ZeroCHF()
	totalQuantity := 0
	for _, item := range delivered {
		line := valueobject.NewMoneyCHF(item.UnitPrice.Mul(itemQuantity(item)))
		subtotal = subtotal.MustAdd(line)
		totalQuantity += item.RequestedQuantity
	}

	vat := subtotal.CalculatePercentage(infra.SwissVATRate).Round(2)
	total := subtotal.MustAdd(vat)

	docData := infra.NewDocumentData(printing.DocTypeInvoice, order.OrderNumber)
	docData.Meta.OrderDate = order.OrderDate
	docData.Meta.OrderDateFormatted = order.OrderDate.Format("02.01.2006")
	docData.Seller = p.seller
	docData.Client = client
	docData.Document = infra.InvoiceData{
		Categories:         categories,
		LineCount:          len(delivered),
		TotalQuantity:      totalQuantity,
		Subtotal:           subtotal.Amount(),
		VATRate:            infra.SwissVATRate,
		VATAmount:          vat.Amount(),
		Total:              total.Amount(),
		SubtotalFormatted:  infra.FormatMoneyValue(subtotal.Amount()),
		VATAmountFormatted: infra.FormatMoneyValue(vat.Amount()),
		TotalFormatted:     infra.FormatMoneyValue(total.Amount()),
	}

	return docData, nil
}
