package providers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/partner"
	"github.com/promoshop/backend/internal/domain/printing"
	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/promoshop/backend/internal/domain/trade"
	infra "github.com/promoshop/backend/internal/infrastructure/printing"
)

// DeliveryNoteProvider builds delivery note data from an order: the
// delivered lines grouped by category plus the outstanding lines still to
// follow.
type DeliveryNoteProvider struct {
	orderRepo   trade.OrderRepository
	profileRepo partner.ClientProfileRepository
	seller      infra.SellerInfo
}

// NewDeliveryNoteProvider creates a new DeliveryNoteProvider.
func NewDeliveryNoteProvider(
	orderRepo trade.OrderRepository,
	profileRepo partner.ClientProfileRepository,
	seller infra.SellerInfo,
) *DeliveryNoteProvider {
	return &DeliveryNoteProvider{
		orderRepo:   orderRepo,
		profileRepo: profileRepo,
		seller:      seller,
	}
}

// GetDocType returns the document type this provider handles.
func (p *DeliveryNoteProvider) GetDocType() printing.DocType {
	return printing.DocTypeDeliveryNote
}

// GetData retrieves delivery note data for rendering.
func (p *DeliveryNoteProvider) GetData(ctx context.Context, orderID uuid.UUID) (*infra.DocumentData, error) {
	order, err := p.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if !order.IsProcessed() {
		return nil, shared.NewDomainError("INVALID_STATE",
			"Cannot generate a delivery note for an order that has not been processed")
	}

	client, err := loadClientInfo(ctx, p.profileRepo, order.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load client profile: %w", err)
	}

	delivered := order.DeliveredItems()
	remaining := order.RemainingItems()

	remainingLines := make([]infra.DocumentLine, len(remaining))
	for i, item := range remaining {
		amount := item.UnitPrice.Mul(itemQuantity(item))
		remainingLines[i] = infra.DocumentLine{
			Index:              i + 1,
			ProductName:        item.ProductName,
			Category:           item.Category,
			Quantity:           item.RequestedQuantity,
			UnitPrice:          item.UnitPrice,
			Amount:             amount,
			UnitPriceFormatted: infra.FormatMoneyValue(item.UnitPrice),
			AmountFormatted:    infra.FormatMoneyValue(amount),
		}
	}

	docData := infra.NewDocumentData(printing.DocTypeDeliveryNote, order.OrderNumber)
	docData.Meta.OrderDate = order.OrderDate
	docData.Meta.OrderDateFormatted = order.OrderDate.Format("02.01.2006")
	docData.Seller = p.seller
	docData.Client = client
	docData.Document = infra.DeliveryNoteData{
		Delivered:      groupByCategory(delivered),
		Remaining:      remainingLines,
		DeliveredCount: len(delivered),
		RemainingCount: len(remaining),
	}

	return docData, nil
}

// Ensure providers implement DataProvider
var (
	_ infra.DataProvider = (*InvoiceProvider)(nil)
	_ infra.DataProvider = (*DeliveryNoteProvider)(nil)
)
