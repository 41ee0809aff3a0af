package providers

import (
	"context"
	"errors"

	"github.com/promoshop/backend/internal/domain/partner"
	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/promoshop/backend/internal/domain/trade"
	infra "github.com/promoshop/backend/internal/infrastructure/printing"
	"github.com/shopspring/decimal"
)

// itemQuantity returns the requested quantity as a decimal for amount math
func itemQuantity(item trade.OrderItem) decimal.Decimal {
	return decimal.NewFromInt(int64(item.RequestedQuantity))
}

// loadClientInfo builds the client block from the profile store. Clients
// without a profile keep just their login name on the document.
func loadClientInfo(ctx context.Context, profileRepo partner.ClientProfileRepository, clientID string) (infra.ClientInfo, error) {
	info := infra.ClientInfo{ClientID: clientID}

	profile, err := profileRepo.FindByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return info, nil
		}
		return info, err
	}

	info.ContactName = profile.FullName()
	info.ShopName = profile.ShopName
	info.Address = profile.ShopAddress
	info.City = profile.ShopCity
	info.ZipCode = profile.ShopZipCode
	info.Email = profile.Email
	info.Phone = profile.Phone

	return info, nil
}

// groupByCategory groups order items into category blocks in first
// appearance order and numbers the lines sequentially.
func groupByCategory(items []trade.OrderItem) []infra.CategoryBlock {
	var blocks []infra.CategoryBlock
	blockIndex := make(map[string]int)
	lineNo := 0

	for _, item := range items {
		idx, ok := blockIndex[item.Category]
		if !ok {
			idx = len(blocks)
			blockIndex[item.Category] = idx
			blocks = append(blocks, infra.CategoryBlock{Category: item.Category})
		}

		lineNo++
		amount := item.UnitPrice.Mul(itemQuantity(item))
		blocks[idx].Lines = append(blocks[idx].Lines, infra.DocumentLine{
			Index:              lineNo,
			ProductName:        item.ProductName,
			Category:           item.Category,
			Quantity:           item.RequestedQuantity,
			UnitPrice:          item.UnitPrice,
			Amount:             amount,
			UnitPriceFormatted: infra.FormatMoneyValue(item.UnitPrice),
			AmountFormatted:    infra.FormatMoneyValue(amount),
		})
	}

	return blocks
}
