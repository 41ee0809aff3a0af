package printing

import (
	"context"
	"testing"
	"time"

	"github.com/promoshop/backend/internal/domain/printing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{"simple amount", decimal.NewFromFloat(56), "CHF 56.00"},
		{"with cents", decimal.NewFromFloat(1234.5), "CHF 1'234.50"},
		{"millions", decimal.NewFromFloat(1234567.89), "CHF 1'234'567.89"},
		{"zero", decimal.Zero, "CHF 0.00"},
		{"negative", decimal.NewFromFloat(-99.9), "CHF -99.90"},
		{"float input", 42.5, "CHF 42.50"},
		{"int input", 1000, "CHF 1'000.00"},
		{"string input", "250.75", "CHF 250.75"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatMoney(tt.input))
		})
	}
}

func TestFormatMoneyRaw(t *testing.T) {
	assert.Equal(t, "1'234.50", formatMoneyRaw(decimal.NewFromFloat(1234.5)))
	assert.Equal(t, "999.00", formatMoneyRaw(999))
	assert.Equal(t, "-1'000.00", formatMoneyRaw(-1000))
}

func TestFormatMoneyValue(t *testing.T) {
	assert.Equal(t, "CHF 81.00", FormatMoneyValue(decimal.NewFromInt(81)))
}

func TestFormatDate(t *testing.T) {
	date := time.Date(2026, 3, 7, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, "07.03.2026", formatDate(date))
	assert.Equal(t, "07.03.2026", formatDate(&date))
	assert.Equal(t, "07.03.2026 14:30", formatDateTime(date))
	assert.Equal(t, "", formatDate("not a date"))
	assert.Equal(t, "", formatDate((*time.Time)(nil)))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "8.1%", formatPercent(decimal.NewFromFloat(8.1)))
	assert.Equal(t, "0%", formatPercent(decimal.Zero))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "very lo...", truncate("very long product name", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "", truncate("abc", 0))
}

func TestTemplateEngine_Render(t *testing.T) {
	engine := NewTemplateEngine()
	ctx := context.Background()

	t.Run("renders data with formatting functions", func(t *testing.T) {
		tmpl := &RenderTemplate{
			Name:    "test",
			Content: `<p>{{.Name}}: {{formatMoney .Total}} on {{formatDate .Date}}</p>`,
		}
		result, err := engine.Render(ctx, &RenderTemplateRequest{
			Template: tmpl,
			Data: map[string]interface{}{
				"Name":  "Order",
				"Total": decimal.NewFromFloat(1250.5),
				"Date":  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "<p>Order: CHF 1'250.50 on 15.01.2026</p>", result.HTML)
	})

	t.Run("escapes HTML in data", func(t *testing.T) {
		tmpl := &RenderTemplate{Name: "test", Content: `{{.Name}}`}
		result, err := engine.Render(ctx, &RenderTemplateRequest{
			Template: tmpl,
			Data:     map[string]interface{}{"Name": `<script>alert("x")</script>`},
		})
		require.NoError(t, err)
		assert.NotContains(t, result.HTML, "<script>")
	})

	t.Run("additional funcs override defaults", func(t *testing.T) {
		tmpl := &RenderTemplate{Name: "test", Content: `{{upper .Name}}`}
		result, err := engine.Render(ctx, &RenderTemplateRequest{
			Template:        tmpl,
			Data:            map[string]interface{}{"Name": "mug"},
			AdditionalFuncs: map[string]interface{}{"upper": func(s string) string { return s + "!" }},
		})
		require.NoError(t, err)
		assert.Equal(t, "mug!", result.HTML)
	})

	t.Run("nil request is rejected", func(t *testing.T) {
		_, err := engine.Render(ctx, nil)
		require.Error(t, err)
	})

	t.Run("empty template content is rejected", func(t *testing.T) {
		_, err := engine.Render(ctx, &RenderTemplateRequest{Template: &RenderTemplate{Name: "x"}})
		require.Error(t, err)

		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
	})

	t.Run("parse error reports invalid HTML", func(t *testing.T) {
		_, err := engine.Render(ctx, &RenderTemplateRequest{
			Template: &RenderTemplate{Name: "bad", Content: `{{.Unclosed`},
		})
		require.Error(t, err)

		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
	})

	t.Run("missing function reports render failure", func(t *testing.T) {
		_, err := engine.Render(ctx, &RenderTemplateRequest{
			Template: &RenderTemplate{Name: "bad", Content: `{{.Missing.Deep.Field}}`},
			Data:     map[string]interface{}{},
		})
		require.Error(t, err)
	})
}

func TestTemplateEngine_RenderString(t *testing.T) {
	engine := NewTemplateEngine()

	html, err := engine.RenderString(context.Background(), "inline", `{{title .}} `, "drinkware")
	require.NoError(t, err)
	assert.Equal(t, "Drinkware ", html)
}

func TestTemplateEngine_DefaultTemplates(t *testing.T) {
	engine := NewTemplateEngine()
	store := NewTemplateStore(nil)
	ctx := context.Background()

	orderDate := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	generatedAt := time.Date(2026, 2, 12, 16, 45, 0, 0, time.UTC)

	meta := DocumentMeta{
		Title:                "Invoice",
		OrderNumber:          "1735689600000",
		OrderDate:            orderDate,
		OrderDateFormatted:   "10.02.2026",
		GeneratedAt:          generatedAt,
		GeneratedAtFormatted: "12.02.2026 16:45",
	}
	seller := SellerInfo{
		Name:      "PromoShop AG",
		Address:   "Bahnhofstrasse 1",
		City:      "Zurich",
		ZipCode:   "8001",
		Phone:     "+41 44 555 00 00",
		Email:     "billing@promoshop.ch",
		VATNumber: "CHE-123.456.789 MWST",
	}
	client := ClientInfo{
		ClientID:    "alice",
		ContactName: "Claire Martin",
		ShopName:    "Martin Promo",
		Address:     "Rue du Marche 12",
		City:        "Geneva",
		ZipCode:     "1204",
	}

	t.Run("invoice template renders grouped lines and totals", func(t *testing.T) {
		tmpl, err := store.Get(printing.DocTypeInvoice)
		require.NoError(t, err)

		data := &DocumentData{
			Meta:   meta,
			Seller: seller,
			Client: client,
			Document: &InvoiceData{
				Categories: []CategoryBlock{
					{
						Category: "drinkware",
						Lines: []DocumentLine{
							{
								Index:              1,
								ProductName:        "Mug",
								Quantity:           5,
								UnitPriceFormatted: "CHF 10.00",
								AmountFormatted:    "CHF 50.00",
							},
						},
					},
				},
				VATRate:            decimal.NewFromFloat(8.1),
				SubtotalFormatted:  "CHF 50.00",
				VATAmountFormatted: "CHF 4.05",
				TotalFormatted:     "CHF 54.05",
			},
		}

		result, err := engine.Render(ctx, &RenderTemplateRequest{Template: tmpl, Data: data})
		require.NoError(t, err)

		assert.Contains(t, result.HTML, "PromoShop AG")
		assert.Contains(t, result.HTML, "Martin Promo")
		assert.Contains(t, result.HTML, "Drinkware")
		assert.Contains(t, result.HTML, "Mug")
		assert.Contains(t, result.HTML, "CHF 54.05")
		assert.Contains(t, result.HTML, "8.1%")
		assert.Contains(t, result.HTML, "1735689600000")
	})

	t.Run("delivery note template shows outstanding items", func(t *testing.T) {
		tmpl, err := store.Get(printing.DocTypeDeliveryNote)
		require.NoError(t, err)

		data := &DocumentData{
			Meta:   meta,
			Seller: seller,
			Client: client,
			Document: &DeliveryNoteData{
				Delivered: []CategoryBlock{
					{
						Category: "drinkware",
						Lines: []DocumentLine{
							{Index: 1, ProductName: "Mug", Quantity: 2},
						},
					},
				},
				Remaining: []DocumentLine{
					{Index: 1, ProductName: "Pen", Quantity: 3},
				},
				DeliveredCount: 1,
				RemainingCount: 1,
			},
		}

		result, err := engine.Render(ctx, &RenderTemplateRequest{Template: tmpl, Data: data})
		require.NoError(t, err)

		assert.Contains(t, result.HTML, "Mug")
		assert.Contains(t, result.HTML, "Pen")
		assert.Contains(t, result.HTML, "Outstanding items")
	})

	t.Run("delivery note without remaining items omits the section", func(t *testing.T) {
		tmpl, err := store.Get(printing.DocTypeDeliveryNote)
		require.NoError(t, err)

		data := &DocumentData{
			Meta:   meta,
			Seller: seller,
			Client: client,
			Document: &DeliveryNoteData{
				Delivered: []CategoryBlock{
					{
						Category: "drinkware",
						Lines:    []DocumentLine{{Index: 1, ProductName: "Mug", Quantity: 5}},
					},
				},
				DeliveredCount: 1,
			},
		}

		result, err := engine.Render(ctx, &RenderTemplateRequest{Template: tmpl, Data: data})
		require.NoError(t, err)
		assert.NotContains(t, result.HTML, "Outstanding items")
	})
}
