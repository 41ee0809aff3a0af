package printing

import "github.com/promoshop/backend/internal/domain/printing"

// defaultTemplateFor returns the built-in template for a document type
func defaultTemplateFor(docType printing.DocType) *RenderTemplate {
	content := defaultInvoiceTemplate
	if docType == printing.DocTypeDeliveryNote {
		content = defaultDeliveryNoteTemplate
	}
	return &RenderTemplate{
		Name:        "default-" + string(docType),
		DocType:     docType,
		Content:     content,
		PaperSize:   printing.PaperSizeA4,
		Orientation: printing.OrientationPortrait,
		Margins:     printing.DefaultMargins(),
	}
}

const documentBaseStyle = `
  body { font-family: "Helvetica Neue", Helvetica, Arial, sans-serif; font-size: 12px; color: #1a1a1a; margin: 0; }
  .header { display: flex; justify-content: space-between; border-bottom: 2px solid #1a1a1a; padding-bottom: 12px; }
  .header .seller { font-size: 11px; line-height: 1.5; }
  .header .seller .name { font-size: 15px; font-weight: bold; }
  .header .doc-title { text-align: right; }
  .header .doc-title h1 { font-size: 20px; margin: 0 0 4px 0; text-transform: uppercase; letter-spacing: 1px; }
  .header .doc-title .meta { font-size: 11px; color: #444; line-height: 1.6; }
  .client { margin: 24px 0 16px 0; padding: 10px 12px; background: #f5f5f5; width: 45%; }
  .client .label { font-size: 10px; text-transform: uppercase; color: #888; margin-bottom: 4px; }
  .client .shop { font-weight: bold; }
  table.lines { width: 100%; border-collapse: collapse; margin-top: 8px; }
  table.lines th { text-align: left; font-size: 10px; text-transform: uppercase; color: #666; border-bottom: 1px solid #999; padding: 6px 4px; }
  table.lines th.num, table.lines td.num { text-align: right; }
  table.lines td { padding: 5px 4px; border-bottom: 1px solid #e0e0e0; }
  tr.category td { background: #efefef; font-weight: bold; font-size: 11px; padding: 6px 4px; }
  .totals { margin-top: 16px; margin-left: auto; width: 40%; }
  .totals table { width: 100%; border-collapse: collapse; }
  .totals td { padding: 4px; }
  .totals td.num { text-align: right; }
  .totals tr.grand td { border-top: 2px solid #1a1a1a; font-weight: bold; font-size: 13px; }
  .section-title { font-size: 13px; font-weight: bold; margin: 20px 0 4px 0; }
  .footer-note { margin-top: 28px; font-size: 10px; color: #777; }
`

const defaultInvoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>` + documentBaseStyle + `</style>
</head>
<body>
<div class="header">
  <div class="seller">
    <div class="name">{{.Seller.Name}}</div>
    <div>{{.Seller.Address}}</div>
    <div>{{.Seller.ZipCode}} {{.Seller.City}}</div>
    {{if .Seller.Phone}}<div>{{.Seller.Phone}}</div>{{end}}
    {{if .Seller.Email}}<div>{{.Seller.Email}}</div>{{end}}
    {{if .Seller.VATNumber}}<div>VAT {{.Seller.VATNumber}}</div>{{end}}
  </div>
  <div class="doc-title">
    <h1>{{.Meta.Title}}</h1>
    <div class="meta">
      <div>Order No. {{.Meta.OrderNumber}}</div>
      {{if .Meta.OrderDateFormatted}}<div>Order date: {{.Meta.OrderDateFormatted}}</div>{{end}}
      <div>Invoice date: {{.Meta.GeneratedAtFormatted}}</div>
    </div>
  </div>
</div>

<div class="client">
  <div class="label">Billed to</div>
  {{if .Client.ShopName}}<div class="shop">{{.Client.ShopName}}</div>{{end}}
  {{if .Client.ContactName}}<div>{{.Client.ContactName}}</div>{{end}}
  {{if .Client.Address}}<div>{{.Client.Address}}</div>{{end}}
  {{if or .Client.ZipCode .Client.City}}<div>{{.Client.ZipCode}} {{.Client.City}}</div>{{end}}
  <div>Client: {{.Client.ClientID}}</div>
</div>

<table class="lines">
  <thead>
    <tr>
      <th style="width:6%">#</th>
      <th>Item</th>
      <th class="num" style="width:12%">Qty</th>
      <th class="num" style="width:18%">Unit price</th>
      <th class="num" style="width:18%">Amount</th>
    </tr>
  </thead>
  <tbody>
    {{range .Document.Categories}}
    <tr class="category"><td colspan="5">{{title .Category}}</td></tr>
    {{range .Lines}}
    <tr>
      <td>{{.Index}}</td>
      <td>{{.ProductName}}</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{.UnitPriceFormatted}}</td>
      <td class="num">{{.AmountFormatted}}</td>
    </tr>
    {{end}}
    {{end}}
  </tbody>
</table>

<div class="totals">
  <table>
    <tr><td>Subtotal (excl. VAT)</td><td class="num">{{.Document.SubtotalFormatted}}</td></tr>
    <tr><td>VAT {{formatPercent .Document.VATRate}}</td><td class="num">{{.Document.VATAmountFormatted}}</td></tr>
    <tr class="grand"><td>Total (incl. VAT)</td><td class="num">{{.Document.TotalFormatted}}</td></tr>
  </table>
</div>

<div class="footer-note">
  Only delivered items are billed. Outstanding items will be invoiced with a later delivery.
</div>
</body>
</html>`

const defaultDeliveryNoteTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>` + documentBaseStyle + `</style>
</head>
<body>
<div class="header">
  <div class="seller">
    <div class="name">{{.Seller.Name}}</div>
    <div>{{.Seller.Address}}</div>
    <div>{{.Seller.ZipCode}} {{.Seller.City}}</div>
    {{if .Seller.Phone}}<div>{{.Seller.Phone}}</div>{{end}}
    {{if .Seller.Email}}<div>{{.Seller.Email}}</div>{{end}}
  </div>
  <div class="doc-title">
    <h1>{{.Meta.Title}}</h1>
    <div class="meta">
      <div>Order No. {{.Meta.OrderNumber}}</div>
      {{if .Meta.OrderDateFormatted}}<div>Order date: {{.Meta.OrderDateFormatted}}</div>{{end}}
      <div>Delivery date: {{.Meta.GeneratedAtFormatted}}</div>
    </div>
  </div>
</div>

<div class="client">
  <div class="label">Deliver to</div>
  {{if .Client.ShopName}}<div class="shop">{{.Client.ShopName}}</div>{{end}}
  {{if .Client.ContactName}}<div>{{.Client.ContactName}}</div>{{end}}
  {{if .Client.Address}}<div>{{.Client.Address}}</div>{{end}}
  {{if or .Client.ZipCode .Client.City}}<div>{{.Client.ZipCode}} {{.Client.City}}</div>{{end}}
  <div>Client: {{.Client.ClientID}}</div>
</div>

<div class="section-title">Delivered items</div>
<table class="lines">
  <thead>
    <tr>
      <th style="width:6%">#</th>
      <th>Item</th>
      <th class="num" style="width:14%">Qty</th>
    </tr>
  </thead>
  <tbody>
    {{range .Document.Delivered}}
    <tr class="category"><td colspan="3">{{title .Category}}</td></tr>
    {{range .Lines}}
    <tr>
      <td>{{.Index}}</td>
      <td>{{.ProductName}}</td>
      <td class="num">{{.Quantity}}</td>
    </tr>
    {{end}}
    {{end}}
    {{if not .Document.Delivered}}
    <tr><td colspan="3">No items were delivered with this shipment.</td></tr>
    {{end}}
  </tbody>
</table>

{{if .Document.Remaining}}
<div class="section-title">Outstanding items (to follow)</div>
<table class="lines">
  <thead>
    <tr>
      <th style="width:6%">#</th>
      <th>Item</th>
      <th class="num" style="width:14%">Qty</th>
    </tr>
  </thead>
  <tbody>
    {{range .Document.Remaining}}
    <tr>
      <td>{{.Index}}</td>
      <td>{{.ProductName}}</td>
      <td class="num">{{.Quantity}}</td>
    </tr>
    {{end}}
  </tbody>
</table>
{{end}}

<div class="footer-note">
  Please verify the delivered quantities on receipt and report discrepancies within 5 working days.
</div>
</body>
</html>`
