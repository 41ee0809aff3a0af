// Package printing contains the domain model for generated business
// documents. A Document tracks one PDF generation run for an order,
// either an invoice or a delivery note, through the rendering lifecycle.
package printing
