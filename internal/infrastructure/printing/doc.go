// Package printing implements the PDF generation pipeline for business
// documents: a template engine binding order data to HTML, renderers that
// turn HTML into PDF (headless Chrome via chromedp, or wkhtmltopdf as a
// fallback), and storage backends for the resulting files.
package printing
