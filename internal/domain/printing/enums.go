package printing

// DocType represents the type of business document that can be generated
type DocType string

const (
	DocTypeInvoice      DocType = "INVOICE"
	DocTypeDeliveryNote DocType = "DELIVERY_NOTE"
)

// IsValid checks if the DocType is a valid value
func (d DocType) IsValid() bool {
	switch d {
	case DocTypeInvoice, DocTypeDeliveryNote:
		return true
	}
	return false
}

// String returns the string representation of DocType
func (d DocType) String() string {
	return string(d)
}

// DisplayName returns the human readable name for DocType
func (d DocType) DisplayName() string {
	switch d {
	case DocTypeInvoice:
		return "Invoice"
	case DocTypeDeliveryNote:
		return "Delivery Note"
	default:
		return string(d)
	}
}

// AllDocTypes returns all valid DocType values
func AllDocTypes() []DocType {
	return []DocType{DocTypeInvoice, DocTypeDeliveryNote}
}

// PaperSize represents the paper size for rendering
type PaperSize string

const (
	PaperSizeA4 PaperSize = "A4" // 210mm x 297mm
	PaperSizeA5 PaperSize = "A5" // 148mm x 210mm
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA4, PaperSizeA5:
		return true
	}
	return false
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the paper dimensions in millimeters (width, height)
func (p PaperSize) Dimensions() (width, height int) {
	switch p {
	case PaperSizeA4:
		return 210, 297
	case PaperSizeA5:
		return 148, 210
	default:
		return 210, 297
	}
}

// Orientation represents the page orientation for rendering
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// IsValid checks if the Orientation is a valid value
func (o Orientation) IsValid() bool {
	switch o {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// String returns the string representation of Orientation
func (o Orientation) String() string {
	return string(o)
}

// DocumentStatus represents the status of a document generation run
type DocumentStatus string

const (
	DocumentStatusPending   DocumentStatus = "PENDING"
	DocumentStatusRendering DocumentStatus = "RENDERING"
	DocumentStatusCompleted DocumentStatus = "COMPLETED"
	DocumentStatusFailed    DocumentStatus = "FAILED"
)

// IsValid checks if the DocumentStatus is a valid value
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusPending, DocumentStatusRendering, DocumentStatusCompleted, DocumentStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this is a terminal status
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusCompleted || s == DocumentStatusFailed
}

// CanTransitionTo checks if the status can transition to the target status
func (s DocumentStatus) CanTransitionTo(target DocumentStatus) bool {
	switch s {
	case DocumentStatusPending:
		return target == DocumentStatusRendering || target == DocumentStatusFailed
	case DocumentStatusRendering:
		return target == DocumentStatusCompleted || target == DocumentStatusFailed
	case DocumentStatusCompleted, DocumentStatusFailed:
		return false
	}
	return false
}
