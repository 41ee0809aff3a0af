package printing

import "github.com/promoshop/backend/internal/domain/shared"

// Margins holds page margins in millimeters.
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// NewMargins validates that every margin lies between 0 and 100mm.
func NewMargins(top, right, bottom, left int) (Margins, error) {
	for _, v := range []int{top, right, bottom, left} {
		if v < 0 {
			return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot be negative")
		}
		if v > 100 {
			return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot exceed 100mm")
		}
	}
	return Margins{Top: top, Right: right, Bottom: bottom, Left: left}, nil
}

// DefaultMargins returns the 10mm margins used for A4 invoices and
// delivery notes.
func DefaultMargins() Margins {
	return Margins{Top: 10, Right: 10, Bottom: 10, Left: 10}
}

func (m Margins) IsZero() bool {
	return m == Margins{}
}

func (m Margins) Equals(other Margins) bool {
	return m == other
}
