package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Category is the fixed set of sweet categories the API accepts.
type Category string

const (
	CategoryChocolate Category = "Chocolate"
	CategoryGummy     Category = "Gummy"
	CategoryHardCandy Category = "Hard Candy"
	CategoryLollipop  Category = "Lollipop"
	CategorySour      Category = "Sour"
	CategoryOther     Category = "Other"
)

// Categories lists all categories in display order, for form selects.
func Categories() []Category {
	return []Category{
		CategoryChocolate,
		CategoryGummy,
		CategoryHardCandy,
		CategoryLollipop,
		CategorySour,
		CategoryOther,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Decimal is a price or cost value. The API serializes decimals sometimes as
// JSON strings ("2.50") and sometimes as numbers (7.5), so unmarshalling
// accepts both.
type Decimal float64

func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = 0
		return nil
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	*d = Decimal(value)
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// String renders with two decimal places, the way prices are displayed.
func (d Decimal) String() string {
	return strconv.FormatFloat(float64(d), 'f', 2, 64)
}

// Sweet is a catalog entry. Server-owned; the client holds a cached list
// that is fully replaced after every mutation, never merged.
type Sweet struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description,omitempty"`
	Price       Decimal  `json:"price"`
	Quantity    int      `json:"quantity"`
	InStock     bool     `json:"is_in_stock,omitempty"`
}

// SweetInput is the create/update payload.
type SweetInput struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description,omitempty"`
	Price       Decimal  `json:"price"`
	Quantity    int      `json:"quantity"`
}
