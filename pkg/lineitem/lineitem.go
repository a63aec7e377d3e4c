// Package lineitem normalizes an entry surface's working data into the
// canonical line items consumed by order submission. The pipeline is the
// trust boundary for numbers: quantities and prices are coerced to numerics
// and the total amount is always recomputed from them, never read from the
// surface's cached amount cell.
package lineitem

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-orderentry/pkg/generalform"
	"github.com/goliatone/go-orderentry/pkg/grid"
	"github.com/goliatone/go-orderentry/pkg/template"
)

// ErrNoLineItems is returned when normalization yields zero items. Callers
// must treat it as a validation failure and block submission.
var ErrNoLineItems = errors.New("lineitem: at least one item is required")

// OrderLineItem is one normalized, priced unit of an order. TotalAmount is
// always Quantity times UnitPrice for every item crossing the submission
// boundary.
type OrderLineItem struct {
	ItemName      string  `json:"itemName"`
	Specification string  `json:"specification,omitempty"`
	Unit          string  `json:"unit,omitempty"`
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	TotalAmount   float64 `json:"totalAmount"`
	Notes         string  `json:"notes,omitempty"`
}

// Keys maps the grid's column data keys onto line-item fields.
type Keys struct {
	ItemName      string
	Specification string
	Unit          string
	Quantity      string
	UnitPrice     string
	Notes         string
}

// DefaultKeys returns the standard procurement grid mapping.
func DefaultKeys() Keys {
	return Keys{
		ItemName:      template.KeyItemName,
		Specification: template.KeySpecification,
		Unit:          template.KeyUnit,
		Quantity:      template.KeyQuantity,
		UnitPrice:     template.KeyUnitPrice,
		Notes:         template.KeyNotes,
	}
}

// FromGrid normalizes a grid engine's working state. The total row is
// excluded, rows with a blank name cell are dropped, quantity and unit price
// are coerced (non-numeric becomes zero), and the total amount is recomputed.
func FromGrid(engine *grid.Engine, keys Keys) ([]OrderLineItem, error) {
	if engine == nil {
		return nil, fmt.Errorf("lineitem: engine is required")
	}
	items := FromRows(engine.DataRows(), keys)
	if len(items) == 0 {
		return nil, ErrNoLineItems
	}
	return items, nil
}

// FromRows normalizes raw keyed row records. It underlies FromGrid and is
// exported for callers holding a snapshot rather than a live engine.
func FromRows(rows []map[string]any, keys Keys) []OrderLineItem {
	var items []OrderLineItem
	for _, row := range rows {
		name := stringCell(row[keys.ItemName])
		if strings.TrimSpace(name) == "" {
			continue
		}
		quantity := numberCell(row[keys.Quantity])
		unitPrice := numberCell(row[keys.UnitPrice])
		items = append(items, OrderLineItem{
			ItemName:      name,
			Specification: stringCell(row[keys.Specification]),
			Unit:          stringCell(row[keys.Unit]),
			Quantity:      quantity,
			UnitPrice:     unitPrice,
			TotalAmount:   quantity * unitPrice,
			Notes:         stringCell(row[keys.Notes]),
		})
	}
	return items
}

// FromItemRows normalizes a general-form surface's explicit item rows. Every
// row must pass the item-row validation rules.
func FromItemRows(rows []generalform.ItemRow) ([]OrderLineItem, error) {
	if len(rows) == 0 {
		return nil, ErrNoLineItems
	}
	items := make([]OrderLineItem, 0, len(rows))
	for i, row := range rows {
		if err := row.Validate(); err != nil {
			return nil, fmt.Errorf("lineitem: row %d: %w", i, err)
		}
		items = append(items, OrderLineItem{
			ItemName:      row.ItemName,
			Specification: row.Specification,
			Unit:          row.Unit,
			Quantity:      row.Quantity,
			UnitPrice:     row.UnitPrice,
			TotalAmount:   row.Quantity * row.UnitPrice,
			Notes:         row.Notes,
		})
	}
	return items, nil
}

// Validate re-checks the submission invariants on an item list: at least one
// item, and every total amount consistent with its factors. Handlers run it
// on payloads arriving over the wire.
func Validate(items []OrderLineItem) error {
	if len(items) == 0 {
		return ErrNoLineItems
	}
	for i, item := range items {
		if strings.TrimSpace(item.ItemName) == "" {
			return fmt.Errorf("lineitem: item %d has no name", i)
		}
		if item.TotalAmount != item.Quantity*item.UnitPrice {
			return fmt.Errorf("lineitem: item %d total %v does not match %v * %v",
				i, item.TotalAmount, item.Quantity, item.UnitPrice)
		}
	}
	return nil
}

// Recompute returns a copy of the items with every total amount re-derived
// from quantity and unit price, discarding whatever the client sent.
func Recompute(items []OrderLineItem) []OrderLineItem {
	out := make([]OrderLineItem, len(items))
	for i, item := range items {
		item.TotalAmount = item.Quantity * item.UnitPrice
		out[i] = item
	}
	return out
}

// Total sums the items' total amounts.
func Total(items []OrderLineItem) float64 {
	sum := 0.0
	for _, item := range items {
		sum += item.TotalAmount
	}
	return sum
}

func stringCell(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprint(typed)
	}
}

func numberCell(value any) float64 {
	switch typed := value.(type) {
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
