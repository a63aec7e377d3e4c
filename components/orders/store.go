package orders

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-orderentry/pkg/lineitem"
	"github.com/goliatone/go-orderentry/pkg/template"
)

// ErrNotFound is returned by stores when an order or template id has no
// record.
var ErrNotFound = errors.New("orders: not found")

// Order statuses. An order enters the store as a draft and becomes
// submitted once it passes line-item validation.
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
)

// Order is a persisted procurement order: header fields from the
// general surface plus validated line items.
type Order struct {
	ID           string                   `json:"id"`
	TemplateID   string                   `json:"templateId"`
	Status       string                   `json:"status"`
	CustomFields map[string]any           `json:"customFields,omitempty"`
	Items        []lineitem.OrderLineItem `json:"items"`
	TotalAmount  float64                  `json:"totalAmount"`
	CreatedAt    time.Time                `json:"createdAt"`
	UpdatedAt    time.Time                `json:"updatedAt"`
}

// Store persists orders.
type Store interface {
	CreateOrder(ctx context.Context, order *Order) error
	UpdateOrder(ctx context.Context, order *Order) error
	GetOrder(ctx context.Context, id string) (Order, error)
}

// TemplateStore persists entry templates in canonical shape.
type TemplateStore interface {
	SaveTemplate(ctx context.Context, t template.Template) (template.Template, error)
	GetTemplate(ctx context.Context, id string) (template.Template, error)
}
