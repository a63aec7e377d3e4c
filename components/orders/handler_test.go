package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-orderentry/internal/logging"
	"github.com/goliatone/go-orderentry/pkg/template"
)

type memStore struct {
	mu        sync.Mutex
	orders    map[string]Order
	templates map[string]template.Template
}

func newMemStore() *memStore {
	return &memStore{
		orders:    map[string]Order{},
		templates: map[string]template.Template{},
	}
}

func (s *memStore) CreateOrder(_ context.Context, order *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = *order
	return nil
}

func (s *memStore) UpdateOrder(_ context.Context, order *Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[order.ID]; !ok {
		return ErrNotFound
	}
	s.orders[order.ID] = *order
	return nil
}

func (s *memStore) GetOrder(_ context.Context, id string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return order, nil
}

func (s *memStore) SaveTemplate(_ context.Context, t template.Template) (template.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[t.ID] = t
	return t, nil
}

func (s *memStore) GetTemplate(_ context.Context, id string) (template.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok {
		return template.Template{}, ErrNotFound
	}
	return t, nil
}

func testHandler(store *memStore) http.Handler {
	return OrdersHandler(
		WithStore(store),
		WithTemplateStore(store),
		WithLogger(logging.Nop()),
		WithIDGenerator(func() string { return "ord-1" }),
	)
}

const createPayload = `{
  "templateId": "tmpl-1",
  "customFields": {"projectName": "Bridge"},
  "items": [
    {"itemName": "Cement", "quantity": 5, "unitPrice": 1000, "totalAmount": 1},
    {"itemName": "Rebar", "quantity": 2, "unitPrice": 250}
  ]
}`

func TestCreateOrderRecomputesTotals(t *testing.T) {
	store := newMemStore()
	h := testHandler(store)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(createPayload))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var res orderResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	order := res.Data
	if order.ID != "ord-1" || order.Status != StatusSubmitted {
		t.Fatalf("unexpected order: %+v", order)
	}
	if order.Items[0].TotalAmount != 5000 {
		t.Fatalf("client total was trusted: %+v", order.Items[0])
	}
	if order.TotalAmount != 5500 {
		t.Fatalf("order total = %v", order.TotalAmount)
	}
	if _, err := store.GetOrder(context.Background(), "ord-1"); err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
}

func TestCreateOrderWithoutItemsRejected(t *testing.T) {
	h := testHandler(newMemStore())

	req := httptest.NewRequest(http.MethodPost, "/api/orders",
		strings.NewReader(`{"templateId": "tmpl-1", "items": []}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateOrderWithoutTemplateRejected(t *testing.T) {
	h := testHandler(newMemStore())

	req := httptest.NewRequest(http.MethodPost, "/api/orders",
		strings.NewReader(`{"items": [{"itemName": "Cement", "quantity": 1, "unitPrice": 10}]}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestUpdateOrderNotFound(t *testing.T) {
	h := testHandler(newMemStore())

	req := httptest.NewRequest(http.MethodPut, "/api/orders/ghost", strings.NewReader(createPayload))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPatchOrderKeepsUnsentFields(t *testing.T) {
	store := newMemStore()
	h := testHandler(store)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(createPayload))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed create failed: %d", rec.Code)
	}

	patch := `{"items": [{"itemName": "Gravel", "quantity": 3, "unitPrice": 100}]}`
	req = httptest.NewRequest(http.MethodPatch, "/api/orders/ord-1", strings.NewReader(patch))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	order, err := store.GetOrder(context.Background(), "ord-1")
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if order.CustomFields["projectName"] != "Bridge" {
		t.Fatalf("custom fields dropped on patch: %+v", order.CustomFields)
	}
	if len(order.Items) != 1 || order.TotalAmount != 300 {
		t.Fatalf("items not replaced: %+v", order)
	}
}

func TestOrdersMethodNotAllowed(t *testing.T) {
	h := testHandler(newMemStore())

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestSaveTemplateNormalizesLegacyPayload(t *testing.T) {
	store := newMemStore()
	h := TemplatesHandler(
		WithTemplateStore(store),
		WithLogger(logging.Nop()),
		WithIDGenerator(func() string { return "tmpl-1" }),
	)

	body := `{
	  "name": "Legacy Form",
	  "type": "1",
	  "fieldsConfig": {"basicInfo": {"projectName": "Project", "orderDate": "Order Date"}}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/order-templates", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	saved, err := store.GetTemplate(context.Background(), "tmpl-1")
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	if len(saved.Fields) != 2 {
		t.Fatalf("legacy sections not flattened: %+v", saved.Fields)
	}
	for _, field := range saved.Fields {
		if field.SectionName == "" {
			t.Fatalf("section name missing: %+v", field)
		}
	}
}

func TestSaveTemplateRequiresName(t *testing.T) {
	h := TemplatesHandler(
		WithTemplateStore(newMemStore()),
		WithLogger(logging.Nop()),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/order-templates",
		strings.NewReader(`{"type": "grid"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestRegisterRoutesMountsUnderBasePath(t *testing.T) {
	store := newMemStore()
	mux := http.NewServeMux()
	pattern, err := RegisterRoutes(mux, "/app",
		WithStore(store),
		WithTemplateStore(store),
		WithLogger(logging.Nop()),
		WithIDGenerator(func() string { return "ord-9" }),
	)
	if err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}
	if pattern != "/app/api/orders" {
		t.Fatalf("pattern = %q", pattern)
	}

	req := httptest.NewRequest(http.MethodPost, "/app/api/orders", strings.NewReader(createPayload))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 via mux, got %d: %s", rec.Code, rec.Body.String())
	}
}
