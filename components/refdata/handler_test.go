package refdata

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type handlerResponse struct {
	Data []Entry `json:"data"`
}

func vendorCatalog() OptionFn {
	return WithCatalog("vendors", []Entry{
		{Value: "v-001", Label: "Acme Steel"},
		{Value: "v-002", Label: "Baltic Timber"},
		{Value: "v-003", Label: "Acme Concrete"},
	})
}

func TestNewHandler_CatalogSearch(t *testing.T) {
	h := NewHandler(vendorCatalog())

	req := httptest.NewRequest(http.MethodGet, "/api/refdata?catalog=vendors&q=acme", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if ct := strings.TrimSpace(res.Header.Get("Content-Type")); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}

	var payload handlerResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Data) != 2 {
		t.Fatalf("expected 2 results, got %#v", payload.Data)
	}
	if payload.Data[0].Value != "v-001" || payload.Data[1].Value != "v-003" {
		t.Fatalf("unexpected ordering: %#v", payload.Data)
	}
}

func TestNewHandler_UnknownCatalogReturns404(t *testing.T) {
	h := NewHandler(vendorCatalog())

	req := httptest.NewRequest(http.MethodGet, "/api/refdata?catalog=ghosts", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestNewHandler_DefaultsToUnitsCatalog(t *testing.T) {
	h := NewHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/refdata?q=kilo", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload handlerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Data) != 1 || payload.Data[0].Value != "kg" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestNewHandler_LimitClamped(t *testing.T) {
	h := NewHandler(vendorCatalog(), WithMaxLimit(1))

	req := httptest.NewRequest(http.MethodGet, "/api/refdata?catalog=vendors&q=acme&limit=10", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload handlerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Data) != 1 {
		t.Fatalf("expected clamped result, got %#v", payload.Data)
	}
}

func TestNewHandler_GuardRejects(t *testing.T) {
	h := NewHandler(
		vendorCatalog(),
		WithGuard(func(r *http.Request) error {
			return StatusError{Code: http.StatusUnauthorized}
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/refdata?catalog=vendors", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestNewHandler_MethodNotAllowed(t *testing.T) {
	h := NewHandler(vendorCatalog())

	req := httptest.NewRequest(http.MethodPost, "/api/refdata?catalog=vendors", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

func TestNewHandler_EmptySearchModeNone(t *testing.T) {
	h := NewHandler(vendorCatalog(), WithEmptySearchMode(EmptySearchNone))

	req := httptest.NewRequest(http.MethodGet, "/api/refdata?catalog=vendors", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload handlerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Data == nil || len(payload.Data) != 0 {
		t.Fatalf("expected empty data array, got %#v", payload.Data)
	}
}
