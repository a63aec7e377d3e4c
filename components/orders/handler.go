package orders

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-orderentry/pkg/lineitem"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type orderPayload struct {
	TemplateID   *string                   `json:"templateId"`
	CustomFields map[string]any            `json:"customFields"`
	Items        *[]lineitem.OrderLineItem `json:"items"`
}

type orderResponse struct {
	Data Order `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// OrdersHandler serves POST {path} and PUT/PATCH {path}/{id}.
func OrdersHandler(fns ...OptionFn) http.Handler {
	return ordersHandlerWithOptions(NewOptions(fns...))
}

func ordersHandlerWithOptions(opts Options) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeError(w, guardStatus(err), err)
				return
			}
		}
		if opts.Store == nil {
			writeError(w, http.StatusInternalServerError, errors.New("orders: store not configured"))
			return
		}

		id := orderID(r.URL.Path, opts.RoutePath)
		switch {
		case r.Method == http.MethodPost && id == "":
			createOrder(w, r, opts)
		case (r.Method == http.MethodPut || r.Method == http.MethodPatch) && id != "":
			updateOrder(w, r, opts, id, r.Method == http.MethodPatch)
		default:
			w.Header().Set("Allow", strings.Join([]string{http.MethodPost, http.MethodPut, http.MethodPatch}, ", "))
			writeError(w, http.StatusMethodNotAllowed, errors.New("orders: method not allowed"))
		}
	})
}

func createOrder(w http.ResponseWriter, r *http.Request, opts Options) {
	payload, err := decodePayload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if payload.TemplateID == nil || strings.TrimSpace(*payload.TemplateID) == "" {
		writeError(w, http.StatusUnprocessableEntity, errors.New("orders: templateId is required"))
		return
	}

	var items []lineitem.OrderLineItem
	if payload.Items != nil {
		items = *payload.Items
	}
	items, err = prepareItems(items)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	now := time.Now().UTC()
	order := Order{
		ID:           opts.NewID(),
		TemplateID:   *payload.TemplateID,
		Status:       StatusSubmitted,
		CustomFields: payload.CustomFields,
		Items:        items,
		TotalAmount:  lineitem.Total(items),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := opts.Store.CreateOrder(r.Context(), &order); err != nil {
		opts.Logger.Errorf("orders: create order: %v", err)
		writeError(w, http.StatusInternalServerError, errors.New("orders: create failed"))
		return
	}
	writeJSON(w, http.StatusCreated, orderResponse{Data: order})
}

func updateOrder(w http.ResponseWriter, r *http.Request, opts Options, id string, partial bool) {
	existing, err := opts.Store.GetOrder(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Errorf("orders: order %q not found", id))
		return
	}
	if err != nil {
		opts.Logger.Errorf("orders: load order %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, errors.New("orders: load failed"))
		return
	}

	payload, err := decodePayload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if payload.TemplateID != nil {
		existing.TemplateID = *payload.TemplateID
	}
	if payload.CustomFields != nil || !partial {
		existing.CustomFields = payload.CustomFields
	}
	if payload.Items != nil || !partial {
		var items []lineitem.OrderLineItem
		if payload.Items != nil {
			items = *payload.Items
		}
		items, err = prepareItems(items)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		existing.Items = items
		existing.TotalAmount = lineitem.Total(items)
	}
	if strings.TrimSpace(existing.TemplateID) == "" {
		writeError(w, http.StatusUnprocessableEntity, errors.New("orders: templateId is required"))
		return
	}

	existing.Status = StatusSubmitted
	existing.UpdatedAt = time.Now().UTC()

	if err := opts.Store.UpdateOrder(r.Context(), &existing); err != nil {
		opts.Logger.Errorf("orders: update order %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, errors.New("orders: update failed"))
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Data: existing})
}

// prepareItems recomputes amounts server side and runs the wire-payload
// validation. Client-supplied totals are never trusted.
func prepareItems(items []lineitem.OrderLineItem) ([]lineitem.OrderLineItem, error) {
	items = lineitem.Recompute(items)
	if err := lineitem.Validate(items); err != nil {
		return nil, err
	}
	return items, nil
}

func decodePayload(r *http.Request) (orderPayload, error) {
	var payload orderPayload
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 4<<20))
	if err := dec.Decode(&payload); err != nil {
		return orderPayload{}, fmt.Errorf("orders: decode payload: %w", err)
	}
	return payload, nil
}

// orderID extracts the trailing path segment after the route path,
// tolerating an extra mount prefix. Returns "" for the collection route.
func orderID(path, routePath string) string {
	idx := strings.Index(path, routePath)
	if idx < 0 {
		return ""
	}
	trimmed := strings.Trim(path[idx+len(routePath):], "/")
	if strings.Contains(trimmed, "/") {
		return ""
	}
	return trimmed
}

func guardStatus(err error) int {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		if c := httpErr.StatusCode(); c > 0 {
			code = c
		}
	}
	return code
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(body)
}

func writeError(w http.ResponseWriter, code int, err error) {
	msg := http.StatusText(code)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, code, errorResponse{Error: msg})
}
