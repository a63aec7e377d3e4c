package orders

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-orderentry/internal/normalize"
	"github.com/goliatone/go-orderentry/pkg/template"
)

type templatePayload struct {
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	FieldsConfig json.RawMessage `json:"fieldsConfig"`
	IsActive     *bool           `json:"isActive"`
}

type templateResponse struct {
	Data template.Template `json:"data"`
}

// TemplatesHandler serves POST {path} and PUT {path}/{id}. Incoming
// fieldsConfig payloads, legacy or canonical, are normalized before they
// reach the store so only the flat shape is ever persisted.
func TemplatesHandler(fns ...OptionFn) http.Handler {
	return templatesHandlerWithOptions(NewOptions(fns...))
}

func templatesHandlerWithOptions(opts Options) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeError(w, guardStatus(err), err)
				return
			}
		}
		if opts.TemplateStore == nil {
			writeError(w, http.StatusInternalServerError, errors.New("orders: template store not configured"))
			return
		}

		id := orderID(r.URL.Path, opts.TemplateRoutePath)
		switch {
		case r.Method == http.MethodPost && id == "":
			saveTemplate(w, r, opts, "")
		case r.Method == http.MethodPut && id != "":
			saveTemplate(w, r, opts, id)
		default:
			w.Header().Set("Allow", http.MethodPost+", "+http.MethodPut)
			writeError(w, http.StatusMethodNotAllowed, errors.New("orders: method not allowed"))
		}
	})
}

func saveTemplate(w http.ResponseWriter, r *http.Request, opts Options, id string) {
	var payload templatePayload
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 4<<20))
	if err := dec.Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("orders: decode template payload: %w", err))
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, errors.New("orders: template name is required"))
		return
	}

	if id != "" {
		if _, err := opts.TemplateStore.GetTemplate(r.Context(), id); errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("orders: template %q not found", id))
			return
		} else if err != nil {
			opts.Logger.Errorf("orders: load template %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, errors.New("orders: load failed"))
			return
		}
	} else {
		id = opts.NewID()
	}

	t := template.Template{
		ID:       id,
		Name:     payload.Name,
		Type:     template.Type(payload.Type),
		IsActive: payload.IsActive == nil || *payload.IsActive,
	}

	def := normalize.Definition(payload.FieldsConfig, t.Type, normalize.WithLogger(opts.Logger))
	switch def.Kind() {
	case template.TypeGrid:
		cfg := def.Grid()
		t.GridConfig = &cfg
	default:
		t.Fields = def.Fields()
	}

	saved, err := opts.TemplateStore.SaveTemplate(r.Context(), t)
	if err != nil {
		opts.Logger.Errorf("orders: save template %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, errors.New("orders: save failed"))
		return
	}

	code := http.StatusOK
	if r.Method == http.MethodPost {
		code = http.StatusCreated
	}
	writeJSON(w, code, templateResponse{Data: saved})
}
