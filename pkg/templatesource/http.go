package templatesource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-orderentry/internal/logging"
	"github.com/goliatone/go-orderentry/pkg/template"
)

// HTTPSource fetches templates from an order-entry backend. It expects
// GET {base}/templates to return a JSON array of template records and
// GET {base}/templates/{id} to return one record.
type HTTPSource struct {
	base   string
	client *http.Client
	logger logging.Logger
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient overrides the http.Client used for requests.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	}
}

// WithHTTPLogger sets the logger used for normalization warnings.
func WithHTTPLogger(logger logging.Logger) HTTPOption {
	return func(s *HTTPSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHTTPSource builds a source rooted at base, e.g. "https://api.example.com/v1".
func NewHTTPSource(base string, options ...HTTPOption) (*HTTPSource, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("templatesource: base URL required")
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("templatesource: parse base URL: %w", err)
	}

	s := &HTTPSource{
		base:   trimmed,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logging.Default(),
	}
	for _, option := range options {
		option(s)
	}
	return s, nil
}

// Active implements Source. Inactive templates are filtered out locally
// so older backends that return every record still behave.
func (s *HTTPSource) Active(ctx context.Context) ([]template.Template, error) {
	body, err := s.get(ctx, s.base+"/templates")
	if err != nil {
		return nil, err
	}

	var records []record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("templatesource: decode template list: %w", err)
	}

	templates := make([]template.Template, 0, len(records))
	for _, rec := range records {
		t := rec.toTemplate(s.logger)
		if t.IsActive {
			templates = append(templates, t)
		}
	}
	return templates, nil
}

// Template implements Source.
func (s *HTTPSource) Template(ctx context.Context, id string) (template.Template, error) {
	if strings.TrimSpace(id) == "" {
		return template.Template{}, fmt.Errorf("templatesource: template id required")
	}

	body, err := s.get(ctx, s.base+"/templates/"+url.PathEscape(id))
	if err != nil {
		return template.Template{}, err
	}

	var rec record
	if err := json.Unmarshal(body, &rec); err != nil {
		return template.Template{}, fmt.Errorf("templatesource: decode template %q: %w", id, err)
	}
	return rec.toTemplate(s.logger), nil
}

func (s *HTTPSource) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("templatesource: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("templatesource: fetch %s: %w", endpoint, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("templatesource: fetch %s: unexpected status %d", endpoint, res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("templatesource: read response: %w", err)
	}
	return body, nil
}
