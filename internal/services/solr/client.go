package solr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"marginalia/internal/logging"
	"marginalia/internal/services"
)

const userAgent = "marginalia/0.1.0"

// Search results are resolved first-match-wins, so a single row is enough.
const searchRows = 1

// HTTPDoer describes the HTTP client used by the Solr service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Record is one document returned by the discovery index.
type Record struct {
	ID    string
	Title string
}

// Client talks to a single core of a VuFind-style Solr index.
type Client struct {
	baseURL string
	core    string
	client  HTTPDoer
	logger  *slog.Logger
}

// New constructs a client with its own HTTP client honouring the given timeout.
func New(baseURL, core string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return NewWithClient(baseURL, core, &http.Client{Timeout: timeout}, logger)
}

// NewWithClient constructs a client around the provided HTTPDoer.
func NewWithClient(baseURL, core string, client HTTPDoer, logger *slog.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		core:    strings.TrimSpace(core),
		client:  client,
		logger:  logging.WithComponent(logger, "solr"),
	}
}

// Quote wraps a term value in double quotes with Solr escaping applied, for
// use in query and filter expressions.
func Quote(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + replacer.Replace(value) + `"`
}

// Record fetches a single document through the realtime get endpoint. A
// missing document returns (nil, nil); only transport and protocol problems
// are errors.
func (c *Client) Record(ctx context.Context, id string) (*Record, error) {
	query := url.Values{}
	query.Set("id", id)
	query.Set("wt", "json")

	var payload struct {
		Doc map[string]any `json:"doc"`
	}
	if err := c.get(ctx, "get", query, &payload); err != nil {
		return nil, err
	}
	if payload.Doc == nil {
		c.logger.Debug("record missing", c.ctxAttrs(ctx, logging.String("id", id))...)
		return nil, nil
	}
	return docToRecord(payload.Doc), nil
}

// Search runs a select query with the given filter clauses and returns the
// matching documents, best match first.
func (c *Client) Search(ctx context.Context, q string, filters ...string) ([]Record, error) {
	query := url.Values{}
	query.Set("q", q)
	for _, filter := range filters {
		query.Add("fq", filter)
	}
	query.Set("rows", strconv.Itoa(searchRows))
	query.Set("wt", "json")

	var payload struct {
		Response struct {
			NumFound int64            `json:"numFound"`
			Docs     []map[string]any `json:"docs"`
		} `json:"response"`
	}
	if err := c.get(ctx, "select", query, &payload); err != nil {
		return nil, err
	}

	c.logger.Debug("search",
		c.ctxAttrs(ctx,
			logging.String("q", q),
			logging.Int64("num_found", payload.Response.NumFound),
		)...)

	records := make([]Record, 0, len(payload.Response.Docs))
	for _, doc := range payload.Response.Docs {
		records = append(records, *docToRecord(doc))
	}
	return records, nil
}

func (c *Client) get(ctx context.Context, handler string, query url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, url.PathEscape(c.core), handler, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build solr request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		marker := services.ErrTransient
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			marker = services.ErrTimeout
		}
		return services.Wrap(marker, "solr", handler, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return services.Wrap(services.ErrNotFound, "solr", handler, fmt.Sprintf("core %q not found at %s", c.core, c.baseURL), nil)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		detail := strings.TrimSpace(string(body))
		if detail != "" {
			detail = ": " + detail
		}
		return services.Wrap(services.ErrTransient, "solr", handler, fmt.Sprintf("returned %d%s", resp.StatusCode, detail), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrTransient, "solr", handler, "decode response", err)
	}
	return nil
}

func (c *Client) ctxAttrs(ctx context.Context, attrs ...logging.Attr) []any {
	if runID, ok := services.RunIDFromContext(ctx); ok {
		attrs = append(attrs, logging.String("run_id", runID))
	}
	if row, ok := services.RowFromContext(ctx); ok {
		attrs = append(attrs, logging.Int64("row", row))
	}
	return logging.Args(attrs...)
}

func docToRecord(doc map[string]any) *Record {
	return &Record{
		ID:    docString(doc, "id"),
		Title: docString(doc, "title", "title_full", "title_short"),
	}
}

// docString returns the first non-empty string among the named fields,
// unwrapping single-element arrays the way Solr returns multiValued fields.
func docString(doc map[string]any, keys ...string) string {
	for _, key := range keys {
		switch value := doc[key].(type) {
		case string:
			if value != "" {
				return value
			}
		case []any:
			for _, item := range value {
				if s, ok := item.(string); ok && s != "" {
					return s
				}
			}
		}
	}
	return ""
}
