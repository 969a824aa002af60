// Package jsreport is a minimal client for the JSReport HTTP API: one
// render call plus the OData template and report listings. Every call is
// synchronous, authenticated with basic credentials, and bounded by a
// timeout; retries belong to the caller.
package jsreport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"jsreport-mcp/internal/utils"
)

// Config carries the JSReport connection settings. It is constructed
// explicitly (from flags or environment) and passed in, so multiple
// configurations can coexist in tests.
type Config struct {
	BaseURL         string
	Username        string
	Password        string
	DefaultTemplate string

	// RenderTimeout bounds full report renders; MetadataTimeout bounds
	// template/report listings, which must fail fast.
	RenderTimeout   time.Duration
	MetadataTimeout time.Duration
}

const (
	defaultRenderTimeout   = 60 * time.Second
	defaultMetadataTimeout = 30 * time.Second
)

// withDefaults fills in zero-value timeouts.
func (c Config) withDefaults() Config {
	if c.RenderTimeout == 0 {
		c.RenderTimeout = defaultRenderTimeout
	}
	if c.MetadataTimeout == 0 {
		c.MetadataTimeout = defaultMetadataTimeout
	}
	return c
}

// Client talks to one JSReport instance. Renders and metadata lookups use
// separate pooled HTTP clients because they carry different timeouts.
type Client struct {
	cfg      Config
	render   *http.Client
	metadata *http.Client
	logger   utils.ExtendedLogger
}

// NewClient creates a client for the given JSReport instance.
func NewClient(cfg Config, logger utils.ExtendedLogger) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:      cfg,
		render:   &http.Client{Timeout: cfg.RenderTimeout},
		metadata: &http.Client{Timeout: cfg.MetadataTimeout},
		logger:   logger,
	}
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config {
	return c.cfg
}

// Render issues POST /api/report and returns the rendered artifact. A
// non-2xx response is returned as a *StatusError carrying the status code
// and a truncated body; a transport failure is returned wrapped, with no
// status attached.
func (c *Client) Render(ctx context.Context, renderReq RenderRequest) (*RenderResponse, error) {
	body, err := json.Marshal(renderReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/report", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	c.logger.Debugf("rendering template %q (persist=%v)", renderReq.Template.Name, renderReq.Options != nil)
	resp, err := c.render.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call jsreport: %w", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read render response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(content))}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}
	return &RenderResponse{
		Content:       content,
		ContentType:   contentType,
		PermanentLink: resp.Header.Get("Permanent-Link"),
	}, nil
}

// odataTemplate is the wire shape of a template entry. Content is only
// inspected for presence.
type odataTemplate struct {
	Name    string `json:"name"`
	Engine  string `json:"engine"`
	Recipe  string `json:"recipe"`
	ShortID string `json:"shortid"`
	Content string `json:"content"`
}

// ListTemplates returns every stored template.
func (c *Client) ListTemplates(ctx context.Context) ([]Template, error) {
	return c.queryTemplates(ctx, "")
}

// GetTemplate looks up a single template by exact name. A nil template
// with nil error means the name matched nothing.
func (c *Client) GetTemplate(ctx context.Context, name string) (*Template, error) {
	templates, err := c.queryTemplates(ctx, fmt.Sprintf("name eq '%s'", name))
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, nil
	}
	return &templates[0], nil
}

func (c *Client) queryTemplates(ctx context.Context, filter string) ([]Template, error) {
	endpoint := c.cfg.BaseURL + "/odata/templates"
	if filter != "" {
		endpoint += "?$filter=" + url.QueryEscape(filter)
	}

	var payload struct {
		Value []odataTemplate `json:"value"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	templates := make([]Template, 0, len(payload.Value))
	for _, t := range payload.Value {
		templates = append(templates, Template{
			Name:       t.Name,
			Engine:     t.Engine,
			Recipe:     t.Recipe,
			ShortID:    t.ShortID,
			HasContent: t.Content != "",
		})
	}
	return templates, nil
}

// ListReports returns persisted reports ordered by creation time
// descending, paginated with top/skip.
func (c *Client) ListReports(ctx context.Context, top, skip int) ([]Report, error) {
	endpoint := fmt.Sprintf("%s/odata/reports?$orderby=%s&$top=%d&$skip=%d",
		c.cfg.BaseURL, url.QueryEscape("creationDate desc"), top, skip)

	var payload struct {
		Value []struct {
			ID           string `json:"_id"`
			Name         string `json:"name"`
			CreationDate string `json:"creationDate"`
			ContentType  string `json:"contentType"`
			Public       bool   `json:"public"`
		} `json:"value"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	reports := make([]Report, 0, len(payload.Value))
	for _, r := range payload.Value {
		reports = append(reports, Report{
			ID:           r.ID,
			Name:         r.Name,
			CreationDate: r.CreationDate,
			ContentType:  r.ContentType,
			Public:       r.Public,
		})
	}
	return reports, nil
}

// getJSON performs an authenticated metadata GET and decodes the JSON
// response into out, applying the same error taxonomy as Render.
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	resp, err := c.metadata.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call jsreport: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body))}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse jsreport response: %w", err)
	}
	return nil
}
