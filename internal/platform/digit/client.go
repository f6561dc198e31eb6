package digit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to the domain registry services (facility, product, stock,
// boundary). All calls are JSON-over-POST with the RequestInfo envelope.
type Client struct {
	http     *http.Client
	tenantID string
	log      zerolog.Logger
}

func NewClient(tenantID string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		http:     &http.Client{Timeout: timeout},
		tenantID: tenantID,
		log:      log.With().Str("component", "digit_client").Logger(),
	}
}

func (c *Client) TenantID() string {
	return c.tenantID
}

// NewRequestInfo returns an envelope bound to this client's tenant.
func (c *Client) NewRequestInfo() RequestInfo {
	return NewRequestInfo(c.tenantID)
}

// Search posts body to rawurl with limit, offset and tenantId query params
// and decodes the response into out. Registry search endpoints page this way
// regardless of resource type.
func (c *Client) Search(ctx context.Context, rawurl string, limit, offset int, body, out any) error {
	u, err := url.Parse(rawurl)
	if err != nil {
		return fmt.Errorf("parse search url: %w", err)
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("tenantId", c.tenantID)
	u.RawQuery = q.Encode()

	return c.post(ctx, u.String(), body, out)
}

// BoundaryCriteria narrows a boundary relationship search.
type BoundaryCriteria struct {
	Codes           []string
	HierarchyType   string
	IncludeChildren bool
	IncludeParents  bool
}

// SearchBoundaries queries the boundary service. Unlike the other registries
// it takes its criteria as query params and the body is just the envelope.
func (c *Client) SearchBoundaries(ctx context.Context, rawurl string, criteria BoundaryCriteria, out any) error {
	u, err := url.Parse(rawurl)
	if err != nil {
		return fmt.Errorf("parse boundary url: %w", err)
	}
	q := u.Query()
	q.Set("codes", strings.Join(criteria.Codes, ","))
	q.Set("tenantId", c.tenantID)
	q.Set("hierarchyType", criteria.HierarchyType)
	q.Set("includeChildren", strconv.FormatBool(criteria.IncludeChildren))
	q.Set("includeParents", strconv.FormatBool(criteria.IncludeParents))
	u.RawQuery = q.Encode()

	return c.post(ctx, u.String(), RequestWrapper{RequestInfo: c.NewRequestInfo()}, out)
}

// Send posts a bulk create or update request. The response body is decoded
// only far enough to log the envelope status.
func (c *Client) Send(ctx context.Context, rawurl string, body any) error {
	var env struct {
		ResponseInfo *ResponseInfo `json:"ResponseInfo"`
	}
	if err := c.post(ctx, rawurl, body, &env); err != nil {
		return err
	}
	if env.ResponseInfo != nil {
		c.log.Debug().Str("url", rawurl).Str("status", env.ResponseInfo.Status).Msg("bulk request accepted")
	}
	return nil
}

func (c *Client) post(ctx context.Context, fullURL string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", fullURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("read response from %s: %w", fullURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("call %s: unexpected status %d: %s", fullURL, resp.StatusCode, truncate(data, 512))
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", fullURL, err)
	}
	return nil
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
