package uptime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	pageTimeout  = 5 * time.Second
	badgeTimeout = 3 * time.Second

	// badgeConcurrency caps parallel badge fetches per status page.
	badgeConcurrency = 8
)

// preloadDataRe extracts the JSON blob uptime-kuma embeds in its public
// status page HTML.
var preloadDataRe = regexp.MustCompile(`window\.preloadData = (\{.*?\});`)

// Client reads uptime-kuma public status pages.
type Client struct {
	baseURL string
	client  *http.Client
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a client for the uptime-kuma instance at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PageStatus fetches one status page and resolves each monitor's state via
// the badge endpoint. Failures never return an error; the page or monitor
// degrades to UNKNOWN instead.
func (c *Client) PageStatus(ctx context.Context, name, slug string) PageStatus {
	page := PageStatus{Name: name, Slug: slug, Status: StateUnknown}

	monitors, err := c.fetchMonitorList(ctx, slug)
	if err != nil {
		slog.Warn("status page fetch failed", "slug", slug, "error", err)
		return page
	}

	page.Monitors = make([]Monitor, len(monitors))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(badgeConcurrency)
	for i, m := range monitors {
		g.Go(func() error {
			page.Monitors[i] = Monitor{
				Name:   m.Name,
				Status: c.badgeState(gctx, m.ID),
			}
			return nil
		})
	}
	_ = g.Wait()

	page.Status = Aggregate(page.Monitors)
	return page
}

type monitorRef struct {
	ID   int
	Name string
}

// fetchMonitorList scrapes the monitor identities from the status page's
// embedded preload data.
func (c *Client) fetchMonitorList(ctx context.Context, slug string) ([]monitorRef, error) {
	ctx, cancel := context.WithTimeout(ctx, pageTimeout)
	defer cancel()

	body, err := c.get(ctx, fmt.Sprintf("%s/status/%s", c.baseURL, slug))
	if err != nil {
		return nil, err
	}

	match := preloadDataRe.FindSubmatch(body)
	if match == nil {
		return nil, fmt.Errorf("no preload data in status page %s", slug)
	}

	var preload struct {
		PublicGroupList []struct {
			MonitorList []struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"monitorList"`
		} `json:"publicGroupList"`
	}
	if err := json.Unmarshal(match[1], &preload); err != nil {
		return nil, fmt.Errorf("parsing preload data for %s: %w", slug, err)
	}

	var monitors []monitorRef
	for _, group := range preload.PublicGroupList {
		for _, m := range group.MonitorList {
			monitors = append(monitors, monitorRef{ID: m.ID, Name: m.Name})
		}
	}
	return monitors, nil
}

// badgeState classifies a monitor from its status badge SVG.
func (c *Client) badgeState(ctx context.Context, monitorID int) State {
	ctx, cancel := context.WithTimeout(ctx, badgeTimeout)
	defer cancel()

	body, err := c.get(ctx, fmt.Sprintf("%s/api/badge/%d/status", c.baseURL, monitorID))
	if err != nil {
		slog.Warn("badge fetch failed", "monitor", monitorID, "error", err)
		return StateUnknown
	}

	svg := string(body)
	switch {
	case strings.Contains(svg, ">Up<"):
		return StateUp
	case strings.Contains(svg, ">Down<"):
		return StateDown
	default:
		return StateUnknown
	}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
