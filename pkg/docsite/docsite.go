package docsite

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/NCAR/cirrus-portal/pkg/errors"
)

// DefaultSLAURL is the service level agreement page embedded on /v1/sla.
const DefaultSLAURL = "https://ncar-hpc-docs.readthedocs.io/en/latest/compute-systems/cirrus/guides/09-service-level-agreements/slas/"

const fetchTimeout = 10 * time.Second

// Fetcher retrieves and sanitizes documentation fragments.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with the standard timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: fetchTimeout}}
}

// NewFetcherWithClient creates a Fetcher using the given HTTP client.
func NewFetcherWithClient(hc *http.Client) *Fetcher {
	return &Fetcher{client: hc}
}

// Fetch downloads the page and returns the sanitized article HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "building docs request", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeUpstream, "fetching docs page", err,
			map[string]any{"url": url})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewWithContext(errors.ErrCodeUpstream, "docs page fetch failed",
			map[string]any{"url": url, "status": resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUpstream, "reading docs page", err)
	}
	return Sanitize(string(body))
}

// Sanitize reduces a full docs page to its article content: the
// article.md-content__inner element with edit buttons, header anchor links
// and asides removed.
func Sanitize(page string) (string, error) {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUpstream, "parsing docs page", err)
	}

	article := findArticle(root)
	if article == nil {
		return "", errors.New(errors.ErrCodeNotFound, "docs page has no article content")
	}
	strip(article)

	var b strings.Builder
	if err := html.Render(&b, article); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "rendering article fragment", err)
	}
	return b.String(), nil
}

// findArticle locates the first article element carrying the
// md-content__inner class.
func findArticle(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "article" && hasClass(n, "md-content__inner") {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findArticle(c); found != nil {
			return found
		}
	}
	return nil
}

// strip removes site chrome from the article subtree in place.
func strip(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if shouldRemove(c) {
			n.RemoveChild(c)
			continue
		}
		strip(c)
	}
}

func shouldRemove(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if n.Data == "aside" {
		return true
	}
	if n.Data == "a" && hasClass(n, "md-content__button") {
		return true
	}
	return hasClass(n, "headerlink")
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
