// Package wiki fetches random encyclopedia articles from the Wikipedia REST
// and action APIs.
package wiki

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/pitsorgalla/Wortify/internal/rest"
)

const (
	// DefaultRESTURL serves the random-title endpoint.
	DefaultRESTURL = "https://en.wikipedia.org/api/rest_v1"
	// DefaultActionURL serves plain-text extracts.
	DefaultActionURL = "https://en.wikipedia.org/w/api.php"

	sourceRandom  = "wiki random title"
	sourceExtract = "wiki extract"
)

// RandomRef identifies an article picked by the random-title endpoint. It is
// consumed immediately to fetch the article body.
type RandomRef struct {
	Title  string
	PageID int
}

// Article is a plain-text article summary.
type Article struct {
	PageID  int
	Title   string
	Extract string
}

// Config describes where the article endpoints live.
type Config struct {
	RESTURL    string
	ActionURL  string
	UserAgent  string
	HTTPClient *http.Client
	// RequestsPerSecond paces calls to both endpoints. Zero disables pacing.
	RequestsPerSecond float64
}

// Client talks to both article endpoints.
type Client struct {
	restURL   string
	actionURL string
	rest      *rest.Client
}

var extraneousBlankLines = regexp.MustCompile(`\n{3,}`)

// NewClient builds a Client, falling back to the English Wikipedia endpoints.
func NewClient(cfg Config) *Client {
	restURL := strings.TrimRight(strings.TrimSpace(cfg.RESTURL), "/")
	if restURL == "" {
		restURL = DefaultRESTURL
	}
	actionURL := strings.TrimSpace(cfg.ActionURL)
	if actionURL == "" {
		actionURL = DefaultActionURL
	}
	client := rest.NewClient(cfg.HTTPClient, cfg.UserAgent).
		WithLimiter(rest.NewLimiter(cfg.RequestsPerSecond, 2))
	return &Client{
		restURL:   restURL,
		actionURL: actionURL,
		rest:      client,
	}
}

type randomResponse struct {
	Items []struct {
		Title  string `json:"title"`
		PageID int    `json:"page_id"`
	} `json:"items"`
}

// RandomArticle asks for one random article title.
func (c *Client) RandomArticle(ctx context.Context) (RandomRef, error) {
	var payload randomResponse
	if err := c.rest.GetJSON(ctx, sourceRandom, c.restURL+"/page/random/title", nil, &payload); err != nil {
		return RandomRef{}, err
	}
	if len(payload.Items) == 0 {
		return RandomRef{}, rest.Decodef(sourceRandom, "no items in response")
	}
	item := payload.Items[0]
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return RandomRef{}, rest.Decodef(sourceRandom, "item has no title")
	}
	return RandomRef{Title: title, PageID: item.PageID}, nil
}

type extractResponse struct {
	Query struct {
		Pages map[string]struct {
			PageID  int    `json:"pageid"`
			Title   string `json:"title"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// Article fetches the plain-text extract for ref. The response is keyed by
// page id; a payload without ref's id is a decode error.
func (c *Client) Article(ctx context.Context, ref RandomRef) (Article, error) {
	var payload extractResponse
	if err := c.rest.GetJSON(ctx, sourceExtract, c.extractURL(ref.Title), nil, &payload); err != nil {
		return Article{}, err
	}
	key := strconv.Itoa(ref.PageID)
	page, ok := payload.Query.Pages[key]
	if !ok {
		return Article{}, rest.Decodef(sourceExtract, "page %s missing from response", key)
	}
	title := strings.TrimSpace(page.Title)
	if title == "" {
		title = ref.Title
	}
	return Article{
		PageID:  ref.PageID,
		Title:   title,
		Extract: normalizeExtract(page.Extract),
	}, nil
}

func (c *Client) extractURL(title string) string {
	query := url.Values{}
	query.Set("action", "query")
	query.Set("format", "json")
	query.Set("prop", "extracts")
	query.Set("explaintext", "1")
	query.Set("redirects", "1")
	query.Set("titles", title)
	sep := "?"
	if strings.Contains(c.actionURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s%s", c.actionURL, sep, query.Encode())
}

func normalizeExtract(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\t", " ")
	s = extraneousBlankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
