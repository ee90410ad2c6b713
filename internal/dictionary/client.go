// Package dictionary looks up phrase definitions from a WordsAPI-compatible
// service.
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/pitsorgalla/Wortify/internal/rest"
)

const (
	// DefaultURL is the WordsAPI endpoint published on RapidAPI.
	DefaultURL = "https://wordsapiv1.p.rapidapi.com"
	// DefaultHost is the RapidAPI host identifier paired with DefaultURL.
	DefaultHost = "wordsapiv1.p.rapidapi.com"

	// ErrorText replaces a definition that could not be fetched.
	ErrorText = "error"

	headerHost = "X-RapidAPI-Host"
	headerKey  = "X-RapidAPI-Key"
	source     = "dictionary"
)

// ErrMissingCredentials is returned before any request when no access key is
// configured.
var ErrMissingCredentials = errors.New("dictionary access key not configured")

// Config describes the definition service and its credentials. Host and Key
// are secrets supplied at startup.
type Config struct {
	URL        string
	Host       string
	Key        string
	UserAgent  string
	HTTPClient *http.Client
	// CacheTTL keeps successful lookups for this long. Zero disables caching.
	CacheTTL time.Duration
}

// Client fetches definitions.
type Client struct {
	base    string
	headers http.Header
	hasKey  bool
	rest    *rest.Client
	cache   *cache.Cache
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		base = DefaultURL
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = DefaultHost
	}
	key := strings.TrimSpace(cfg.Key)
	headers := http.Header{}
	headers.Set(headerHost, host)
	if key != "" {
		headers.Set(headerKey, key)
	}
	client := &Client{
		base:    base,
		headers: headers,
		hasKey:  key != "",
		rest:    rest.NewClient(cfg.HTTPClient, cfg.UserAgent),
	}
	if cfg.CacheTTL > 0 {
		client.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return client
}

// Name describes the backing service for status lines.
func (c *Client) Name() string {
	return fmt.Sprintf("WordsAPI (%s)", c.headers.Get(headerHost))
}

type definitionsResponse struct {
	Word        string `json:"word"`
	Definitions []struct {
		Definition   string `json:"definition"`
		PartOfSpeech string `json:"partOfSpeech"`
	} `json:"definitions"`
}

// Define returns the first definition listed for phrase.
func (c *Client) Define(ctx context.Context, phrase string) (string, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return "", fmt.Errorf("phrase cannot be empty")
	}
	if !c.hasKey {
		return "", ErrMissingCredentials
	}
	cacheKey := strings.ToLower(phrase)
	if c.cache != nil {
		if text, ok := c.cache.Get(cacheKey); ok {
			return text.(string), nil
		}
	}
	endpoint := fmt.Sprintf("%s/words/%s/definitions", c.base, url.PathEscape(phrase))
	var payload definitionsResponse
	if err := c.rest.GetJSON(ctx, source, endpoint, c.headers, &payload); err != nil {
		return "", err
	}
	if len(payload.Definitions) == 0 {
		return "", rest.Decodef(source, "no definitions for %q", phrase)
	}
	text := strings.TrimSpace(payload.Definitions[0].Definition)
	if text == "" {
		return "", rest.Decodef(source, "empty definition for %q", phrase)
	}
	if c.cache != nil {
		c.cache.SetDefault(cacheKey, text)
	}
	return text, nil
}
