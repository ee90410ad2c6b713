package dictionary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pitsorgalla/Wortify/internal/rest"
)

func TestDefineSendsCredentialsAndPhrase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.EscapedPath() != "/words/red%20fox/definitions" {
			t.Fatalf("unexpected path: %s", r.URL.EscapedPath())
		}
		if got := r.Header.Get("X-RapidAPI-Host"); got != "dict.test" {
			t.Fatalf("host header = %q", got)
		}
		if got := r.Header.Get("X-RapidAPI-Key"); got != "secret" {
			t.Fatalf("key header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"word":"red fox","definitions":[{"definition":"a reddish fox","partOfSpeech":"noun"},{"definition":"second"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, Host: "dict.test", Key: "secret", HTTPClient: server.Client()})
	got, err := client.Define(context.Background(), "red fox")
	if err != nil {
		t.Fatalf("Define() error = %v", err)
	}
	if got != "a reddish fox" {
		t.Fatalf("unexpected definition: %q", got)
	}
}

func TestDefineNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"word not found"}`))
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, Key: "secret", HTTPClient: server.Client()})
	_, err := client.Define(context.Background(), "mammals")
	if !rest.IsNetwork(err) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestDefineEmptyDefinitions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"word":"zzz","definitions":[]}`))
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, Key: "secret", HTTPClient: server.Client()})
	_, err := client.Define(context.Background(), "zzz")
	if !rest.IsDecode(err) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestDefineWithoutKeySendsNothing(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, HTTPClient: server.Client()})
	_, err := client.Define(context.Background(), "mammals")
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected missing credentials, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("expected no request, got %d", hits)
	}
}

func TestNameUsesDefaultHost(t *testing.T) {
	client := NewClient(Config{})
	if got := client.Name(); got != "WordsAPI (wordsapiv1.p.rapidapi.com)" {
		t.Fatalf("unexpected name: %s", got)
	}
}

func TestDefineCachesSuccessfulLookups(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"definitions":[{"definition":"a small rodent"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, Key: "secret", HTTPClient: server.Client(), CacheTTL: time.Minute})
	for _, phrase := range []string{"mouse", "Mouse", " mouse "} {
		got, err := client.Define(context.Background(), phrase)
		if err != nil {
			t.Fatalf("Define(%q) error = %v", phrase, err)
		}
		if got != "a small rodent" {
			t.Fatalf("Define(%q) = %q", phrase, got)
		}
	}
	if hits != 1 {
		t.Fatalf("server hits = %d, want 1", hits)
	}
}
