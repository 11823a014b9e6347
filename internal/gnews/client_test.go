package gnews

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New("", ""); err == nil {
		t.Error("expected an error for a missing API key")
	}
	if _, err := New("", "test-key"); err != nil {
		t.Errorf("unexpected error with key set: %v", err)
	}
}

func TestSearch(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"q":      q.Get("q"),
			"lang":   q.Get("lang"),
			"max":    q.Get("max"),
			"sortby": q.Get("sortby"),
			"apikey": q.Get("apikey"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"totalArticles": 2,
			"articles": [
				{
					"title": "Border talks resume",
					"description": "Officials meet after months of silence",
					"url": "https://example.com/1",
					"publishedAt": "2024-01-10T08:30:00Z",
					"source": {"name": "Wire", "url": "https://wire.example"}
				},
				{
					"title": "Trade volumes rise",
					"url": "https://example.com/2",
					"publishedAt": "2024-01-09T14:00:00Z",
					"source": {"name": "Biz Daily"}
				}
			]
		}`))
	}))
	defer server.Close()

	client, err := New(server.URL, "test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	articles, err := client.Search(context.Background(), "India Pakistan", 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "Border talks resume" {
		t.Errorf("first title = %q", articles[0].Title)
	}
	if articles[0].Source.Name != "Wire" {
		t.Errorf("first source = %q", articles[0].Source.Name)
	}
	if articles[0].PublishedAt.IsZero() {
		t.Error("publishedAt not decoded")
	}

	want := map[string]string{
		"q":      "India Pakistan",
		"lang":   "en",
		"max":    "25",
		"sortby": "publishedAt",
		"apikey": "test-key",
	}
	for key, expected := range want {
		if gotQuery[key] != expected {
			t.Errorf("query param %s = %q, want %q", key, gotQuery[key], expected)
		}
	}
}

func TestSearchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":["API key invalid"]}`))
	}))
	defer server.Close()

	client, err := New(server.URL, "bad-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.Search(context.Background(), "India Pakistan", 10)
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
}

func TestSearchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client, err := New(server.URL, "test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := client.Search(context.Background(), "q", 10); !errors.Is(err, ErrUpstream) {
		t.Errorf("expected ErrUpstream for malformed body, got %v", err)
	}
}

func TestSearchMissingArticleList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalArticles": 0}`))
	}))
	defer server.Close()

	client, err := New(server.URL, "test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := client.Search(context.Background(), "q", 10); !errors.Is(err, ErrUpstream) {
		t.Errorf("expected ErrUpstream for missing article list, got %v", err)
	}
}

func TestSearchEmptyArticleList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalArticles": 0, "articles": []}`))
	}))
	defer server.Close()

	client, err := New(server.URL, "test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	articles, err := client.Search(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("expected empty list, got %d articles", len(articles))
	}
}
