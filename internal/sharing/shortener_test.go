package sharing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestShortenerSuccess(t *testing.T) {
	const longURL = "https://bestia.app/join?g=abc123"

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", req.Method)
		}
		body, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		var payload map[string]string
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		if payload["url"] != longURL {
			t.Fatalf("unexpected url %q", payload["url"])
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"short_url":"https://bst.ia/x9"}`)),
			Header:     http.Header{},
		}, nil
	})

	shortener := NewShortener("http://shortener.test/shorten", WithHTTPClient(&http.Client{Transport: rt}))
	got := shortener.Shorten(context.Background(), longURL)
	if got != "https://bst.ia/x9" {
		t.Fatalf("unexpected short url %q", got)
	}
}

func TestShortenerFallsBackOnFailure(t *testing.T) {
	const longURL = "https://bestia.app/join?g=abc123"

	cases := map[string]roundTripFunc{
		"http error": func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusBadGateway,
				Body:       io.NopCloser(strings.NewReader("boom")),
				Header:     http.Header{},
			}, nil
		},
		"bad body": func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader("not json")),
				Header:     http.Header{},
			}, nil
		},
		"empty short url": func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(`{"short_url":""}`)),
				Header:     http.Header{},
			}, nil
		},
	}

	for name, rt := range cases {
		t.Run(name, func(t *testing.T) {
			shortener := NewShortener("http://shortener.test/shorten", WithHTTPClient(&http.Client{Transport: rt}))
			if got := shortener.Shorten(context.Background(), longURL); got != longURL {
				t.Fatalf("expected fallback to long url, got %q", got)
			}
		})
	}
}

func TestShortenerDisabled(t *testing.T) {
	if shortener := NewShortener("   "); shortener != nil {
		t.Fatal("expected nil shortener for blank endpoint")
	}

	var shortener *Shortener
	const longURL = "https://bestia.app/join?g=abc"
	if got := shortener.Shorten(context.Background(), longURL); got != longURL {
		t.Fatalf("nil shortener should return the long url, got %q", got)
	}
}
