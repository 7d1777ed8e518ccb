package synth

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIProviderSynthesizesAndCaches(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/v1/text-to-speech" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "secret" {
			t.Errorf("missing api key header")
		}
		w.Write(bytes.Repeat([]byte{0xff}, 2048))
	}))
	defer srv.Close()

	cache := NewCache(t.TempDir(), "/media/tts")
	p := NewAPIProvider(APIConfig{Name: "coqui", BaseURL: srv.URL, APIKey: "secret", ModelID: "coqui"}, cache)

	res, err := p.Synthesize(context.Background(), "Hey there!", "Ana Florence")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if res.Cached {
		t.Fatalf("first synthesis should not be a cache hit")
	}

	res, err = p.Synthesize(context.Background(), "Hey there!", "Ana Florence")
	if err != nil {
		t.Fatalf("second Synthesize() error = %v", err)
	}
	if !res.Cached {
		t.Fatalf("second synthesis should hit the cache")
	}
	if calls != 1 {
		t.Fatalf("backend calls = %d, want 1", calls)
	}
}

func TestAPIProviderClassifiesStatusCodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewAPIProvider(APIConfig{Name: "coqui", BaseURL: srv.URL}, NewCache(t.TempDir(), "/media/tts"))
	_, err := p.Synthesize(context.Background(), "hello", "Ana Florence")

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want ProviderError", err)
	}
	if perr.Status != http.StatusTooManyRequests || !perr.Retryable {
		t.Fatalf("unexpected classification: %+v", perr)
	}
}

func TestAPIProviderRejectsTruncatedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tiny"))
	}))
	defer srv.Close()

	p := NewAPIProvider(APIConfig{Name: "coqui", BaseURL: srv.URL}, NewCache(t.TempDir(), "/media/tts"))
	_, err := p.Synthesize(context.Background(), "hello", "Ana Florence")

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want ProviderError", err)
	}
	if perr.Retryable {
		t.Fatalf("truncated payload should not be retryable")
	}
}
