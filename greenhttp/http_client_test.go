package greenhttp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDoSendsUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		w.Write([]byte(r.Header.Get("User-Agent") + "|" + r.Header.Get("X-Extra")))
	}))
	defer server.Close()

	client := NewHTTPClient(Options{Timeout: 5 * time.Second, UserAgent: "test-agent"})
	defer client.Close()

	resp, err := client.Do(context.Background(), http.MethodGet, server.URL, map[string]string{"X-Extra": "yes"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "test-agent|yes" {
		t.Errorf("unexpected echo %q", body)
	}
}

func TestHeaderOverridesUserAgent(t *testing.T) {
	client := NewHTTPClient(Options{UserAgent: "default"})
	req, err := client.NewRequest(context.Background(), http.MethodGet, "http://example.com", map[string]string{"User-Agent": "custom"}, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if got := req.Header.Get("User-Agent"); got != "custom" {
		t.Errorf("expected custom user agent, got %q", got)
	}
}

func TestResponseHeaderTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	client := NewHTTPClient(Options{Timeout: 50 * time.Millisecond})
	defer client.Close()

	_, err := client.Do(context.Background(), http.MethodGet, server.URL, nil)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestNewHTTPClientHTTP3(t *testing.T) {
	client := NewHTTPClient(Options{Timeout: time.Second, HTTP3: true})
	if client.h3 == nil {
		t.Fatal("expected HTTP/3 transport")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
