package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/jengatower/pkg/cache"
)

func TestNewClient(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute)
	defer c.Close()

	headers := map[string]string{"Authorization": "Bearer token"}
	client := NewClient(nil, c, headers)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.cache != c {
		t.Error("NewClient() cache not set correctly")
	}
	if client.headers["Authorization"] != "Bearer token" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestNewClientNilCache(t *testing.T) {
	client := NewClient(nil, nil, nil)
	if _, ok := client.cache.(cache.NullCache); !ok {
		t.Errorf("nil cache should fall back to NullCache, got %T", client.cache)
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "jengatower/") {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client := NewClient(server.Client(), nil, nil)

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"echo": in["name"]})
	}))
	defer server.Close()

	client := NewClient(server.Client(), nil, map[string]string{"X-Default": "default"})

	var out map[string]string
	if err := client.PostJSON(context.Background(), server.URL, map[string]string{"name": "lodash"}, &out); err != nil {
		t.Fatalf("PostJSON() error: %v", err)
	}
	if out["echo"] != "lodash" {
		t.Errorf("PostJSON() echo = %q", out["echo"])
	}
}

func TestClientHeadersOverrideDefaults(t *testing.T) {
	var receivedHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedHeader = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), nil, map[string]string{"User-Agent": "custom"})
	if _, err := client.GetText(context.Background(), server.URL); err != nil {
		t.Fatalf("GetText() error: %v", err)
	}
	if receivedHeader != "custom" {
		t.Errorf("header = %q, want %q", receivedHeader, "custom")
	}
}

func TestClientGetText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain text response"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), nil, nil)

	text, err := client.GetText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetText() error: %v", err)
	}
	if text != "plain text response" {
		t.Errorf("GetText() = %q, want %q", text, "plain text response")
	}
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{
			name:    "404",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) },
			check:   func(err error) bool { return errors.Is(err, ErrNotFound) },
		},
		{
			name:    "500",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			check: func(err error) bool {
				var se *StatusError
				return errors.As(err, &se) && se.Code == 500
			},
		},
		{
			name:    "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("<html>")) },
			check:   func(err error) bool { return errors.Is(err, ErrDecode) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(server.Client(), nil, nil)
			var resp map[string]string
			err := client.Get(context.Background(), server.URL, &resp)
			if !tt.check(err) {
				t.Errorf("Get() error = %v (%T)", err, err)
			}
		})
	}
}

func TestClientNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(nil, nil, nil)
	_, err := client.GetText(context.Background(), url)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("GetText() on closed server = %v, want ErrNetwork", err)
	}
}

func TestClientCached(t *testing.T) {
	ctx := context.Background()
	client := NewClient(nil, cache.NewMemoryCache(time.Minute), nil)

	type testData struct {
		Value string `json:"value"`
	}

	fetchCount := 0
	fetch := func(v *testData) func() error {
		return func() error {
			fetchCount++
			v.Value = "fetched"
			return nil
		}
	}

	var first testData
	hit, err := client.Cached(ctx, "advisory", "k", time.Hour, false, &first, fetch(&first))
	if err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if hit {
		t.Error("first call should miss")
	}

	var second testData
	hit, err = client.Cached(ctx, "advisory", "k", time.Hour, false, &second, fetch(&second))
	if err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if !hit || second.Value != "fetched" {
		t.Errorf("second call: hit %v, value %q", hit, second.Value)
	}
	if fetchCount != 1 {
		t.Errorf("fetch count = %d, want 1", fetchCount)
	}
}

func TestClientCachedRefresh(t *testing.T) {
	ctx := context.Background()
	client := NewClient(nil, cache.NewMemoryCache(time.Minute), nil)

	fetchCount := 0
	var value string
	fetch := func() error {
		fetchCount++
		value = "fetched"
		return nil
	}

	for i := 0; i < 2; i++ {
		if _, err := client.Cached(ctx, "advisory", "k", time.Hour, true, &value, fetch); err != nil {
			t.Fatalf("Cached() error: %v", err)
		}
	}
	if fetchCount != 2 {
		t.Errorf("fetch count = %d, want 2", fetchCount)
	}
}

func TestClientCachedFetchErrorNotStored(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(time.Minute)
	client := NewClient(nil, c, nil)

	var value string
	_, err := client.Cached(ctx, "advisory", "k", time.Hour, false, &value, func() error {
		return ErrNetwork
	})
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Cached() error = %v, want ErrNetwork", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("failed fetch must not be cached")
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		wantErr  bool
		wantType error
	}{
		{name: "200 OK", code: 200},
		{name: "204 No Content", code: 204},
		{name: "404 Not Found", code: 404, wantErr: true, wantType: ErrNotFound},
		{name: "400 Bad Request", code: 400, wantErr: true},
		{name: "429 Too Many Requests", code: 429, wantErr: true},
		{name: "503 Service Unavailable", code: 503, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkStatus(tt.code)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("checkStatus() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("checkStatus() should return error")
			}
			if tt.wantType != nil && !errors.Is(err, tt.wantType) {
				t.Errorf("checkStatus() error = %v, want %v", err, tt.wantType)
			}
			if tt.wantType == nil {
				var se *StatusError
				if !errors.As(err, &se) || se.Code != tt.code {
					t.Errorf("checkStatus() error = %v, want StatusError{%d}", err, tt.code)
				}
			}
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient()
	if client == nil {
		t.Fatal("NewHTTPClient() returned nil")
	}
	if client.Timeout != httpTimeout {
		t.Errorf("Timeout = %v, want %v", client.Timeout, httpTimeout)
	}
}
