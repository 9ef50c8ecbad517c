package images

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetch(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 64)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(payload)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tests := []struct {
		name     string
		path     string
		maxBytes int64
		wantErr  bool
		tooLarge bool
	}{
		{name: "within limit", path: "/ok.png", maxBytes: 64},
		{name: "no limit", path: "/ok.png"},
		{name: "over limit", path: "/ok.png", maxBytes: 63, wantErr: true, tooLarge: true},
		{name: "not found", path: "/missing.png", maxBytes: 64, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := NewFetcher(tt.maxBytes).Fetch(context.Background(), srv.URL+tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if tt.tooLarge && !errors.Is(err, ErrTooLarge) {
					t.Errorf("Expected ErrTooLarge, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			if !bytes.Equal(data, payload) {
				t.Errorf("Expected %d bytes, got %d", len(payload), len(data))
			}
		})
	}
}
