package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestHTTPImageFetcher_StatusHandling(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		expectError   bool
		errorContains string
	}{
		{
			name:        "Success",
			status:      200,
			expectError: false,
		},
		{
			name:          "4xx client error",
			status:        404,
			expectError:   true,
			errorContains: "status code 404",
		},
		{
			name:          "5xx is not retried",
			status:        503,
			expectError:   true,
			errorContains: "status code 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requestCount := 0
			data := pngBytes(t, 4, 3)

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requestCount++
				if tt.status == 200 {
					w.Header().Set("Content-Type", "image/png")
					w.Write(data)
					return
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(fmt.Sprintf("Error %d", tt.status)))
			}))
			defer server.Close()

			fetcher := NewHTTPImageFetcher(5 * time.Second)
			img, err := fetcher.FetchImage(context.Background(), server.URL)

			if requestCount != 1 {
				t.Errorf("Expected exactly 1 request, got %d", requestCount)
			}

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error, but got none")
				} else if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("Expected error to contain '%s', got: %s", tt.errorContains, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got: %s", err.Error())
			}
			if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
				t.Errorf("Unexpected bounds %v", img.Bounds())
			}
		})
	}
}

func TestHTTPImageFetcher_UndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not an image"))
	}))
	defer server.Close()

	_, err := NewHTTPImageFetcher(5*time.Second).FetchImage(context.Background(), server.URL)
	if err == nil || !strings.Contains(err.Error(), "decode") {
		t.Errorf("Expected decode error, got %v", err)
	}
}

func TestHTTPImageFetcher_ContextCancelled(t *testing.T) {
	data := pngBytes(t, 1, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewHTTPImageFetcher(5*time.Second).FetchImage(ctx, server.URL); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
