package inmemory

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/dapur-gratis/resep-api/repository/blob"
)

func Test_UploadGetDelete(t *testing.T) {
	ctx := context.Background()
	h := New("https://cdn.example.com")

	key := blob.GenerateKey("soto.jpg", "recipe")
	payload := []byte("not really a jpg")

	data, errUC := h.Upload(ctx, key, "image/jpeg", bytes.NewReader(payload), int64(len(payload)))
	if errUC != nil {
		t.Fatalf("Upload() error = %v", errUC.Err())
	}
	if data.PublicURL != h.URLFor(key) {
		t.Errorf("Upload() PublicURL = %v, want %v", data.PublicURL, h.URLFor(key))
	}
	if data.ContentSize != int64(len(payload)) {
		t.Errorf("Upload() ContentSize = %v, want %v", data.ContentSize, len(payload))
	}

	reader, meta, errUC := h.Get(ctx, key)
	if errUC != nil {
		t.Fatalf("Get() error = %v", errUC.Err())
	}
	got, _ := io.ReadAll(reader)
	reader.Close()
	if !bytes.Equal(got, payload) {
		t.Errorf("Get() = %q, want %q", got, payload)
	}
	if meta.ContentType != "image/jpeg" {
		t.Errorf("Get() ContentType = %v, want image/jpeg", meta.ContentType)
	}

	if errUC := h.Delete(ctx, key); errUC != nil {
		t.Fatalf("Delete() error = %v", errUC.Err())
	}
	if h.Exists(key) {
		t.Errorf("Delete() left object at %v", key)
	}
}

func Test_Delete_idempotent(t *testing.T) {
	ctx := context.Background()
	h := New("https://cdn.example.com")

	key := "recipe/already-gone.png"
	if errUC := h.Delete(ctx, key); errUC != nil {
		t.Fatalf("Delete() of absent key error = %v", errUC.Err())
	}
	if errUC := h.Delete(ctx, key); errUC != nil {
		t.Fatalf("second Delete() of absent key error = %v", errUC.Err())
	}
}

func Test_KeyFromURL_roundTrip(t *testing.T) {
	h := New("https://cdn.example.com/")

	tests := []struct {
		name string
		key  string
	}{
		{name: "partitioned key", key: blob.GenerateKey("a.png", "recipe")},
		{name: "bare key", key: blob.GenerateKey("b", "")},
		{name: "nested key", key: "profile/2025/img.webp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.KeyFromURL(h.URLFor(tt.key)); got != tt.key {
				t.Errorf("KeyFromURL(URLFor(%v)) = %v", tt.key, got)
			}
		})
	}
}

func Test_KeyFromURL_foreign(t *testing.T) {
	h := New("https://cdn.example.com")

	tests := []struct {
		name string
		url  string
	}{
		{name: "other host", url: "https://other.example.org/recipe/x.png"},
		{name: "not a url", url: "garbage"},
		{name: "empty", url: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.KeyFromURL(tt.url); got != "" {
				t.Errorf("KeyFromURL(%v) = %v, want empty", tt.url, got)
			}
		})
	}
}
