package storage

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestBuildLocator(t *testing.T) {
	at := time.UnixMilli(1714412345678)

	locator := BuildLocator("/uploads", "Contract  2026 final.pdf", at)
	want := "/uploads/1714412345678-Contract_2026_final.pdf"
	if locator != want {
		t.Errorf("locator = %q, want %q", locator, want)
	}

	// Directory components in the suggested name are stripped
	locator = BuildLocator("/uploads", "../../etc/passwd", at)
	if strings.Contains(locator, "..") {
		t.Errorf("traversal survived: %q", locator)
	}
}

func TestStoreAndOpen(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	content := []byte("%PDF-1.4 test content")

	locator, err := store.Store(context.Background(), content, "Scholarship Contract.pdf")
	if err != nil {
		t.Fatalf("Store() error: %v", err)
	}
	if !strings.HasPrefix(locator, "/uploads/") {
		t.Errorf("locator = %q", locator)
	}
	if strings.Contains(locator, " ") {
		t.Errorf("locator contains whitespace: %q", locator)
	}

	got, err := store.Open(context.Background(), locator)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Error("content mismatch after round trip")
	}
}

func TestOpenRejectsForeignLocator(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	if _, err := store.Open(context.Background(), "/etc/passwd"); err == nil {
		t.Error("foreign locator accepted")
	}
}

func TestStoreHonorsContextCancellation(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Store(ctx, []byte("x"), "a.pdf"); err == nil {
		t.Error("cancelled context accepted")
	}
}
