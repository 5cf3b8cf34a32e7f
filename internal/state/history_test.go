package state

import (
	"errors"
	"imagefetch/internal/download/types"
	"path/filepath"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	Configure(filepath.Join(t.TempDir(), "history.db"))
	t.Cleanup(CloseDB)
}

func TestRecordAndListFetches(t *testing.T) {
	setupTestDB(t)

	ok := EntryFromResult(types.Result{
		URL:          "https://example.com/cat.png",
		Path:         filepath.Join("Fetched_Images", "cat.png"),
		Filename:     "cat.png",
		ContentType:  "image/png",
		DetectedType: "image/png",
		Size:         2048,
		Elapsed:      1500 * time.Millisecond,
	})
	ok.CreatedAt = time.Unix(1000, 0)

	failed := EntryFromResult(types.Result{
		URL:  "https://example.com/missing.png",
		Kind: types.KindHTTPStatus,
		Err:  errors.New("404 Client Error: Not Found"),
	})
	failed.CreatedAt = time.Unix(2000, 0)

	for _, e := range []FetchEntry{ok, failed} {
		if err := RecordFetch(e); err != nil {
			t.Fatalf("RecordFetch: %v", err)
		}
	}

	entries, err := ListFetches(0)
	if err != nil {
		t.Fatalf("ListFetches: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	newest := entries[0]
	if newest.URL != failed.URL || newest.Status != StatusFailed {
		t.Errorf("expected failed entry first, got %+v", newest)
	}
	if newest.ErrorKind != "http_status" {
		t.Errorf("expected error kind http_status, got %q", newest.ErrorKind)
	}

	oldest := entries[1]
	if oldest.Status != StatusCompleted || oldest.Size != 2048 {
		t.Errorf("unexpected completed entry %+v", oldest)
	}
	if !filepath.IsAbs(oldest.DestPath) {
		t.Errorf("expected absolute dest path, got %s", oldest.DestPath)
	}
	if oldest.TimeTaken != 1500*time.Millisecond {
		t.Errorf("expected 1.5s, got %v", oldest.TimeTaken)
	}

	limited, err := ListFetches(1)
	if err != nil {
		t.Fatalf("ListFetches(1): %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 entry with limit, got %d", len(limited))
	}
}

func TestListFetchesUnconfigured(t *testing.T) {
	CloseDB()
	if _, err := ListFetches(10); err == nil {
		t.Error("expected error when database is not configured")
	}
}
