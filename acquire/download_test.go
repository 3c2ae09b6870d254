package acquire

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stubStrategy fails or writes a fake audio file, by configuration
type stubStrategy struct {
	name string
	fail bool
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Fetch(ctx context.Context, videoID, destDir string) (string, error) {
	if s.fail {
		return "", fmt.Errorf("%s is broken", s.name)
	}
	path := filepath.Join(destDir, "audio.m4a")
	if err := os.WriteFile(path, []byte("fake audio"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func TestDownloadFirstStrategyWins(t *testing.T) {
	d := NewDownloaderWithStrategies(
		&stubStrategy{name: "primary"},
		&stubStrategy{name: "secondary", fail: true},
	)

	path, err := d.Download(context.Background(), "dQw4w9WgXcQ", t.TempDir())
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if path == "" {
		t.Fatal("no path returned")
	}
}

func TestDownloadFallsThrough(t *testing.T) {
	d := NewDownloaderWithStrategies(
		&stubStrategy{name: "primary", fail: true},
		&stubStrategy{name: "secondary", fail: true},
		&stubStrategy{name: "tertiary"},
	)

	path, err := d.Download(context.Background(), "dQw4w9WgXcQ", t.TempDir())
	if err != nil {
		t.Fatalf("Download failed despite working fallback: %v", err)
	}
	if filepath.Base(path) != "audio.m4a" {
		t.Errorf("unexpected path %s", path)
	}
}

func TestDownloadAllStrategiesFail(t *testing.T) {
	d := NewDownloaderWithStrategies(
		&stubStrategy{name: "primary", fail: true},
		&stubStrategy{name: "secondary", fail: true},
	)

	_, err := d.Download(context.Background(), "dQw4w9WgXcQ", t.TempDir())
	if err == nil {
		t.Fatal("expected AcquisitionError")
	}

	var acqErr *AcquisitionError
	if !errors.As(err, &acqErr) {
		t.Fatalf("got %T, want *AcquisitionError", err)
	}
	if len(acqErr.Failures) != 2 {
		t.Fatalf("got %d failures, want 2 (one per strategy)", len(acqErr.Failures))
	}
	for _, f := range acqErr.Failures {
		if !strings.Contains(err.Error(), f.Strategy) {
			t.Errorf("error message missing strategy %q: %s", f.Strategy, err.Error())
		}
		if f.Message == "" {
			t.Errorf("strategy %q has empty failure message", f.Strategy)
		}
	}
}

func TestDownloadHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDownloaderWithStrategies(&stubStrategy{name: "primary"})
	_, err := d.Download(ctx, "dQw4w9WgXcQ", t.TempDir())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
