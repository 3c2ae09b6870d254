package acquire

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeWAVFixture writes a small valid 16-bit mono WAV file
func writeWAVFixture(t *testing.T, path string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create fixture: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, 22050, 16, 1, 1)

	data := make([]int, 2205)
	for i := range data {
		data[i] = int(8000 * math.Sin(2*math.Pi*440*float64(i)/22050))
	}

	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: 1, SampleRate: 22050},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to close encoder: %v", err)
	}
}

func TestValidateUploadAcceptsWAV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.wav")
	writeWAVFixture(t, path)

	if err := ValidateUpload(path, "song.wav", 50<<20); err != nil {
		t.Fatalf("valid wav rejected: %v", err)
	}
}

func TestValidateUploadRejectsExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := ValidateUpload(path, "notes.txt", 50<<20)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError for bad extension", err)
	}
}

func TestValidateUploadRejectsOversize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.wav")
	writeWAVFixture(t, path)

	err := ValidateUpload(path, "song.wav", 100) // 100-byte ceiling
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError for oversize file", err)
	}
}

func TestValidateUploadRejectsNonAudioContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake.mp3")
	// Plain text wearing an audio extension
	if err := os.WriteFile(path, []byte("definitely not audio data, just text"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := ValidateUpload(path, "fake.mp3", 50<<20)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError for non-audio content", err)
	}
}

func TestValidateUploadRejectsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.mp3")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	err := ValidateUpload(path, "empty.mp3", 50<<20)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError for empty file", err)
	}
}

func TestValidateUploadMissingFile(t *testing.T) {
	err := ValidateUpload(filepath.Join(t.TempDir(), "gone.wav"), "gone.wav", 50<<20)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError for missing file", err)
	}
}
