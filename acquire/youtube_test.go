package acquire

import (
	"errors"
	"testing"
)

func TestExtractVideoIDShapes(t *testing.T) {
	const want = "dQw4w9WgXcQ"

	urls := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?si=abc",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://www.youtube.com/v/dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
		"http://youtube.com/watch?v=dQw4w9WgXcQ",
	}

	for _, u := range urls {
		got, err := ExtractVideoID(u)
		if err != nil {
			t.Errorf("ExtractVideoID(%q) failed: %v", u, err)
			continue
		}
		if got != want {
			t.Errorf("ExtractVideoID(%q) = %q, want %q", u, got, want)
		}
	}
}

func TestExtractVideoIDInvalid(t *testing.T) {
	urls := []string{
		"https://www.youtube.com/watch",
		"https://www.youtube.com/watch?v=short",
		"https://youtu.be/",
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/playlist?list=PLx",
		"https://youtube.com.evil.example/watch?v=dQw4w9WgXcQ",
		"https://notyoutube.com/watch?v=dQw4w9WgXcQ",
		"not a url at all ://",
	}

	for _, u := range urls {
		_, err := ExtractVideoID(u)
		if err == nil {
			t.Errorf("ExtractVideoID(%q) succeeded, want ValidationError", u)
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("ExtractVideoID(%q) returned %T, want *ValidationError", u, err)
		}
	}
}

func TestIsYouTubeURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"https://music.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtube.com:443/watch?v=dQw4w9WgXcQ", true},
		{"https://youtube.com.evil.example/watch?v=dQw4w9WgXcQ", false},
		{"https://notyoutube.com/watch?v=dQw4w9WgXcQ", false},
		{"https://vimeo.com/12345", false},
		{"/local/file.mp3", false},
	}

	for _, tt := range tests {
		if got := IsYouTubeURL(tt.url); got != tt.want {
			t.Errorf("IsYouTubeURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
