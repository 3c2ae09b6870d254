package acquire

import (
	"net/url"
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// hostMatches reports whether host is the given domain or one of its
// subdomains. A bare substring check would accept lookalike hosts such as
// youtube.com.evil.example.
func hostMatches(host, domain string) bool {
	host = strings.ToLower(host)
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// IsYouTubeURL reports whether the URL points at YouTube
func IsYouTubeURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	return hostMatches(u.Host, "youtube.com") || hostMatches(u.Host, "youtu.be")
}

// ExtractVideoID pulls the 11-character video id out of any of the common
// YouTube URL shapes: watch?v=, youtu.be/, /embed/, /v/ and /shorts/.
func ExtractVideoID(youtubeURL string) (string, error) {
	u, err := url.Parse(youtubeURL)
	if err != nil {
		return "", &ValidationError{Field: "url", Message: err.Error()}
	}

	var id string

	if hostMatches(u.Host, "youtu.be") {
		id = strings.TrimPrefix(u.Path, "/")
		if idx := strings.Index(id, "?"); idx != -1 {
			id = id[:idx]
		}
	} else if hostMatches(u.Host, "youtube.com") {
		switch {
		case strings.HasPrefix(u.Path, "/watch"):
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		case strings.HasPrefix(u.Path, "/v/"):
			id = strings.TrimPrefix(u.Path, "/v/")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		}
	} else {
		return "", &ValidationError{Field: "url", Message: "not a YouTube URL: " + youtubeURL}
	}

	if idx := strings.Index(id, "/"); idx != -1 {
		id = id[:idx]
	}

	if !videoIDPattern.MatchString(id) {
		return "", &ValidationError{Field: "url", Message: "unable to extract video ID from URL: " + youtubeURL}
	}

	return id, nil
}
