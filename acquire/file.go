package acquire

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// AllowedExtensions lists the upload formats the pipeline accepts
var AllowedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".m4a":  true,
	".flac": true,
}

// ValidateUpload checks an uploaded file before any temp files or
// subprocesses are created for it: extension whitelist, size ceiling and a
// content sniff that must agree the file is audio. originalName carries the
// user-facing filename; path is where the bytes actually live.
func ValidateUpload(path, originalName string, maxBytes int64) error {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !AllowedExtensions[ext] {
		return &ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("unsupported extension %q (allowed: mp3, wav, ogg, m4a, flac)", ext),
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Field: "file", Message: "file not readable: " + err.Error()}
	}
	if info.Size() == 0 {
		return &ValidationError{Field: "file", Message: "file is empty"}
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return &ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("file size %d exceeds limit %d", info.Size(), maxBytes),
		}
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return &ValidationError{Field: "file", Message: "content sniff failed: " + err.Error()}
	}

	// m4a files sniff as MP4 containers
	if !strings.HasPrefix(mtype.String(), "audio/") && !mtype.Is("video/mp4") {
		return &ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("content type %s is not audio", mtype.String()),
		}
	}

	return nil
}
