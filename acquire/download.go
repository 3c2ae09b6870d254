package acquire

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/chordsense/chordsense/logging"
)

// Strategy is one way of fetching a video's audio. Strategies are tried in
// order; each returns the path of the downloaded audio file.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, videoID, destDir string) (string, error)
}

// Downloader runs an ordered strategy chain until one succeeds
type Downloader struct {
	strategies []Strategy
	logger     logging.Logger
}

// NewDownloader creates a downloader with the default strategy order:
// the go-ytdlp library first, then a yt-dlp subprocess, then a yt-dlp
// subprocess with the web player client forced.
func NewDownloader(ytdlpPath string) *Downloader {
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	return NewDownloaderWithStrategies(
		&LibraryStrategy{},
		&SubprocessStrategy{Path: ytdlpPath},
		&WebClientStrategy{Path: ytdlpPath},
	)
}

// NewDownloaderWithStrategies creates a downloader over an explicit chain
func NewDownloaderWithStrategies(strategies ...Strategy) *Downloader {
	return &Downloader{
		strategies: strategies,
		logger:     logging.WithFields(logging.Fields{"component": "downloader"}),
	}
}

// Download tries each strategy in order and returns the first success.
// When every strategy fails the returned AcquisitionError carries each
// strategy's failure message.
func (d *Downloader) Download(ctx context.Context, videoID, destDir string) (string, error) {
	var failures []StrategyFailure

	for _, strategy := range d.strategies {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		path, err := strategy.Fetch(ctx, videoID, destDir)
		if err == nil {
			d.logger.Info("download succeeded", logging.Fields{
				"video_id": videoID,
				"strategy": strategy.Name(),
			})
			return path, nil
		}

		d.logger.Warn("download strategy failed", logging.Fields{
			"video_id": videoID,
			"strategy": strategy.Name(),
			"error":    err.Error(),
		})
		failures = append(failures, StrategyFailure{
			Strategy: strategy.Name(),
			Message:  err.Error(),
		})
	}

	return "", &AcquisitionError{VideoID: videoID, Failures: failures}
}

// LibraryStrategy downloads through the go-ytdlp wrapper
type LibraryStrategy struct{}

func (s *LibraryStrategy) Name() string { return "go-ytdlp" }

func (s *LibraryStrategy) Fetch(ctx context.Context, videoID, destDir string) (string, error) {
	outputPath := filepath.Join(destDir, "audio.%(ext)s")

	dl := ytdlp.New().
		NoPlaylist().
		Format("bestaudio").
		ExtractAudio().
		AudioFormat("m4a").
		Output(outputPath)

	if _, err := dl.Run(ctx, "https://www.youtube.com/watch?v="+videoID); err != nil {
		return "", fmt.Errorf("go-ytdlp run failed: %w", err)
	}

	return findDownloadedAudio(destDir)
}

// SubprocessStrategy shells out to a yt-dlp binary for bestaudio
type SubprocessStrategy struct {
	Path string
}

func (s *SubprocessStrategy) Name() string { return "yt-dlp" }

func (s *SubprocessStrategy) Fetch(ctx context.Context, videoID, destDir string) (string, error) {
	return runYtdlp(ctx, s.Path, videoID, destDir,
		"--no-playlist",
		"--no-warnings",
		"-f", "bestaudio",
	)
}

// WebClientStrategy forces the web player client. It survives signature
// extraction breakage that takes the default clients down.
type WebClientStrategy struct {
	Path string
}

func (s *WebClientStrategy) Name() string { return "yt-dlp-web-client" }

func (s *WebClientStrategy) Fetch(ctx context.Context, videoID, destDir string) (string, error) {
	return runYtdlp(ctx, s.Path, videoID, destDir,
		"--no-playlist",
		"--no-warnings",
		"-f", "bestaudio/best",
		"--extractor-args", "youtube:player_client=web",
	)
}

func runYtdlp(ctx context.Context, path, videoID, destDir string, extraArgs ...string) (string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	args := append(extraArgs,
		"-o", filepath.Join(destDir, "audio.%(ext)s"),
		"https://www.youtube.com/watch?v="+videoID,
	)

	cmd := exec.CommandContext(cmdCtx, path, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("yt-dlp failed: %w, stderr: %s", err, stderr.String())
	}

	return findDownloadedAudio(destDir)
}

// findDownloadedAudio locates the audio.* file a strategy wrote
func findDownloadedAudio(destDir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(destDir, "audio.*"))
	if err != nil {
		return "", err
	}

	for _, match := range matches {
		info, err := os.Stat(match)
		if err == nil && info.Size() > 0 {
			return match, nil
		}
	}

	return "", fmt.Errorf("no audio file produced in %s", destDir)
}
