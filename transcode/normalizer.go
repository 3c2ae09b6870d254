package transcode

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chordsense/chordsense/logging"
)

// ConversionError marks a fatal normalization failure. The pipeline never
// retries a conversion error.
type ConversionError struct {
	Stage string // "normalize", "probe", "sample"
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed during %s: %v", e.Stage, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Config holds normalizer configuration
type Config struct {
	FFmpegPath       string        `json:"ffmpeg_path"`        // Path to ffmpeg binary
	FFprobePath      string        `json:"ffprobe_path"`       // Path to ffprobe binary
	SampleRate       int           `json:"sample_rate"`        // Canonical analysis rate
	Timeout          time.Duration `json:"timeout"`            // Timeout for subprocess calls
	SampleSeconds    float64       `json:"sample_seconds"`     // Analysis window length
	MaxOffsetSeconds float64       `json:"max_offset_seconds"` // Cap on the window start offset
}

// DefaultConfig returns default normalizer configuration
func DefaultConfig() *Config {
	return &Config{
		FFmpegPath:       "ffmpeg",  // Assume in PATH
		FFprobePath:      "ffprobe", // Assume in PATH
		SampleRate:       22050,
		Timeout:          60 * time.Second,
		SampleSeconds:    30.0,
		MaxOffsetSeconds: 60.0,
	}
}

// Normalizer converts arbitrary audio inputs into the canonical analysis
// format: 16-bit mono PCM WAV at the configured sample rate.
type Normalizer struct {
	config *Config
	logger logging.Logger
}

// NewNormalizer creates a normalizer and verifies the ffmpeg/ffprobe binaries
// are present. Missing tools are a fatal configuration error, never retried.
func NewNormalizer(config *Config) (*Normalizer, error) {
	if config == nil {
		config = DefaultConfig()
	}

	n := &Normalizer{
		config: config,
		logger: logging.WithFields(logging.Fields{"component": "normalizer"}),
	}

	if err := n.CheckTools(); err != nil {
		return nil, err
	}

	return n, nil
}

// CheckTools verifies that ffmpeg and ffprobe are runnable
func (n *Normalizer) CheckTools() error {
	cmd := exec.Command(n.config.FFmpegPath, "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg not found at %s: %w", n.config.FFmpegPath, err)
	}

	cmd = exec.Command(n.config.FFprobePath, "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffprobe not found at %s: %w", n.config.FFprobePath, err)
	}

	return nil
}

// Normalize converts an input file into canonical WAV inside destDir and
// returns the output path. Any ffmpeg failure or empty output is a
// ConversionError.
func (n *Normalizer) Normalize(ctx context.Context, inputPath, destDir string) (string, error) {
	outputPath := filepath.Join(destDir, "normalized.wav")

	args := []string{
		"-y",
		"-i", inputPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", strconv.Itoa(n.config.SampleRate),
		"-v", "error",
		outputPath,
	}

	cmdCtx, cancel := context.WithTimeout(ctx, n.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, n.config.FFmpegPath, args...)

	n.logger.Debug("Running ffmpeg normalize", logging.Fields{
		"input": inputPath,
		"args":  strings.Join(args, " "),
	})

	startTime := time.Now()
	if output, err := cmd.CombinedOutput(); err != nil {
		n.logger.Error(err, "Ffmpeg normalize failed", logging.Fields{
			"stderr": string(output),
		})
		return "", &ConversionError{
			Stage: "normalize",
			Err:   fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, string(output)),
		}
	}

	info, err := os.Stat(outputPath)
	if err != nil || info.Size() == 0 {
		return "", &ConversionError{
			Stage: "normalize",
			Err:   fmt.Errorf("ffmpeg produced no output for %s", inputPath),
		}
	}

	n.logger.Debug("Normalize completed", logging.Fields{
		"output":       outputPath,
		"output_bytes": info.Size(),
		"convert_time": time.Since(startTime).Seconds(),
	})

	return outputPath, nil
}

// Duration measures the duration of an audio file in seconds with ffprobe.
// Caller-supplied durations are never trusted; this is the only source.
func (n *Normalizer) Duration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	}

	cmdCtx, cancel := context.WithTimeout(ctx, n.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, n.config.FFprobePath, args...)

	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			return 0, &ConversionError{
				Stage: "probe",
				Err:   fmt.Errorf("ffprobe failed: %w, stderr: %s", err, string(exitError.Stderr)),
			}
		}
		return 0, &ConversionError{Stage: "probe", Err: fmt.Errorf("ffprobe failed: %w", err)}
	}

	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}

	if err := json.Unmarshal(output, &probe); err != nil {
		return 0, &ConversionError{Stage: "probe", Err: fmt.Errorf("failed to parse ffprobe output: %w", err)}
	}

	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, &ConversionError{Stage: "probe", Err: fmt.Errorf("invalid duration %q: %w", probe.Format.Duration, err)}
	}

	return duration, nil
}

// ExtractSample cuts the bounded analysis window out of a normalized WAV and
// returns the path of the sample file. Audio shorter than the window is used
// whole.
func (n *Normalizer) ExtractSample(ctx context.Context, inputPath, destDir string, duration float64) (string, error) {
	outputPath := filepath.Join(destDir, "sample.wav")
	offset := SampleOffset(duration, n.config.SampleSeconds, n.config.MaxOffsetSeconds)

	args := []string{
		"-y",
		"-ss", fmt.Sprintf("%.2f", offset),
		"-i", inputPath,
		"-t", fmt.Sprintf("%.2f", n.config.SampleSeconds),
		"-acodec", "copy",
		"-v", "error",
		outputPath,
	}

	cmdCtx, cancel := context.WithTimeout(ctx, n.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, n.config.FFmpegPath, args...)

	n.logger.Debug("Extracting analysis sample", logging.Fields{
		"input":    inputPath,
		"offset":   offset,
		"duration": n.config.SampleSeconds,
	})

	if output, err := cmd.CombinedOutput(); err != nil {
		return "", &ConversionError{
			Stage: "sample",
			Err:   fmt.Errorf("ffmpeg sample extraction failed: %w, stderr: %s", err, string(output)),
		}
	}

	info, err := os.Stat(outputPath)
	if err != nil || info.Size() == 0 {
		return "", &ConversionError{
			Stage: "sample",
			Err:   fmt.Errorf("sample extraction produced no output for %s", inputPath),
		}
	}

	return outputPath, nil
}

// SampleOffset picks where the analysis window starts: biased toward the
// midpoint of the track, capped so very long tracks still sample early
// material. Audio shorter than the window starts at zero.
func SampleOffset(duration, sampleSeconds, maxOffset float64) float64 {
	if duration <= sampleSeconds {
		return 0
	}

	offset := (duration - sampleSeconds) / 2
	if offset > maxOffset {
		offset = maxOffset
	}
	return offset
}
