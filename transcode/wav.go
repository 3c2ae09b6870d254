package transcode

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// ReadWAV decodes a 16-bit PCM WAV file into float64 samples in [-1, 1]
// and returns the samples with the file's sample rate.
func ReadWAV(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open wav file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid wav file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read pcm data: %w", err)
	}

	samples := make([]float64, len(buf.Data))
	for i, sample := range buf.Data {
		samples[i] = float64(sample) / 32768.0
	}

	return samples, int(decoder.SampleRate), nil
}
