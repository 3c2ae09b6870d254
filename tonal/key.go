package tonal

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/chordsense/chordsense/chroma"
	"github.com/chordsense/chordsense/logging"
)

// KeyResult is the estimated key of a piece of audio
type KeyResult struct {
	Key         string   `json:"key"`   // e.g. "C", "F#"
	Scale       string   `json:"scale"` // "major" or "minor"
	Confidence  float64  `json:"confidence"`
	RelatedKeys []string `json:"related_keys,omitempty"`
}

// keyCandidate pairs one root/mode combination with its profile correlation
type keyCandidate struct {
	root        int
	scale       string
	correlation float64
}

// Krumhansl-Schmuckler profiles (empirically derived listener ratings)
var (
	majorProfile = []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	minorProfile = []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
)

// KeyEstimator estimates the key from chroma frames using profile correlation
type KeyEstimator struct {
	logger logging.Logger
}

// NewKeyEstimator creates a key estimator with Krumhansl-Schmuckler profiles
func NewKeyEstimator() *KeyEstimator {
	return &KeyEstimator{
		logger: logging.WithFields(logging.Fields{"component": "key_estimator"}),
	}
}

// Estimate correlates the mean chroma with all 24 rotated key profiles and
// returns the best match. This is a total function: degenerate input yields
// a zero-confidence empty result, never an error.
func (ke *KeyEstimator) Estimate(frames []chroma.Frame) KeyResult {
	if len(frames) == 0 {
		return KeyResult{}
	}

	mean := chroma.MeanChroma(frames)
	total := 0.0
	for _, energy := range mean {
		total += energy
	}
	if total <= 1e-10 {
		// Silence carries no tonal information
		return KeyResult{}
	}

	candidates := make([]keyCandidate, 0, 24)
	for root := 0; root < 12; root++ {
		candidates = append(candidates,
			keyCandidate{root, "major", correlateWithProfile(mean, majorProfile, root)},
			keyCandidate{root, "minor", correlateWithProfile(mean, minorProfile, root)},
		)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].correlation > candidates[j].correlation
	})

	best := candidates[0]
	confidence := best.correlation
	if confidence < 0 {
		confidence = 0
	}

	result := KeyResult{
		Key:         chroma.NoteNames[best.root],
		Scale:       best.scale,
		Confidence:  confidence,
		RelatedKeys: relatedKeys(best.root, best.scale),
	}

	ke.logger.Debug("key estimated", logging.Fields{
		"key":        result.Key,
		"scale":      result.Scale,
		"confidence": result.Confidence,
	})

	return result
}

// correlateWithProfile rotates a key profile to the given root and computes
// its Pearson correlation against the chroma vector
func correlateWithProfile(chromaVec, profile []float64, keyShift int) float64 {
	if len(chromaVec) != len(profile) {
		return 0.0
	}

	shifted := make([]float64, len(profile))
	for i := range profile {
		shifted[(i+keyShift)%len(profile)] = profile[i]
	}

	return stat.Correlation(chromaVec, shifted, nil)
}

// relatedKeys names the closely related keys of a tonal center:
// the relative major/minor, the dominant and the subdominant.
func relatedKeys(root int, scale string) []string {
	names := chroma.NoteNames

	if scale == "major" {
		return []string{
			names[(root+9)%12] + " minor", // relative minor
			names[(root+7)%12] + " major", // dominant
			names[(root+5)%12] + " major", // subdominant
		}
	}

	return []string{
		names[(root+3)%12] + " major", // relative major
		names[(root+7)%12] + " minor", // dominant
		names[(root+5)%12] + " minor", // subdominant
	}
}
