package tab

import (
	"github.com/chordsense/chordsense/chroma"
	"github.com/chordsense/chordsense/logging"
)

// Position is one fretting on one string.
// Strings are numbered 1 (high E) to 6 (low E); fret 0 is an open string.
type Position struct {
	String int `json:"string"`
	Fret   int `json:"fret"`
}

// Note is a timed chord fretting event
type Note struct {
	Chord     string     `json:"chord"`
	Positions []Position `json:"positions"`
	StartTime float64    `json:"start_time"`
	Duration  float64    `json:"duration"`
}

// Tablature is a playable rendering of a chord sequence
type Tablature struct {
	Tuning []string `json:"tuning"`
	Capo   int      `json:"capo"`
	Notes  []Note   `json:"notes"`
}

// StandardTuning is EADGBE, low string first
var StandardTuning = []string{"E", "A", "D", "G", "B", "E"}

// openPositions maps chord labels to common open-position fingerings.
// Only strings that are played appear; muted strings are omitted.
var openPositions = map[string][]Position{
	"C":     {{5, 3}, {4, 2}, {3, 0}, {2, 1}, {1, 0}},
	"D":     {{4, 0}, {3, 2}, {2, 3}, {1, 2}},
	"E":     {{6, 0}, {5, 2}, {4, 2}, {3, 1}, {2, 0}, {1, 0}},
	"F":     {{4, 3}, {3, 2}, {2, 1}, {1, 1}},
	"G":     {{6, 3}, {5, 2}, {4, 0}, {3, 0}, {2, 0}, {1, 3}},
	"A":     {{5, 0}, {4, 2}, {3, 2}, {2, 2}, {1, 0}},
	"B":     {{5, 2}, {4, 4}, {3, 4}, {2, 4}, {1, 2}},
	"Cm":    {{5, 3}, {4, 5}, {3, 5}, {2, 4}, {1, 3}},
	"Dm":    {{4, 0}, {3, 2}, {2, 3}, {1, 1}},
	"Em":    {{6, 0}, {5, 2}, {4, 2}, {3, 0}, {2, 0}, {1, 0}},
	"Fm":    {{4, 3}, {3, 1}, {2, 1}, {1, 1}},
	"Gm":    {{6, 3}, {5, 5}, {4, 5}, {3, 3}, {2, 3}, {1, 3}},
	"Am":    {{5, 0}, {4, 2}, {3, 2}, {2, 1}, {1, 0}},
	"Bm":    {{5, 2}, {4, 4}, {3, 4}, {2, 3}, {1, 2}},
	"C7":    {{5, 3}, {4, 2}, {3, 3}, {2, 1}, {1, 0}},
	"D7":    {{4, 0}, {3, 2}, {2, 1}, {1, 2}},
	"E7":    {{6, 0}, {5, 2}, {4, 0}, {3, 1}, {2, 0}, {1, 0}},
	"G7":    {{6, 3}, {5, 2}, {4, 0}, {3, 0}, {2, 0}, {1, 1}},
	"A7":    {{5, 0}, {4, 2}, {3, 0}, {2, 2}, {1, 0}},
	"B7":    {{5, 2}, {4, 1}, {3, 2}, {2, 0}, {1, 2}},
	"Cmaj7": {{5, 3}, {4, 2}, {3, 0}, {2, 0}, {1, 0}},
	"Dmaj7": {{4, 0}, {3, 2}, {2, 2}, {1, 2}},
	"Fmaj7": {{4, 3}, {3, 2}, {2, 1}, {1, 0}},
	"Gmaj7": {{6, 3}, {5, 2}, {4, 0}, {3, 0}, {2, 0}, {1, 2}},
	"Amaj7": {{5, 0}, {4, 2}, {3, 1}, {2, 2}, {1, 0}},
	"Dm7":   {{4, 0}, {3, 2}, {2, 1}, {1, 1}},
	"Em7":   {{6, 0}, {5, 2}, {4, 0}, {3, 0}, {2, 0}, {1, 0}},
	"Am7":   {{5, 0}, {4, 2}, {3, 0}, {2, 1}, {1, 0}},
	"Dsus2": {{4, 0}, {3, 2}, {2, 3}, {1, 0}},
	"Asus2": {{5, 0}, {4, 2}, {3, 2}, {2, 0}, {1, 0}},
	"Dsus4": {{4, 0}, {3, 2}, {2, 3}, {1, 3}},
	"Esus4": {{6, 0}, {5, 2}, {4, 2}, {3, 2}, {2, 0}, {1, 0}},
	"Asus4": {{5, 0}, {4, 2}, {3, 2}, {2, 3}, {1, 0}},
}

// Synthesizer renders detected chords as guitar tablature
type Synthesizer struct {
	logger logging.Logger
}

// NewSynthesizer creates a tablature synthesizer for standard tuning
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{
		logger: logging.WithFields(logging.Fields{"component": "tab_synthesizer"}),
	}
}

// Synthesize emits one fretting event per chord occurrence. Chords with no
// open-position fingering get an event with empty positions; synthesis
// never fails.
func (s *Synthesizer) Synthesize(detections []chroma.Detection) Tablature {
	notes := make([]Note, 0, len(detections))
	unknown := 0

	for _, det := range detections {
		positions, ok := openPositions[det.Chord]
		if !ok {
			unknown++
		}

		notes = append(notes, Note{
			Chord:     det.Chord,
			Positions: positions,
			StartTime: det.Start,
			Duration:  det.End - det.Start,
		})
	}

	if unknown > 0 {
		s.logger.Debug("chords without open-position fingerings", logging.Fields{
			"count": unknown,
			"total": len(detections),
		})
	}

	return Tablature{
		Tuning: StandardTuning,
		Capo:   0,
		Notes:  notes,
	}
}

// Fingering returns the open-position fretting for a chord label, if known
func Fingering(chord string) ([]Position, bool) {
	positions, ok := openPositions[chord]
	return positions, ok
}
