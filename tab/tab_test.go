package tab

import (
	"testing"

	"github.com/chordsense/chordsense/chroma"
)

func TestSynthesizeBasicProgression(t *testing.T) {
	detections := []chroma.Detection{
		{Chord: "C", Start: 0, End: 2, Confidence: 0.9},
		{Chord: "G", Start: 2, End: 4, Confidence: 0.8},
		{Chord: "Am", Start: 4, End: 6, Confidence: 0.85},
	}

	result := NewSynthesizer().Synthesize(detections)

	if len(result.Tuning) != 6 || result.Tuning[0] != "E" || result.Tuning[5] != "E" {
		t.Errorf("tuning = %v, want standard EADGBE", result.Tuning)
	}
	if result.Capo != 0 {
		t.Errorf("capo = %d, want 0", result.Capo)
	}
	if len(result.Notes) != 3 {
		t.Fatalf("got %d notes, want 3 (one per chord occurrence)", len(result.Notes))
	}

	for i, note := range result.Notes {
		if note.Chord != detections[i].Chord {
			t.Errorf("note %d chord = %s, want %s", i, note.Chord, detections[i].Chord)
		}
		if note.StartTime != detections[i].Start {
			t.Errorf("note %d start = %f, want %f", i, note.StartTime, detections[i].Start)
		}
		if note.Duration != detections[i].End-detections[i].Start {
			t.Errorf("note %d duration = %f", i, note.Duration)
		}
		if len(note.Positions) == 0 {
			t.Errorf("note %d (%s) has no positions", i, note.Chord)
		}
	}
}

func TestSynthesizeUnknownChord(t *testing.T) {
	detections := []chroma.Detection{
		{Chord: "F#dim", Start: 0, End: 1, Confidence: 0.5},
	}

	result := NewSynthesizer().Synthesize(detections)
	if len(result.Notes) != 1 {
		t.Fatalf("got %d notes, want 1", len(result.Notes))
	}
	if len(result.Notes[0].Positions) != 0 {
		t.Errorf("unknown chord got positions %v, want none", result.Notes[0].Positions)
	}
}

func TestSynthesizeEmpty(t *testing.T) {
	result := NewSynthesizer().Synthesize(nil)
	if len(result.Notes) != 0 {
		t.Errorf("empty detections produced %d notes", len(result.Notes))
	}
	if len(result.Tuning) != 6 {
		t.Errorf("tuning missing on empty tablature")
	}
}

func TestFingeringStringAndFretRanges(t *testing.T) {
	for _, chord := range []string{"C", "D", "E", "G", "A", "Em", "Am", "Dm", "G7", "Cmaj7"} {
		positions, ok := Fingering(chord)
		if !ok {
			t.Errorf("no fingering for %s", chord)
			continue
		}
		for _, pos := range positions {
			if pos.String < 1 || pos.String > 6 {
				t.Errorf("%s: string %d out of range", chord, pos.String)
			}
			if pos.Fret < 0 || pos.Fret > 5 {
				t.Errorf("%s: fret %d outside open position", chord, pos.Fret)
			}
		}
	}
}
