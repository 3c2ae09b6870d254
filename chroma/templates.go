package chroma

// Quality represents the quality/type of a chord
type Quality int

const (
	QualityMajor Quality = iota
	QualityMinor
	QualityDom7
	QualityMaj7
	QualityMin7
	QualityDiminished
	QualityAugmented
	QualitySus4
	QualitySus2
)

// NoteNames are the pitch class labels in sharp spelling
var NoteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Template is a chroma pattern for one chord (root + quality)
type Template struct {
	Root      int       `json:"root"`      // Root note (0=C, 1=C#, ..., 11=B)
	Quality   Quality   `json:"quality"`   // Chord quality/type
	Name      string    `json:"name"`      // Full chord name, e.g. "Am7"
	Pattern   []float64 `json:"pattern"`   // Chroma pattern for the chord
	Intervals []int     `json:"intervals"` // Intervals from root
}

// qualitySpec is a canonical C-rooted pattern plus the label suffix
type qualitySpec struct {
	quality   Quality
	suffix    string
	intervals []int
}

var qualitySpecs = []qualitySpec{
	{QualityMajor, "", []int{0, 4, 7}},
	{QualityMinor, "m", []int{0, 3, 7}},
	{QualityDom7, "7", []int{0, 4, 7, 10}},
	{QualityMaj7, "maj7", []int{0, 4, 7, 11}},
	{QualityMin7, "m7", []int{0, 3, 7, 10}},
	{QualityDiminished, "dim", []int{0, 3, 6}},
	{QualityAugmented, "aug", []int{0, 4, 8}},
	{QualitySus4, "sus4", []int{0, 5, 7}},
	{QualitySus2, "sus2", []int{0, 2, 7}},
}

// Rotate shifts a chroma pattern up by the given number of semitones,
// wrapping around the octave. Rotating by 12 is the identity.
func Rotate(pattern []float64, semitones int) []float64 {
	result := make([]float64, len(pattern))
	for i, val := range pattern {
		newIndex := (i + semitones) % len(pattern)
		result[newIndex] = val
	}
	return result
}

// BuildTemplates generates the full template set: each canonical quality
// pattern rotated to all 12 roots (108 templates).
func BuildTemplates() []Template {
	templates := make([]Template, 0, len(qualitySpecs)*ChromaBins)

	for _, spec := range qualitySpecs {
		base := make([]float64, ChromaBins)
		for _, interval := range spec.intervals {
			base[interval] = 1.0
		}

		for root := range ChromaBins {
			intervals := make([]int, len(spec.intervals))
			copy(intervals, spec.intervals)

			templates = append(templates, Template{
				Root:      root,
				Quality:   spec.quality,
				Name:      NoteNames[root] + spec.suffix,
				Pattern:   Rotate(base, root),
				Intervals: intervals,
			})
		}
	}

	return templates
}
