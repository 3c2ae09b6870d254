package chroma

// Detection is one recognized chord with its time span
type Detection struct {
	Chord      string  `json:"chord"`      // e.g. "Am", "G7"
	Start      float64 `json:"start"`      // seconds
	End        float64 `json:"end"`        // seconds
	Confidence float64 `json:"confidence"` // best template similarity (0-1)
}

// Detector matches chroma segments against the chord template set
type Detector struct {
	templates     []Template
	minConfidence float64
}

// NewDetector creates a detector over the full 108-template set
func NewDetector(minConfidence float64) *Detector {
	return &Detector{
		templates:     BuildTemplates(),
		minConfidence: minConfidence,
	}
}

// Match returns the best template for a chroma vector and its similarity.
// A silent segment (zero vector) matches nothing.
func (d *Detector) Match(vector []float64) (Template, float64) {
	var best Template
	bestScore := -1.0

	for _, template := range d.templates {
		score := CosineSimilarity(vector, template.Pattern)
		if score > bestScore {
			bestScore = score
			best = template
		}
	}

	if bestScore < 0 {
		bestScore = 0
	}

	return best, bestScore
}

// Detect labels each segment with its best-matching chord, drops matches at
// or below the confidence floor and merges adjacent same-label detections.
func (d *Detector) Detect(segments []Segment) []Detection {
	detections := make([]Detection, 0, len(segments))

	for _, segment := range segments {
		template, score := d.Match(segment.Vector)
		if score <= d.minConfidence {
			continue
		}

		detections = append(detections, Detection{
			Chord:      template.Name,
			Start:      segment.Start,
			End:        segment.End,
			Confidence: score,
		})
	}

	return MergeDetections(detections)
}

// MergeDetections collapses temporally adjacent detections with the same
// label into one span, averaging their confidences. A gap between two
// same-label detections (left by a dropped low-confidence segment) keeps
// them separate rather than extending the span over unanalyzed time.
func MergeDetections(detections []Detection) []Detection {
	if len(detections) == 0 {
		return detections
	}

	merged := make([]Detection, 0, len(detections))
	current := detections[0]
	count := 1

	for _, det := range detections[1:] {
		if det.Chord == current.Chord && det.Start == current.End {
			current.End = det.End
			current.Confidence += det.Confidence
			count++
			continue
		}

		current.Confidence /= float64(count)
		merged = append(merged, current)
		current = det
		count = 1
	}

	current.Confidence /= float64(count)
	merged = append(merged, current)

	return merged
}
