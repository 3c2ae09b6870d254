package chroma

// Segment is a run of chroma frames with a stable harmonic profile
type Segment struct {
	Vector []float64 `json:"vector"` // average chroma over the segment
	Start  float64   `json:"start"`  // seconds
	End    float64   `json:"end"`    // seconds
}

// SegmentFrames groups consecutive frames into harmonically stable segments.
//
// Each incoming frame is compared against the running average of the open
// segment. The segment closes when similarity drops below the threshold and
// the segment already spans the minimum frame count. The trailing partial
// segment is always emitted, so segments are contiguous, non-overlapping and
// cover [0, totalDuration].
func SegmentFrames(frames []Frame, frameDuration, totalDuration float64, cfg Config) []Segment {
	if len(frames) == 0 {
		return nil
	}

	var segments []Segment

	sum := make([]float64, ChromaBins)
	avg := make([]float64, ChromaBins)
	count := 0
	start := frames[0].StartTime

	flush := func(end float64) {
		if count == 0 {
			return
		}
		vector := make([]float64, ChromaBins)
		for i := range sum {
			vector[i] = sum[i] / float64(count)
		}
		segments = append(segments, Segment{
			Vector: vector,
			Start:  start,
			End:    end,
		})
	}

	for _, frame := range frames {
		if count >= cfg.MinSegmentFrames {
			for i := range sum {
				avg[i] = sum[i] / float64(count)
			}
			if CosineSimilarity(frame.Vector, avg) < cfg.SimilarityThreshold {
				flush(frame.StartTime)
				for i := range sum {
					sum[i] = 0
				}
				count = 0
				start = frame.StartTime
			}
		}

		for i, energy := range frame.Vector {
			sum[i] += energy
		}
		count++
	}

	// The last segment runs to the end of the analyzed audio
	end := frames[len(frames)-1].StartTime + frameDuration
	if totalDuration > end {
		end = totalDuration
	}
	flush(end)

	return segments
}
