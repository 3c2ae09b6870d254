package chroma

// Engine ties chromagram extraction, segmentation and template matching
// into a single chord analysis pass.
type Engine struct {
	cfg        Config
	chromagram *Chromagram
	detector   *Detector
}

// NewEngine creates an analysis engine with the given configuration
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:        cfg,
		chromagram: NewChromagram(cfg),
		detector:   NewDetector(cfg.MinConfidence),
	}
}

// Analyze runs the full chord recognition pass over a mono signal.
// The returned detections are ordered, non-overlapping and merged.
func (e *Engine) Analyze(signal []float64) ([]Detection, error) {
	frames, err := e.chromagram.Compute(signal)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, nil
	}

	totalDuration := float64(len(signal)) / float64(e.cfg.SampleRate)
	segments := SegmentFrames(frames, e.chromagram.FrameDuration(), totalDuration, e.cfg)

	return e.detector.Detect(segments), nil
}

// Frames exposes the raw chroma frames for downstream analysis (key estimation)
func (e *Engine) Frames(signal []float64) ([]Frame, error) {
	return e.chromagram.Compute(signal)
}
