package pipeline

import (
	"errors"
	"fmt"
)

// ErrJobNotFound is returned for status/result lookups of unknown job ids
var ErrJobNotFound = errors.New("job not found")

// AnalysisError marks a degradable failure in one analysis stage. The
// orchestrator absorbs it: the stage's output falls back to its default and
// the job still completes.
type AnalysisError struct {
	Stage string // "chords", "tempo", "key", "tablature"
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis stage %s failed: %v", e.Stage, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// CacheError marks a result cache failure. Always absorbed and logged; the
// job store remains the source of truth.
type CacheError struct {
	Op  string // "put", "get"
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("result cache %s failed: %v", e.Op, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}
