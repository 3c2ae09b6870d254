package acquire

import (
	"fmt"
	"strings"
)

// ValidationError rejects an input before any processing happens
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// StrategyFailure records one download strategy's outcome
type StrategyFailure struct {
	Strategy string
	Message  string
}

// AcquisitionError reports that every download strategy failed.
// It carries each strategy's failure so the caller can see the full chain.
type AcquisitionError struct {
	VideoID  string
	Failures []StrategyFailure
}

func (e *AcquisitionError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Strategy, f.Message))
	}
	return fmt.Sprintf("all download strategies failed for %s: %s", e.VideoID, strings.Join(parts, "; "))
}
