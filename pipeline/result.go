package pipeline

import (
	"github.com/chordsense/chordsense/acquire"
	"github.com/chordsense/chordsense/chroma"
	"github.com/chordsense/chordsense/tab"
	"github.com/chordsense/chordsense/tonal"
)

// ProcessingResult is the complete output of a finished job
type ProcessingResult struct {
	Metadata  acquire.VideoMetadata `json:"metadata"`
	Chords    []chroma.Detection    `json:"chords"`
	Tempo     tonal.TempoResult     `json:"tempo"`
	Key       tonal.KeyResult       `json:"key"`
	Tablature tab.Tablature         `json:"tablature"`
}
