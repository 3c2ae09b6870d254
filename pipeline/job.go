package pipeline

import "time"

// Status is a job's position in the processing state machine
type Status string

const (
	StatusQueued      Status = "queued"
	StatusDownloading Status = "downloading"
	StatusConverting  Status = "converting"
	StatusSampling    Status = "sampling"
	StatusAnalyzing   Status = "analyzing"
	StatusTabbing     Status = "tab-generation"
	StatusCompleted   Status = "completed"
	StatusError       Status = "error"
)

// Terminal reports whether a status is final
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Job is one processing request's observable state
type Job struct {
	ID          string            `json:"id"`
	Status      Status            `json:"status"`
	CurrentStep string            `json:"current_step"`
	Progress    int               `json:"progress"` // 0-100, monotonic
	ETASeconds  int               `json:"eta_seconds"`
	Error       string            `json:"error,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Result      *ProcessingResult `json:"result,omitempty"`
}

// stageProgress maps each status to the progress reported while that stage
// runs, crediting its fixed allocation up front: download 20, convert 20,
// sample 10, analyze 35, tablature 10, finalization 5.
var stageProgress = map[Status]int{
	StatusQueued:      0,
	StatusDownloading: 20,
	StatusConverting:  40,
	StatusSampling:    50,
	StatusAnalyzing:   85,
	StatusTabbing:     95,
	StatusCompleted:   100,
}

// stageETA is a rough remaining-time hint per stage, in seconds
var stageETA = map[Status]int{
	StatusQueued:      60,
	StatusDownloading: 45,
	StatusConverting:  25,
	StatusSampling:    20,
	StatusAnalyzing:   10,
	StatusTabbing:     3,
	StatusCompleted:   0,
	StatusError:       0,
}
