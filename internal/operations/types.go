package operations

import (
	"sync"
	"time"

	"nygaming/pkg/contracts/domain"
)

// Step identifiers
const (
	StepIDCollect = "collect"
	StepIDExtract = "extract"
	StepIDAnalyze = "analyze"
	StepIDReport  = "report"
	StepIDNotify  = "notify"
	StepIDArchive = "archive"
)

// Step names
const (
	StepNameCollect = "Report Collection"
	StepNameExtract = "Data Extraction"
	StepNameAnalyze = "Change Analysis"
	StepNameReport  = "Workbook Generation"
	StepNameNotify  = "Notification Dispatch"
	StepNameArchive = "Snapshot Archival"
)

// StepStatus represents the current status of a step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState represents the runtime state of a step
type StepState struct {
	mu        sync.RWMutex
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    StepStatus `json:"status"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Message   string     `json:"message,omitempty"`
	Err       string     `json:"error,omitempty"`
}

// NewStepState creates a step state in the pending status.
func NewStepState(id, name string) *StepState {
	return &StepState{ID: id, Name: name, Status: StepStatusPending}
}

// Start marks the step active and records the start time.
func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the step completed with an outcome message.
func (s *StepState) Complete(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
	s.Message = message
}

// Skip marks the step skipped with the reason.
func (s *StepState) Skip(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusSkipped
	s.Message = reason
}

// Fail marks the step failed with the error.
func (s *StepState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Err = err.Error()
}

// Duration returns the elapsed step time, or zero before completion.
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.StartTime == nil || s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(*s.StartTime)
}

// RunState carries everything one pipeline run accumulates: the run
// identity, the collected and extracted data, the comparison outcome, and
// the rendered artifacts. Steps read what earlier steps wrote.
type RunState struct {
	RunID   string
	RunTime time.Time

	DownloadDir  string
	FailedFetch  []string
	Current      *domain.Snapshot
	Previous     *domain.Snapshot
	Comparison   *domain.ComparisonResult
	Tables       *domain.TableSet
	Workbook     []byte
	WorkbookPath string
	Notified     bool
}

// Warnings returns the non-fatal warnings the run accumulated, formatted
// for the summary and notification body.
func (s *RunState) Warnings() []string {
	var warnings []string
	for _, brand := range s.FailedFetch {
		warnings = append(warnings, "failed to download report: "+brand)
	}
	return warnings
}

// RunSummary is the final report of a pipeline run.
type RunSummary struct {
	RunID    string        `json:"run_id"`
	Steps    []*StepState  `json:"steps"`
	Duration time.Duration `json:"duration"`
	Err      string        `json:"error,omitempty"`
}
