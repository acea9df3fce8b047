package operations

import (
	"sync"
	"time"

	"cashflowcli/internal/analytics"
	"cashflowcli/internal/config"
	"cashflowcli/internal/dataprocessing"
	"cashflowcli/pkg/contracts/domain"
)

// RunStatus represents the overall run status
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunState is the shared state of one analysis run. Stages read what
// earlier stages produced and add their own results.
type RunState struct {
	mu sync.RWMutex

	ID        string
	Status    RunStatus
	StartTime time.Time
	EndTime   *time.Time
	Error     error

	Paths *config.Paths

	Workbook  dataprocessing.Workbook
	Scenarios *domain.ScenarioSet
	BreakEven *domain.BreakEvenSnapshot
	Analysis  *analytics.Analysis

	steps   map[string]*StepState
	order   []string
	outputs []string
}

// NewRunState creates a new run state
func NewRunState(id string, paths *config.Paths) *RunState {
	return &RunState{
		ID:        id,
		Status:    RunStatusPending,
		StartTime: time.Now(),
		Paths:     paths,
		steps:     make(map[string]*StepState),
	}
}

// Start marks the run as running
func (s *RunState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = RunStatusRunning
	s.StartTime = time.Now()
}

// Complete marks the run as completed
func (s *RunState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = RunStatusCompleted
}

// Fail marks the run as failed
func (s *RunState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = RunStatusFailed
	s.Error = err
}

// GetStep returns the state of a stage, or nil
func (s *RunState) GetStep(id string) *StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.steps[id]
}

// SetStep records the state of a stage
func (s *RunState) SetStep(id string, step *StepState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.steps[id]; !exists {
		s.order = append(s.order, id)
	}
	s.steps[id] = step
}

// Steps returns the stage states in execution order
func (s *RunState) Steps() []*StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	steps := make([]*StepState, 0, len(s.order))
	for _, id := range s.order {
		steps = append(steps, s.steps[id])
	}
	return steps
}

// FailedSteps returns the stages that failed
func (s *RunState) FailedSteps() []*StepState {
	var failed []*StepState
	for _, step := range s.Steps() {
		if step.GetStatus() == StepStatusFailed {
			failed = append(failed, step)
		}
	}
	return failed
}

// AddOutput records a file written by the run
func (s *RunState) AddOutput(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputs = append(s.outputs, path)
}

// Outputs returns the files written so far
func (s *RunState) Outputs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.outputs...)
}

// Duration returns the run duration
func (s *RunState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}

// CloseWorkbook releases the input workbook if one is open
func (s *RunState) CloseWorkbook() error {
	s.mu.Lock()
	wb := s.Workbook
	s.Workbook = nil
	s.mu.Unlock()

	if wb == nil {
		return nil
	}
	return wb.Close()
}
