package usecase

import "fmt"

type PipelineState string

const (
	StateReceived          PipelineState = "Received"
	StateNormalized        PipelineState = "Normalized"
	StateSpamRejected      PipelineState = "SpamRejected"
	StateValidated         PipelineState = "Validated"
	StateValidationFailed  PipelineState = "ValidationFailed"
	StateDuplicate         PipelineState = "DuplicateSuppressed"
	StateCommitted         PipelineState = "Committed"
	StatePersistenceFailed PipelineState = "PersistenceFailed"
	StateNotified          PipelineState = "Notified"
	StateResponded         PipelineState = "Responded"
)

// Forward-only transitions; there are no retries or backward edges.
var transitions = map[PipelineState][]PipelineState{
	StateReceived:   {StateNormalized},
	StateNormalized: {StateSpamRejected, StateValidated},
	StateValidated:  {StateValidationFailed, StateDuplicate, StateCommitted, StatePersistenceFailed},
	StateCommitted:  {StateNotified},
	StateNotified:   {StateResponded},
}

func (s PipelineState) Terminal() bool {
	switch s {
	case StateSpamRejected, StateValidationFailed, StateDuplicate, StatePersistenceFailed, StateResponded:
		return true
	}
	return false
}

// pipeline tracks one submission through the state machine.
type pipeline struct {
	state PipelineState
	trail []PipelineState
}

func newPipeline() *pipeline {
	return &pipeline{state: StateReceived, trail: []PipelineState{StateReceived}}
}

func (p *pipeline) advance(to PipelineState) error {
	for _, allowed := range transitions[p.state] {
		if allowed == to {
			p.state = to
			p.trail = append(p.trail, to)
			return nil
		}
	}
	return fmt.Errorf("illegal pipeline transition %s -> %s", p.state, to)
}
