package pipeline

import (
	"sort"
	"strings"
)

// Step numbers persisted in completed_steps. Order is execution order.
const (
	StepScan = iota + 1
	StepSubtitles
	StepAnalyze
	StepCharacters
	StepSynopsis
	StepSearch
	StepResolve
	StepSelect
	StepFinalize

	stepCount = StepFinalize
)

var stepNames = [stepCount + 1]string{
	StepScan:       "scan",
	StepSubtitles:  "subtitles",
	StepAnalyze:    "analyze",
	StepCharacters: "characters",
	StepSynopsis:   "synopsis",
	StepSearch:     "search",
	StepResolve:    "resolve",
	StepSelect:     "select",
	StepFinalize:   "finalize",
}

// StepName returns the persisted name for a step number, or "" for an
// unknown number.
func StepName(step int) string {
	if step < 1 || step > stepCount {
		return ""
	}
	return stepNames[step]
}

// Terminal is the end state of a disk record.
type Terminal string

const (
	TerminalNone      Terminal = "none"
	TerminalUnknown   Terminal = "unknown"
	TerminalCompleted Terminal = "completed"
)

// Status tracks pipeline progress for one disk. CompletedSteps is kept
// sorted; a step joins it only together with its durably recorded effects.
type Status struct {
	CurrentStep    int      `json:"current_step"`
	CompletedSteps []int    `json:"completed_steps"`
	Error          string   `json:"error,omitempty"`
	Terminal       Terminal `json:"terminal"`
}

// Completed reports whether the step already ran to completion.
func (s *Status) Completed(step int) bool {
	for _, done := range s.CompletedSteps {
		if done == step {
			return true
		}
	}
	return false
}

// MarkCompleted records the step as done. Idempotent.
func (s *Status) MarkCompleted(step int) {
	if s.Completed(step) {
		return
	}
	s.CompletedSteps = append(s.CompletedSteps, step)
	sort.Ints(s.CompletedSteps)
}

// SetError records the halting failure message. Downstream steps never run
// once an error is set.
func (s *Status) SetError(err error) {
	if err == nil {
		return
	}
	s.Error = strings.TrimSpace(err.Error())
}

// IsTerminal reports whether the record reached an end state.
func (s *Status) IsTerminal() bool {
	return s.Terminal == TerminalUnknown || s.Terminal == TerminalCompleted
}
