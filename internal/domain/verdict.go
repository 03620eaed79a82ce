package domain

import "fmt"

// Verdict is the overall outcome of a judging run. Higher values take precedence.
type Verdict int

const (
	VerdictAccepted Verdict = iota
	VerdictWrongAnswer
	VerdictRuntimeError
)

// Status maps the verdict onto the persisted submission status.
func (v Verdict) Status() SubmissionStatus {
	switch v {
	case VerdictRuntimeError:
		return StatusRuntimeError
	case VerdictWrongAnswer:
		return StatusWrongAnswer
	default:
		return StatusAccepted
	}
}

func (v Verdict) String() string {
	return string(v.Status())
}

// ClassifyEngineStatus maps a terminal engine status id to the verdict of that single case.
func ClassifyEngineStatus(statusID int) Verdict {
	switch statusID {
	case EngineStatusAccepted:
		return VerdictAccepted
	case EngineStatusRuntime:
		return VerdictRuntimeError
	default:
		return VerdictWrongAnswer
	}
}

// Aggregate is the reduction of all per-case results of one run.
type Aggregate struct {
	Verdict      Verdict
	Passed       int
	Total        int
	RuntimeSec   float64
	MemoryKB     int64
	ErrorMessage *string
}

// Accepted reports whether every case passed.
func (a Aggregate) Accepted() bool {
	return a.Verdict == VerdictAccepted
}

func (a Aggregate) String() string {
	return fmt.Sprintf("%s %d/%d", a.Verdict, a.Passed, a.Total)
}
