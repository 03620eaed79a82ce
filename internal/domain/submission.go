package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus represents the lifecycle state of a submission.
type SubmissionStatus string

const (
	StatusPending      SubmissionStatus = "pending"
	StatusAccepted     SubmissionStatus = "accepted"
	StatusWrongAnswer  SubmissionStatus = "wrong_answer"
	StatusRuntimeError SubmissionStatus = "runtime_error"
)

// IsTerminal returns true if the status represents a final state.
func (s SubmissionStatus) IsTerminal() bool {
	switch s {
	case StatusAccepted, StatusWrongAnswer, StatusRuntimeError:
		return true
	}
	return false
}

// Submission is a persisted "submit" attempt.
type Submission struct {
	ID              uuid.UUID        `json:"_id"`
	UserID          uuid.UUID        `json:"userId"`
	ProblemID       uuid.UUID        `json:"problemId"`
	Code            string           `json:"code"`
	Language        Language         `json:"language"`
	Status          SubmissionStatus `json:"status"`
	TestCasesPassed int              `json:"testCasesPassed"`
	TestCasesTotal  int              `json:"testCasesTotal"`
	RuntimeSec      float64          `json:"runtime"`
	MemoryKB        int64            `json:"memory"`
	ErrorMessage    *string          `json:"errorMessage,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// SolvedProblem is one entry of a user's solved set.
type SolvedProblem struct {
	ProblemID  uuid.UUID `json:"_id"`
	Title      string    `json:"title,omitempty"`
	Difficulty string    `json:"difficulty,omitempty"`
	SolvedAt   time.Time `json:"solvedAt"`
}

// CodeRequest is the body of both run and submit.
type CodeRequest struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language" binding:"required"`
}

// CaseReport is one decoded test case of a run response.
type CaseReport struct {
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
	Stdout         string `json:"stdout"`
	StatusID       int    `json:"status_id"`
}

// RunResponse is returned by "run"; it is never persisted.
type RunResponse struct {
	Success      bool         `json:"success"`
	TestCases    []CaseReport `json:"testCases"`
	RuntimeSec   float64      `json:"runtime"`
	MemoryKB     int64        `json:"memory"`
	ErrorMessage *string      `json:"errorMessage,omitempty"`
}

// SubmitResponse is returned after a submission reaches a terminal state.
type SubmitResponse struct {
	SubmissionID    uuid.UUID        `json:"submissionId"`
	Status          SubmissionStatus `json:"status"`
	Accepted        bool             `json:"accepted"`
	TotalTestCases  int              `json:"totalTestCases"`
	PassedTestCases int              `json:"passedTestCases"`
	RuntimeSec      float64          `json:"runtime"`
	MemoryKB        int64            `json:"memory"`
	ErrorMessage    *string          `json:"errorMessage,omitempty"`
}

// RejudgeMessage asks the worker to re-run a submission left pending.
type RejudgeMessage struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	Reason       string    `json:"reason"`
	RequestedAt  time.Time `json:"requested_at"`
}

// RejudgeJob is a received rejudge request with its acknowledgement callbacks.
type RejudgeJob struct {
	Message *RejudgeMessage
	Ack     func() error
	Nack    func(requeue bool) error
}
