package domain

import "errors"

var (
	// ErrUnauthorized is returned when the session credential is missing, invalid, expired or revoked.
	ErrUnauthorized = errors.New("unauthorized: invalid or missing session token")

	// ErrRevocationUnavailable is returned when the revocation registry cannot be consulted.
	ErrRevocationUnavailable = errors.New("session revocation registry is unavailable")

	// ErrUnsupportedLanguage is returned when the language has no engine mapping.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrProblemNotFound is returned when the problem id does not resolve.
	ErrProblemNotFound = errors.New("problem not found")

	// ErrNoTestCases is returned when the selected test-case subset is empty.
	ErrNoTestCases = errors.New("problem has no test cases for this mode")

	// ErrEmptySourceCode is returned when source code is empty.
	ErrEmptySourceCode = errors.New("source code cannot be empty")

	// ErrPayloadTooLarge is returned when the request body exceeds the size limit.
	ErrPayloadTooLarge = errors.New("request payload exceeds maximum size")

	// ErrEngineUnavailable is returned when the execution engine cannot accept or report a batch.
	ErrEngineUnavailable = errors.New("execution engine unavailable")

	// ErrJudgingTimeout is returned when results are not terminal within the polling bound.
	ErrJudgingTimeout = errors.New("judging timed out waiting for results")

	// ErrSubmissionNotFound is returned when a submission cannot be found by ID.
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrSubmissionFinalized is returned when finalizing a submission that is no longer pending.
	ErrSubmissionFinalized = errors.New("submission already finalized")

	// ErrRateLimitExceeded is returned when API rate limit is hit.
	ErrRateLimitExceeded = errors.New("rate limit exceeded, try again later")

	// ErrPublishFailed is returned when the message broker publish fails.
	ErrPublishFailed = errors.New("failed to publish message to queue")

	// ErrDatabaseUnavailable is returned when the database is unreachable.
	ErrDatabaseUnavailable = errors.New("database is currently unavailable")
)
