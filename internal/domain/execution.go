package domain

// Engine status ids. Anything above EngineStatusProcessing is terminal.
const (
	EngineStatusInQueue    = 1
	EngineStatusProcessing = 2
	EngineStatusAccepted   = 3
	EngineStatusRuntime    = 4
)

// ExecutionRequest is one test case prepared for the engine. Text fields are base64 encoded.
type ExecutionRequest struct {
	SourceCode     string
	LanguageID     int
	Stdin          string
	ExpectedOutput string
}

// ExecutionResult is the engine's report for one token.
type ExecutionResult struct {
	Token         string
	StatusID      int
	Stdout        string
	Stderr        string
	CompileOutput string
	Message       string
	TimeSec       float64
	MemoryKB      int64
}

// IsTerminal reports whether the engine has finished with this token.
func (r ExecutionResult) IsTerminal() bool {
	return r.StatusID > EngineStatusProcessing
}

// Diagnostic is the most specific error text the engine attached to the result.
func (r ExecutionResult) Diagnostic() string {
	switch {
	case r.Stderr != "":
		return r.Stderr
	case r.CompileOutput != "":
		return r.CompileOutput
	default:
		return r.Message
	}
}
