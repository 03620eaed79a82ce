package domain

import "github.com/google/uuid"

// TestCase is one input/expected-output pair of a problem.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"output"`
	Explanation    string `json:"explanation,omitempty"`
}

// CodeSnippet is per-language starter or reference code.
type CodeSnippet struct {
	Language Language `json:"language"`
	Code     string   `json:"code"`
}

// Problem is read-only for the judging pipeline.
type Problem struct {
	ID                uuid.UUID     `json:"_id"`
	Title             string        `json:"title"`
	Difficulty        string        `json:"difficulty"`
	VisibleTestCases  []TestCase    `json:"visibleTestCases"`
	HiddenTestCases   []TestCase    `json:"-"`
	StartCode         []CodeSnippet `json:"startCode"`
	ReferenceSolution []CodeSnippet `json:"-"`
}

// TestSubset selects which test cases a judging run uses.
type TestSubset string

const (
	// SubsetVisible is used by "run".
	SubsetVisible TestSubset = "visible"
	// SubsetHidden is used by "submit".
	SubsetHidden TestSubset = "hidden"
)

// Cases returns the test cases of the given subset, in the order the problem lists them.
func (p *Problem) Cases(subset TestSubset) []TestCase {
	if subset == SubsetHidden {
		return p.HiddenTestCases
	}
	return p.VisibleTestCases
}
