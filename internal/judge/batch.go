package judge

import (
	"fmt"

	"github.com/himanshu8github/Neetcode/internal/domain"
)

// BuildBatch prepares one engine request per test case of the chosen subset,
// in the order the problem lists them.
func BuildBatch(problem *domain.Problem, subset domain.TestSubset, code string, lang domain.Language) ([]domain.ExecutionRequest, error) {
	languageID, err := lang.EngineID()
	if err != nil {
		return nil, err
	}

	cases := problem.Cases(subset)
	if len(cases) == 0 {
		return nil, fmt.Errorf("%w: problem %s has no %s cases", domain.ErrNoTestCases, problem.ID, subset)
	}

	source := EncodeText(code)
	batch := make([]domain.ExecutionRequest, 0, len(cases))
	for _, tc := range cases {
		batch = append(batch, domain.ExecutionRequest{
			SourceCode:     source,
			LanguageID:     languageID,
			Stdin:          EncodeText(tc.Input),
			ExpectedOutput: EncodeText(tc.ExpectedOutput),
		})
	}
	return batch, nil
}
