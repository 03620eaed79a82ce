package judge

import "github.com/himanshu8github/Neetcode/internal/domain"

// Aggregate reduces per-case results to a single verdict.
//
// Passing cases contribute their time (summed) and memory (max). Any
// runtime_error outranks any wrong_answer, which outranks accepted; the error
// message is taken from the first case of the winning failure kind. Missing
// results count as wrong answers, so accepted always means passed == total.
func Aggregate(results []domain.ExecutionResult, total int) domain.Aggregate {
	agg := domain.Aggregate{Verdict: domain.VerdictAccepted, Total: total}

	var firstMessage [domain.VerdictRuntimeError + 1]*string
	var seen [domain.VerdictRuntimeError + 1]bool

	for _, r := range results {
		kind := domain.ClassifyEngineStatus(r.StatusID)
		if kind == domain.VerdictAccepted {
			agg.Passed++
			agg.RuntimeSec += r.TimeSec
			if r.MemoryKB > agg.MemoryKB {
				agg.MemoryKB = r.MemoryKB
			}
			continue
		}
		if !seen[kind] {
			seen[kind] = true
			if msg := r.Diagnostic(); msg != "" {
				firstMessage[kind] = &msg
			}
		}
		if kind > agg.Verdict {
			agg.Verdict = kind
		}
	}

	if agg.Passed > total {
		agg.Passed = total
	}
	if agg.Verdict == domain.VerdictAccepted && agg.Passed < total {
		agg.Verdict = domain.VerdictWrongAnswer
	}
	agg.ErrorMessage = firstMessage[agg.Verdict]
	return agg
}
