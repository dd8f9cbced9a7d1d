// Package aggregate implements C8: reducing the completion-ordered result
// sequence to a single success boolean.
package aggregate

import "github.com/codemastersolutions/taskly/internal/tasktype"

// Success evaluates results under condition. An empty result set (every
// queued task was skipped via ignoreMissing) is success, for every
// condition. "first" is defined solely by the first element's exit code —
// it is never recomputed against "all" semantics (§9 Open Question 2).
func Success(results []tasktype.Result, condition tasktype.SuccessCondition) bool {
	if len(results) == 0 {
		return true
	}

	switch condition {
	case tasktype.SuccessFirst:
		return results[0].ExitCode == 0
	case tasktype.SuccessLast:
		return results[len(results)-1].ExitCode == 0
	case tasktype.SuccessAll:
		fallthrough
	default:
		for _, r := range results {
			if r.ExitCode != 0 {
				return false
			}
		}
		return true
	}
}

// FirstExitCode returns the exit code of the first completed result, and
// false if there are no results yet. Once set by the caller, this value must
// never be mutated (§3 invariant) — this helper simply reads results[0].
func FirstExitCode(results []tasktype.Result) (int, bool) {
	if len(results) == 0 {
		return 0, false
	}
	return results[0].ExitCode, true
}
