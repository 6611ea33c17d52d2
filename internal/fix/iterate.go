package fix

import (
	"errors"

	"bondrewd/internal/diag"
	"bondrewd/internal/source"
)

// DefaultMaxRounds bounds Iterate when the caller passes zero.
const DefaultMaxRounds = 32

// Check analyses content labelled name and returns the diagnostics together
// with the FileSet their spans refer to.
type Check func(name string, content []byte) (*source.FileSet, []diag.Diagnostic)

// IterateResult is the outcome of repeated fixing.
type IterateResult struct {
	Content []byte
	Applied []AppliedFix
	Rounds  int
	// Remaining holds the diagnostics of the last check.
	Remaining []diag.Diagnostic
	// Converged is false when the round limit stopped the loop.
	Converged bool
}

// Changed reports whether any fix was applied.
func (r *IterateResult) Changed() bool { return len(r.Applied) > 0 }

// Iterate applies fixes to content in memory, re-checking after every round.
// A parser stops at its first error, so each check usually offers one fix
// and the next error only shows up once it is applied.
func Iterate(name string, content []byte, check Check, mode ApplyMode, maxRounds int) (*IterateResult, error) {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	res := &IterateResult{Content: content}
	for res.Rounds < maxRounds {
		fs, diags := check(name, res.Content)
		res.Remaining = diags
		applied, err := Apply(fs, diags, ApplyOptions{Mode: mode, DryRun: true})
		if errors.Is(err, ErrNoFixes) {
			res.Converged = true
			return res, nil
		}
		if err != nil {
			return res, err
		}
		res.Rounds++
		res.Applied = append(res.Applied, applied.Applied...)
		res.Content = applied.FileChanges[0].Content
		if mode == ApplyModeOnce {
			res.Converged = true
			_, res.Remaining = check(name, res.Content)
			return res, nil
		}
	}
	_, res.Remaining = check(name, res.Content)
	return res, nil
}
