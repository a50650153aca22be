package extract

import (
	"fmt"

	"github.com/skandermulder/extractor/internal/validate"
)

// BackendError wraps a generation backend failure (network, auth, timeout,
// cancellation). It is fatal: the retry protocol only fixes content-quality
// problems, not transport problems.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("generation backend %q failed: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// BudgetExhaustedError is the terminal outcome after MaxRetries invalid
// attempts. It carries the full diagnostics of the final attempt.
type BudgetExhaustedError struct {
	Attempts    int
	Diagnostics []validate.Diagnostic
}

func (e *BudgetExhaustedError) Error() string {
	return fmt.Sprintf("no schema-conformant output after %d attempts (%d unresolved diagnostics)",
		e.Attempts, len(e.Diagnostics))
}
