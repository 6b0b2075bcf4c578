// Package taxerr defines the error kinds shared by the matching pipeline.
//
// Every failure surfaced by the pipeline wraps exactly one of the kinds below
// so callers can branch with errors.Is. Stale matrix indices are not errors:
// the relation matrix reports them as unknown and ignores writes.
package taxerr

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigurationMissing reports a collaborator that was never injected.
	ErrConfigurationMissing = errors.New("not configured")
	// ErrPrecondition reports an operation invoked on a tree or map that has
	// not reached the required pipeline state.
	ErrPrecondition = errors.New("precondition violated")
	// ErrLexicalOracle reports a failed sense or relation lookup.
	ErrLexicalOracle = errors.New("lexical oracle failure")
	// ErrStructural reports an attempt to break the tree invariants.
	ErrStructural = errors.New("structural invariant violated")
)

// Error is the single failure type returned by pipeline operations. Op names
// the operation, Err carries the kind and the underlying cause.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns err as an *Error for op. A nil err stays nil and an *Error is
// not wrapped twice.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return err
	}
	return &Error{Op: op, Err: err}
}

// NotConfigured builds the "<what> is not configured" failure.
func NotConfigured(what string) error {
	return fmt.Errorf("%s is %w", what, ErrConfigurationMissing)
}

// Preconditionf builds an ErrPrecondition failure with a formatted message.
func Preconditionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}

// Structuralf builds an ErrStructural failure with a formatted message.
func Structuralf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructural, fmt.Sprintf(format, args...))
}

// Oracle wraps a lexical oracle failure, keeping cause reachable.
func Oracle(what string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrLexicalOracle, what, cause)
}
