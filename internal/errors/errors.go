package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/liftlit/internal/logger"
)

// Error kinds. Wrap an underlying error with one of these so callers can tell
// what class of failure occurred with errors.Is.
var (
	// ErrValidation marks input that was rejected without changing state.
	ErrValidation = stderrors.New("validation failed")
	// ErrPersistence marks a failed write. Live state is kept so it can be retried.
	ErrPersistence = stderrors.New("persistence failed")
	// ErrDataFetch marks a failed read. Callers degrade to empty results.
	ErrDataFetch = stderrors.New("data fetch failed")
	// ErrIllegalTransition marks an operation not allowed in the current phase.
	ErrIllegalTransition = stderrors.New("illegal transition")
)

type kindError struct {
	kind error
	err  error
}

func (e *kindError) Error() string {
	if e.err == nil {
		return e.kind.Error()
	}
	return fmt.Sprintf("%s: %v", e.kind, e.err)
}

func (e *kindError) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}

// Wrap tags err with kind. A nil err yields the bare kind.
func Wrap(kind, err error) error {
	return &kindError{kind: kind, err: err}
}

// Wrapf tags a formatted message with kind.
func Wrapf(kind error, format string, args ...interface{}) error {
	return &kindError{kind: kind, err: fmt.Errorf(format, args...)}
}

// IsRetryable reports whether the failure left state intact for a retry.
func IsRetryable(err error) bool {
	return stderrors.Is(err, ErrPersistence)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	logger.Error("Command execution failed", "error", fmt.Sprintf(format, args...))
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
