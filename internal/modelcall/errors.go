package modelcall

import (
	"errors"
	"fmt"

	"rideinsight/internal/domain"
)

// CallError is returned once Submit gives up. It records how many attempts ran
// and the cause of the last one.
type CallError struct {
	Attempts int
	Kind     Kind
	Cause    error
}

func (e *CallError) Error() string {
	if e.Kind.Retryable() {
		return fmt.Sprintf("model call failed after %d attempts: %v", e.Attempts, e.Cause)
	}
	return fmt.Sprintf("model call aborted after %d attempt(s) (%s): %v", e.Attempts, e.Kind, e.Cause)
}

func (e *CallError) Unwrap() error { return e.Cause }

// Is lets callers match any CallError against domain.ErrModel.
func (e *CallError) Is(target error) bool { return target == domain.ErrModel }

// KindOf returns the Kind recorded in err's CallError, or classifies err
// directly when it is not one.
func KindOf(err error) Kind {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return Classify(err)
}
