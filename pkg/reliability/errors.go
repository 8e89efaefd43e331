package reliability

import "fmt"

// DomainError reports mathematically invalid input or a non-finite
// result: non-positive shape or scale, evaluation at a singularity, or
// an overflowing intermediate.
type DomainError struct {
	Op      string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("reliability: %s: %s", e.Op, e.Message)
}

func domainErrorf(op, format string, args ...any) *DomainError {
	return &DomainError{Op: op, Message: fmt.Sprintf(format, args...)}
}
