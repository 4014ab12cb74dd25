package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound      = errors.New("salary record not found")
	ErrInvalidPeriod       = errors.New("invalid period, expected \"<Month> <YYYY>\"")
	ErrInvalidBackupFormat = errors.New("backup format invalid")
	ErrPersistence         = errors.New("persistence failed")
)

// PersistenceError reports a store operation that did not complete. The
// in-memory state is left as it was before the call.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrPersistence) match any PersistenceError.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// NewPersistenceError wraps err, or returns nil when err is nil.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
