package custom_error

import "fmt"

// RemoteWriteError means the remote store rejected or failed a call. The
// cache is guaranteed untouched when one of these surfaces; the server's
// message is preserved for display.
type RemoteWriteError struct {
	Op      string
	Table   string
	Message string
	Code    string // PostgreSQL error code when available (e.g. "23505")
}

func (e *RemoteWriteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s %s: %s (code: %s)", e.Op, e.Table, e.Message, e.Code)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Table, e.Message)
}

// UniqueViolationError is a RemoteWriteError specialization for duplicate
// key rejections, kept distinct so callers can map it to a conflict response.
type UniqueViolationError struct {
	RemoteWriteError
}

// LocalPersistenceError means the local scan cache could not persist its
// partition. The in-memory state is still valid for the session; only
// durability across restarts is lost.
type LocalPersistenceError struct {
	Reason error
}

func (e *LocalPersistenceError) Error() string {
	return fmt.Sprintf("local scan cache persistence failed: %v", e.Reason)
}

func (e *LocalPersistenceError) Unwrap() error { return e.Reason }

// PartialStepError reports a dependent multi-step write that failed after an
// earlier step had already been acknowledged. It must be surfaced distinctly
// from a clean failure: a blind retry would duplicate the completed step.
type PartialStepError struct {
	Completed string
	Failed    string
	Cause     error
}

func (e *PartialStepError) Error() string {
	return fmt.Sprintf("%s succeeded but %s failed: %v", e.Completed, e.Failed, e.Cause)
}

func (e *PartialStepError) Unwrap() error { return e.Cause }

// WrapDBError classifies a database rejection by its PostgreSQL error code.
func WrapDBError(op, table, message, code string) error {
	base := RemoteWriteError{Op: op, Table: table, Message: message, Code: code}
	switch code {
	case "23505":
		return &UniqueViolationError{RemoteWriteError: base}
	default:
		return &base
	}
}
