package backend

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a by-identity call matches no row.
var ErrNotFound = errors.New("record not found")

// RemoteError is any failure reported by the backend service.
type RemoteError struct {
	Status  int
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
}

// Message returns the text shown to the user for a failed call.
func Message(err error) string {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	if errors.Is(err, ErrNotFound) {
		return "This record no longer exists."
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
