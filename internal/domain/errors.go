package domain

import (
	"fmt"
	"strings"
)

// ValidationError is raised before any backend call when a draft is
// missing required input. Fields lists the offending form fields.
type ValidationError struct {
	Title  string
	Fields []string
	Msg    string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s (%s)", e.Msg, strings.Join(e.Fields, ", "))
}

func required(title, msg string, fields map[string]string, order ...string) error {
	var missing []string
	for _, name := range order {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Title: title, Fields: missing, Msg: msg}
}
