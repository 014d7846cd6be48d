package schema

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrInvalidDocument is wrapped by every error returned from ValidateShip and
// ValidateModule.
var ErrInvalidDocument = errors.New("invalid build document")

// ValidationError reports one structural problem in a build document.
type ValidationError struct {
	// Document is "ship" or "module".
	Document string

	// Path is the JSON path to the offending member, e.g. "Modules[3].Priority".
	Path string

	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Document, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Document, e.Message)
}

// Is makes every ValidationError match ErrInvalidDocument.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidDocument
}

// fromCUE converts a CUE error into one ValidationError per reported problem.
func fromCUE(err error, document string) error {
	if err == nil {
		return nil
	}

	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return &ValidationError{Document: document, Message: err.Error()}
	}

	errs := make([]error, 0, len(list))
	for _, e := range list {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()

		// CUE sometimes prefixes the message with the path already
		if path != "" && strings.HasPrefix(msg, path) {
			msg = strings.TrimPrefix(msg, path)
			msg = strings.TrimPrefix(msg, ":")
			msg = strings.TrimSpace(msg)
		}
		errs = append(errs, &ValidationError{Document: document, Path: path, Message: msg})
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

// formatPath turns ["Modules", "3", "Priority"] into "Modules[3].Priority".
func formatPath(path []string) string {
	if len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}

	var b strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			b.WriteString("[")
			b.WriteString(part)
			b.WriteString("]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
