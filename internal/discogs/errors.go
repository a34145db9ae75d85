package discogs

import "fmt"

// Diagnostic is implemented by errors that carry the payload that was
// being inspected when they occurred.
type Diagnostic interface {
	error
	DiagnosticPayload() *Payload
}

// NotFoundError reports that the dsdata element, or any usable release
// record inside it, is absent. Payload is nil when extraction failed before
// any payload existed.
type NotFoundError struct {
	Msg     string
	Payload *Payload
}

func (e *NotFoundError) Error() string { return e.Msg }

// DiagnosticPayload returns the payload attached to the error, if any.
func (e *NotFoundError) DiagnosticPayload() *Payload { return e.Payload }

// MalformedDataError reports that the payload exists but is missing a key
// the resolver expected, or is not valid JSON at all.
type MalformedDataError struct {
	Msg     string
	Key     string // missing key, empty when not applicable
	Payload *Payload
}

func (e *MalformedDataError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: missing key %q", e.Msg, e.Key)
	}
	return e.Msg
}

// DiagnosticPayload returns the payload attached to the error, if any.
func (e *MalformedDataError) DiagnosticPayload() *Payload { return e.Payload }

func missingKey(p *Payload, msg, key string) error {
	return &MalformedDataError{Msg: msg, Key: key, Payload: p}
}
