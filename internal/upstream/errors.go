// Package upstream defines the errors reported when fetching or reading a
// playlist or guide source fails. Every error names the source it concerns.
package upstream

import (
	"errors"
	"fmt"
)

// ErrUnexpectedStatus is wrapped by SourceUnavailableError when a source
// answers with anything but 200 OK.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// SourceUnavailableError reports a source that could not be fetched:
// transport failure, timeout or a non-200 response.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// SourceMalformedError reports a playlist source whose body is not a valid
// playlist.
type SourceMalformedError struct {
	Source string
	Err    error
}

func (e *SourceMalformedError) Error() string {
	return fmt.Sprintf("source %s is not a valid playlist: %v", e.Source, e.Err)
}

func (e *SourceMalformedError) Unwrap() error {
	return e.Err
}

// GuideParseError reports a guide source whose body is not a valid XMLTV
// document.
type GuideParseError struct {
	Source string
	Err    error
}

func (e *GuideParseError) Error() string {
	return fmt.Sprintf("guide %s is not valid XMLTV: %v", e.Source, e.Err)
}

func (e *GuideParseError) Unwrap() error {
	return e.Err
}

// Source returns the source named by err when err is, or wraps, one of the
// upstream errors.
func Source(err error) (string, bool) {
	var unavailable *SourceUnavailableError
	if errors.As(err, &unavailable) {
		return unavailable.Source, true
	}
	var malformed *SourceMalformedError
	if errors.As(err, &malformed) {
		return malformed.Source, true
	}
	var guide *GuideParseError
	if errors.As(err, &guide) {
		return guide.Source, true
	}
	return "", false
}
