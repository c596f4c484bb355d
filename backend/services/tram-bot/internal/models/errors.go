package models

import (
	"errors"
	"fmt"
)

// Failure kinds of the board pipeline. Every one of them ends the current
// user interaction; none is retried.
var (
	// ErrNetwork: the board page could not be fetched.
	ErrNetwork = errors.New("network error")
	// ErrExtraction: the expected data markers are missing from the page.
	ErrExtraction = errors.New("extraction error")
	// ErrDecode: a data fragment is not valid JSON.
	ErrDecode = errors.New("decode error")
	// ErrMalformedRecord: a decoded record lacks a required field.
	ErrMalformedRecord = errors.New("malformed record")
)

// NetworkError wraps a failed fetch of URL.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("network error: HTTP %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("network error: fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// DecodeError reports a fragment ("lines", "stops" or "panels") that failed to parse.
// An empty fragment means its marker was never found in the page, so it
// also matches ErrExtraction.
type DecodeError struct {
	Fragment string
	Empty    bool
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Empty {
		return fmt.Sprintf("decode error: %s fragment is empty (marker not found)", e.Fragment)
	}
	return fmt.Sprintf("decode error: %s fragment: %v", e.Fragment, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode || (e.Empty && target == ErrExtraction)
}

// MalformedRecordError identifies the record and field that broke an invariant.
type MalformedRecordError struct {
	Collection string
	Index      int
	Field      string
	Reason     string
}

func (e *MalformedRecordError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "missing"
	}
	return fmt.Sprintf("malformed record: %s[%d].%s: %s", e.Collection, e.Index, e.Field, reason)
}

func (e *MalformedRecordError) Is(target error) bool { return target == ErrMalformedRecord }
