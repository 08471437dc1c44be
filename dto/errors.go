package dto

import (
	"errors"
	"fmt"
)

var (
	ErrNoURL            = errors.New("request has no url")
	ErrAborted          = errors.New("request aborted")
	ErrVersionDrift     = errors.New("history version drift")
	ErrNoHost           = errors.New("no host installed")
	ErrShiftSuperseded  = errors.New("component shift superseded by navigation")
	ErrCallbackNotFound = errors.New("history callback not registered")
	ErrCallbackExists   = errors.New("history callback already registered")
)

// StatusError is returned for terminal responses that are not 200.
type StatusError struct {
	StatusCode int
	StatusText string
	URL        string
}

func (e *StatusError) Error() string {
	if e.StatusText != "" {
		return fmt.Sprintf("unexpected status %d (%s): %s", e.StatusCode, e.StatusText, e.URL)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.URL)
}
