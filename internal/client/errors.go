package client

import (
	"errors"
	"fmt"
	"net/http"
)

// FetchFailure is returned by every Client operation that could not produce a
// document: transport errors, non-2xx responses and undecodable bodies.
type FetchFailure struct {
	Resource   string // one of the Resource* constants
	Code       string // country code, when the resource is per country
	Year       int    // archive year, when the resource is an archive
	StatusCode int    // HTTP status, 0 when no response was received
	Err        error  // underlying cause, nil for a plain non-2xx response
}

// Error returns the user-facing message naming the resource.
func (e *FetchFailure) Error() string {
	switch e.Resource {
	case ResourceStats:
		return "Failed to fetch stats"
	case ResourceGlobalChangelog:
		return "Failed to fetch global changelog"
	case ResourceCountryChangelog:
		return "Failed to fetch changelog for " + e.Code
	case ResourceArchiveIndex:
		return "Failed to fetch archive index"
	case ResourceArchivedChangelog:
		return fmt.Sprintf("Failed to fetch archive for %s (%d)", e.Code, e.Year)
	}
	return "Failed to fetch " + e.Resource
}

// Unwrap exposes the underlying cause.
func (e *FetchFailure) Unwrap() error { return e.Err }

// Detail describes the cause for logs, e.g. "404 Not Found".
func (e *FetchFailure) Detail() string {
	switch {
	case e.Err != nil:
		return e.Err.Error()
	case e.StatusCode != 0:
		return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return "unknown error"
}

// AsFetchFailure extracts a FetchFailure from err.
func AsFetchFailure(err error) (*FetchFailure, bool) {
	var f *FetchFailure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsNotFound returns true if the resource does not exist upstream.
func IsNotFound(err error) bool {
	if f, ok := AsFetchFailure(err); ok {
		return f.StatusCode == http.StatusNotFound
	}
	return false
}
