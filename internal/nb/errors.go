package nb

import (
	"errors"
	"fmt"
)

// Reason classifies why a catalogue fetch failed.
type Reason string

const (
	ReasonRequest   Reason = "request"
	ReasonCanceled  Reason = "canceled"
	ReasonTransport Reason = "transport"
	ReasonNotFound  Reason = "not_found"
	ReasonStatus    Reason = "status"
	ReasonDecode    Reason = "decode"
)

// ErrNotFound is matched by errors.Is for fetches the catalogue answered with 404
// or an empty search result.
var ErrNotFound = errors.New("item not found")

// FetchError is returned by Client.Fetch for every failure.
type FetchError struct {
	Reason Reason
	ID     string
	// Status is the HTTP status for ReasonNotFound and ReasonStatus.
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("nb.no: fetch %s: HTTP %d: %v", e.ID, e.Status, e.Err)
	}
	return fmt.Sprintf("nb.no: fetch %s: %v", e.ID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
