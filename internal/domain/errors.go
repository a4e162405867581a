package domain

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by Storage implementations for absent keys.
var ErrKeyNotFound = errors.New("storage: key not found")

// ErrUnknownSource is returned when a request names a source no adapter is
// registered for.
var ErrUnknownSource = errors.New("unknown source")

// FetchError is a transport-level failure against an upstream source.
// It is the only error class adapters surface; unexpected payload shapes
// degrade to empty results instead.
type FetchError struct {
	Source     Source
	Endpoint   string
	StatusCode int // 0 when the request never produced a response

	// RateLimited marks upstream throttling, which callers surface with a
	// "wait and retry later" message instead of a generic failure.
	RateLimited bool

	Err error
}

func (e *FetchError) Error() string {
	switch {
	case e.RateLimited:
		return fmt.Sprintf("%s %s: rate limited (status %d)", e.Source, e.Endpoint, e.StatusCode)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: upstream status %d", e.Source, e.Endpoint, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s: %v", e.Source, e.Endpoint, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether err carries an upstream rate-limit condition.
func IsRateLimited(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.RateLimited
}
