package backend

import (
	"errors"
	"fmt"
)

// ErrAuthExpired marks a 401 from any authenticated call. It is distinct from
// a generic transport failure: the session has already been cleared by the
// time callers see it, and the only recovery is a fresh login.
var ErrAuthExpired = errors.New("backend: session expired")

// ErrInvalidCredentials is returned by Login on rejection. No field-level
// detail is exposed to the user.
var ErrInvalidCredentials = errors.New("backend: invalid credentials")

// TransportError reports a failed backend call: either a network failure
// (StatusCode zero, Err set) or a non-2xx response. The detail is for
// diagnostics only and is never shown raw to the user.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("backend %s: unexpected status %d", e.Op, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
