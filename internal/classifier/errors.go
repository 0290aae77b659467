package classifier

import (
	"fmt"
	"net/http"
)

// TransportError reports a classifier call that did not produce a usable
// response: a network failure, a non-success status, or an undecodable body.
// StatusCode is zero when no response was received.
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("classifier request failed: %v", e.Err)
	case e.Err != nil:
		return fmt.Sprintf("classifier response (%d %s) unreadable: %v", e.StatusCode, http.StatusText(e.StatusCode), e.Err)
	default:
		return fmt.Sprintf("classifier returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
