package hound

import (
	"errors"
	"fmt"
)

// tooManyMarker is the substring the server puts in its Error field when
// a window covers more matches than it is willing to serve.
const tooManyMarker = "search exceeds limit"

// ErrWindowExhausted is returned when shrinking reaches a window that
// cannot get any smaller and the server still rejects it. This happens
// when a single file has more matches than the server serves per request.
var ErrWindowExhausted = errors.New("there are too many results to retrieve in the smallest possible range")

// TransportError reports a failure to reach the server: connection
// refused, DNS failure, timeout. Always fatal to the run.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("could not connect to search server: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports a response body that is not valid JSON. The raw
// body is kept so the operator can see what the server actually sent.
type ProtocolError struct {
	Body string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("server did not return a valid JSON response. Got this instead:\n%s", e.Body)
}

// ServerError reports an error the server itself raised, other than the
// recoverable "search exceeds limit" rejection. The message is the
// server's text verbatim.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("search server returned an error: %s", e.Message)
}
