package remote

import (
	"errors"
	"fmt"
	"strings"
)

// GenericFailure is shown when a failure carries no server message.
const GenericFailure = "The job service could not complete the request. Please try again."

// TransportError covers unreachable hosts, timeouts, non-2xx responses and
// bodies that do not decode as an envelope.
type TransportError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "remote: %s", e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerRejection is a 2xx response whose envelope reports success:false.
type ServerRejection struct {
	Op      string
	Message string
}

func (e *ServerRejection) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote: %s rejected", e.Op)
	}
	return fmt.Sprintf("remote: %s rejected: %s", e.Op, e.Message)
}

// Message returns the text a user should see for err: the server's message
// when there is one, otherwise GenericFailure.
func Message(err error) string {
	var rej *ServerRejection
	if errors.As(err, &rej) && strings.TrimSpace(rej.Message) != "" {
		return rej.Message
	}
	var te *TransportError
	if errors.As(err, &te) && strings.TrimSpace(te.Message) != "" {
		return te.Message
	}
	return GenericFailure
}

// IsRemote reports whether err came from the service round-trip.
func IsRemote(err error) bool {
	var rej *ServerRejection
	var te *TransportError
	return errors.As(err, &rej) || errors.As(err, &te)
}
