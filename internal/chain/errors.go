package chain

import "github.com/pkg/errors"

// ErrorKind is the closed taxonomy of failures the chain provider and
// the analyzers above it can raise. Callers switch on Kind rather than
// matching error strings.
type ErrorKind string

const (
	KindNetworkError            ErrorKind = "NetworkError"
	KindRpcError                ErrorKind = "RpcError"
	KindDecodeError             ErrorKind = "DecodeError"
	KindNotFound                ErrorKind = "NotFound"
	KindCollaboratorUnavailable ErrorKind = "CollaboratorUnavailable"
	KindInvalidInput            ErrorKind = "InvalidInput"
)

// ShieldError wraps an ErrorKind with context, using pkg/errors so the
// original cause and stack trace survive through Wrap.
type ShieldError struct {
	Kind  ErrorKind
	cause error
}

func (e *ShieldError) Error() string {
	if e.cause == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.cause.Error()
}

func (e *ShieldError) Unwrap() error { return e.cause }

// NewError builds a ShieldError of the given kind, wrapping cause with a
// message for stack-trace context.
func NewError(kind ErrorKind, msg string, cause error) *ShieldError {
	var wrapped error
	if cause != nil {
		wrapped = errors.Wrap(cause, msg)
	} else {
		wrapped = errors.New(msg)
	}
	return &ShieldError{Kind: kind, cause: wrapped}
}

// KindOf extracts the ErrorKind from an error, defaulting to
// NetworkError for errors this package didn't originate (e.g. a raw
// context deadline from the http client).
func KindOf(err error) ErrorKind {
	var se *ShieldError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindNetworkError
}
