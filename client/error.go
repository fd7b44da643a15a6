package client

import (
	"errors"
	"fmt"
)

// Kind classifies every failure a [Client] can report. The set is closed:
// transport, status, and decoding failures are all mapped into one of these
// before reaching a caller.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidURL
	KindDecodingFailed
	KindEncodingFailed
	KindRequestFailed
	KindNoData
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindDecodingFailed:
		return "decoding_failed"
	case KindEncodingFailed:
		return "encoding_failed"
	case KindRequestFailed:
		return "request_failed"
	case KindNoData:
		return "no_data"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Transport error codes reported as [Error.StatusCode] when a request fails
// before a status line is received. They are negative so they never collide
// with HTTP status codes.
const (
	CodeCancelled              = -999
	CodeBadURL                 = -1000
	CodeTimedOut               = -1001
	CodeUnsupportedURL         = -1002
	CodeCannotFindHost         = -1003
	CodeCannotConnectToHost    = -1004
	CodeNetworkConnectionLost  = -1005
	CodeSecureConnectionFailed = -1200
)

// Sentinels for matching an [*Error] by kind with [errors.Is].
var (
	ErrInvalidURL     = &Error{Kind: KindInvalidURL}
	ErrDecodingFailed = &Error{Kind: KindDecodingFailed}
	ErrEncodingFailed = &Error{Kind: KindEncodingFailed}
	ErrRequestFailed  = &Error{Kind: KindRequestFailed}
	ErrNoData         = &Error{Kind: KindNoData}
	ErrUnknown        = &Error{Kind: KindUnknown}
	ErrCustom         = &Error{Kind: KindCustom}
)

// Error is the only error type returned by the request functions of this
// package.
type Error struct {
	Kind Kind
	// StatusCode is the HTTP status, or one of the Code* transport
	// codes, for KindRequestFailed.
	StatusCode int
	// Message is the caller supplied text for KindCustom.
	Message string
	// Err is the underlying encoder or decoder error.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidURL:
		return "Invalid URL."
	case KindRequestFailed:
		return fmt.Sprintf("Request failed with status code: %d.", e.StatusCode)
	case KindNoData:
		return "No data received."
	case KindDecodingFailed:
		return fmt.Sprintf("Error decoding data: %v", e.Err)
	case KindEncodingFailed:
		return fmt.Sprintf("Error encoding data: %v", e.Err)
	case KindCustom:
		return e.Message
	default:
		return "An unknown error occurred."
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. Comparing against
// one of the Err* sentinels therefore matches any error of that kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Kind == t.Kind
}

// InvalidURL reports a descriptor or transport URL that is not well formed.
func InvalidURL() *Error { return &Error{Kind: KindInvalidURL} }

// DecodingFailed wraps a failure decoding the response body.
func DecodingFailed(err error) *Error { return &Error{Kind: KindDecodingFailed, Err: err} }

// EncodingFailed wraps a failure encoding the request body.
func EncodingFailed(err error) *Error { return &Error{Kind: KindEncodingFailed, Err: err} }

// RequestFailed reports a non-2xx status or a transport error code.
func RequestFailed(statusCode int) *Error {
	return &Error{Kind: KindRequestFailed, StatusCode: statusCode}
}

// NoData reports a successful status carrying an empty body.
func NoData() *Error { return &Error{Kind: KindNoData} }

// Unknown reports a failure that could not be classified.
func Unknown() *Error { return &Error{Kind: KindUnknown} }

// Custom reports a failure with a caller supplied message.
func Custom(message string) *Error { return &Error{Kind: KindCustom, Message: message} }

// AsError extracts the *Error from err. Anything that is not already an
// *Error is reported as [KindUnknown].
func AsError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return Unknown()
}
