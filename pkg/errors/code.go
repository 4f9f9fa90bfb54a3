package errors

// ErrorCode represents a unique error identifier.
//
// The numeric values, reason strings and HTTP statuses form the wire
// contract of the error envelope and must never change.
type ErrorCode int

const (
	InvalidArgument ErrorCode = 1
	InvalidState    ErrorCode = 2
	NotFound        ErrorCode = 3
	RateLimit       ErrorCode = 4
	Internal        ErrorCode = 6
)

// errorReasons maps error codes to their wire reason strings
var errorReasons = map[ErrorCode]string{
	InvalidArgument: "ERR_INVALID_ARGUMENT",
	InvalidState:    "ERR_INVALID_STATE",
	NotFound:        "ERR_NOT_FOUND",
	RateLimit:       "ERR_RATE_LIMIT",
	Internal:        "ERR_INTERNAL",
}

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	InvalidArgument: "Bad Request",
	InvalidState:    "Bad Request",
	NotFound:        "Not Found",
	RateLimit:       "Bad Request",
	Internal:        "Internal Server Error",
}

// Reason returns the wire reason string for the error code
func (c ErrorCode) Reason() string {
	if r, ok := errorReasons[c]; ok {
		return r
	}
	return "ERR_INTERNAL"
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case InvalidArgument, InvalidState, RateLimit:
		return 400
	case NotFound:
		return 404
	default:
		return 500
	}
}
