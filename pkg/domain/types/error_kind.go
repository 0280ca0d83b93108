package types

import "github.com/m-mizutani/goerr/v2"

// ErrorKind classifies a capability failure. Adapters attach the matching
// goerr tag when wrapping errors so that the agent boundary and the delivery
// dispatcher can classify without knowing the adapter's internals.
type ErrorKind string

const (
	ErrorKindConnectivity ErrorKind = "CONNECTIVITY"
	ErrorKindAuth         ErrorKind = "AUTH"
	ErrorKindProcessing   ErrorKind = "PROCESSING"
	ErrorKindTimeout      ErrorKind = "TIMEOUT"
	ErrorKindDelivery     ErrorKind = "DELIVERY"
	ErrorKindRejected     ErrorKind = "REJECTED"
	ErrorKindUnknown      ErrorKind = "UNKNOWN"
)

// Error classification tags for capability adapters
var (
	ErrTagConnectivity = goerr.NewTag("connectivity")
	ErrTagAuth         = goerr.NewTag("auth")
	ErrTagProcessing   = goerr.NewTag("processing")
	ErrTagTimeout      = goerr.NewTag("timeout")
	ErrTagDelivery     = goerr.NewTag("delivery")
	ErrTagRejected     = goerr.NewTag("rejected")
)

// ErrorKindOf derives the error kind from the tags on err
func ErrorKindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindUnknown
	case goerr.HasTag(err, ErrTagRejected):
		return ErrorKindRejected
	case goerr.HasTag(err, ErrTagDelivery):
		return ErrorKindDelivery
	case goerr.HasTag(err, ErrTagTimeout):
		return ErrorKindTimeout
	case goerr.HasTag(err, ErrTagAuth):
		return ErrorKindAuth
	case goerr.HasTag(err, ErrTagProcessing):
		return ErrorKindProcessing
	case goerr.HasTag(err, ErrTagConnectivity):
		return ErrorKindConnectivity
	default:
		return ErrorKindUnknown
	}
}

// Retryable reports whether a failure of this kind may succeed on retry
func (k ErrorKind) Retryable() bool {
	switch k {
	case ErrorKindConnectivity, ErrorKindTimeout, ErrorKindDelivery:
		return true
	default:
		return false
	}
}

// String returns the string representation of the error kind
func (k ErrorKind) String() string {
	return string(k)
}
