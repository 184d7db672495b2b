package analyzer

import "errors"

const (
	KindTimeout   = "timeout"
	KindStatus    = "status"
	KindTransport = "transport"
)

// ErrorKind classifies an Analyze error for logging and metrics.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrTimeout) {
		return KindTimeout
	}
	var se *StatusError
	if errors.As(err, &se) {
		return KindStatus
	}
	return KindTransport
}
