package describe

// Kind classifies a generation failure.
type Kind int

const (
	// KindUnknown is the fallback for failure shapes no backend recognized.
	KindUnknown Kind = iota
	// KindEmptyResponse means the service answered but carried no usable text.
	KindEmptyResponse
	// KindServiceError means the transport or the service itself failed.
	KindServiceError
)

// Error is the classified failure returned by every Describer backend. The
// message is user-facing: the controller surfaces it verbatim behind a
// "Failed to generate prompt: " prefix.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// NewEmptyResponseError reports a well-formed but empty or unusable response.
func NewEmptyResponseError(msg string) *Error {
	return &Error{Kind: KindEmptyResponse, Message: msg}
}

// NewServiceError wraps a transport or service failure.
func NewServiceError(msg string, cause error) *Error {
	return &Error{Kind: KindServiceError, Message: msg, Cause: cause}
}

// NewUnknownError wraps a failure no backend could classify.
func NewUnknownError(msg string, cause error) *Error {
	return &Error{Kind: KindUnknown, Message: msg, Cause: cause}
}
