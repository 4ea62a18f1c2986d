package apperror

// AppError is a domain error that carries the HTTP status it maps to.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 409)
	Reason  string // Machine-readable reason sent to clients as "code" (optional)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same status, reason and message,
// so wrapped copies still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Reason == t.Reason && e.Message == t.Message
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewWithReason creates an AppError that also carries a machine-readable reason.
func NewWithReason(code int, reason, message string) *AppError {
	return &AppError{
		Code:    code,
		Reason:  reason,
		Message: message,
	}
}

// Wrap attaches err as the cause of a copy of sentinel.
func Wrap(sentinel *AppError, err error) *AppError {
	return &AppError{
		Code:    sentinel.Code,
		Reason:  sentinel.Reason,
		Message: sentinel.Message,
		Err:     err,
	}
}
