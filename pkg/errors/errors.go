package errors

import "errors"

// AppError is a failure the directory reports to its callers. Code is a
// stable machine-readable tag such as "duplicate_key", Message names the
// offending key, and Err keeps the sentinel so errors.Is still matches it.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap tags cause with code and a message. A nil cause yields a bare AppError.
func Wrap(code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Err: cause}
}

// IsCode reports whether err, or anything it wraps, is an AppError tagged code.
// Startup uses it to map a duplicate seed to its own exit status.
func IsCode(err error, code string) bool {
	return code != "" && CodeOf(err) == code
}

// CodeOf returns the code of the outermost AppError in the chain, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
