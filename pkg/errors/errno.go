package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// Errno represents a structured error with code and messages.
type Errno struct {
	// Code is the unique error code
	Code int `json:"code"`

	// HTTP is the HTTP status code to return
	HTTP int `json:"-"`

	// MessageEN is the English error message
	MessageEN string `json:"message"`

	// MessageZH is the Chinese error message
	MessageZH string `json:"message_zh,omitempty"`

	// cause is the underlying error
	cause error
}

// Error implements the error interface.
func (e *Errno) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("errno %d: %s: %v", e.Code, e.MessageEN, e.cause)
	}
	return fmt.Sprintf("errno %d: %s", e.Code, e.MessageEN)
}

// Unwrap returns the underlying cause.
func (e *Errno) Unwrap() error {
	return e.cause
}

// WithCause creates a new Errno with the given cause.
func (e *Errno) WithCause(cause error) *Errno {
	return &Errno{
		Code:      e.Code,
		HTTP:      e.HTTP,
		MessageEN: e.MessageEN,
		MessageZH: e.MessageZH,
		cause:     cause,
	}
}

// WithMessage creates a new Errno with custom English message.
func (e *Errno) WithMessage(msg string) *Errno {
	return &Errno{
		Code:      e.Code,
		HTTP:      e.HTTP,
		MessageEN: msg,
		MessageZH: e.MessageZH,
		cause:     e.cause,
	}
}

// WithMessagef creates a new Errno with formatted English message.
func (e *Errno) WithMessagef(format string, args ...interface{}) *Errno {
	return &Errno{
		Code:      e.Code,
		HTTP:      e.HTTP,
		MessageEN: fmt.Sprintf(format, args...),
		MessageZH: e.MessageZH,
		cause:     e.cause,
	}
}

// Message returns the message based on language.
func (e *Errno) Message(lang string) string {
	if lang == "zh" || lang == "zh-CN" || lang == "zh_CN" {
		if e.MessageZH != "" {
			return e.MessageZH
		}
	}
	return e.MessageEN
}

// HTTPStatus returns the HTTP status code.
func (e *Errno) HTTPStatus() int {
	if e.HTTP != 0 {
		return e.HTTP
	}
	return http.StatusInternalServerError
}

// Is checks if this error matches the target error code.
func (e *Errno) Is(target error) bool {
	if t, ok := target.(*Errno); ok {
		return e.Code == t.Code
	}
	return false
}

// errnoRegistry stores all registered error codes for uniqueness validation.
var (
	errnoRegistry = make(map[int]*Errno)
	registryMu    sync.RWMutex
)

// Register registers an Errno and validates uniqueness.
// Panics if the code is already registered.
func Register(e *Errno) *Errno {
	registryMu.Lock()
	defer registryMu.Unlock()

	if existing, ok := errnoRegistry[e.Code]; ok {
		panic(fmt.Sprintf("errno code %d already registered: %s", e.Code, existing.MessageEN))
	}
	errnoRegistry[e.Code] = e
	return e
}

// Lookup returns the registered Errno for the given code.
func Lookup(code int) (*Errno, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := errnoRegistry[code]
	return e, ok
}

// New creates a new Errno with the given parameters.
func New(code int, httpStatus int, messageEN, messageZH string) *Errno {
	return &Errno{
		Code:      code,
		HTTP:      httpStatus,
		MessageEN: messageEN,
		MessageZH: messageZH,
	}
}

// FromError converts any error to Errno, unwrapping wrapped errors.
// Errors that carry no Errno anywhere in their chain become ErrInternal.
func FromError(err error) *Errno {
	if err == nil {
		return nil
	}
	var e *Errno
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal.WithCause(err)
}

// IsCode checks if the error chain carries the given error code.
func IsCode(err error, code int) bool {
	var e *Errno
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the error code carried by the error chain.
// Returns -1 if no Errno is present.
func GetCode(err error) int {
	var e *Errno
	if errors.As(err, &e) {
		return e.Code
	}
	return -1
}

// Format implements fmt.Formatter for better error formatting.
func (e *Errno) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "errno %d [HTTP %d]: %s", e.Code, e.HTTP, e.MessageEN)
			if e.MessageZH != "" {
				_, _ = fmt.Fprintf(s, " (%s)", e.MessageZH)
			}
			if e.cause != nil {
				_, _ = fmt.Fprintf(s, "\ncaused by: %+v", e.cause)
			}
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}
