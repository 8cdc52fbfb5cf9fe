package domain

import "errors"

// ErrorKind classifies a failure; the transport layer maps kinds to status codes.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a domain failure with a stable code. Two errors with the same Code
// match under errors.Is, so copies carrying a cause still compare equal to the
// sentinel.
type Error struct {
	Kind ErrorKind
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return e.Code + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Code + ": " + e.Msg
	default:
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// With returns a copy of e carrying err as its cause.
func (e *Error) With(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// WithMsg returns a copy of e with a different client-facing message.
func (e *Error) WithMsg(msg string) *Error {
	cp := *e
	cp.Msg = msg
	return &cp
}

var (
	ErrEmailAlreadyExists    = &Error{Kind: KindConflict, Code: "EMAIL_ALREADY_EXISTS", Msg: "email already registered"}
	ErrInvalidCredentials    = &Error{Kind: KindUnauthenticated, Code: "INVALID_CREDENTIALS", Msg: "invalid email or password"}
	ErrMissingToken          = &Error{Kind: KindUnauthenticated, Code: "MISSING_TOKEN", Msg: "missing bearer token"}
	ErrInvalidOrExpiredToken = &Error{Kind: KindUnauthenticated, Code: "INVALID_OR_EXPIRED_TOKEN", Msg: "invalid or expired token"}
	ErrForbidden             = &Error{Kind: KindForbidden, Code: "FORBIDDEN", Msg: "insufficient role"}
	ErrUserNotFound          = &Error{Kind: KindNotFound, Code: "USER_NOT_FOUND", Msg: "user not found"}
	ErrNewsNotFound          = &Error{Kind: KindNotFound, Code: "NEWS_NOT_FOUND", Msg: "news not found"}
	ErrMatchNotFound         = &Error{Kind: KindNotFound, Code: "MATCH_NOT_FOUND", Msg: "match not found"}
)

const (
	CodeValidation = "VALIDATION_ERROR"
	CodeInternal   = "INTERNAL_ERROR"
)

// Validation builds a client input error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Msg: msg}
}

// Internal wraps an unexpected failure. msg is logged, never shown in release mode.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Msg: msg, Err: err}
}

// KindOf reports the kind of err; anything that is not an *Error is internal.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
