package user

import "errors"

// Code identifies an authentication failure independently of its message.
type Code string

const (
	CodeInvalidCredential Code = "auth/invalid-credential"
	CodeWrongPassword     Code = "auth/wrong-password"
	CodeUserNotFound      Code = "auth/user-not-found"
	CodeInvalidEmail      Code = "auth/invalid-email"
	CodeTooManyRequests   Code = "auth/too-many-requests"
	CodeMissingFields     Code = "auth/missing-fields"
	CodeUnauthenticated   Code = "auth/unauthenticated"
)

// AuthError is an authentication failure carrying a stable code.
type AuthError struct {
	Code Code
	msg  string
}

func (e *AuthError) Error() string {
	return e.msg
}

var (
	ErrInvalidCredential = &AuthError{Code: CodeInvalidCredential, msg: "invalid credential"}
	ErrWrongPassword     = &AuthError{Code: CodeWrongPassword, msg: "wrong password"}
	ErrUserNotFound      = &AuthError{Code: CodeUserNotFound, msg: "user not found"}
	ErrInvalidEmail      = &AuthError{Code: CodeInvalidEmail, msg: "invalid email"}
	ErrTooManyRequests   = &AuthError{Code: CodeTooManyRequests, msg: "too many requests"}
	ErrMissingFields     = &AuthError{Code: CodeMissingFields, msg: "email and password are required"}
	ErrUnauthorized      = &AuthError{Code: CodeUnauthenticated, msg: "unauthorized"}

	ErrEmailAlreadyUsed = errors.New("email already used")
)

// CodeOf extracts the code of an authentication failure, or "" when err is
// not one.
func CodeOf(err error) Code {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code
	}
	return ""
}
