package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error type mapped to process exit codes.
type Code int

const (
	CodeSuccess  Code = 0
	CodeInternal Code = 1
	CodeUsage    Code = 2

	CodeMissingRequired Code = 10
	CodeInvalidAmount   Code = 11
	CodeInvalidAddress  Code = 12
	CodeInvalidFlag     Code = 13
	CodeAmountTooSmall  Code = 14

	// CodeRemote means the request reached the exchange; external state may
	// have changed even when the response reports a failure.
	CodeRemote Code = 20
)

func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeUsage:
		return "usage"
	case CodeMissingRequired:
		return "missing_required"
	case CodeInvalidAmount:
		return "invalid_amount"
	case CodeInvalidAddress:
		return "invalid_address"
	case CodeInvalidFlag:
		return "invalid_flag"
	case CodeAmountTooSmall:
		return "amount_too_small"
	case CodeRemote:
		return "remote"
	default:
		return "internal"
	}
}

// Error is a typed CLI error that carries a stable error code.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func As(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

func ExitCode(err error) int {
	if err == nil {
		return int(CodeSuccess)
	}
	if cliErr, ok := As(err); ok {
		return int(cliErr.Code)
	}
	return int(CodeInternal)
}
