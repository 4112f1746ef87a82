package core

import (
	"errors"
	"fmt"
	"os"
)

// Error codes for the pipeline. Every fatal condition a tool can run into
// maps to exactly one of these.
const (
	NOERROR        int = 0
	EIO            int = 101 // I/O failure on input or output
	EENCODING      int = 102 // invalid UTF-8, stray CR, surrogate, misplaced BOM
	EWEFTSIGNATURE int = 103 // missing or malformed %WEFT; signature
	EWEFTHEADER    int = 104 // malformed declaration line
	EMAPSYNTAX     int = 105 // malformed map record
	EMAPMISMATCH   int = 106 // map does not agree with body
	ETRUNCATED     int = 107 // premature end of input
	EENTITYUNKNOWN int = 108 // unknown entity name
	EENTITYCODEP   int = 109 // entity resolves to invalid codepoint
	EAMPERSAND     int = 110 // raw & inside a tag, outside quotes
	EWORDSYNTAX    int = 111 // illegal character inside a word
	EWOOFSYNTAX    int = 112 // malformed Woof table or unmatched escape
	EWOOFAMBIGUOUS int = 113 // Woof key is a prefix of another
	ETABLEMISSING  int = 114 // required table not given
	EARG           int = 115 // malformed or unknown command line flag
	EINTERNAL      int = 125 // internal error
)

func errorText(ecode int) string {
	switch ecode {
	case NOERROR:
		return "OK"
	case EIO:
		return "I/O error"
	case EENCODING:
		return "encoding error"
	case EWEFTSIGNATURE:
		return "not a WEFT file"
	case EWEFTHEADER:
		return "malformed WEFT header"
	case EMAPSYNTAX:
		return "malformed map record"
	case EMAPMISMATCH:
		return "map disagrees with body"
	case ETRUNCATED:
		return "unexpected end of input"
	case EENTITYUNKNOWN:
		return "unknown entity"
	case EENTITYCODEP:
		return "entity yields invalid codepoint"
	case EAMPERSAND:
		return "raw ampersand in tag"
	case EWORDSYNTAX:
		return "illegal character in word"
	case EWOOFSYNTAX:
		return "Woof syntax error"
	case EWOOFAMBIGUOUS:
		return "ambiguous Woof key"
	case ETABLEMISSING:
		return "table missing"
	case EARG:
		return "invalid argument"
	case EINTERNAL:
		return "internal error"
	}
	return "undefined error"
}

// AppError is an error with an associated error code and a user-message.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type coreError struct {
	error
	code int
	msg  string
}

func (e coreError) Unwrap() error {
	return e.error
}

func (e coreError) Error() string {
	return fmt.Sprintf("[%d] %v", e.code, e.error)
}

func (e coreError) ErrorCode() int {
	return e.code
}

func (e coreError) UserMessage() string {
	return e.msg
}

var _ AppError = coreError{}

// ErrorWithCode adds an error code to err's error chain.
// Unlike pkg/errors, ErrorWithCode will wrap nil error.
func ErrorWithCode(err error, code int) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return coreError{err, code, errorText(code)}
}

// WrapError wraps an error in a core error, featuring an error code and
// a user message.
// If err is nil, the error text of code stands in for it.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	msg := fmt.Sprintf(format, v...)
	return coreError{err, code, msg}
}

// Code returns the status code associated with an error.
// If no status code is found, it returns EINTERNAL.
// If err is nil, NOERROR is returned.
func Code(err error) (code int) {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// UserMessage returns the user message associated with an error.
// If no message is found, it checks Code and returns that message.
// If err is nil, it returns "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.UserMessage()
	}
	return errorText(Code(err))
}

// Error creates an error with an error code and a user-message.
func Error(code int, format string, v ...interface{}) error {
	return coreError{
		errors.New(errorText(code)),
		code,
		fmt.Sprintf(format, v...),
	}
}

// UserError prints a one-line diagnostic for err on the error stream.
func UserError(err error) {
	if e, ok := err.(AppError); ok {
		fmt.Fprintf(os.Stderr, "[%d] %s\n", e.ErrorCode(), e.UserMessage())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
}
