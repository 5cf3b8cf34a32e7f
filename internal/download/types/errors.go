package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies why a fetch attempt failed.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindDirectoryCreation
	KindHTTPStatus
	KindConnection
	KindTimeout
	KindRequest
	KindFileIO
	KindUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindDirectoryCreation:
		return "directory_creation"
	case KindHTTPStatus:
		return "http_status"
	case KindConnection:
		return "connection"
	case KindTimeout:
		return "timeout"
	case KindRequest:
		return "request"
	case KindFileIO:
		return "file_io"
	case KindUnexpected:
		return "unexpected"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified fetch failure.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a kind. A nil err yields nil.
func NewError(kind ErrorKind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, KindNone for
// nil and KindUnexpected for unclassified errors.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnexpected
}

// StatusError reports a response with a 4xx or 5xx status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	class := "Client"
	if e.StatusCode >= 500 {
		class = "Server"
	}
	return fmt.Sprintf("%d %s Error: %s for url: %s", e.StatusCode, class, http.StatusText(e.StatusCode), e.URL)
}
