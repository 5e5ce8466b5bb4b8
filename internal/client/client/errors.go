package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophaccount/internal/common"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
	ErrUnavailable  = errors.New("server unavailable")
	ErrRequest      = errors.New("request rejected")
)

// ErrValidation is matched by 400/422 responses, which are returned as
// *common.ValidationError.
var ErrValidation = common.ErrValidation

// StatusError is a non-2xx response other than 400/422. It unwraps to the
// sentinel of its class.
type StatusError struct {
	Status int
	Detail string
	kind   error
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s (%d)", e.kind, e.Status)
	}
	return fmt.Sprintf("%s (%d): %s", e.kind, e.Status, e.Detail)
}

func (e *StatusError) Unwrap() error {
	return e.kind
}

// classify maps a status code to its sentinel; 2xx maps to nil.
func classify(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return ErrValidation
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status >= 500:
		return ErrServer
	default:
		return ErrRequest
	}
}

// NewResponseError builds the error a response with status would produce.
// 400/422 give a *common.ValidationError, other non-2xx statuses a
// *StatusError. It returns nil for 2xx.
func NewResponseError(status int, detail string, fields map[string]string) error {
	kind := classify(status)
	if kind == nil {
		return nil
	}
	if kind == ErrValidation {
		return &common.ValidationError{Fields: fields, Detail: detail, Status: status}
	}
	if detail == "" && len(fields) > 0 {
		detail = (&common.ValidationError{Fields: fields}).Error()
	}
	if detail == "" {
		detail = http.StatusText(status)
	}
	return &StatusError{Status: status, Detail: detail, kind: kind}
}

// StatusOf returns the HTTP status carried by err, or 0 when err did not
// come from a server response.
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		return ve.Status
	}
	return 0
}

// DetailOf returns the server's detail message carried by err, if any.
func DetailOf(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Detail
	}
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		return ve.Detail
	}
	return ""
}

// Retryable reports whether a failed call may be repeated as is.
func Retryable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrServer)
}
