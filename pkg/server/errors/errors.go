// Package errors defines the request error taxonomy and its HTTP
// rendering. Handlers classify failures into one of the kinds here;
// everything else surfaces as an internal error.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/skylark-social/skylark/pkg/storage"
)

const InternalServerErrorMsg = "Internal Server Error"

// Kind names a class of request failure.
type Kind string

const (
	KindInvalidRequest      Kind = "InvalidRequest"
	KindNotFound            Kind = "NotFound"
	KindUpstreamUnavailable Kind = "UpstreamUnavailable"
	KindInternal            Kind = "InternalServerError"
)

// RequestError is a classified failure carrying the public message.
type RequestError struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.cause
}

func NotFound(format string, args ...any) *RequestError {
	return &RequestError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidRequest(format string, args ...any) *RequestError {
	return &RequestError{Kind: KindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

func UpstreamUnavailable(cause error) *RequestError {
	return &RequestError{
		Kind:    KindUpstreamUnavailable,
		Message: "Upstream Unavailable",
		cause:   cause,
	}
}

func Internal(cause error) *RequestError {
	return &RequestError{
		Kind:    KindInternal,
		Message: InternalServerErrorMsg,
		cause:   cause,
	}
}

// InvalidCursor is the public error for a malformed pagination cursor.
func InvalidCursor() *RequestError {
	return InvalidRequest("Invalid cursor")
}

// Classify maps an arbitrary error to a RequestError. Storage
// sentinels get their public counterparts; already-classified errors
// pass through; anything else is internal.
func Classify(err error) *RequestError {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr
	}
	switch {
	case errors.Is(err, storage.ErrInvalidCursor):
		return InvalidCursor()
	case errors.Is(err, storage.ErrNotFound):
		return NotFound("Not Found")
	case errors.Is(err, storage.ErrUnavailable):
		return UpstreamUnavailable(err)
	default:
		return Internal(err)
	}
}

// HTTPStatus returns the status code for a classified error.
func (e *RequestError) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
