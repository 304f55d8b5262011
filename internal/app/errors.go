package app

import (
	"errors"
	"fmt"
)

// InvalidRequestError is special error type returned when any request params are invalid.
type InvalidRequestError string

// Error implements error interface.
func (e InvalidRequestError) Error() string {
	return string(e)
}

// IsInvalidRequestError checks if given error is caused by invalid request.
func IsInvalidRequestError(err error) bool {
	var e InvalidRequestError
	return errors.As(err, &e)
}

// TooManyRequestsError is returned when request couldn't be made within rate limit.
type TooManyRequestsError string

// Error implements error interface.
func (e TooManyRequestsError) Error() string {
	return string(e)
}

// IsTooManyRequestsError checks if given error is caused by exceeded rate limit.
func IsTooManyRequestsError(err error) bool {
	var e TooManyRequestsError
	return errors.As(err, &e)
}

// PreconditionError signals a caller bug, like analyzing empty contributors list.
type PreconditionError string

// Error implements error interface.
func (e PreconditionError) Error() string {
	return string(e)
}

// IsPreconditionError checks if given error is a precondition violation.
func IsPreconditionError(err error) bool {
	var e PreconditionError
	return errors.As(err, &e)
}

// InsufficientResultsError is returned when search api has fewer matching projects than requested.
type InsufficientResultsError struct {
	Page int
	Want int
	Got  int
}

// Error implements error interface.
func (e *InsufficientResultsError) Error() string {
	return fmt.Sprintf("not enough projects: page %d returned %d items, want %d", e.Page, e.Got, e.Want)
}

// IsInsufficientResultsError checks if given error is caused by too few search results.
func IsInsufficientResultsError(err error) bool {
	var e *InsufficientResultsError
	return errors.As(err, &e)
}

// RequestFailedError is returned when github api responds with unexpected status.
type RequestFailedError struct {
	URL         string
	StatusCode  int
	Body        string
	RateLimited bool
}

// Error implements error interface.
func (e *RequestFailedError) Error() string {
	msg := fmt.Sprintf("request %s failed, code %d body %s", e.URL, e.StatusCode, e.Body)
	if e.RateLimited {
		msg += " (rate limit exceeded)"
	}
	return msg
}

// IsRequestFailedError checks if given error is caused by failed api request.
func IsRequestFailedError(err error) bool {
	var e *RequestFailedError
	return errors.As(err, &e)
}

// RequestFailedStatus returns http status of failed request, or 0 if err is not a RequestFailedError.
func RequestFailedStatus(err error) int {
	var e *RequestFailedError
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
