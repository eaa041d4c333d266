package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
)

// Error is a failed store request.
type Error struct {
	// Status is the HTTP status of the response, or 0 when the request never
	// produced one (DNS, TLS, connection failures).
	Status int

	// Code is the store error code, e.g. "NoSuchKey" or "AccessDenied".
	Code string

	Message string

	// Region is the region the store reported for the bucket, when known.
	Region string

	Bucket string
	Key    string

	// Err is the underlying client error.
	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets store errors match the io/fs sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case fs.ErrNotExist:
		return e.Status == http.StatusNotFound
	case fs.ErrPermission:
		return e.Status == http.StatusForbidden
	}
	return false
}

// Status returns the HTTP status carried by err, 0 if none.
func Status(err error) int {
	var se *Error
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the store.
func IsNotFound(err error) bool {
	return Status(err) == http.StatusNotFound
}

// IsForbidden reports whether err is a 403 from the store.
func IsForbidden(err error) bool {
	return Status(err) == http.StatusForbidden
}

// IsWrongRegion reports whether err is a 301 or 400 response, which the
// store uses when a bucket is addressed through the wrong region.
func IsWrongRegion(err error) bool {
	s := Status(err)
	return s == http.StatusMovedPermanently || s == http.StatusBadRequest
}

// NotFound builds a 404 error for bucket/key.
func NotFound(bucket, key string) *Error {
	code, msg := "NoSuchKey", "The specified key does not exist."
	if key == "" {
		code, msg = "NoSuchBucket", "The specified bucket does not exist."
	}
	return &Error{
		Status:  http.StatusNotFound,
		Code:    code,
		Message: msg,
		Bucket:  bucket,
		Key:     key,
	}
}

// Forbidden builds a 403 error for bucket/key.
func Forbidden(bucket, key string) *Error {
	return &Error{
		Status:  http.StatusForbidden,
		Code:    "AccessDenied",
		Message: "Access Denied",
		Bucket:  bucket,
		Key:     key,
	}
}
