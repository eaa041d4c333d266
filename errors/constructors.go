package errors

import (
	"errors"
	"fmt"
)

// New creates a PlatformError with the default classification of code.
//
// Example:
//
//	err := errors.New(errors.CodeUnsupported, "option glob is not implemented")
func New(code ErrorCode, message string) PlatformError {
	return &platformError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
	}
}

// Newf creates a PlatformError with a formatted message.
//
// Example:
//
//	err := errors.Newf(errors.CodeInvalidBucketName, "invalid bucket name: %s", name)
func Newf(code ErrorCode, format string, args ...interface{}) PlatformError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err under a new code and message. The classification of a
// wrapped PlatformError is preserved. Returns nil if err is nil.
//
// Example:
//
//	if err := client.RemoveBucket(ctx, name); err != nil {
//	    return errors.Wrap(err, errors.CodeStore, "failed to delete bucket")
//	}
func Wrap(err error, code ErrorCode, message string) PlatformError {
	if err == nil {
		return nil
	}
	return &platformError{
		code:           code,
		classification: inheritedClassification(err, code),
		message:        message,
		cause:          err,
	}
}

// Wrapf wraps err with a formatted message. Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) PlatformError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapWithContext wraps err and attaches a copy of ctx in one step.
// Returns nil if err is nil.
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) PlatformError {
	if err == nil {
		return nil
	}
	return &platformError{
		code:           code,
		classification: inheritedClassification(err, code),
		message:        message,
		context:        copyContext(ctx),
		cause:          err,
	}
}

// WithContext returns a copy of err with one more context field.
// A plain error is first converted to a PlatformError with CodeUnknown.
// Returns nil if err is nil.
func WithContext(err error, key string, value interface{}) PlatformError {
	return WithContextMap(err, map[string]interface{}{key: value})
}

// WithContextMap returns a copy of err with the fields of ctx merged in.
// New fields override existing ones. Returns nil if err is nil.
func WithContextMap(err error, ctx map[string]interface{}) PlatformError {
	if err == nil {
		return nil
	}
	pe := asPlatform(err)

	merged := make(map[string]interface{}, len(ctx))
	for k, v := range pe.Context() {
		merged[k] = v
	}
	for k, v := range ctx {
		merged[k] = v
	}

	return &platformError{
		code:           pe.Code(),
		classification: pe.Classification(),
		message:        pe.Message(),
		context:        merged,
		cause:          pe.Unwrap(),
	}
}

// WithClassification returns a copy of err with the classification replaced.
// Returns nil if err is nil.
func WithClassification(err error, classification ErrorClassification) PlatformError {
	if err == nil {
		return nil
	}
	pe := asPlatform(err)
	return &platformError{
		code:           pe.Code(),
		classification: classification,
		message:        pe.Message(),
		context:        pe.Context(),
		cause:          pe.Unwrap(),
	}
}

func inheritedClassification(err error, code ErrorCode) ErrorClassification {
	var pe PlatformError
	if errors.As(err, &pe) {
		return pe.Classification()
	}
	return getDefaultClassification(code)
}

func asPlatform(err error) PlatformError {
	var pe PlatformError
	if errors.As(err, &pe) {
		return pe
	}
	return &platformError{
		code:           CodeUnknown,
		classification: ClassificationPermanent,
		message:        err.Error(),
		cause:          err,
	}
}
