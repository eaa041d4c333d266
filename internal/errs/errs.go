// Package errs translates store failures into the filesystem error taxonomy.
package errs

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/jmgilman/go/s3fs/errors"
	"github.com/jmgilman/go/s3fs/storage"
)

// Translate converts an error returned by a storage.Client into a
// PlatformError. Errors that already carry a code pass through unchanged.
//
//	404      -> CodeNotFound
//	403      -> CodeForbidden
//	301, 400 -> CodeRegionMismatch
//	other    -> CodeStore (retryable for 5xx and transport failures)
func Translate(err error, op storage.Op, bucket, key string) error {
	if err == nil {
		return nil
	}
	var pe errors.PlatformError
	if stderrors.As(err, &pe) {
		return err
	}

	ctx := map[string]interface{}{"op": string(op)}
	if bucket != "" {
		ctx["bucket"] = bucket
	}
	if key != "" {
		ctx["key"] = key
	}

	var se *storage.Error
	if !stderrors.As(err, &se) {
		return errors.WrapWithContext(err, errors.CodeStore, err.Error(), ctx)
	}

	ctx["status"] = se.Status
	if se.Region != "" {
		ctx["region"] = se.Region
	}

	var code errors.ErrorCode
	switch {
	case se.Status == http.StatusNotFound:
		code = errors.CodeNotFound
	case se.Status == http.StatusForbidden:
		code = errors.CodeForbidden
	case storage.IsWrongRegion(se):
		code = errors.CodeRegionMismatch
	default:
		code = errors.CodeStore
	}

	out := errors.WrapWithContext(err, code, se.Error(), ctx)
	if se.Status == 0 || se.Status >= http.StatusInternalServerError {
		return errors.WithClassification(out, errors.ClassificationRetryable)
	}
	return out
}

// Access rewrites a forbidden error into a message naming path. Errors that
// already name their path, and errors of other kinds, are returned as is.
func Access(err error, path string, write bool) error {
	if !errors.HasCode(err, errors.CodeForbidden) {
		return err
	}
	if _, ok := errors.ContextValue(err, "path"); ok {
		return err
	}

	var msg string
	switch {
	case path == "":
		msg = "User is not authorized to perform the attempted operation. Check that the user has appropriate permissions."
	case write:
		msg = fmt.Sprintf("User is not authorized to write or modify path: %s. Check that the user has write permissions.", path)
	default:
		msg = fmt.Sprintf("User is not authorized to access path: \"%s\"", path)
	}

	out := errors.Wrap(err, errors.CodeForbidden, msg)
	if path != "" {
		out = errors.WithContext(out, "path", path)
	}
	return out
}

// NotFound builds the error for a path with nothing behind it.
func NotFound(path string) error {
	return errors.WithContext(
		errors.Newf(errors.CodeNotFound, "No such file or directory: '%s'", path),
		"path", path,
	)
}
