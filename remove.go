package s3fs

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jmgilman/go/s3fs/errors"
	"github.com/jmgilman/go/s3fs/internal/errs"
	"github.com/jmgilman/go/s3fs/internal/pathutil"
	"github.com/jmgilman/go/s3fs/storage"
)

// RemoveTree deletes p and everything under it. A bucket path deletes the
// bucket with all of its objects. skipTrash must be true: there is no trash.
// Removing a path that does not exist is a no-op.
func (f *FS) RemoveTree(ctx context.Context, p string, skipTrash bool) (*Operation, error) {
	p = f.paths.Normalize(p)
	op := newOperation(OperationRemoveTree, p, "")

	if !skipTrash {
		return op, errors.WithContext(
			errors.New(errors.CodeUnsupported, "Moving to trash is not implemented"),
			"path", p,
		)
	}
	if err := f.removeTree(ctx, op, p); err != nil {
		return op, errs.Access(err, p, true)
	}
	return op.done()
}

// Remove is RemoveTree. Deletion is always recursive.
func (f *FS) Remove(ctx context.Context, p string, skipTrash bool) (*Operation, error) {
	return f.RemoveTree(ctx, p, skipTrash)
}

func (f *FS) removeTree(ctx context.Context, op *Operation, p string) error {
	loc, err := f.paths.Parse(p)
	if err != nil {
		return err
	}

	if loc.Key == "" {
		removed, err := f.deleteBucket(ctx, loc.Bucket)
		for _, key := range removed {
			op.removed(f.uri(loc.Bucket, key))
		}
		if err != nil {
			return err
		}
		op.removed(f.uri(loc.Bucket, ""))
		return nil
	}

	st, err := f.stat(ctx, p)
	if err != nil {
		return err
	}
	if st == nil {
		return nil
	}
	if st.IsDir {
		return f.removePrefix(ctx, op, loc.Bucket, pathutil.AppendSeparator(loc.Key))
	}
	return f.removeObject(ctx, op, loc.Bucket, loc.Key)
}

// removePrefix deletes every object under prefix with one batched request.
func (f *FS) removePrefix(ctx context.Context, op *Operation, bucket, prefix string) error {
	objs, err := f.remote.list(ctx, bucket, storage.ListOptions{Prefix: prefix, Recursive: true})
	if err != nil {
		return err
	}
	if len(objs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(objs))
	for _, obj := range objs {
		keys = append(keys, obj.Key)
	}

	failed, err := f.remote.removeObjects(ctx, bucket, keys)
	if err != nil {
		return err
	}

	failedKeys := make(map[string]string, len(failed))
	for _, d := range failed {
		failedKeys[d.Key] = d.Message
	}
	for _, key := range keys {
		if _, ok := failedKeys[key]; !ok {
			op.removed(f.uri(bucket, key))
		}
	}
	if len(failed) == 0 {
		return nil
	}

	err = batchDeleteError(failed)
	f.log.WithFields(logrus.Fields{"bucket": bucket, "prefix": prefix, "failures": failedKeys}).
		Error(err.Error())
	return err
}

func batchDeleteError(failed []storage.DeleteError) error {
	lines := make([]string, 0, len(failed))
	failures := make(map[string]string, len(failed))
	for _, d := range failed {
		msg := d.Message
		if msg == "" {
			msg = d.Code
		}
		lines = append(lines, fmt.Sprintf("%s: %s", d.Key, msg))
		failures[d.Key] = msg
	}
	return errors.WithContext(
		errors.Newf(errors.CodeBatchDeleteFailed,
			"%d errors occurred while attempting to delete the following S3 paths:\n%s",
			len(failed), strings.Join(lines, "\n")),
		"failures", failures,
	)
}

// removeObject deletes a single object and checks that it is gone.
func (f *FS) removeObject(ctx context.Context, op *Operation, bucket, key string) error {
	if err := f.remote.removeObject(ctx, bucket, key); err != nil {
		return err
	}

	_, err := f.remote.statObject(ctx, bucket, key)
	switch {
	case err == nil:
		return errors.WithContextMap(
			errors.Newf(errors.CodeDeleteVerificationFailed, "Could not delete key %s", key),
			map[string]interface{}{"bucket": bucket, "key": key},
		)
	case errors.HasCode(err, errors.CodeNotFound):
		op.removed(f.uri(bucket, key))
		return nil
	default:
		return err
	}
}
