package s3fs

import (
	"bytes"
	"context"

	"github.com/jmgilman/go/s3fs/errors"
	"github.com/jmgilman/go/s3fs/internal/errs"
	"github.com/jmgilman/go/s3fs/internal/pathutil"
	"github.com/jmgilman/go/s3fs/storage"
)

// Mkdir creates the directory p, creating its bucket when missing. It is a
// no-op if p is already a directory. Intermediate directories need no
// markers: they are implied by the new one.
func (f *FS) Mkdir(ctx context.Context, p string) error {
	return errs.Access(f.mkdir(ctx, p), p, true)
}

func (f *FS) mkdir(ctx context.Context, p string) error {
	loc, err := f.paths.Parse(p)
	if err != nil {
		return err
	}
	if !ValidBucketName(loc.Bucket) {
		return errors.WithContextMap(
			errors.Newf(errors.CodeInvalidBucketName, "Invalid bucket name: %s", loc.Bucket),
			map[string]interface{}{"bucket": loc.Bucket, "path": p},
		)
	}

	if err := f.getOrCreateBucket(ctx, loc.Bucket); err != nil {
		return err
	}
	if loc.Key == "" {
		return nil
	}

	st, err := f.stat(ctx, p)
	if err != nil {
		return err
	}
	if st != nil {
		if st.IsDir {
			return nil
		}
		return errors.WithContext(
			errors.Newf(errors.CodeNotADirectory, "'%s' already exists and is not a directory", p),
			"path", p,
		)
	}

	return f.putMarker(ctx, loc.Bucket, loc.Key)
}

// putMarker writes the zero-byte directory marker for key.
func (f *FS) putMarker(ctx context.Context, bucket, key string) error {
	return f.remote.putObject(ctx, bucket, pathutil.AppendSeparator(key), bytes.NewReader(nil), 0, storage.PutOptions{})
}
