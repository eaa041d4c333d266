package s3fs

import (
	"context"
	"path"
	"strings"

	"github.com/jmgilman/go/s3fs/errors"
	"github.com/jmgilman/go/s3fs/internal/errs"
	"github.com/jmgilman/go/s3fs/internal/pathutil"
	"github.com/jmgilman/go/s3fs/storage"
)

// CopyOptions controls Copy.
type CopyOptions struct {
	// Recursive copies directories. Without it a directory source is
	// skipped and the returned Operation is marked Skipped.
	Recursive bool

	// KeepBasename places the source under an existing destination
	// directory (dst/<basename>/...) instead of copying its contents into
	// dst.
	KeepBasename bool
}

// Copy copies src to dst. dst is resolved against src. Each object is
// copied with its own request and nothing is rolled back on failure.
func (f *FS) Copy(ctx context.Context, src, dst string, opts CopyOptions) (*Operation, error) {
	src = f.paths.Normalize(src)
	dst = f.paths.Abspath(src, dst)
	op := newOperation(OperationCopy, src, dst)

	if err := f.checkDistinct(src, dst,
		"Destination path is same as the source path, skipping the operation."); err != nil {
		return op, err
	}
	if err := f.copy(ctx, op, src, dst, opts); err != nil {
		return op, errs.Access(err, dst, true)
	}
	if op.Skipped {
		return op, nil
	}
	return op.done()
}

// CopyFile copies the single object src to dst. It fails with
// CodeNotADirectory if dst is an existing directory.
func (f *FS) CopyFile(ctx context.Context, src, dst string) (*Operation, error) {
	src = f.paths.Normalize(src)
	dst = f.paths.Abspath(src, dst)
	op := newOperation(OperationCopy, src, dst)

	if err := f.checkDistinct(src, dst,
		"Destination path is same as the source path, skipping the operation."); err != nil {
		return op, err
	}

	st, err := f.stat(ctx, dst)
	if err != nil {
		return op, errs.Access(err, dst, false)
	}
	if st != nil && st.IsDir {
		return op, errors.WithContext(
			errors.Newf(errors.CodeNotADirectory, "Copy dst '%s' is a directory", dst),
			"path", dst,
		)
	}

	if err := f.copy(ctx, op, src, dst, CopyOptions{}); err != nil {
		return op, errs.Access(err, dst, true)
	}
	if op.Skipped {
		return op, nil
	}
	return op.done()
}

// CopyRemoteDir copies the contents of directory src into dst.
func (f *FS) CopyRemoteDir(ctx context.Context, src, dst string) (*Operation, error) {
	return f.Copy(ctx, src, dst, CopyOptions{Recursive: true})
}

// checkDistinct fails when dst is src or src's parent. It is lexical and
// runs before any request.
func (f *FS) checkDistinct(src, dst, msg string) error {
	if dst != src && dst != f.paths.ParentPath(src) {
		return nil
	}
	return errors.WithContextMap(
		errors.New(errors.CodeSameSourceAndDestination, msg),
		map[string]interface{}{"source": src, "destination": dst},
	)
}

func (f *FS) copy(ctx context.Context, op *Operation, src, dst string, opts CopyOptions) error {
	srcSt, err := f.Stats(ctx, src)
	if err != nil {
		return err
	}
	if srcSt.IsDir && !opts.Recursive {
		f.log.WithField("path", src).Debug("skipping directory, copy is not recursive")
		op.Skipped = true
		return nil
	}

	dstSt, err := f.stat(ctx, dst)
	if err != nil {
		return err
	}
	dstIsDir := dstSt != nil && dstSt.IsDir
	if srcSt.IsDir && dstSt != nil && !dstSt.IsDir {
		return errors.WithContextMap(
			errors.Newf(errors.CodeNotADirectory, "Cannot overwrite non-directory '%s' with directory '%s'", dst, src),
			map[string]interface{}{"source": src, "destination": dst},
		)
	}

	srcLoc, err := f.paths.Parse(src)
	if err != nil {
		return err
	}
	dstLoc, err := f.paths.Parse(dst)
	if err != nil {
		return err
	}
	if err := f.getBucket(ctx, srcLoc.Bucket); err != nil {
		return err
	}
	if err := f.getBucket(ctx, dstLoc.Bucket); err != nil {
		return err
	}

	srcKey := pathutil.CutSeparator(srcLoc.Key)
	dstKey := pathutil.CutSeparator(dstLoc.Key)

	// a file copied onto an existing directory lands at dst/<basename>
	keep := dstIsDir && (opts.KeepBasename || !srcSt.IsDir)
	cut := cutLength(srcKey, keep)

	keys := []string{srcKey}
	if srcSt.IsDir {
		objs, err := f.remote.list(ctx, srcLoc.Bucket, storage.ListOptions{
			Prefix:    pathutil.AppendSeparator(srcKey),
			Recursive: true,
		})
		if err != nil {
			return err
		}
		keys = keys[:0]
		for _, obj := range objs {
			keys = append(keys, obj.Key)
		}
	}

	for _, key := range keys {
		if !strings.HasPrefix(key, srcKey) {
			return errors.WithContextMap(
				errors.Newf(errors.CodeInvalidPath, "Invalid key to transform: %s", key),
				map[string]interface{}{"key": key, "prefix": srcKey},
			)
		}

		name := destinationKey(dstKey, key, cut)
		if name == "" {
			continue
		}
		if err := f.remote.copyObject(ctx, srcLoc.Bucket, key, dstLoc.Bucket, name); err != nil {
			return err
		}
		op.wrote(f.uri(dstLoc.Bucket, name))
	}
	return nil
}

// cutLength returns how many leading bytes of each source key are replaced
// by the destination key. With keep, the source's own basename survives;
// otherwise the whole source key and its separator go.
func cutLength(srcKey string, keep bool) int {
	if keep {
		if i := strings.LastIndex(srcKey, pathutil.Separator); i >= 0 {
			return i + 1
		}
		return 0
	}
	if srcKey == "" {
		return 0
	}
	return len(srcKey) + 1
}

// destinationKey maps a source key onto dstKey. Directory markers keep
// their trailing separator. An empty result means there is nothing to
// write, such as the marker of a bucket root.
func destinationKey(dstKey, key string, cut int) string {
	rel := ""
	if cut < len(key) {
		rel = key[cut:]
	}
	name := path.Join(dstKey, rel)
	if name == "." || name == "" {
		return ""
	}
	if strings.HasSuffix(key, pathutil.Separator) {
		name += pathutil.Separator
	}
	return name
}
