package s3fs

import (
	"context"
	"os"
	"path"
	"strings"

	"github.com/jmgilman/go/s3fs/errors"
	"github.com/jmgilman/go/s3fs/internal/errs"
	"github.com/jmgilman/go/s3fs/internal/pathutil"
	"github.com/jmgilman/go/s3fs/internal/walk"
	"github.com/jmgilman/go/s3fs/storage"
)

// CopyFromLocal uploads the local file or directory src to dst. Directory
// trees keep their relative layout, empty directories become markers and
// symbolic links to directories are not followed. A single file lands at
// dst, or at dst/<basename> when dst is an existing directory.
func (f *FS) CopyFromLocal(ctx context.Context, src, dst string) (*Operation, error) {
	src = strings.TrimRight(src, string(os.PathSeparator))
	if src == "" {
		src = string(os.PathSeparator)
	}
	dst = f.paths.Normalize(dst)
	op := newOperation(OperationCopyFromLocal, src, dst)

	info, err := f.local.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return op, errors.WithContext(
				errors.Wrapf(err, errors.CodeNotFound, "No such file or directory: '%s'", src),
				"path", src,
			)
		}
		return op, errors.WithContext(
			errors.Wrapf(err, errors.CodeInvalidPath, "Cannot read local path '%s'", src),
			"path", src,
		)
	}

	if info.IsDir() {
		err = f.uploadTree(ctx, op, src, dst)
	} else {
		err = f.uploadSingle(ctx, op, src, dst)
	}
	if err != nil {
		return op, errs.Access(err, dst, true)
	}
	return op.done()
}

func (f *FS) uploadTree(ctx context.Context, op *Operation, src, dst string) error {
	return walk.Walk(f.local, src, func(dir walk.Dir) error {
		rel := strings.TrimPrefix(strings.TrimPrefix(dir.Path, src), pathutil.Separator)
		remoteDir := f.Join(dst, rel)

		if len(dir.SubDirs) == 0 && len(dir.Files) == 0 {
			if err := f.mkdir(ctx, remoteDir); err != nil {
				return err
			}
			op.wrote(remoteDir)
			return nil
		}

		for _, name := range dir.Files {
			target := f.Join(remoteDir, name)
			if err := f.uploadFile(ctx, f.local.Join(dir.Path, name), target); err != nil {
				return err
			}
			op.wrote(target)
		}
		return nil
	})
}

func (f *FS) uploadSingle(ctx context.Context, op *Operation, src, dst string) error {
	st, err := f.stat(ctx, dst)
	if err != nil {
		return err
	}
	target := dst
	if st != nil && st.IsDir {
		target = f.Join(dst, path.Base(src))
	}

	if err := f.uploadFile(ctx, src, target); err != nil {
		return err
	}
	op.wrote(target)
	return nil
}

// uploadFile streams one local file to the object at target.
func (f *FS) uploadFile(ctx context.Context, src, target string) error {
	loc, err := f.paths.Parse(target)
	if err != nil {
		return err
	}
	if loc.Key == "" {
		return errors.WithContext(
			errors.Newf(errors.CodeInvalidPath, "Cannot upload a file to bucket root: '%s'", target),
			"path", target,
		)
	}

	info, err := f.local.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.CodeInvalidPath, "Cannot read local path '%s'", src)
	}
	file, err := f.local.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.CodeInvalidPath, "Cannot read local path '%s'", src)
	}
	defer func() {
		_ = file.Close()
	}()

	return f.remote.putObject(ctx, loc.Bucket, loc.Key, file, info.Size(), storage.PutOptions{})
}
