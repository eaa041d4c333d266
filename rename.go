package s3fs

import (
	"context"
	"strings"

	"github.com/jmgilman/go/s3fs/errors"
	"github.com/jmgilman/go/s3fs/internal/errs"
	"github.com/jmgilman/go/s3fs/internal/pathutil"
)

// Rename moves oldPath to newPath, resolved against oldPath. It is a recursive
// copy followed by a tree removal of oldPath, so a failure between the two
// leaves both trees in place; the returned Operation shows which objects
// were written and which were removed. Moving a tree into its own subtree
// is refused.
func (f *FS) Rename(ctx context.Context, oldPath, newPath string) (*Operation, error) {
	oldPath = f.paths.Normalize(oldPath)
	newPath = f.paths.Abspath(oldPath, newPath)
	op := newOperation(OperationRename, oldPath, newPath)

	if err := f.rename(ctx, op, oldPath, newPath); err != nil {
		return op, err
	}
	return op.done()
}

func (f *FS) rename(ctx context.Context, op *Operation, oldPath, newPath string) error {
	if err := f.checkDistinct(oldPath, newPath,
		"Destination path is same as source path, skipping the operation."); err != nil {
		return err
	}
	if strings.HasPrefix(newPath, pathutil.AppendSeparator(oldPath)) {
		return errors.WithContextMap(
			errors.Newf(errors.CodeSameSourceAndDestination,
				"Cannot move '%s' into its own subdirectory '%s'", oldPath, newPath),
			map[string]interface{}{"source": oldPath, "destination": newPath},
		)
	}

	if err := f.copy(ctx, op, oldPath, newPath, CopyOptions{Recursive: true, KeepBasename: true}); err != nil {
		return errs.Access(err, newPath, true)
	}
	if err := f.removeTree(ctx, op, oldPath); err != nil {
		return errs.Access(err, oldPath, true)
	}
	return nil
}

// RenameChildren moves every direct child of oldDir into newDir under the
// same name, one child at a time.
func (f *FS) RenameChildren(ctx context.Context, oldDir, newDir string) (*Operation, error) {
	oldDir = f.paths.Normalize(oldDir)
	newDir = f.paths.Normalize(newDir)
	op := newOperation(OperationRenameChildren, oldDir, newDir)

	isDir, err := f.IsDir(ctx, oldDir)
	if err != nil {
		return op, errs.Access(err, oldDir, false)
	}
	if !isDir {
		return op, errors.WithContext(
			errors.Newf(errors.CodeNotADirectory, "'%s' is not a directory", oldDir),
			"path", oldDir,
		)
	}

	isFile, err := f.IsFile(ctx, newDir)
	if err != nil {
		return op, errs.Access(err, newDir, false)
	}
	if isFile {
		return op, errors.WithContext(
			errors.Newf(errors.CodeNotADirectory, "'%s' is not a directory", newDir),
			"path", newDir,
		)
	}

	children, err := f.Listdir(ctx, oldDir)
	if err != nil {
		return op, err
	}
	for _, child := range children {
		sub := newOperation(OperationRename, f.Join(oldDir, child), f.Join(newDir, child))
		err := f.rename(ctx, sub, sub.Source, sub.Destination)
		op.merge(sub)
		if err != nil {
			return op, err
		}
	}
	return op.done()
}
