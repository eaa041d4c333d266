package s3fs

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"strings"

	"github.com/jmgilman/go/s3fs/errors"
	"github.com/jmgilman/go/s3fs/internal/errs"
	"github.com/jmgilman/go/s3fs/internal/pathutil"
	"github.com/jmgilman/go/s3fs/internal/types"
	"github.com/jmgilman/go/s3fs/storage"
)

// File is a read handle on one object. Reads stream from the store; Seek
// and ReadAt use range requests so the object is never held in memory.
// A File is not safe for concurrent use.
type File struct {
	fs     *FS
	ctx    context.Context
	path   string
	bucket string
	key    string
	info   storage.ObjectInfo

	body   io.ReadCloser
	offset int64
	closed bool
}

// Open opens the object at p for reading. The handle issues its requests
// with ctx.
func (f *FS) Open(ctx context.Context, p string) (*File, error) {
	p = f.paths.Normalize(p)
	loc, err := f.paths.Parse(p)
	if err != nil {
		return nil, err
	}

	info, err := f.remote.statObject(ctx, loc.Bucket, loc.Key)
	if err != nil {
		if errors.HasCode(err, errors.CodeNotFound) {
			return nil, errs.NotFound(p)
		}
		return nil, errs.Access(err, p, false)
	}

	return &File{
		fs:     f,
		ctx:    ctx,
		path:   p,
		bucket: loc.Bucket,
		key:    loc.Key,
		info:   info,
	}, nil
}

// Read reads up to length bytes of p starting at offset. A negative length
// reads to the end of the object.
func (f *FS) Read(ctx context.Context, p string, offset, length int64) ([]byte, error) {
	file, err := f.Open(ctx, p)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}

	var r io.Reader = file
	if length >= 0 {
		r = io.LimitReader(file, length)
	}
	return io.ReadAll(r)
}

// Create writes data as the object at p. Without overwrite the write is
// conditional and the store rejects it if the object exists. A trailing
// separator on p is kept in the key, so Create(dir + "/") writes a marker.
func (f *FS) Create(ctx context.Context, p string, overwrite bool, data []byte) error {
	marker := strings.HasSuffix(p, pathutil.Separator)
	p = f.paths.Normalize(p)
	loc, err := f.paths.Parse(p)
	if err != nil {
		return err
	}
	if loc.Key == "" {
		return errors.WithContext(
			errors.Newf(errors.CodeInvalidPath, "Cannot create an object at bucket root: '%s'", p),
			"path", p,
		)
	}
	key := loc.Key
	if marker {
		key = pathutil.AppendSeparator(key)
	}

	err = f.remote.putObject(ctx, loc.Bucket, key, bytes.NewReader(data), int64(len(data)),
		storage.PutOptions{NoOverwrite: !overwrite})
	return errs.Access(err, p, true)
}

// Append rewrites the object at p with data added to its end. The whole
// object is read into memory first. Concurrent appends to the same object
// race and one of them is lost; callers must serialize them.
func (f *FS) Append(ctx context.Context, p string, data []byte) error {
	p = f.paths.Normalize(p)
	current, err := f.Read(ctx, p, 0, -1)
	if err != nil {
		return err
	}
	return f.Create(ctx, p, true, append(current, data...))
}

// Name returns the path the file was opened with.
func (h *File) Name() string {
	return h.path
}

// Stat returns file information for the object.
func (h *File) Stat() (fs.FileInfo, error) {
	return types.NewFileInfo(basename(h.key), h.info.Size, h.info.LastModified, false), nil
}

// Read reads from the current offset, opening a ranged stream on first use.
func (h *File) Read(p []byte) (int, error) {
	if h.closed {
		return 0, &fs.PathError{Op: "read", Path: h.path, Err: fs.ErrClosed}
	}
	if h.offset >= h.info.Size {
		return 0, io.EOF
	}
	if h.body == nil {
		body, err := h.fs.remote.getObject(h.ctx, h.bucket, h.key, h.offset, -1)
		if err != nil {
			return 0, err
		}
		h.body = body
	}

	n, err := h.body.Read(p)
	h.offset += int64(n)
	if n > 0 && stderrors.Is(err, io.EOF) {
		return n, nil
	}
	return n, err
}

// Seek sets the offset of the next Read. The open stream, if any, is
// dropped and reopened lazily at the new offset.
func (h *File) Seek(offset int64, whence int) (int64, error) {
	if h.closed {
		return 0, &fs.PathError{Op: "seek", Path: h.path, Err: fs.ErrClosed}
	}

	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = h.offset + offset
	case io.SeekEnd:
		next = h.info.Size + offset
	default:
		return 0, &fs.PathError{Op: "seek", Path: h.path, Err: fs.ErrInvalid}
	}
	if next < 0 {
		return 0, &fs.PathError{Op: "seek", Path: h.path, Err: fs.ErrInvalid}
	}

	if next != h.offset {
		h.dropBody()
		h.offset = next
	}
	return next, nil
}

// ReadAt reads len(p) bytes at off with its own range request. It does not
// move the Read offset.
func (h *File) ReadAt(p []byte, off int64) (int, error) {
	if h.closed {
		return 0, &fs.PathError{Op: "readat", Path: h.path, Err: fs.ErrClosed}
	}
	if off < 0 {
		return 0, &fs.PathError{Op: "readat", Path: h.path, Err: fs.ErrInvalid}
	}
	if off >= h.info.Size {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	body, err := h.fs.remote.getObject(h.ctx, h.bucket, h.key, off, int64(len(p)))
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = body.Close()
	}()

	n, err := io.ReadFull(body, p)
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	return n, err
}

// Close releases the open stream. Closing twice is a no-op.
func (h *File) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	if h.body == nil {
		return nil
	}
	err := h.body.Close()
	h.body = nil
	return err
}

func (h *File) dropBody() {
	if h.body != nil {
		_ = h.body.Close()
		h.body = nil
	}
}

var (
	_ fs.File     = (*File)(nil)
	_ io.Seeker   = (*File)(nil)
	_ io.ReaderAt = (*File)(nil)
)
