package s3fs

import (
	"context"
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/s3fs/errors"
	"github.com/jmgilman/go/s3fs/storage"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	x := newFixture(t)
	x.bucket(t, "b")
	x.put(t, "b", "dir/file.txt", "0123456789")

	t.Run("read all", func(t *testing.T) {
		f, err := x.fs.Open(ctx, "s3a://b/dir/file.txt")
		require.NoError(t, err)
		defer f.Close()

		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "0123456789", string(data))
		assert.Equal(t, "s3a://b/dir/file.txt", f.Name())

		info, err := f.Stat()
		require.NoError(t, err)
		assert.Equal(t, "file.txt", info.Name())
		assert.Equal(t, int64(10), info.Size())
		assert.False(t, info.IsDir())
	})

	t.Run("seek", func(t *testing.T) {
		f, err := x.fs.Open(ctx, "s3a://b/dir/file.txt")
		require.NoError(t, err)
		defer f.Close()

		buf := make([]byte, 3)
		_, err = io.ReadFull(f, buf)
		require.NoError(t, err)
		assert.Equal(t, "012", string(buf))

		pos, err := f.Seek(2, io.SeekCurrent)
		require.NoError(t, err)
		assert.Equal(t, int64(5), pos)
		_, err = io.ReadFull(f, buf)
		require.NoError(t, err)
		assert.Equal(t, "567", string(buf))

		pos, err = f.Seek(-2, io.SeekEnd)
		require.NoError(t, err)
		assert.Equal(t, int64(8), pos)
		rest, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "89", string(rest))

		_, err = f.Seek(-1, io.SeekStart)
		assert.ErrorIs(t, err, fs.ErrInvalid)
	})

	t.Run("seek past end makes no request", func(t *testing.T) {
		f, err := x.fs.Open(ctx, "s3a://b/dir/file.txt")
		require.NoError(t, err)
		defer f.Close()
		x.store.ResetCalls()

		_, err = f.Seek(100, io.SeekStart)
		require.NoError(t, err)
		n, err := f.Read(make([]byte, 4))
		assert.Zero(t, n)
		assert.Equal(t, io.EOF, err)
		assert.Zero(t, x.store.Calls(storage.OpGetObject))
	})

	t.Run("read at", func(t *testing.T) {
		f, err := x.fs.Open(ctx, "s3a://b/dir/file.txt")
		require.NoError(t, err)
		defer f.Close()

		buf := make([]byte, 4)
		n, err := f.ReadAt(buf, 3)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Equal(t, "3456", string(buf))

		n, err = f.ReadAt(buf, 8)
		assert.Equal(t, io.EOF, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, "89", string(buf[:n]))

		// offset unchanged
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "0123456789", string(data))
	})

	t.Run("closed", func(t *testing.T) {
		f, err := x.fs.Open(ctx, "s3a://b/dir/file.txt")
		require.NoError(t, err)
		require.NoError(t, f.Close())
		require.NoError(t, f.Close())

		_, err = f.Read(make([]byte, 1))
		assert.ErrorIs(t, err, fs.ErrClosed)
		_, err = f.ReadAt(make([]byte, 1), 0)
		assert.ErrorIs(t, err, fs.ErrClosed)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := x.fs.Open(ctx, "s3a://b/nope")
		require.Error(t, err)
		assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
		assert.Contains(t, err.Error(), "No such file or directory: 's3a://b/nope'")
	})

	t.Run("forbidden", func(t *testing.T) {
		x.store.FailOn(storage.OpStatObject, "secret", storage.Forbidden("b", "secret"))
		defer x.store.ClearFaults()

		_, err := x.fs.Open(ctx, "s3a://b/secret")
		require.Error(t, err)
		assert.Equal(t, errors.CodeForbidden, errors.GetCode(err))
		assert.Contains(t, err.Error(), `User is not authorized to access path: "s3a://b/secret"`)
	})
}

func TestRead(t *testing.T) {
	ctx := context.Background()
	x := newFixture(t)
	x.bucket(t, "b")
	x.put(t, "b", "f", "hello world")

	tests := []struct {
		name   string
		offset int64
		length int64
		want   string
	}{
		{"all", 0, -1, "hello world"},
		{"prefix", 0, 5, "hello"},
		{"middle", 6, 3, "wor"},
		{"tail", 6, -1, "world"},
		{"past end", 20, 5, ""},
		{"length beyond end", 9, 10, "ld"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := x.fs.Read(ctx, "s3a://b/f", tt.offset, tt.length)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("new object", func(t *testing.T) {
		x := newFixture(t)
		x.bucket(t, "b")

		require.NoError(t, x.fs.Create(ctx, "s3a://b/new", false, []byte("data")))
		data, ok := x.store.Object("b", "new")
		require.True(t, ok)
		assert.Equal(t, "data", string(data))
	})

	t.Run("empty", func(t *testing.T) {
		x := newFixture(t)
		x.bucket(t, "b")

		require.NoError(t, x.fs.Create(ctx, "s3a://b/empty", false, nil))
		ok, err := x.fs.IsFile(ctx, "s3a://b/empty")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("overwrite", func(t *testing.T) {
		x := newFixture(t)
		x.bucket(t, "b")
		x.put(t, "b", "f", "old")

		require.NoError(t, x.fs.Create(ctx, "s3a://b/f", true, []byte("new")))
		data, _ := x.store.Object("b", "f")
		assert.Equal(t, "new", string(data))
	})

	t.Run("existing without overwrite", func(t *testing.T) {
		x := newFixture(t)
		x.bucket(t, "b")
		x.put(t, "b", "f", "old")
		x.store.ResetCalls()

		err := x.fs.Create(ctx, "s3a://b/f", false, []byte("new"))
		require.Error(t, err)
		assert.Equal(t, errors.CodeStore, errors.GetCode(err))
		assert.Zero(t, x.store.Calls(storage.OpStatObject))

		data, _ := x.store.Object("b", "f")
		assert.Equal(t, "old", string(data))
	})

	t.Run("trailing separator writes marker", func(t *testing.T) {
		x := newFixture(t)
		x.bucket(t, "b")

		require.NoError(t, x.fs.Create(ctx, "s3a://b/d/", true, nil))
		assert.Equal(t, []string{"d/"}, x.store.Keys("b"))

		st, err := x.fs.Stats(ctx, "s3a://b/d")
		require.NoError(t, err)
		assert.True(t, st.IsDir)
	})

	t.Run("bucket root", func(t *testing.T) {
		x := newFixture(t)
		x.bucket(t, "b")

		for _, p := range []string{"s3a://b", "s3a://b/"} {
			err := x.fs.Create(ctx, p, true, []byte("x"))
			require.Error(t, err, p)
			assert.Equal(t, errors.CodeInvalidPath, errors.GetCode(err), p)
		}
		assert.Empty(t, x.store.Keys("b"))
		assert.Zero(t, x.store.Calls(storage.OpPutObject))
	})
}

func TestAppend(t *testing.T) {
	ctx := context.Background()
	x := newFixture(t)
	x.bucket(t, "b")
	x.put(t, "b", "log", "one\n")

	require.NoError(t, x.fs.Append(ctx, "s3a://b/log", []byte("two\n")))
	require.NoError(t, x.fs.Append(ctx, "s3a://b/log", []byte("three\n")))

	data, _ := x.store.Object("b", "log")
	assert.Equal(t, "one\ntwo\nthree\n", string(data))

	err := x.fs.Append(ctx, "s3a://b/missing", []byte("x"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	_, ok := x.store.Object("b", "missing")
	assert.False(t, ok)
}
