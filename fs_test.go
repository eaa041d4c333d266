package s3fs

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/s3fs/errors"
	"github.com/jmgilman/go/s3fs/storage"
	"github.com/jmgilman/go/s3fs/storage/memstore"
)

type fixture struct {
	fs    *FS
	store *memstore.Store
	hook  *test.Hook
}

func newFixture(t *testing.T, opts ...func(*Config)) *fixture {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	store := memstore.New()

	cfg := Config{
		Client:  store,
		Regions: []string{DefaultRegion},
		Logger:  logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	f, err := New(cfg)
	require.NoError(t, err)
	return &fixture{fs: f, store: store, hook: hook}
}

func (x *fixture) bucket(t *testing.T, name string) {
	t.Helper()
	require.NoError(t, x.store.MakeBucket(context.Background(), name, ""))
}

func (x *fixture) put(t *testing.T, bucket, key, data string) {
	t.Helper()
	_, err := x.store.PutObject(context.Background(), bucket, key,
		strings.NewReader(data), int64(len(data)), storage.PutOptions{})
	require.NoError(t, err)
}

// messages returns the logged messages at level.
func (x *fixture) messages(level logrus.Level) []string {
	var out []string
	for _, e := range x.hook.AllEntries() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "client",
			cfg:  Config{Client: memstore.New()},
		},
		{
			name: "endpoint",
			cfg:  Config{Endpoint: "localhost:9000", AccessKey: "key", SecretKey: "secret"},
		},
		{
			name:    "missing endpoint",
			cfg:     Config{AccessKey: "key", SecretKey: "secret"},
			wantErr: true,
		},
		{
			name:    "missing secret",
			cfg:     Config{Endpoint: "localhost:9000", AccessKey: "key"},
			wantErr: true,
		},
		{
			name:    "negative threshold",
			cfg:     Config{Client: memstore.New(), MultipartThreshold: -1},
			wantErr: true,
		},
		{
			name:    "scheme with separator",
			cfg:     Config{Client: memstore.New(), Scheme: "s3://"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultScheme, f.Scheme())
			assert.Equal(t, "s3a://", f.Root())
			assert.Equal(t, int64(DefaultMultipartThreshold), f.UploadChunkSize())
		})
	}
}

func TestPathHelpers(t *testing.T) {
	x := newFixture(t, func(c *Config) { c.Scheme = "s3" })
	f := x.fs

	assert.Equal(t, "s3://", f.Root())
	assert.True(t, f.IsRoot("s3://"))
	assert.False(t, f.IsRoot("s3://b"))
	assert.Equal(t, "s3://b/a/c", f.Normpath("s3://b//a/./c/"))
	assert.Equal(t, "s3://b/a", f.ParentPath("s3://b/a/c"))
	assert.Equal(t, "s3://", f.ParentPath("s3://b"))
	assert.Equal(t, "s3://b/a/c", f.Join("s3://b", "a", "c"))
	assert.Equal(t, "s3://b/a/c", f.Abspath("s3://b/a", "c"))
	assert.Equal(t, "s3://x/y", f.Abspath("s3://b/a", "s3://x/y"))
}

func TestStat(t *testing.T) {
	ctx := context.Background()
	x := newFixture(t)
	x.bucket(t, "b")
	x.put(t, "b", "file.txt", "hello")
	x.put(t, "b", "marker/", "")
	x.put(t, "b", "implied/child", "1")

	t.Run("root", func(t *testing.T) {
		st, err := x.fs.Stats(ctx, "s3a://")
		require.NoError(t, err)
		assert.True(t, st.IsDir)
		assert.Equal(t, "s3a://", st.Path)
	})

	t.Run("bucket", func(t *testing.T) {
		st, err := x.fs.Stats(ctx, "s3a://b")
		require.NoError(t, err)
		assert.True(t, st.IsDir)
		assert.Equal(t, "b", st.Name)
	})

	t.Run("empty bucket", func(t *testing.T) {
		x.bucket(t, "empty")
		ok, err := x.fs.IsDir(ctx, "s3a://empty")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("file", func(t *testing.T) {
		st, err := x.fs.Stats(ctx, "s3a://b/file.txt")
		require.NoError(t, err)
		assert.False(t, st.IsDir)
		assert.Equal(t, int64(5), st.Size)
		assert.Equal(t, "file.txt", st.Name)
		assert.Equal(t, "s3a://b/file.txt", st.Path)
		assert.False(t, st.ModTime.IsZero())
		assert.Equal(t, fs.FileMode(0o644), st.FileInfo().Mode())
	})

	t.Run("marker", func(t *testing.T) {
		st, err := x.fs.Stats(ctx, "s3a://b/marker")
		require.NoError(t, err)
		assert.True(t, st.IsDir)
		assert.Equal(t, "marker", st.Name)
		assert.True(t, st.FileInfo().IsDir())
	})

	t.Run("implied", func(t *testing.T) {
		st, err := x.fs.Stats(ctx, "s3a://b/implied/")
		require.NoError(t, err)
		assert.True(t, st.IsDir)
		assert.Equal(t, "s3a://b/implied", st.Path)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := x.fs.Stats(ctx, "s3a://b/missing")
		require.Error(t, err)
		assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
		assert.Contains(t, err.Error(), "No such file or directory: 's3a://b/missing'")

		for _, check := range []func(context.Context, string) (bool, error){x.fs.Exists, x.fs.IsFile, x.fs.IsDir} {
			ok, err := check(ctx, "s3a://b/missing")
			require.NoError(t, err)
			assert.False(t, ok)
		}
	})

	t.Run("missing bucket", func(t *testing.T) {
		ok, err := x.fs.Exists(ctx, "s3a://nope/key")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("invalid path", func(t *testing.T) {
		_, err := x.fs.Stats(ctx, "/local/path")
		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidPath, errors.GetCode(err))
	})
}

func TestStatImpliedDirectorySurvivesMarkerRemoval(t *testing.T) {
	ctx := context.Background()
	x := newFixture(t)
	x.bucket(t, "b")
	x.put(t, "b", "dir/", "")
	x.put(t, "b", "dir/file", "data")

	ok, err := x.fs.IsDir(ctx, "s3a://b/dir")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, x.store.RemoveObject(ctx, "b", "dir/"))

	ok, err = x.fs.IsDir(ctx, "s3a://b/dir")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStatProbeIsSingleItem(t *testing.T) {
	ctx := context.Background()
	x := newFixture(t)
	x.bucket(t, "b")
	for _, k := range []string{"d/a", "d/b", "d/c"} {
		x.put(t, "b", k, "x")
	}
	x.store.ResetCalls()

	ok, err := x.fs.IsDir(ctx, "s3a://b/d")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, x.store.Calls(storage.OpStatObject))
	assert.Equal(t, 1, x.store.Calls(storage.OpListObjects))
}

func TestStatErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		op       storage.Op
		key      string
		err      error
		wantCode errors.ErrorCode
		wantMsg  string
	}{
		{
			name:     "forbidden object",
			op:       storage.OpStatObject,
			key:      "k",
			err:      storage.Forbidden("b", "k"),
			wantCode: errors.CodeForbidden,
			wantMsg:  `User is not authorized to access path: "s3a://b/k"`,
		},
		{
			name:     "wrong region",
			op:       storage.OpStatObject,
			key:      "k",
			err:      &storage.Error{Status: 301, Code: "PermanentRedirect", Message: "moved"},
			wantCode: errors.CodeStore,
			wantMsg:  "Check that you have access to read this bucket and that the region is correct",
		},
		{
			name:     "transport",
			op:       storage.OpStatObject,
			key:      "k",
			err:      &storage.Error{Message: "tls: handshake failure"},
			wantCode: errors.CodeStore,
			wantMsg:  "tls: handshake failure",
		},
		{
			name:     "forbidden bucket",
			op:       storage.OpHeadBucket,
			key:      "b",
			err:      storage.Forbidden("b", ""),
			wantCode: errors.CodeForbidden,
			wantMsg:  `User is not authorized to access path: "s3a://b/k"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := newFixture(t)
			x.bucket(t, "b")
			x.store.FailOn(tt.op, tt.key, tt.err)

			_, err := x.fs.Stats(ctx, "s3a://b/k")
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
			assert.Contains(t, err.Error(), tt.wantMsg)

			ok, err := x.fs.Exists(ctx, "s3a://b/k")
			require.Error(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStatTransportErrorIsRetryable(t *testing.T) {
	x := newFixture(t)
	x.bucket(t, "b")
	x.store.FailOn(storage.OpStatObject, "k", &storage.Error{Message: "connection reset"})

	_, err := x.fs.Stats(context.Background(), "s3a://b/k")
	require.Error(t, err)
	assert.True(t, errors.IsRetryable(err))
}

func TestReadDir(t *testing.T) {
	ctx := context.Background()
	x := newFixture(t)
	x.bucket(t, "b")
	x.put(t, "b", "dir/", "")
	x.put(t, "b", "dir/z", "1")
	x.put(t, "b", "dir/a", "22")
	x.put(t, "b", "dir/sub/y", "3")

	entries, err := x.fs.ReadDir(ctx, "s3a://b/dir")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "a", entries[0].Name())
	assert.False(t, entries[0].IsDir())
	assert.Equal(t, "sub", entries[1].Name())
	assert.True(t, entries[1].IsDir())
	assert.Equal(t, "z", entries[2].Name())

	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Equal(t, int64(2), info.Size())
}

func TestRestore(t *testing.T) {
	x := newFixture(t)
	err := x.fs.Restore(context.Background(), "s3a://b/k")
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnsupported, errors.GetCode(err))
	assert.Contains(t, err.Error(), "Moving to trash is not implemented")
}
