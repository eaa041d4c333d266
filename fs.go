// Package s3fs presents a POSIX-like filesystem over an S3-style object store.
//
// Paths are URIs of the form scheme://bucket/key (scheme defaults to "s3a").
// The root, scheme://, lists buckets. Directories are emulated: a path is a
// directory if it is the root, a bucket, a zero-byte marker object at
// key + "/", or the prefix of at least one other object. Nothing is cached;
// every call re-reads the store.
//
// Multi-object operations (copy, rename, tree removal, uploads) are built
// from many independent requests. They are not atomic and have no rollback:
// a failure leaves the store in whatever state had been reached, which the
// returned *Operation describes. Concurrent callers working on overlapping
// prefixes may interleave unpredictably.
//
// Every error is an errors.PlatformError; see package errors for the codes.
package s3fs

import (
	"context"
	"io/fs"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/jmgilman/go/s3fs/errors"
	"github.com/jmgilman/go/s3fs/internal/errs"
	"github.com/jmgilman/go/s3fs/internal/pathutil"
	"github.com/jmgilman/go/s3fs/internal/types"
	"github.com/jmgilman/go/s3fs/storage/miniostore"
)

// FS is a filesystem over one object store account.
// It is safe for concurrent use, subject to the store's own semantics.
type FS struct {
	remote *remote
	paths  pathutil.Resolver
	log    logrus.FieldLogger
	local  billy.Filesystem

	defaultRegion string
	regions       []string
	remoteHome    string
	defaultHome   string
	policy        HomePolicy
	chunkSize     int64
}

// New creates a filesystem from cfg.
// Returns error if configuration is invalid or the client cannot be built.
func New(cfg Config) (*FS, error) {
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "invalid config")
	}

	chunkSize := cfg.MultipartThreshold
	if chunkSize == 0 {
		chunkSize = DefaultMultipartThreshold
	}

	client := cfg.Client
	if client == nil {
		mc, err := minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create minio client")
		}
		client = miniostore.New(mc, miniostore.Options{PartSize: uint64(chunkSize)})
	}

	scheme := cfg.Scheme
	if scheme == "" {
		scheme = DefaultScheme
	}
	region := cfg.DefaultRegion
	if region == "" {
		region = DefaultRegion
	}

	var log logrus.FieldLogger = logrus.StandardLogger()
	if cfg.Logger != nil {
		log = cfg.Logger
	}
	log = log.WithField("fs", scheme)

	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	var policy HomePolicy = StaticHomePolicy{}
	if cfg.HomePolicy != nil {
		policy = cfg.HomePolicy
	}

	local := cfg.LocalFS
	if local == nil {
		local = osfs.New("")
	}

	return &FS{
		remote: &remote{
			client:  client,
			log:     log,
			tracer:  tp.Tracer(tracerName),
			metrics: newRemoteMetrics(cfg.Registerer),
		},
		paths:         pathutil.New(scheme),
		log:           log,
		local:         local,
		defaultRegion: region,
		regions:       cfg.Regions,
		remoteHome:    cfg.RemoteStorageHome,
		defaultHome:   cfg.DefaultHomePath,
		policy:        policy,
		chunkSize:     chunkSize,
	}, nil
}

// Scheme returns the URI scheme of this filesystem.
func (f *FS) Scheme() string { return f.paths.Scheme() }

// Root returns the root URI, which lists buckets.
func (f *FS) Root() string { return f.paths.Root() }

// Join joins path elements onto base.
func (f *FS) Join(base string, elems ...string) string { return f.paths.Join(base, elems...) }

// Normpath normalizes p lexically.
func (f *FS) Normpath(p string) string { return f.paths.Normalize(p) }

// ParentPath returns the directory containing p.
func (f *FS) ParentPath(p string) string { return f.paths.ParentPath(p) }

// IsRoot reports whether p is the root.
func (f *FS) IsRoot(p string) bool { return f.paths.IsRoot(p) }

// Abspath resolves p relative to cwd.
func (f *FS) Abspath(cwd, p string) string { return f.paths.Abspath(cwd, p) }

// UploadChunkSize returns the part size used for streamed uploads.
func (f *FS) UploadChunkSize() int64 { return f.chunkSize }

// Stats returns the stat of p. Fails with CodeNotFound if nothing exists there.
func (f *FS) Stats(ctx context.Context, p string) (*Stat, error) {
	p = f.paths.Normalize(p)
	st, err := f.stat(ctx, p)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errs.NotFound(p)
	}
	return st, nil
}

// Exists reports whether anything exists at p.
func (f *FS) Exists(ctx context.Context, p string) (bool, error) {
	st, err := f.stat(ctx, p)
	return st != nil, err
}

// IsFile reports whether p is an object.
func (f *FS) IsFile(ctx context.Context, p string) (bool, error) {
	st, err := f.stat(ctx, p)
	if err != nil || st == nil {
		return false, err
	}
	return !st.IsDir, nil
}

// IsDir reports whether p is a directory.
func (f *FS) IsDir(ctx context.Context, p string) (bool, error) {
	st, err := f.stat(ctx, p)
	if err != nil || st == nil {
		return false, err
	}
	return st.IsDir, nil
}

// Listdir returns the names of the entries directly under p.
func (f *FS) Listdir(ctx context.Context, p string, opts ...ListOption) ([]string, error) {
	stats, err := f.ListStats(ctx, p, opts...)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(stats))
	for _, st := range stats {
		names = append(names, st.Name)
	}
	return names, nil
}

// ReadDir returns the entries directly under p sorted by name.
func (f *FS) ReadDir(ctx context.Context, p string) ([]fs.DirEntry, error) {
	stats, err := f.ListStats(ctx, p)
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, 0, len(stats))
	for _, st := range stats {
		entries = append(entries, types.NewDirEntry(st.fileInfo()))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

// Restore is not supported: the store has no trash.
func (f *FS) Restore(_ context.Context, p string) error {
	return errors.WithContext(
		errors.New(errors.CodeUnsupported, "Moving to trash is not implemented"),
		"path", p,
	)
}

// uri formats bucket and key as a normalized path.
func (f *FS) uri(bucket, key string) string {
	return f.paths.Normalize(f.paths.Format(bucket, key))
}
