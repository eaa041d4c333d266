package s3fs

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/jmgilman/go/s3fs/errors"
	"github.com/jmgilman/go/s3fs/internal/pathutil"
	"github.com/jmgilman/go/s3fs/internal/types"
	"github.com/jmgilman/go/s3fs/storage"
)

// Stat describes a path. It is computed from the store on every call and is
// never updated in place; re-resolve after a mutation.
type Stat struct {
	// Path is the normalized URI.
	Path string

	// Name is the last path segment: the bucket name for buckets, empty for
	// the root.
	Name string

	// Size is the object size. It is zero for directories.
	Size int64

	IsDir bool

	// ModTime is the object modification time, or the bucket creation time
	// when listed from the root. Zero when unknown.
	ModTime time.Time
}

// FileInfo returns an io/fs view of the stat.
func (s *Stat) FileInfo() fs.FileInfo {
	return s.fileInfo()
}

func (s *Stat) fileInfo() *types.FileInfo {
	return types.NewFileInfo(s.Name, s.Size, s.ModTime, s.IsDir)
}

func (f *FS) rootStat() *Stat {
	return &Stat{Path: f.paths.Root(), IsDir: true}
}

func (f *FS) bucketStat(name string, created time.Time) *Stat {
	return &Stat{Path: f.uri(name, ""), Name: name, IsDir: true, ModTime: created}
}

func (f *FS) dirStat(bucket, key string) *Stat {
	uri := f.uri(bucket, key)
	return &Stat{Path: uri, Name: basename(key), IsDir: true}
}

// stat resolves p. It returns nil when nothing exists at p.
//
// An exact object match wins; otherwise a single-item listing under
// key + "/" decides whether p is an implied directory.
func (f *FS) stat(ctx context.Context, p string) (*Stat, error) {
	if f.paths.IsRoot(p) {
		return f.rootStat(), nil
	}

	loc, err := f.paths.Parse(p)
	if err != nil {
		return nil, err
	}

	if err := f.getBucket(ctx, loc.Bucket); err != nil {
		if errors.HasCode(err, errors.CodeNotFound) {
			return nil, nil
		}
		return nil, f.statError(err, p)
	}
	if loc.Key == "" {
		return f.bucketStat(loc.Bucket, time.Time{}), nil
	}

	info, err := f.remote.statObject(ctx, loc.Bucket, loc.Key)
	switch {
	case err == nil:
		return f.statKey(loc.Bucket, info), nil
	case errors.HasCode(err, errors.CodeNotFound):
		return f.probeDir(ctx, loc.Bucket, loc.Key)
	default:
		return nil, f.statError(err, p)
	}
}

// statKey builds the stat of a listed or fetched object. Keys ending in the
// separator are directory markers.
func (f *FS) statKey(bucket string, info storage.ObjectInfo) *Stat {
	if info.IsPrefix || info.Key == "" || strings.HasSuffix(info.Key, pathutil.Separator) {
		st := f.dirStat(bucket, info.Key)
		st.ModTime = info.LastModified
		return st
	}
	return &Stat{
		Path:    f.uri(bucket, info.Key),
		Name:    basename(info.Key),
		Size:    info.Size,
		ModTime: info.LastModified,
	}
}

// probeDir checks for any object under key + "/" with a one-item listing.
func (f *FS) probeDir(ctx context.Context, bucket, key string) (*Stat, error) {
	prefix := pathutil.AppendSeparator(key)
	objs, err := f.remote.list(ctx, bucket, storage.ListOptions{Prefix: prefix, MaxKeys: 1})
	if err != nil {
		return nil, f.statError(err, f.uri(bucket, key))
	}
	if len(objs) == 0 {
		return nil, nil
	}
	return f.dirStat(bucket, key), nil
}

// statError rewrites an object-level failure for p.
func (f *FS) statError(err error, p string) error {
	switch errors.GetCode(err) {
	case errors.CodeForbidden:
		return errors.WithContext(
			errors.Wrapf(err, errors.CodeForbidden, "User is not authorized to access path: \"%s\"", p),
			"path", p,
		)
	case errors.CodeRegionMismatch:
		return errors.WithContext(
			errors.Wrapf(err, errors.CodeStore,
				"Failed to access path: \"%s\" Check that you have access to read this bucket and that the region is correct: %s",
				p, causeMessage(err)),
			"path", p,
		)
	default:
		return errors.WithContext(
			errors.Wrapf(err, errors.CodeStore, "Failed to access path \"%s\": %s", p, causeMessage(err)),
			"path", p,
		)
	}
}

// causeMessage returns the message of a PlatformError without its code.
func causeMessage(err error) string {
	var pe errors.PlatformError
	if errors.As(err, &pe) {
		return pe.Message()
	}
	return fmt.Sprint(err)
}

func basename(key string) string {
	key = strings.TrimSuffix(key, pathutil.Separator)
	if i := strings.LastIndex(key, pathutil.Separator); i >= 0 {
		return key[i+1:]
	}
	return key
}
