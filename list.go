package s3fs

import (
	"context"
	"sort"

	"github.com/jmgilman/go/s3fs/errors"
	"github.com/jmgilman/go/s3fs/internal/errs"
	"github.com/jmgilman/go/s3fs/internal/pathutil"
	"github.com/jmgilman/go/s3fs/storage"
)

type listOptions struct {
	glob string
}

// ListOption configures ListStats and Listdir.
type ListOption func(*listOptions)

// WithGlob filters entries by pattern. Filtering is not implemented and
// requesting it fails with CodeUnsupported.
func WithGlob(pattern string) ListOption {
	return func(o *listOptions) {
		o.glob = pattern
	}
}

// ListStats returns the stats of the entries directly under p. At the root
// these are the buckets, sorted by name.
func (f *FS) ListStats(ctx context.Context, p string, opts ...ListOption) ([]*Stat, error) {
	var o listOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.glob != "" {
		return nil, errors.WithContext(
			errors.New(errors.CodeUnsupported, "Option `glob` is not implemented"),
			"glob", o.glob,
		)
	}

	if f.paths.IsRoot(p) {
		return f.listBuckets(ctx)
	}

	stats, err := f.listDir(ctx, p)
	return stats, errs.Access(err, p, false)
}

func (f *FS) listBuckets(ctx context.Context) ([]*Stat, error) {
	buckets, err := f.remote.listBuckets(ctx)
	if err != nil {
		if errors.HasCode(err, errors.CodeForbidden) {
			return nil, errors.Wrap(err, errors.CodeListBucketsForbidden,
				"You do not have permissions to list all buckets. Please specify a bucket name you have access to.")
		}
		return nil, errors.Wrapf(err, errors.GetCode(err), "Failed to retrieve buckets: %s", causeMessage(err))
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Name < buckets[j].Name
	})

	stats := make([]*Stat, 0, len(buckets))
	for _, b := range buckets {
		stats = append(stats, f.bucketStat(b.Name, b.CreationDate))
	}
	return stats, nil
}

// listDir lists one level under p with a delimited listing. Sub-prefixes
// come back as directories and the marker of p itself is dropped.
func (f *FS) listDir(ctx context.Context, p string) ([]*Stat, error) {
	loc, err := f.paths.Parse(p)
	if err != nil {
		return nil, err
	}
	if err := f.getBucket(ctx, loc.Bucket); err != nil {
		return nil, err
	}

	prefix := pathutil.AppendSeparator(loc.Key)
	objs, err := f.remote.list(ctx, loc.Bucket, storage.ListOptions{Prefix: prefix})
	if err != nil {
		return nil, err
	}

	stats := make([]*Stat, 0, len(objs))
	for _, obj := range objs {
		if obj.Key == prefix {
			continue
		}
		stats = append(stats, f.statKey(loc.Bucket, obj))
	}
	return stats, nil
}
