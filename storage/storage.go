// Package storage defines the object-store capability the filesystem is
// built on: bucket and object primitives over a flat key space, with every
// failure reported as a status-coded *Error.
package storage

import (
	"context"
	"io"
	"iter"
	"time"
)

// Separator delimits path segments inside object keys.
const Separator = "/"

// Op names a store primitive. It is used for failure injection in tests and
// as the operation label in metrics.
type Op string

const (
	OpListBuckets   Op = "ListBuckets"
	OpHeadBucket    Op = "HeadBucket"
	OpMakeBucket    Op = "MakeBucket"
	OpRemoveBucket  Op = "RemoveBucket"
	OpBucketRegion  Op = "BucketRegion"
	OpListObjects   Op = "ListObjects"
	OpStatObject    Op = "StatObject"
	OpGetObject     Op = "GetObject"
	OpPutObject     Op = "PutObject"
	OpCopyObject    Op = "CopyObject"
	OpRemoveObject  Op = "RemoveObject"
	OpRemoveObjects Op = "RemoveObjects"
)

// BucketInfo describes a bucket.
type BucketInfo struct {
	Name         string
	CreationDate time.Time
}

// ObjectInfo describes an object or, in delimited listings, a common prefix.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ETag         string

	// IsPrefix is set for common prefixes returned by a delimited listing.
	// Prefix entries carry only Key.
	IsPrefix bool
}

// ListOptions controls ListObjects.
type ListOptions struct {
	// Prefix restricts results to keys starting with it.
	Prefix string

	// Recursive lists every key under Prefix. When false, keys are grouped
	// at the next Separator and the groups are returned as prefix entries.
	Recursive bool

	// MaxKeys stops the listing after this many entries. Zero means no limit.
	MaxKeys int
}

// PutOptions controls PutObject.
type PutOptions struct {
	// NoOverwrite asks the store to refuse the write if the key exists.
	NoOverwrite bool

	ContentType string
}

// DeleteError is a per-key failure reported by RemoveObjects.
type DeleteError struct {
	Key     string
	Code    string
	Message string
}

// Client is the object-store capability consumed by the filesystem.
//
// Implementations return *Error for every remote failure so that callers can
// classify it by Status without knowing the transport.
type Client interface {
	// ListBuckets returns every bucket visible to the caller.
	ListBuckets(ctx context.Context) ([]BucketInfo, error)

	// HeadBucket checks that bucket exists and is accessible.
	HeadBucket(ctx context.Context, bucket string) error

	// MakeBucket creates bucket. An empty region lets the store pick its default.
	MakeBucket(ctx context.Context, bucket, region string) error

	// RemoveBucket deletes an empty bucket.
	RemoveBucket(ctx context.Context, bucket string) error

	// BucketRegion returns the region bucket lives in.
	BucketRegion(ctx context.Context, bucket string) (string, error)

	// ListObjects yields the entries under opts.Prefix in key order.
	// Iteration stops at the first error.
	ListObjects(ctx context.Context, bucket string, opts ListOptions) iter.Seq2[ObjectInfo, error]

	// StatObject returns metadata for the object stored exactly at key.
	StatObject(ctx context.Context, bucket, key string) (ObjectInfo, error)

	// GetObject opens the object at key for reading from offset. A negative
	// length reads to the end of the object.
	GetObject(ctx context.Context, bucket, key string, offset, length int64) (io.ReadCloser, error)

	// PutObject stores size bytes from r at key. A negative size streams
	// until r is exhausted.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts PutOptions) (ObjectInfo, error)

	// CopyObject performs a server-side copy.
	CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error

	// RemoveObject deletes the object at key. Deleting a missing key succeeds.
	RemoveObject(ctx context.Context, bucket, key string) error

	// RemoveObjects deletes keys in batches and returns the keys the store
	// refused. The error is reserved for failures of the request itself.
	RemoveObjects(ctx context.Context, bucket string, keys []string) ([]DeleteError, error)
}
