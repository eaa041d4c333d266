// Package miniostore implements storage.Client on top of minio-go.
//
// It works against MinIO and any S3-compatible endpoint. Every error returned
// is a *storage.Error built from the minio ErrorResponse, so callers never see
// minio types.
package miniostore

import (
	"bytes"
	"context"
	"io"
	"iter"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"golang.org/x/sync/errgroup"

	"github.com/jmgilman/go/s3fs/storage"
)

// Store adapts a *minio.Client to storage.Client.
type Store struct {
	client   *minio.Client
	partSize uint64
}

// Options tunes a Store.
type Options struct {
	// PartSize is the multipart chunk size for streamed uploads.
	// Zero uses the SDK default.
	PartSize uint64
}

// New wraps client.
func New(client *minio.Client, opts Options) *Store {
	return &Store{
		client:   client,
		partSize: opts.PartSize,
	}
}

// Client returns the wrapped minio client.
func (s *Store) Client() *minio.Client {
	return s.client
}

func (s *Store) ListBuckets(ctx context.Context) ([]storage.BucketInfo, error) {
	buckets, err := s.client.ListBuckets(ctx)
	if err != nil {
		return nil, translate(err, "", "")
	}
	out := make([]storage.BucketInfo, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, storage.BucketInfo{Name: b.Name, CreationDate: b.CreationDate})
	}
	return out, nil
}

func (s *Store) HeadBucket(ctx context.Context, bucket string) error {
	ok, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return translate(err, bucket, "")
	}
	if !ok {
		return storage.NotFound(bucket, "")
	}
	return nil
}

func (s *Store) MakeBucket(ctx context.Context, bucket, region string) error {
	err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region})
	return translate(err, bucket, "")
}

func (s *Store) RemoveBucket(ctx context.Context, bucket string) error {
	return translate(s.client.RemoveBucket(ctx, bucket), bucket, "")
}

func (s *Store) BucketRegion(ctx context.Context, bucket string) (string, error) {
	region, err := s.client.GetBucketLocation(ctx, bucket)
	if err != nil {
		return "", translate(err, bucket, "")
	}
	return region, nil
}

// ListObjects streams the minio listing. Stopping early cancels the listing
// goroutine.
func (s *Store) ListObjects(ctx context.Context, bucket string, opts storage.ListOptions) iter.Seq2[storage.ObjectInfo, error] {
	return func(yield func(storage.ObjectInfo, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		n := 0
		seen := make(map[string]bool)
		for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
			Prefix:    opts.Prefix,
			Recursive: opts.Recursive,
			MaxKeys:   opts.MaxKeys,
		}) {
			if obj.Err != nil {
				yield(storage.ObjectInfo{}, translate(obj.Err, bucket, opts.Prefix))
				return
			}
			info := objectInfo(obj)
			if !opts.Recursive {
				// Some servers return a marker both as content and as a
				// common prefix.
				if seen[obj.Key] {
					continue
				}
				seen[obj.Key] = true
				info.IsPrefix = isCommonPrefix(obj.Key, opts.Prefix)
			}
			if !yield(info, nil) {
				return
			}
			n++
			if opts.MaxKeys > 0 && n >= opts.MaxKeys {
				return
			}
		}
	}
}

func (s *Store) StatObject(ctx context.Context, bucket, key string) (storage.ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return storage.ObjectInfo{}, translate(err, bucket, key)
	}
	return objectInfo(info), nil
}

// GetObject issues a range request. Missing objects fail here rather than on
// the first Read. The existence check must not go through Object.Stat, which
// clears the range header.
func (s *Store) GetObject(ctx context.Context, bucket, key string, offset, length int64) (io.ReadCloser, error) {
	if _, err := s.StatObject(ctx, bucket, key); err != nil {
		return nil, err
	}
	if length == 0 {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}

	opts := minio.GetObjectOptions{}
	switch {
	case length > 0:
		if err := opts.SetRange(offset, offset+length-1); err != nil {
			return nil, translate(err, bucket, key)
		}
	case offset > 0:
		if err := opts.SetRange(offset, 0); err != nil {
			return nil, translate(err, bucket, key)
		}
	}

	obj, err := s.client.GetObject(ctx, bucket, key, opts)
	if err != nil {
		return nil, translate(err, bucket, key)
	}
	return &object{obj: obj, bucket: bucket, key: key}, nil
}

// object translates errors surfacing from the lazily issued GET.
type object struct {
	obj    *minio.Object
	bucket string
	key    string
}

func (o *object) Read(p []byte) (int, error) {
	n, err := o.obj.Read(p)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return n, translate(err, o.bucket, o.key)
	}
	return n, err
}

func (o *object) Close() error {
	return o.obj.Close()
}

// PutObject uploads r. NoOverwrite is checked with a StatObject before the
// upload and is not atomic.
func (s *Store) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts storage.PutOptions) (storage.ObjectInfo, error) {
	if opts.NoOverwrite {
		_, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
		if err == nil {
			return storage.ObjectInfo{}, &storage.Error{
				Status:  http.StatusPreconditionFailed,
				Code:    "PreconditionFailed",
				Message: "object already exists",
				Bucket:  bucket,
				Key:     key,
			}
		}
		if se := translate(err, bucket, key); !storage.IsNotFound(se) {
			return storage.ObjectInfo{}, se
		}
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	info, err := s.client.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
		PartSize:    s.partSize,
	})
	if err != nil {
		return storage.ObjectInfo{}, translate(err, bucket, key)
	}
	return storage.ObjectInfo{
		Key:          info.Key,
		Size:         info.Size,
		LastModified: info.LastModified,
		ETag:         info.ETag,
	}, nil
}

func (s *Store) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	_, err := s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: dstBucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: srcBucket, Object: srcKey},
	)
	return translate(err, srcBucket, srcKey)
}

func (s *Store) RemoveObject(ctx context.Context, bucket, key string) error {
	err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	return translate(err, bucket, key)
}

// RemoveObjects feeds keys to the minio batch delete and collects the
// per-key failures. A missing bucket fails the whole request.
func (s *Store) RemoveObjects(ctx context.Context, bucket string, keys []string) ([]storage.DeleteError, error) {
	g, gctx := errgroup.WithContext(ctx)

	objectsCh := make(chan minio.ObjectInfo)
	g.Go(func() error {
		defer close(objectsCh)
		for _, key := range keys {
			select {
			case objectsCh <- minio.ObjectInfo{Key: key}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var failed []storage.DeleteError
	var requestErr error
	for rerr := range s.client.RemoveObjects(gctx, bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rerr.Err == nil {
			continue
		}
		resp := minio.ToErrorResponse(rerr.Err)
		if resp.Code == "NoSuchBucket" && requestErr == nil {
			requestErr = translate(rerr.Err, bucket, "")
			continue
		}
		msg := resp.Message
		if msg == "" {
			msg = rerr.Err.Error()
		}
		failed = append(failed, storage.DeleteError{
			Key:     rerr.ObjectName,
			Code:    resp.Code,
			Message: msg,
		})
	}

	if err := g.Wait(); err != nil && requestErr == nil {
		requestErr = translate(err, bucket, "")
	}
	if requestErr != nil {
		return nil, requestErr
	}
	return failed, nil
}

func objectInfo(obj minio.ObjectInfo) storage.ObjectInfo {
	return storage.ObjectInfo{
		Key:          obj.Key,
		Size:         obj.Size,
		LastModified: obj.LastModified,
		ETag:         obj.ETag,
	}
}

// isCommonPrefix reports whether key from a delimited listing under prefix
// groups deeper keys. The marker at prefix itself is an object.
func isCommonPrefix(key, prefix string) bool {
	return key != prefix && strings.HasSuffix(key, storage.Separator)
}

// translate converts a minio error into a *storage.Error.
func translate(err error, bucket, key string) error {
	if err == nil {
		return nil
	}

	resp := minio.ToErrorResponse(err)
	se := &storage.Error{
		Status:  resp.StatusCode,
		Code:    resp.Code,
		Message: resp.Message,
		Region:  resp.Region,
		Bucket:  bucket,
		Key:     key,
		Err:     err,
	}
	if resp.BucketName != "" {
		se.Bucket = resp.BucketName
	}
	if resp.Key != "" {
		se.Key = resp.Key
	}

	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		se.Status = http.StatusNotFound
	case "AccessDenied":
		se.Status = http.StatusForbidden
	case "PermanentRedirect":
		if se.Status == 0 {
			se.Status = http.StatusMovedPermanently
		}
	case "AuthorizationHeaderMalformed":
		if se.Status == 0 {
			se.Status = http.StatusBadRequest
		}
	}
	return se
}

var _ storage.Client = (*Store)(nil)
