package s3fs

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jmgilman/go/s3fs/internal/errs"
	"github.com/jmgilman/go/s3fs/storage"
)

const tracerName = "github.com/jmgilman/go/s3fs"

// remote is the single boundary every store call passes through. Each call
// gets a span, a metrics observation and a debug log line, and its error is
// translated into the local taxonomy.
type remote struct {
	client  storage.Client
	log     logrus.FieldLogger
	tracer  trace.Tracer
	metrics *remoteMetrics
}

func (r *remote) do(ctx context.Context, op storage.Op, bucket, key string, fn func(context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, "s3fs."+string(op),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("s3.bucket", bucket),
			attribute.String("s3.key", key),
		),
	)
	defer span.End()

	start := time.Now()
	err := errs.Translate(fn(ctx), op, bucket, key)
	dur := time.Since(start)

	r.metrics.observe(op, err, dur)

	entry := r.log.WithFields(logrus.Fields{
		"op":       string(op),
		"bucket":   bucket,
		"key":      key,
		"duration": dur,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		entry.WithError(err).Debug("remote call failed")
		return err
	}
	entry.Debug("remote call")
	return nil
}

func (r *remote) listBuckets(ctx context.Context) ([]storage.BucketInfo, error) {
	var out []storage.BucketInfo
	err := r.do(ctx, storage.OpListBuckets, "", "", func(ctx context.Context) error {
		var err error
		out, err = r.client.ListBuckets(ctx)
		return err
	})
	return out, err
}

func (r *remote) headBucket(ctx context.Context, bucket string) error {
	return r.do(ctx, storage.OpHeadBucket, bucket, "", func(ctx context.Context) error {
		return r.client.HeadBucket(ctx, bucket)
	})
}

func (r *remote) makeBucket(ctx context.Context, bucket, region string) error {
	return r.do(ctx, storage.OpMakeBucket, bucket, "", func(ctx context.Context) error {
		return r.client.MakeBucket(ctx, bucket, region)
	})
}

func (r *remote) removeBucket(ctx context.Context, bucket string) error {
	return r.do(ctx, storage.OpRemoveBucket, bucket, "", func(ctx context.Context) error {
		return r.client.RemoveBucket(ctx, bucket)
	})
}

func (r *remote) bucketRegion(ctx context.Context, bucket string) (string, error) {
	var region string
	err := r.do(ctx, storage.OpBucketRegion, bucket, "", func(ctx context.Context) error {
		var err error
		region, err = r.client.BucketRegion(ctx, bucket)
		return err
	})
	return region, err
}

// list drains a listing into memory. Callers mutate the listed prefix
// afterwards, so the listing must be complete first.
func (r *remote) list(ctx context.Context, bucket string, opts storage.ListOptions) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	err := r.do(ctx, storage.OpListObjects, bucket, opts.Prefix, func(ctx context.Context) error {
		for obj, err := range r.client.ListObjects(ctx, bucket, opts) {
			if err != nil {
				return err
			}
			out = append(out, obj)
		}
		return nil
	})
	return out, err
}

func (r *remote) statObject(ctx context.Context, bucket, key string) (storage.ObjectInfo, error) {
	var info storage.ObjectInfo
	err := r.do(ctx, storage.OpStatObject, bucket, key, func(ctx context.Context) error {
		var err error
		info, err = r.client.StatObject(ctx, bucket, key)
		return err
	})
	return info, err
}

func (r *remote) getObject(ctx context.Context, bucket, key string, offset, length int64) (io.ReadCloser, error) {
	var rc io.ReadCloser
	err := r.do(ctx, storage.OpGetObject, bucket, key, func(ctx context.Context) error {
		var err error
		rc, err = r.client.GetObject(ctx, bucket, key, offset, length)
		return err
	})
	return rc, err
}

func (r *remote) putObject(ctx context.Context, bucket, key string, body io.Reader, size int64, opts storage.PutOptions) error {
	return r.do(ctx, storage.OpPutObject, bucket, key, func(ctx context.Context) error {
		_, err := r.client.PutObject(ctx, bucket, key, body, size, opts)
		return err
	})
}

func (r *remote) copyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	return r.do(ctx, storage.OpCopyObject, srcBucket, srcKey, func(ctx context.Context) error {
		return r.client.CopyObject(ctx, srcBucket, srcKey, dstBucket, dstKey)
	})
}

func (r *remote) removeObject(ctx context.Context, bucket, key string) error {
	return r.do(ctx, storage.OpRemoveObject, bucket, key, func(ctx context.Context) error {
		return r.client.RemoveObject(ctx, bucket, key)
	})
}

func (r *remote) removeObjects(ctx context.Context, bucket string, keys []string) ([]storage.DeleteError, error) {
	var failed []storage.DeleteError
	err := r.do(ctx, storage.OpRemoveObjects, bucket, "", func(ctx context.Context) error {
		var err error
		failed, err = r.client.RemoveObjects(ctx, bucket, keys)
		return err
	})
	return failed, err
}
