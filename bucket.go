package s3fs

import (
	"context"
	"regexp"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/jmgilman/go/s3fs/errors"
	"github.com/jmgilman/go/s3fs/storage"
)

// bucketNamePattern accepts DNS-safe bucket names: dot-separated labels of
// lowercase alphanumerics and hyphens, no label starting or ending with a
// hyphen.
var bucketNamePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)*$`)

// ValidBucketName reports whether name is a DNS-safe bucket name.
func ValidBucketName(name string) bool {
	return bucketNamePattern.MatchString(name)
}

// location returns the region new buckets are created in: the default region
// when it is an allowed region, otherwise empty so the store decides.
func (f *FS) location() string {
	if slices.Contains(f.regions, f.defaultRegion) {
		return f.defaultRegion
	}
	return ""
}

// getBucket checks that name exists and is reachable from the configured
// region. A missing bucket is returned as CodeNotFound.
func (f *FS) getBucket(ctx context.Context, name string) error {
	err := f.remote.headBucket(ctx, name)
	switch errors.GetCode(err) {
	case errors.CodeForbidden:
		return errors.WithContext(
			errors.Wrapf(err, errors.CodeForbidden, "User is not authorized to access bucket named \"%s\".", name),
			"bucket", name,
		)
	case errors.CodeRegionMismatch:
		actual, _ := errors.ContextValue(err, "region")
		region, _ := actual.(string)
		if region == "" {
			region = f.resolveRegion(ctx, name)
		}
		return errors.WithContextMap(
			errors.Wrapf(err, errors.CodeRegionMismatch,
				"Failed to retrieve bucket \"%s\" in region \"%s\" with \"%s\". Your bucket is in region \"%s\"",
				name, f.location(), causeMessage(err), region),
			map[string]interface{}{"bucket": name, "region": region},
		)
	default:
		return err
	}
}

// getOrCreateBucket returns nil once name exists, creating it when missing.
func (f *FS) getOrCreateBucket(ctx context.Context, name string) error {
	err := f.getBucket(ctx, name)
	if errors.HasCode(err, errors.CodeNotFound) {
		return f.createBucket(ctx, name)
	}
	return f.bucketAccessError(err, name)
}

func (f *FS) createBucket(ctx context.Context, name string) error {
	region := f.location()
	// us-east-1 is the store default and must not be sent as a location constraint
	if region == DefaultRegion {
		region = ""
	}

	if err := f.remote.makeBucket(ctx, name, region); err != nil {
		return errors.WithContext(
			errors.Wrapf(err, errors.GetCode(err), "Failed to create S3 bucket \"%s\": %s", name, causeMessage(err)),
			"bucket", name,
		)
	}
	f.log.WithFields(logrus.Fields{"bucket": name, "region": region}).Info("Created bucket")
	return nil
}

// deleteBucket removes every object in name, one request per object, then
// the bucket itself. A failure part way leaves the bucket partially emptied;
// the returned keys are the objects already removed.
func (f *FS) deleteBucket(ctx context.Context, name string) ([]string, error) {
	if err := f.getBucket(ctx, name); err != nil {
		return nil, f.bucketAccessError(err, name)
	}

	objs, err := f.remote.list(ctx, name, storage.ListOptions{Recursive: true})
	if err != nil {
		return nil, f.bucketAccessError(err, name)
	}

	var removed []string
	for _, obj := range objs {
		if err := f.remote.removeObject(ctx, name, obj.Key); err != nil {
			return removed, f.bucketAccessError(err, name)
		}
		removed = append(removed, obj.Key)
	}

	if err := f.remote.removeBucket(ctx, name); err != nil {
		return removed, f.bucketAccessError(err, name)
	}

	f.log.WithField("bucket", name).Infof("Successfully deleted bucket name \"%s\" and all its contents.", name)
	return removed, nil
}

func (f *FS) bucketAccessError(err error, name string) error {
	if !errors.HasCode(err, errors.CodeForbidden) {
		return err
	}
	return errors.WithContext(
		errors.Wrapf(err, errors.CodeForbidden,
			"User is not authorized to access bucket named \"%s\". "+
				"If you are attempting to create a bucket, this bucket name is already reserved.", name),
		"bucket", name,
	)
}

// resolveRegion returns the region name lives in, or "" if it cannot be
// determined. Failures are logged, never returned.
func (f *FS) resolveRegion(ctx context.Context, name string) string {
	region, err := f.remote.bucketRegion(ctx, name)
	if err != nil {
		f.log.WithFields(logrus.Fields{"bucket": name, "error": err}).
			Warnf("Failed to fetch bucket \"%s\" location", name)
		return ""
	}
	return region
}
