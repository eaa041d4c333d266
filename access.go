package s3fs

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Permission is an access kind checked by CheckAccess.
type Permission string

const (
	PermissionRead  Permission = "READ"
	PermissionWrite Permission = "WRITE"
)

// CheckAccess reports whether the caller can use p with perm. A write check
// creates and removes a uniquely named temporary object under p; any other
// check opens p. Failures are logged and reported as false.
func (f *FS) CheckAccess(ctx context.Context, p string, perm Permission) bool {
	p = f.paths.Normalize(p)

	var err error
	if perm == PermissionWrite {
		err = f.probeWrite(ctx, p)
	} else {
		err = f.probeRead(ctx, p)
	}
	if err != nil {
		f.log.WithFields(logrus.Fields{"path": p, "permission": string(perm)}).
			WithError(err).Warnf("Failed to check %s access to %s", perm, p)
		return false
	}
	return true
}

func (f *FS) probeWrite(ctx context.Context, p string) error {
	tmp := f.Join(p, "temp_"+uuid.NewString())
	if err := f.Create(ctx, tmp, true, nil); err != nil {
		return err
	}
	_, err := f.RemoveTree(ctx, tmp, true)
	return err
}

func (f *FS) probeRead(ctx context.Context, p string) error {
	file, err := f.Open(ctx, p)
	if err != nil {
		return err
	}
	return file.Close()
}
