package s3fs

import (
	"context"

	"github.com/sirupsen/logrus"
)

// HomeDirectory returns the home path for user. The deprecated remote
// storage home wins over the default home path; each is used only when it
// carries this filesystem's scheme. When the policy asks for per-user
// directories and the home is a bucket, user is appended.
func (f *FS) HomeDirectory(user string) string {
	home := f.Root()
	switch {
	case f.paths.HasScheme(f.remoteHome):
		home = f.paths.Normalize(f.remoteHome)
	case f.paths.HasScheme(f.defaultHome):
		home = f.paths.Normalize(f.defaultHome)
	}

	if user == "" || !f.policy.UserDirectories() || f.IsRoot(home) {
		return home
	}
	loc, err := f.paths.Parse(home)
	if err != nil || loc.Key != "" {
		return home
	}
	return f.Join(home, user)
}

// CreateHomeDir creates p when the policy allows it. Failures are logged,
// never returned.
func (f *FS) CreateHomeDir(ctx context.Context, p string) {
	log := f.log.WithField("path", p)
	if !f.policy.AutoCreateHome() {
		log.Info("Create home directory is not available")
		return
	}

	log.Debug("Creating home directory")
	if err := f.Mkdir(ctx, p); err != nil {
		log.WithFields(logrus.Fields{"error": err}).Warn("Failed to create home directory")
	}
}
