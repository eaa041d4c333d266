package s3fs

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/s3fs/storage"
)

func TestHomeDirectory(t *testing.T) {
	tests := []struct {
		name        string
		remoteHome  string
		defaultHome string
		perUser     bool
		user        string
		want        string
	}{
		{
			name: "nothing configured",
			user: "alice",
			want: "s3a://",
		},
		{
			name:        "default home",
			defaultHome: "s3a://home/base/",
			want:        "s3a://home/base",
		},
		{
			name:        "remote home wins",
			remoteHome:  "s3a://legacy",
			defaultHome: "s3a://home",
			want:        "s3a://legacy",
		},
		{
			name:        "remote home without scheme is ignored",
			remoteHome:  "/local/home",
			defaultHome: "s3a://home",
			want:        "s3a://home",
		},
		{
			name:        "per user on bucket",
			defaultHome: "s3a://home",
			perUser:     true,
			user:        "alice",
			want:        "s3a://home/alice",
		},
		{
			name:        "per user below bucket",
			defaultHome: "s3a://home/base",
			perUser:     true,
			user:        "alice",
			want:        "s3a://home/base",
		},
		{
			name:        "per user without user",
			defaultHome: "s3a://home",
			perUser:     true,
			want:        "s3a://home",
		},
		{
			name:    "per user on root",
			perUser: true,
			user:    "alice",
			want:    "s3a://",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := newFixture(t, func(c *Config) {
				c.RemoteStorageHome = tt.remoteHome
				c.DefaultHomePath = tt.defaultHome
				c.HomePolicy = StaticHomePolicy{PerUser: tt.perUser}
			})
			assert.Equal(t, tt.want, x.fs.HomeDirectory(tt.user))
		})
	}
}

func TestCreateHomeDir(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		x := newFixture(t)

		x.fs.CreateHomeDir(ctx, "s3a://home/alice")
		assert.Zero(t, x.store.Calls(storage.OpMakeBucket))
		assert.Contains(t, x.messages(logrus.InfoLevel), "Create home directory is not available")
	})

	t.Run("enabled", func(t *testing.T) {
		x := newFixture(t, func(c *Config) {
			c.HomePolicy = StaticHomePolicy{AutoCreate: true}
		})

		x.fs.CreateHomeDir(ctx, "s3a://home/alice")
		ok, err := x.fs.IsDir(ctx, "s3a://home/alice")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("failure is logged", func(t *testing.T) {
		x := newFixture(t, func(c *Config) {
			c.HomePolicy = StaticHomePolicy{AutoCreate: true}
		})

		x.fs.CreateHomeDir(ctx, "s3a://Bad_Bucket/alice")
		assert.Contains(t, x.messages(logrus.WarnLevel), "Failed to create home directory")
	})
}
