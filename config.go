package s3fs

import (
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/jmgilman/go/s3fs/errors"
	"github.com/jmgilman/go/s3fs/storage"
)

const (
	// DefaultScheme is the URI scheme used when Config.Scheme is empty.
	DefaultScheme = "s3a"

	// DefaultRegion is used when Config.DefaultRegion is empty.
	DefaultRegion = "us-east-1"

	// DefaultMultipartThreshold is the upload chunk size used when
	// Config.MultipartThreshold is zero.
	DefaultMultipartThreshold = 64 * 1024 * 1024
)

// HomePolicy decides how home directories are handled for a deployment.
type HomePolicy interface {
	// AutoCreateHome reports whether CreateHomeDir should create directories.
	AutoCreateHome() bool

	// UserDirectories reports whether HomeDirectory appends the user name
	// to a bucket-level home path.
	UserDirectories() bool
}

// StaticHomePolicy is a HomePolicy with fixed answers.
type StaticHomePolicy struct {
	AutoCreate bool
	PerUser    bool
}

func (p StaticHomePolicy) AutoCreateHome() bool  { return p.AutoCreate }
func (p StaticHomePolicy) UserDirectories() bool { return p.PerUser }

// Config holds filesystem configuration.
type Config struct {
	// Client is an optional pre-configured store client.
	// If provided, Endpoint/AccessKey/SecretKey are ignored.
	Client storage.Client

	// Endpoint is the S3 server address (e.g., "localhost:9000").
	Endpoint string

	// AccessKey is the access key ID for authentication.
	AccessKey string

	// SecretKey is the secret access key for authentication.
	SecretKey string

	// UseSSL enables HTTPS connections.
	UseSSL bool

	// Scheme is the URI scheme of filesystem paths. Default: "s3a".
	Scheme string

	// DefaultRegion is the region new buckets are created in when it is one
	// of Regions. Default: "us-east-1".
	DefaultRegion string

	// Regions lists the regions buckets may be created in.
	Regions []string

	// RemoteStorageHome is a deprecated global home path. It takes
	// precedence over DefaultHomePath when set.
	RemoteStorageHome string

	// DefaultHomePath is the per-account home path.
	DefaultHomePath string

	// HomePolicy controls home directory handling. Default: no auto-creation
	// and no per-user directories.
	HomePolicy HomePolicy

	// LocalFS is the local filesystem CopyFromLocal reads from.
	// Default: the host filesystem.
	LocalFS billy.Filesystem

	// Logger receives filesystem logs. Default: the logrus standard logger.
	Logger logrus.FieldLogger

	// Registerer receives the remote call collectors. Nil disables export.
	Registerer prometheus.Registerer

	// TracerProvider creates the remote call spans. Default: the global provider.
	TracerProvider trace.TracerProvider

	// MultipartThreshold is the part size for streamed uploads and the value
	// reported by UploadChunkSize. Default: 64MB.
	MultipartThreshold int64
}

// validate checks if the configuration is valid.
// Either Client OR (Endpoint + AccessKey + SecretKey) must be provided.
func (c *Config) validate() error {
	if c.MultipartThreshold < 0 {
		return errors.New(errors.CodeInvalidConfig, "multipart threshold must not be negative")
	}
	if strings.Contains(c.Scheme, "://") {
		return errors.Newf(errors.CodeInvalidConfig, "scheme %q must not include \"://\"", c.Scheme)
	}

	// If Client is provided, we're done (connection fields are ignored)
	if c.Client != nil {
		return nil
	}

	if c.Endpoint == "" {
		return errors.New(errors.CodeInvalidConfig, "endpoint is required when client is not provided")
	}
	if c.AccessKey == "" {
		return errors.New(errors.CodeInvalidConfig, "access key is required when client is not provided")
	}
	if c.SecretKey == "" {
		return errors.New(errors.CodeInvalidConfig, "secret key is required when client is not provided")
	}
	return nil
}

// Configuration keys read by ConfigFromViper.
const (
	KeyEndpoint           = "endpoint"
	KeyAccessKey          = "access_key"
	KeySecretKey          = "secret_key"
	KeyUseSSL             = "use_ssl"
	KeyScheme             = "scheme"
	KeyDefaultRegion      = "default_region"
	KeyRegions            = "regions"
	KeyRemoteStorageHome  = "remote_storage_home"
	KeyDefaultHomePath    = "default_home_path"
	KeyAutoCreateHome     = "auto_create_home"
	KeyUserDirectories    = "user_directories"
	KeyMultipartThreshold = "multipart_threshold"
)

// NewViper returns a viper instance with the filesystem defaults set and
// environment variables bound under the S3FS_ prefix (S3FS_ENDPOINT, ...).
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("S3FS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyUseSSL, true)
	v.SetDefault(KeyScheme, DefaultScheme)
	v.SetDefault(KeyDefaultRegion, DefaultRegion)
	v.SetDefault(KeyRegions, []string{DefaultRegion})
	v.SetDefault(KeyMultipartThreshold, DefaultMultipartThreshold)
	return v
}

// ConfigFromViper builds a Config from v. Fields that cannot be expressed
// as configuration values (Client, Logger, Registerer, TracerProvider,
// LocalFS) are left for the caller.
func ConfigFromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Endpoint:          v.GetString(KeyEndpoint),
		AccessKey:         v.GetString(KeyAccessKey),
		SecretKey:         v.GetString(KeySecretKey),
		UseSSL:            v.GetBool(KeyUseSSL),
		Scheme:            v.GetString(KeyScheme),
		DefaultRegion:     v.GetString(KeyDefaultRegion),
		Regions:           v.GetStringSlice(KeyRegions),
		RemoteStorageHome: v.GetString(KeyRemoteStorageHome),
		DefaultHomePath:   v.GetString(KeyDefaultHomePath),
		HomePolicy: StaticHomePolicy{
			AutoCreate: v.GetBool(KeyAutoCreateHome),
			PerUser:    v.GetBool(KeyUserDirectories),
		},
		MultipartThreshold: v.GetInt64(KeyMultipartThreshold),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, errors.Wrap(err, errors.CodeInvalidConfig, fmt.Sprintf("invalid %s configuration", cfg.Scheme))
	}
	return cfg, nil
}
