package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/s3fs/errors"
)

var r = New("s3a")

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Location
	}{
		{"bucket only", "s3a://bucket", Location{Bucket: "bucket"}},
		{"bucket with slash", "s3a://bucket/", Location{Bucket: "bucket"}},
		{"top-level key", "s3a://bucket/file.txt", Location{"bucket", "file.txt", "file.txt"}},
		{"nested key", "s3a://bucket/a/b/c", Location{"bucket", "a/b/c", "c"}},
		{"directory key keeps separator", "s3a://bucket/a/b/", Location{"bucket", "a/b/", "b"}},
		{"doubled separators", "s3a://bucket/a//b", Location{"bucket", "a/b", "b"}},
		{"upper-case scheme", "S3A://bucket/k", Location{"bucket", "k", "k"}},
		{"leading slashes", "//s3a://bucket/k", Location{"bucket", "k", "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"s3a://", "/local/path", "gs://bucket/key", ""} {
		t.Run(in, func(t *testing.T) {
			_, err := r.Parse(in)
			require.Error(t, err)
			assert.Equal(t, errors.CodeInvalidPath, errors.GetCode(err))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"s3a://", "s3a://"},
		{"s3a:///", "s3a://"},
		{"s3a://bucket", "s3a://bucket"},
		{"s3a://bucket/", "s3a://bucket"},
		{"s3a://bucket//a///b/", "s3a://bucket/a/b"},
		{"s3a://bucket/a/./b/../c", "s3a://bucket/a/c"},
		{"S3A://bucket/a", "s3a://bucket/a"},
		{"relative/../path/", "path"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"s3a://", "s3a://b", "s3a://b/", "s3a://b//x//y/", "s3a://b/./x/../y",
		"S3A://B/k", "s3a://b/a b/c", "a/b/", "/abs//path", "s3a://b/../..",
	}
	for _, in := range inputs {
		once := r.Normalize(in)
		assert.Equal(t, once, r.Normalize(once), in)
	}
}

func TestIsRoot(t *testing.T) {
	assert.True(t, r.IsRoot("s3a://"))
	assert.True(t, r.IsRoot("s3a:///"))
	assert.True(t, r.IsRoot("S3A://"))
	assert.False(t, r.IsRoot("s3a://bucket"))
	assert.False(t, r.IsRoot("s3a://bucket/key"))
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"s3a://", "s3a://"},
		{"s3a://bucket", "s3a://"},
		{"s3a://bucket/", "s3a://"},
		{"s3a://bucket/file", "s3a://bucket"},
		{"s3a://bucket/dir/file", "s3a://bucket/dir"},
		{"s3a://bucket/dir/sub/", "s3a://bucket/dir"},
		{"s3a://bucket/a/b/c/d", "s3a://bucket/a/b/c"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, r.ParentPath(tt.in))
		})
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "s3a://bucket/a/b", r.Join("s3a://bucket", "a", "b"))
	assert.Equal(t, "s3a://bucket/a/b", r.Join("s3a://bucket/", "/a/", "b/"))
	assert.Equal(t, "s3a://bucket", r.Join("s3a://", "bucket"))
	assert.Equal(t, "s3a://other/x", r.Join("s3a://bucket/a", "s3a://other", "x"))
	assert.Equal(t, "s3a://bucket", r.Join("s3a://bucket", ""))
}

func TestAbspath(t *testing.T) {
	assert.Equal(t, "s3a://b/dst", r.Abspath("s3a://b/src", "s3a://b/dst/"))
	assert.Equal(t, "s3a://b/src/child", r.Abspath("s3a://b/src", "child"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "s3a://", r.Format("", ""))
	assert.Equal(t, "s3a://b", r.Format("b", ""))
	assert.Equal(t, "s3a://b/dir/", r.Format("b", "dir/"))
}

func TestSeparators(t *testing.T) {
	assert.Equal(t, "", AppendSeparator(""))
	assert.Equal(t, "a/", AppendSeparator("a"))
	assert.Equal(t, "a/", AppendSeparator("a/"))
	assert.Equal(t, "a", CutSeparator("a/"))
	assert.Equal(t, "a", CutSeparator("a"))
}
