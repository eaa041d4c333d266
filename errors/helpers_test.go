package errors

import (
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIs(t *testing.T) {
	sentinel := New(CodeNotFound, "not found")
	wrapped := Wrap(sentinel, CodeStore, "lookup failed")

	require.True(t, Is(wrapped, sentinel))
	require.False(t, Is(wrapped, New(CodeInvalidPath, "invalid")))
}

func TestIs_StandardLibraryCompatibility(t *testing.T) {
	wrapped := Wrap(fs.ErrNotExist, CodeNotFound, "missing")

	require.True(t, stderrors.Is(wrapped, fs.ErrNotExist))
	require.True(t, Is(wrapped, fs.ErrNotExist))
}

func TestAs(t *testing.T) {
	var pe PlatformError
	require.True(t, As(New(CodeNotADirectory, "not a directory"), &pe))
	require.Equal(t, CodeNotADirectory, pe.Code())
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{
			name: "platform error",
			err:  New(CodeNotFound, "not found"),
			want: CodeNotFound,
		},
		{
			name: "wrapped platform error reports outermost code",
			err:  Wrap(New(CodeNotFound, "not found"), CodeStore, "failed"),
			want: CodeStore,
		},
		{
			name: "standard error",
			err:  stderrors.New("plain"),
			want: CodeUnknown,
		},
		{
			name: "nil error",
			err:  nil,
			want: CodeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, GetCode(tt.err))
		})
	}
}

func TestHasCode(t *testing.T) {
	require.True(t, HasCode(New(CodeUnsupported, "no"), CodeUnsupported))
	require.False(t, HasCode(New(CodeUnsupported, "no"), CodeStore))
	require.False(t, HasCode(nil, CodeUnknown))
}

func TestIsRetryable(t *testing.T) {
	require.False(t, IsRetryable(nil))
	require.False(t, IsRetryable(stderrors.New("plain")))
	require.False(t, IsRetryable(New(CodeStore, "bad request")))
	require.True(t, IsRetryable(WithClassification(New(CodeStore, "timeout"), ClassificationRetryable)))
}

func TestContextValue(t *testing.T) {
	err := WithContext(New(CodeStore, "failed"), "bucket", "logs")

	v, ok := ContextValue(err, "bucket")
	require.True(t, ok)
	require.Equal(t, "logs", v)

	_, ok = ContextValue(err, "key")
	require.False(t, ok)

	_, ok = ContextValue(stderrors.New("plain"), "bucket")
	require.False(t, ok)
}
