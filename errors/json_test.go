package errors

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToJSON(t *testing.T) {
	err := New(CodeNotFound, "No such file or directory: 's3a://bucket/missing'")
	resp := ToJSON(err)

	require.NotNil(t, resp)
	require.Equal(t, "NOT_FOUND", resp.Code)
	require.Equal(t, "No such file or directory: 's3a://bucket/missing'", resp.Message)
	require.Equal(t, "PERMANENT", resp.Classification)
	require.Nil(t, resp.Context)
}

func TestToJSON_WithContext(t *testing.T) {
	err := New(CodeBatchDeleteFailed, "1 errors occurred")
	err = WithContextMap(err, map[string]interface{}{
		"bucket": "bucket",
		"count":  1,
	})

	resp := ToJSON(err)

	require.Equal(t, "BATCH_DELETE_FAILED", resp.Code)
	require.Equal(t, "bucket", resp.Context["bucket"])
	require.Equal(t, 1, resp.Context["count"])
}

func TestToJSON_StandardError(t *testing.T) {
	resp := ToJSON(stderrors.New("something went wrong"))

	require.Equal(t, "UNKNOWN", resp.Code)
	require.Equal(t, "something went wrong", resp.Message)
	require.Equal(t, "PERMANENT", resp.Classification)
}

func TestToJSON_NilError(t *testing.T) {
	require.Nil(t, ToJSON(nil))
}

func TestToJSON_OmitsCauseChain(t *testing.T) {
	cause := stderrors.New("dial tcp 10.0.0.1:443: connection refused")
	err := Wrap(Wrap(cause, CodeStore, "request failed"), CodeForbidden, "not authorized")

	resp := ToJSON(err)
	require.Equal(t, "FORBIDDEN", resp.Code)

	data, marshalErr := json.Marshal(resp)
	require.NoError(t, marshalErr)
	require.NotContains(t, string(data), "connection refused")
	require.NotContains(t, string(data), "context")
}

func TestMarshalJSON(t *testing.T) {
	err := WithContext(New(CodeRegionMismatch, "wrong region"), "region", "eu-west-1")

	data, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	require.Equal(t, "REGION_MISMATCH", resp.Code)
	require.Equal(t, "wrong region", resp.Message)
	require.Equal(t, "eu-west-1", resp.Context["region"])
	require.Contains(t, string(data), `"classification":"PERMANENT"`)
}
