package errors

// ErrorCode identifies a failure kind of the object filesystem.
// Codes are strings so they read well in logs and serialize naturally to JSON.
type ErrorCode string

const (
	// Remote store errors.

	// CodeNotFound indicates the requested object or bucket does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeForbidden indicates the store denied the request (403-class).
	CodeForbidden ErrorCode = "FORBIDDEN"

	// CodeRegionMismatch indicates the bucket lives in a different region than
	// the one the request was sent to (301/400-class location responses).
	CodeRegionMismatch ErrorCode = "REGION_MISMATCH"

	// CodeListBucketsForbidden indicates the caller may not enumerate buckets.
	// Operations against a named bucket may still succeed.
	CodeListBucketsForbidden ErrorCode = "LIST_BUCKETS_FORBIDDEN"

	// CodeStore is the catch-all for any other remote or transport failure.
	CodeStore ErrorCode = "STORE_ERROR"

	// Local precondition errors.

	// CodeInvalidPath indicates a path could not be decomposed into scheme, bucket and key.
	CodeInvalidPath ErrorCode = "INVALID_PATH"

	// CodeInvalidBucketName indicates a bucket name is not DNS-safe.
	CodeInvalidBucketName ErrorCode = "INVALID_BUCKET_NAME"

	// CodeNotADirectory indicates a directory was required but a file was found.
	CodeNotADirectory ErrorCode = "NOT_A_DIRECTORY"

	// CodeSameSourceAndDestination indicates a copy or rename would target its own source.
	CodeSameSourceAndDestination ErrorCode = "SAME_SOURCE_AND_DESTINATION"

	// CodeUnsupported indicates the requested option or operation is not implemented.
	CodeUnsupported ErrorCode = "UNSUPPORTED_OPERATION"

	// CodeInvalidConfig indicates the filesystem configuration is unusable.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Deletion errors.

	// CodeBatchDeleteFailed indicates a multi-object delete reported per-key failures.
	CodeBatchDeleteFailed ErrorCode = "BATCH_DELETE_FAILED"

	// CodeDeleteVerificationFailed indicates an object survived a delete that reported success.
	CodeDeleteVerificationFailed ErrorCode = "DELETE_VERIFICATION_FAILED"

	// CodeUnknown indicates an error that carries no code.
	CodeUnknown ErrorCode = "UNKNOWN"
)
