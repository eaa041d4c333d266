// Package errors defines the failure taxonomy of the object filesystem.
//
// Every error returned by s3fs is a PlatformError carrying an ErrorCode,
// a retry classification, a message, optional context metadata and the
// wrapped cause. Remote store failures never surface raw: they are translated
// at the store boundary into one of the codes below.
//
// # Codes
//
//   - Remote: CodeNotFound, CodeForbidden, CodeRegionMismatch,
//     CodeListBucketsForbidden, CodeStore
//   - Local preconditions: CodeInvalidPath, CodeInvalidBucketName,
//     CodeNotADirectory, CodeSameSourceAndDestination, CodeUnsupported,
//     CodeInvalidConfig
//   - Deletion: CodeBatchDeleteFailed, CodeDeleteVerificationFailed
//
// # Usage
//
//	stat, err := fsys.Stats(ctx, "s3a://bucket/key")
//	switch errors.GetCode(err) {
//	case errors.CodeNotFound:
//	    // nothing there
//	case errors.CodeForbidden:
//	    // ask for credentials
//	}
//
// Context metadata is attached with WithContext and WithContextMap and is
// included in ToJSON output. Classification is preserved when wrapping and
// can be replaced with WithClassification.
package errors
