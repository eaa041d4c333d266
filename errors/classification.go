package errors

// ErrorClassification tells callers whether repeating the failed call could succeed.
// The filesystem never retries on its own; the classification is advisory.
type ErrorClassification string

const (
	// ClassificationRetryable marks transient failures such as transport errors
	// or 5xx responses from the store.
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent marks failures that will repeat, such as missing
	// objects, denied access or invalid names.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable returns true if the classification indicates retry should be attempted.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

// defaultClassifications lists codes that are retryable by default.
// CodeStore is permanent by default; the translator upgrades it for
// transport failures and 5xx responses.
var defaultClassifications = map[ErrorCode]ErrorClassification{
	CodeNotFound:                 ClassificationPermanent,
	CodeForbidden:                ClassificationPermanent,
	CodeRegionMismatch:           ClassificationPermanent,
	CodeListBucketsForbidden:     ClassificationPermanent,
	CodeStore:                    ClassificationPermanent,
	CodeInvalidPath:              ClassificationPermanent,
	CodeInvalidBucketName:        ClassificationPermanent,
	CodeNotADirectory:            ClassificationPermanent,
	CodeSameSourceAndDestination: ClassificationPermanent,
	CodeUnsupported:              ClassificationPermanent,
	CodeInvalidConfig:            ClassificationPermanent,
	CodeBatchDeleteFailed:        ClassificationPermanent,
	CodeDeleteVerificationFailed: ClassificationPermanent,
	CodeUnknown:                  ClassificationPermanent,
}

func getDefaultClassification(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationPermanent
}
