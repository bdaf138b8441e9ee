package http

// Error codes carried in the "error" field of every error response.
const (
	CodeInvalidJSON      = "invalid_json"
	CodeInvalidOperation = "invalid_operation"
	CodeValidationFailed = "validation_failed"
	CodeMissingFileID    = "missing_file_id"
	CodeInvalidRequest   = "invalid_request"
	CodeRequestTooLarge  = "request_too_large"
	CodeUnauthorized     = "unauthorized"
	CodeNotFound         = "not_found"
	CodeInternal         = "internal_error"
)
