package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string identifier of a failure category: "<MODULE>_<NNN>".
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeUnknown            ErrorCode = "COMMON_000"
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeMessagingError     ErrorCode = "COMMON_014"
	ErrCodeStorageError       ErrorCode = "COMMON_015"
	ErrCodeConfigInvalid      ErrorCode = "COMMON_016"
	ErrCodeMessagePoisoned    ErrorCode = "COMMON_017"
)

// Registry classification error codes.
const (
	ErrCodeResultNotFound      ErrorCode = "REG_001"
	ErrCodeInputFormatInvalid  ErrorCode = "REG_002"
	ErrCodeInputEmpty          ErrorCode = "REG_003"
	ErrCodeInputTooLarge       ErrorCode = "REG_004"
	ErrCodeSourceUnavailable   ErrorCode = "REG_005"
	ErrCodeSourceObjectMissing ErrorCode = "REG_006"
	ErrCodeRuleSetInvalid      ErrorCode = "REG_007"
	ErrCodePayloadDecode       ErrorCode = "REG_008"
	ErrCodeClassification      ErrorCode = "REG_009"
	ErrCodeRequestInvalid      ErrorCode = "REG_010"
)

// Short aliases used at call sites.
const (
	CodeOK             = ErrorCode("OK")
	CodeUnknown        = ErrCodeUnknown
	CodeInternal       = ErrCodeInternal
	CodeInvalidParam   = ErrCodeBadRequest
	CodeNotFound       = ErrCodeNotFound
	CodeConflict       = ErrCodeConflict
	CodeRateLimit      = ErrCodeTooManyRequests
	CodeDatabaseError  = ErrCodeDatabaseError
	CodeCacheError     = ErrCodeCacheError
	CodeMessageQueue   = ErrCodeMessagingError
	CodeStorageError   = ErrCodeStorageError
	CodeResultNotFound = ErrCodeResultNotFound
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeUnknown:            http.StatusInternalServerError,
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeConfigInvalid:      http.StatusInternalServerError,
	ErrCodeMessagePoisoned:    http.StatusUnprocessableEntity,

	ErrCodeResultNotFound:      http.StatusNotFound,
	ErrCodeInputFormatInvalid:  http.StatusBadRequest,
	ErrCodeInputEmpty:          http.StatusBadRequest,
	ErrCodeInputTooLarge:       http.StatusRequestEntityTooLarge,
	ErrCodeSourceUnavailable:   http.StatusBadGateway,
	ErrCodeSourceObjectMissing: http.StatusNotFound,
	ErrCodeRuleSetInvalid:      http.StatusInternalServerError,
	ErrCodePayloadDecode:       http.StatusBadRequest,
	ErrCodeClassification:      http.StatusInternalServerError,
	ErrCodeRequestInvalid:      http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeUnknown:            "unknown error",
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeMessagingError:     "message queue error",
	ErrCodeStorageError:       "object storage error",
	ErrCodeConfigInvalid:      "invalid configuration",
	ErrCodeMessagePoisoned:    "message handler panicked",

	ErrCodeResultNotFound:      "classification result not found",
	ErrCodeInputFormatInvalid:  "unsupported input format",
	ErrCodeInputEmpty:          "registry content is empty",
	ErrCodeInputTooLarge:       "registry content too large",
	ErrCodeSourceUnavailable:   "document source unavailable",
	ErrCodeSourceObjectMissing: "source document not found",
	ErrCodeRuleSetInvalid:      "hard-stop rule set invalid",
	ErrCodePayloadDecode:       "structured payload could not be decoded",
	ErrCodeClassification:      "classification failed",
	ErrCodeRequestInvalid:      "classification request invalid",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	prefix, _, _ := strings.Cut(string(code), "_")
	if prefix == "" {
		return "UNKNOWN"
	}
	return prefix
}

//Personal.AI order the ending
