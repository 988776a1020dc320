package entity

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Standard domain errors
var (
	ErrNotFound          = errors.New("record not found")
	ErrRateLimitExceeded = errors.New("rate limit exceeded: too many generation requests")
)

type ErrorCode string

const (
	CodeValidation  ErrorCode = "VALIDATION_ERROR"
	CodeNotFound    ErrorCode = "NOT_FOUND"
	CodeAI          ErrorCode = "AI_ERROR"
	CodeRateLimited ErrorCode = "RATE_LIMITED"
	CodeInternal    ErrorCode = "INTERNAL_ERROR"
)

type AIErrorReason string

const (
	ReasonSchemaValidationFailed AIErrorReason = "SCHEMA_VALIDATION_FAILED"
	ReasonProviderError          AIErrorReason = "PROVIDER_ERROR"
)

// FieldError is one (path, message) pair of a failed validation.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// AppError is the error shape surfaced to clients. Details is nil unless
// the error carries field errors or a machine readable reason.
type AppError struct {
	Code    ErrorCode
	Message string
	Details any
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.cause }

func NewValidationError(fields []FieldError) *AppError {
	return &AppError{Code: CodeValidation, Message: "Validation failed", Details: fields}
}

func NewInvalidBodyError(cause error) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: "Invalid request body",
		Details: []FieldError{{Path: "", Message: "Expected a JSON object"}},
		cause:   cause,
	}
}

func NewInvalidCursorError(cursor string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: "Invalid cursor",
		Details: map[string]string{"cursor": cursor},
	}
}

func NewClaimNotFoundError() *AppError {
	return &AppError{Code: CodeNotFound, Message: "Claim not found", cause: ErrNotFound}
}

func NewAIError(reason AIErrorReason, cause error) *AppError {
	message := "AI generation failed."
	if reason == ReasonSchemaValidationFailed {
		message = "AI response did not match the required schema."
	}
	return &AppError{
		Code:    CodeAI,
		Message: message,
		Details: map[string]AIErrorReason{"reason": reason},
		cause:   cause,
	}
}

func NewRateLimitedError() *AppError {
	return &AppError{Code: CodeRateLimited, Message: "Too many AI generation requests", cause: ErrRateLimitExceeded}
}

type FailureKind int

const (
	FailureProvider FailureKind = iota
	FailureSchemaMismatch
)

func (k FailureKind) String() string {
	if k == FailureSchemaMismatch {
		return "schema_mismatch"
	}
	return "provider"
}

// GenerationFailure is the tagged error a TriageGenerator returns. Only
// FailureSchemaMismatch is retried by the orchestrator.
type GenerationFailure struct {
	Kind  FailureKind
	Cause error
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Kind, e.Cause)
}

func (e *GenerationFailure) Unwrap() error { return e.Cause }

func NewSchemaMismatch(cause error) error {
	return &GenerationFailure{Kind: FailureSchemaMismatch, Cause: cause}
}

func NewProviderFailure(cause error) error {
	return &GenerationFailure{Kind: FailureProvider, Cause: cause}
}

// IsSchemaMismatch reports whether err carries a schema mismatch failure.
func IsSchemaMismatch(err error) bool {
	var failure *GenerationFailure
	return errors.As(err, &failure) && failure.Kind == FailureSchemaMismatch
}
