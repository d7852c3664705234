package assessments

import (
	"context"
	"errors"
	"strings"

	"riskassess-backend/internal/llm"
)

var ErrNotFound = errors.New("not found")

// Machine-readable failure codes persisted on a failed run. The split matters
// to callers: a PROVIDER_NOT_CONFIGURED run needs an operator, an
// INGESTION_FAILED run needs the user to fix their document.
const (
	ErrorCodeValidation              = "VALIDATION_ERROR"
	ErrorCodeProviderNotConfigured   = "PROVIDER_NOT_CONFIGURED"
	ErrorCodeProviderTimeout         = "PROVIDER_TIMEOUT"
	ErrorCodeProviderResponseInvalid = "PROVIDER_RESPONSE_INVALID"
	ErrorCodeIngestion               = "INGESTION_FAILED"
	ErrorCodeStorage                 = "STORAGE_ERROR"
	ErrorCodeInternal                = "INTERNAL_ERROR"
)

func classifyFailure(err error) string {
	if err == nil {
		return ErrorCodeInternal
	}
	if errors.Is(err, llm.ErrNotConfigured) {
		return ErrorCodeProviderNotConfigured
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorCodeProviderTimeout
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") && strings.Contains(msg, "provider"):
		return ErrorCodeProviderTimeout
	case strings.Contains(msg, "provider response") || strings.Contains(msg, "decode provider"):
		return ErrorCodeProviderResponseInvalid
	case strings.Contains(msg, "ingest") || strings.Contains(msg, "extract"):
		return ErrorCodeIngestion
	case strings.Contains(msg, "validation") || strings.Contains(msg, "required"):
		return ErrorCodeValidation
	case strings.Contains(msg, "document") || strings.Contains(msg, "storage") || strings.Contains(msg, "load object"):
		return ErrorCodeStorage
	}
	return ErrorCodeInternal
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
