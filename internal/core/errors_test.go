package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	err := ErrSpawn(CodeCrawlerNotFound, "crawler missing")
	if !strings.Contains(err.Error(), string(ErrCatSpawn)) {
		t.Errorf("Error() = %q, want category included", err.Error())
	}
	if !strings.Contains(err.Error(), CodeCrawlerNotFound) {
		t.Errorf("Error() = %q, want code included", err.Error())
	}

	withCause := ErrSpawn(CodeStartFailed, "starting").WithCause(errors.New("permission denied"))
	if !strings.Contains(withCause.Error(), "permission denied") {
		t.Errorf("Error() = %q, want cause included", withCause.Error())
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := ErrExecution("STREAM_FAILED", "reading output").WithCause(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is() should find the wrapped cause")
	}
}

func TestDomainError_Is(t *testing.T) {
	a := ErrSpawn(CodeCrawlerNotFound, "one message")
	b := ErrSpawn(CodeCrawlerNotFound, "another message")
	c := ErrSpawn(CodeStartFailed, "one message")

	if !errors.Is(a, b) {
		t.Error("errors with same category and code should match")
	}
	if errors.Is(a, c) {
		t.Error("errors with different codes should not match")
	}
	if errors.Is(a, errors.New("plain")) {
		t.Error("domain error should not match a plain error")
	}
}

func TestGetCategory(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"validation", ErrValidation(CodeInvalidConfig, "bad"), ErrCatValidation},
		{"spawn", ErrSpawn(CodeStartFailed, "bad"), ErrCatSpawn},
		{"execution", ErrExecution(CodeKillFailed, "bad"), ErrCatExecution},
		{"wrapped", fmt.Errorf("context: %w", ErrSpawn(CodeStartFailed, "bad")), ErrCatSpawn},
		{"plain error", errors.New("plain"), ErrCatInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCategory(tt.err); got != tt.want {
				t.Errorf("GetCategory() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsSpawnFailure(t *testing.T) {
	if !IsSpawnFailure(ErrSpawn(CodeCrawlerNotFound, "missing")) {
		t.Error("IsSpawnFailure() = false for spawn error")
	}
	if IsSpawnFailure(ErrExecution(CodeKillFailed, "leak")) {
		t.Error("IsSpawnFailure() = true for execution error")
	}
}
