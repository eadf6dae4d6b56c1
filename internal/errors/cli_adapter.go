package errors

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	ce, ok := AsClassified(err)
	if !ok {
		return 1
	}
	switch ce.Category() {
	case CategoryInput:
		return 2
	case CategoryConfig:
		return 7
	case CategoryTemplate:
		return 3
	case CategoryRender:
		return 4
	case CategoryFileSystem:
		return 11
	case CategoryInternal:
		return 10
	default:
		return 1
	}
}

// Format renders err for the terminal. Verbose output includes the context.
func Format(err error, verbose bool) string {
	if err == nil {
		return ""
	}
	ce, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if !verbose || len(ce.Context()) == 0 {
		return "Error: " + ce.Error()
	}
	keys := make([]string, 0, len(ce.Context()))
	for k := range ce.Context() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("Error: " + ce.Error())
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %s: %v", k, ce.Context()[k])
	}
	return b.String()
}

// Log writes err at the slog level matching its severity.
func Log(logger *slog.Logger, err error) {
	if err == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	ce, ok := AsClassified(err)
	if !ok {
		logger.Error("Unclassified error", "error", err)
		return
	}
	level := slog.LevelError
	if ce.Severity() == SeverityWarning {
		level = slog.LevelWarn
	}
	attrs := []any{slog.String("category", string(ce.Category()))}
	if ce.Unwrap() != nil {
		attrs = append(attrs, slog.String("error", ce.Unwrap().Error()))
	}
	logger.Log(context.Background(), level, ce.Message(), attrs...)
}
