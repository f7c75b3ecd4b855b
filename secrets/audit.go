package secrets

import (
	"context"
	"log/slog"
	"time"
)

type contextKey string

const runIDKey contextKey = "run_id"

// WithRunID returns a context carrying the run identifier recorded in audit entries.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFrom returns the run identifier stored in ctx, if any.
func RunIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// AuditEntry is one secret access event.
type AuditEntry struct {
	Timestamp  time.Time
	Action     string
	SecretName string
	Success    bool
	Error      string
	RunID      string
}

// NewAuditEntry creates an AuditEntry stamped with the current time.
func NewAuditEntry(ctx context.Context, action, secretName string, success bool, err error) *AuditEntry {
	entry := &AuditEntry{
		Timestamp:  time.Now(),
		Action:     action,
		SecretName: secretName,
		Success:    success,
		RunID:      RunIDFrom(ctx),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	return entry
}

// SlogAuditLogger writes audit entries to a slog.Logger at info level,
// or warn level for failures.
type SlogAuditLogger struct {
	logger *slog.Logger
}

var _ AuditLogger = (*SlogAuditLogger)(nil)

// NewSlogAuditLogger returns an AuditLogger over logger. A nil logger discards entries.
func NewSlogAuditLogger(logger *slog.Logger) *SlogAuditLogger {
	return &SlogAuditLogger{logger: logger}
}

// LogAccess implements AuditLogger.
func (l *SlogAuditLogger) LogAccess(ctx context.Context, action, secretName string, success bool, err error) {
	if l == nil || l.logger == nil {
		return
	}

	entry := NewAuditEntry(ctx, action, secretName, success, err)
	attrs := []slog.Attr{
		slog.String("action", entry.Action),
		slog.String("secret_name", entry.SecretName),
		slog.Bool("success", entry.Success),
	}
	if entry.Error != "" {
		attrs = append(attrs, slog.String("error", entry.Error))
	}
	if entry.RunID != "" {
		attrs = append(attrs, slog.String("run_id", entry.RunID))
	}

	level := slog.LevelInfo
	if !success {
		level = slog.LevelWarn
	}
	l.logger.LogAttrs(ctx, level, "secret access", attrs...)
}
