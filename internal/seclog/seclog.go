// Package seclog writes the security audit trail: structured, append-only
// log lines for authentication, validation and data-access events, split
// across size-rotated files. Raw passwords and secrets must never be passed
// into any method here.
package seclog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"hospital-records-server/internal/config"
)

// Event kinds, one per security-relevant occurrence.
const (
	EventLoginSuccess    = "login_success"
	EventLoginFailure    = "login_failure"
	EventValidationError = "validation_error"
	EventDataAccess      = "data_access"
	EventSuspicious      = "suspicious_activity"
)

// Logger owns the three rotating log sinks: security.log for access and
// validation events, auth.log for login attempts, app.log for everything else.
type Logger struct {
	security *slog.Logger
	auth     *slog.Logger
	app      *slog.Logger
	closers  []io.Closer
}

// New creates the log directory and opens the rotating sinks.
func New(cfg config.LogConfig) (*Logger, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}

	l := &Logger{}
	l.security = l.open(filepath.Join(cfg.Dir, "security.log"), cfg.SecurityMaxSizeMB, cfg.SecurityMaxBackups)
	l.auth = l.open(filepath.Join(cfg.Dir, "auth.log"), cfg.AuthMaxSizeMB, cfg.AuthMaxBackups)
	l.app = l.open(filepath.Join(cfg.Dir, "app.log"), cfg.AppMaxSizeMB, cfg.AppMaxBackups)
	return l, nil
}

func (l *Logger) open(path string, maxSizeMB, maxBackups int) *slog.Logger {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}
	l.closers = append(l.closers, w)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// Close flushes and closes the underlying log files.
func (l *Logger) Close() error {
	var firstErr error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// LoginAttempt records one authentication attempt. Failures are warnings.
func (l *Logger) LoginAttempt(username string, success bool, ip string) {
	kind := EventLoginSuccess
	level := slog.LevelInfo
	if !success {
		kind = EventLoginFailure
		level = slog.LevelWarn
	}
	l.auth.Log(context.Background(), level, "login attempt",
		slog.String("kind", kind),
		slog.String("username", username),
		slog.String("ip", ip),
	)
}

// PatientAccess records a read or mutation of a patient record.
func (l *Logger) PatientAccess(userID, patientID, action string) {
	l.security.Info("patient access",
		slog.String("kind", EventDataAccess),
		slog.String("user_id", userID),
		slog.String("patient_id", patientID),
		slog.String("action", action),
	)
}

// ValidationError records a rejected input. detail names the failing rules,
// never the submitted secret values.
func (l *Logger) ValidationError(field, detail, userID string) {
	attrs := []any{
		slog.String("kind", EventValidationError),
		slog.String("field", field),
		slog.String("detail", detail),
	}
	if userID != "" {
		attrs = append(attrs, slog.String("user_id", userID))
	}
	l.security.Warn("validation error", attrs...)
}

// Suspicious records activity that should be reviewed, such as a request
// with a missing or mismatched anti-forgery token.
func (l *Logger) Suspicious(detail, ip string) {
	l.security.Warn("suspicious activity",
		slog.String("kind", EventSuspicious),
		slog.String("detail", detail),
		slog.String("ip", ip),
	)
}

// Info writes an application-level log line.
func (l *Logger) Info(msg string, args ...any) {
	l.app.Info(msg, args...)
}

// Error writes an application-level error line.
func (l *Logger) Error(msg string, err error, args ...any) {
	if err != nil {
		args = append(args, slog.String("error", err.Error()))
	}
	l.app.Error(msg, args...)
}
