// Package audit writes structured business and integrity events on zap,
// separate from the application log.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type EventType string

const (
	EventIntegrityWarning   EventType = "integrity_warning"
	EventLoginFailed        EventType = "login_failed"
	EventLoginSuccess       EventType = "login_success"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventApplicationCreated EventType = "application_created"
	EventStatusChanged      EventType = "status_changed"
	EventShortlistExported  EventType = "shortlist_exported"
	EventUploadRejected     EventType = "upload_rejected"
)

type Event struct {
	Type      EventType
	ActorID   string
	IP        string
	RequestID string
	Details   map[string]interface{}
}

type Logger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
)

// Init builds the process-wide audit logger writing JSON to stdout.
func Init(serviceName, environment string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	zl, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		zl, _ = zap.NewProduction()
	}

	l := NewWithLogger(zl, serviceName, environment)
	SetDefault(l)
	return l
}

// NewWithLogger wraps an existing zap logger, e.g. an observer core in tests.
func NewWithLogger(zl *zap.Logger, serviceName, environment string) *Logger {
	return &Logger{zapLogger: zl, serviceName: serviceName, environment: environment}
}

func Nop() *Logger {
	return NewWithLogger(zap.NewNop(), "", "")
}

func SetDefault(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the logger set by Init, or a no-op logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	if defaultLogger == nil {
		return Nop()
	}
	return defaultLogger
}

func levelFor(t EventType) zapcore.Level {
	switch t {
	case EventLoginSuccess, EventApplicationCreated, EventStatusChanged, EventShortlistExported:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

func (l *Logger) Log(ctx context.Context, event Event) {
	if ctx != nil {
		if rid, ok := ctx.Value("RequestID").(string); ok && event.RequestID == "" {
			event.RequestID = rid
		}
		if ip, ok := ctx.Value("ClientIP").(string); ok && event.IP == "" {
			event.IP = ip
		}
	}

	fields := []zap.Field{
		zap.String("service", l.serviceName),
		zap.String("env", l.environment),
		zap.String("event", string(event.Type)),
		zap.Time("at", time.Now().UTC()),
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	l.zapLogger.Log(levelFor(event.Type), string(event.Type), fields...)
}

// IntegrityWarning records a (job, user) pair whose two application records disagreed.
func (l *Logger) IntegrityWarning(ctx context.Context, jobID int64, userID, kind string, repaired bool) {
	l.Log(ctx, Event{
		Type: EventIntegrityWarning,
		Details: map[string]interface{}{
			"job_id":   jobID,
			"user_id":  userID,
			"kind":     kind,
			"repaired": repaired,
		},
	})
}

func (l *Logger) LoginFailed(ctx context.Context, email, ip, reason string) {
	l.Log(ctx, Event{
		Type:    EventLoginFailed,
		IP:      ip,
		Details: map[string]interface{}{"email": MaskEmail(email), "reason": reason},
	})
}

func (l *Logger) RateLimitTriggered(ctx context.Context, ip, endpoint string) {
	l.Log(ctx, Event{
		Type:    EventRateLimitTriggered,
		IP:      ip,
		Details: map[string]interface{}{"endpoint": endpoint},
	})
}

func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if len(email) < 3 || at < 0 {
		return "***"
	}
	if at <= 1 {
		return "***" + email[at:]
	}
	return email[:1] + "***" + email[at:]
}

// HashValue returns a short SHA256 prefix for values that must not be logged raw.
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}
