package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yungbote/sitework-backend/internal/platform/envutil"
)

type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// New builds a zap logger for mode ("production", "test" or development).
// LOG_LEVEL overrides the mode's default level.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	level := zapcore.DebugLevel
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
		level = zapcore.InfoLevel
	case "test":
		cfg = zap.NewDevelopmentConfig()
		level = zapcore.WarnLevel
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	if raw := envutil.String("LOG_LEVEL", ""); raw != "" {
		if err := level.Set(raw); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err)
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, redact(keysAndValues)...)
}
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Infow(msg, redact(keysAndValues)...)
}
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, redact(keysAndValues)...)
}
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, redact(keysAndValues)...)
}
func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Fatalw(msg, redact(keysAndValues)...)
}
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(redact(keysAndValues)...)}
}

const redacted = "[REDACTED]"

// Keys containing one of these words have their values masked.
var secretWords = []string{"token", "authorization", "password", "secret", "cookie"}

// Keys containing one of these words have their values replaced by a salted hash.
var hashedWords = []string{"user_id"}

type redactor struct {
	enabled bool
	salt    string
}

var (
	redactorOnce sync.Once
	active       redactor
)

func currentRedactor() redactor {
	redactorOnce.Do(func() {
		active = redactor{
			enabled: envutil.Bool("LOG_REDACT", true),
			salt:    envutil.String("LOG_HASH_SALT", ""),
		}
	})
	return active
}

func redact(kv []interface{}) []interface{} {
	r := currentRedactor()
	if len(kv) == 0 || !r.enabled {
		return kv
	}
	return r.apply(kv)
}

func (r redactor) apply(kv []interface{}) []interface{} {
	out := make([]interface{}, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		key := toString(kv[i])
		out = append(out, key, r.value(strings.ToLower(strings.TrimSpace(key)), kv[i+1]))
	}
	if len(kv)%2 == 1 {
		out = append(out, kv[len(kv)-1])
	}
	return out
}

func (r redactor) value(key string, val interface{}) interface{} {
	switch {
	case key == "":
		return val
	case containsAny(key, secretWords):
		return redacted
	case containsAny(key, hashedWords):
		return r.hash(val)
	}
	if s, ok := val.(string); ok && looksLikeJWT(s) {
		return redacted
	}
	return val
}

func (r redactor) hash(val interface{}) string {
	raw := toString(val)
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(r.salt + raw))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func looksLikeJWT(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
