package logger

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/noah-isme/academy-attendance-api/pkg/config"
	"github.com/noah-isme/academy-attendance-api/pkg/middleware/requestid"
)

const serviceName = "academy-attendance-api"

// responseMetaKey is the gin key the response meta middleware stores its map under.
const responseMetaKey = "response_meta"

// New builds the process logger from the environment and log settings.
func New(cfg *config.Config) (*zap.Logger, error) {
	return buildConfig(cfg).Build(zap.Fields(zap.String("service", serviceName)))
}

// buildConfig picks production or development defaults, then applies LOG_FORMAT and LOG_LEVEL.
// An unknown format falls back to json and an unparsable level to info.
func buildConfig(cfg *config.Config) zap.Config {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	}

	zapCfg.Encoding = "json"
	if strings.EqualFold(strings.TrimSpace(cfg.Log.Format), "console") {
		zapCfg.Encoding = "console"
	}

	if level := strings.TrimSpace(cfg.Log.Level); level != "" {
		var parsed zapcore.Level
		if err := parsed.UnmarshalText([]byte(level)); err != nil {
			parsed = zapcore.InfoLevel
		}
		zapCfg.Level = zap.NewAtomicLevelAt(parsed)
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapCfg
}

// GinMiddleware logs one line per request. Paths in skip are not logged unless they fail.
func GinMiddleware(l *zap.Logger, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, path := range skip {
		skipped[path] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if _, ok := skipped[c.Request.URL.Path]; ok && status < 400 {
			return
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if reqID := requestid.Value(c); reqID != "" {
			fields = append(fields, zap.String("request_id", reqID))
		}
		if c.Request.URL.RawQuery != "" {
			fields = append(fields, zap.String("query", c.Request.URL.RawQuery))
		}
		if hit, ok := cacheHit(c); ok {
			fields = append(fields, zap.Bool("cache_hit", hit))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if ce := l.Check(levelFor(status), "http_request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func levelFor(status int) zapcore.Level {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel
	case status >= 400:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// cacheHit reports the report cache outcome a handler recorded, if any.
func cacheHit(c *gin.Context) (bool, bool) {
	raw, ok := c.Get(responseMetaKey)
	if !ok {
		return false, false
	}
	meta, ok := raw.(map[string]interface{})
	if !ok {
		return false, false
	}
	hit, ok := meta["cache_hit"].(bool)
	return hit, ok
}
