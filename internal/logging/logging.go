package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// GetSugaredLogger builds a zap logger: development output when running locally,
// JSON production output otherwise (CloudWatch Logs under Lambda).
func GetSugaredLogger(local bool, level string) *zap.SugaredLogger {
	var cfg zap.Config
	if local {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := cfg.Build()
	if err != nil {
		panic("cannot initialize zap")
	}
	return logger.Sugar()
}

// RequestLogger logs one line per request once the handler chain returns.
func RequestLogger(sugar *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if id := c.GetHeader("X-Request-Id"); id != "" {
			fields = append(fields, "request_id", id)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case c.Writer.Status() >= 500:
			sugar.Errorw("request failed", fields...)
		case c.Writer.Status() >= 400:
			sugar.Infow("request rejected", fields...)
		default:
			sugar.Debugw("request served", fields...)
		}
	}
}
