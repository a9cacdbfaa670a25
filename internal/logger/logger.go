package logger

import (
	"io"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// New builds the application logger. format is "json" or "text"; an unknown
// level falls back to info.
func New(level, format string) *logrus.Logger {
	return newWithOutput(os.Stdout, level, format)
}

func newWithOutput(out io.Writer, level, format string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// RequestLogger logs one entry per request through log.
func RequestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"request_id": v.RequestID,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"remote_ip":  v.RemoteIP,
			})
			switch {
			case v.Status >= 500:
				entry.Error("request failed")
			case v.Status >= 400:
				entry.Warn("request rejected")
			default:
				entry.Info("request")
			}
			return nil
		},
	})
}
