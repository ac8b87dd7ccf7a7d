package es

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// roundTripLogger adapts a zap logger to elastictransport.Logger.
type roundTripLogger struct {
	log *zap.Logger
}

func (l *roundTripLogger) LogRoundTrip(req *http.Request, res *http.Response, err error, start time.Time, dur time.Duration) error {
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Time("start", start),
		zap.Duration("duration", dur),
	}
	if res != nil {
		fields = append(fields, zap.Int("status", res.StatusCode))
	}

	switch {
	case err != nil:
		l.log.Error("es round trip failed", append(fields, zap.Error(err))...)
	case res != nil && res.StatusCode >= 400:
		l.log.Warn("es round trip", fields...)
	default:
		l.log.Info("es round trip", fields...)
	}
	return nil
}

func (l *roundTripLogger) RequestBodyEnabled() bool  { return false }
func (l *roundTripLogger) ResponseBodyEnabled() bool { return false }
