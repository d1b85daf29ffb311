// Package logging adapts items.Logger to zap.
package logging

import (
	"go.uber.org/zap"

	items "github.com/goliatone/go-items"
)

// Zap writes item events to a zap logger. Failed operations log at warn
// level, everything else at debug.
type Zap struct {
	logger *zap.Logger
}

var _ items.Logger = Zap{}

// NewZap wraps logger. A nil logger discards events.
func NewZap(logger *zap.Logger) Zap {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Zap{logger: logger.Named("items")}
}

// LogEvent implements items.Logger.
func (z Zap) LogEvent(event items.Event) {
	fields := []zap.Field{
		zap.String("op", string(event.Op)),
		zap.String("format", event.Format),
		zap.Duration("duration", event.Duration),
	}
	if event.ItemID != "" {
		fields = append(fields, zap.String("item_id", event.ItemID))
	}
	if event.Properties > 0 {
		fields = append(fields, zap.Int("properties", event.Properties))
	}
	if event.Err != nil {
		z.logger.Warn("item operation failed", append(fields, zap.Error(event.Err))...)
		return
	}
	z.logger.Debug("item operation", fields...)
}

// New builds the process logger: development output when debug is set,
// production JSON otherwise.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
