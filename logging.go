package items

import "time"

// Op names an item operation reported to a Logger.
type Op string

const (
	OpOpen      Op = "open"
	OpParse     Op = "parse"
	OpSerialize Op = "serialize"
	OpSubitems  Op = "subitems"
	OpActivity  Op = "activity"
	OpQuery     Op = "query"
)

// Event describes one item operation for logging.
type Event struct {
	Op         Op
	Format     string
	ItemID     string
	Duration   time.Duration
	Properties int
	Err        error
}

// Logger records item events.
type Logger interface {
	LogEvent(Event)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(Event)

// LogEvent implements Logger.
func (f LoggerFunc) LogEvent(event Event) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogEvent(Event) {}

// MultiLogger fans events out to every non-nil logger.
func MultiLogger(loggers ...Logger) Logger {
	out := make([]Logger, 0, len(loggers))
	for _, logger := range loggers {
		if logger != nil {
			out = append(out, logger)
		}
	}
	return LoggerFunc(func(event Event) {
		for _, logger := range out {
			logger.LogEvent(event)
		}
	})
}
