package logging

// Logger is the structured logger handed to the derive, create and cli components. Messages carry
// alternating key/value pairs that appenders render as a JSON object.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	SetLevel(level Level)
	GetLevel() Level
	// Sublogger returns a logger named "<name>.<subname>" that writes to the same appenders. Its
	// level starts at the parent's level and is changed independently afterwards.
	Sublogger(subname string) Logger
	AddAppender(appender Appender)
}
