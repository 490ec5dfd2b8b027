package core

// Logger is the application-wide logging contract. Implementations live
// in services/logger (console for local runs, Rollbar in deployed envs).
//
// args may carry error values, maps of extra context, or a user.User to
// attribute the event to; implementations decide what to do with each.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
