package core

// Logger is any service that can report messages and errors.
// args may carry errors, map[string]interface{} extras and a profile.Profile
// identifying the viewer.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
