// Package monitoring holds the process-wide diagnostic logger.
package monitoring

import "log"

// Logf is the diagnostic logger used across the dashboard. It defaults to
// log.Printf; tests mute it with SetLogger(nil).
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. A nil argument installs a no-op
// logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
