// Package logging provides the small logging seam shared by packages that
// report recoverable degradation. The default sink is klog so library
// warnings land in the host application's log stream without further wiring.
package logging

import "k8s.io/klog/v2"

// Logger is the minimal surface the library needs. It is satisfied by thin
// adapters so tests can capture output and hosts can plug their own logger.
type Logger interface {
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
	Errorf(format string, args ...any)
}

type klogLogger struct{}

func (klogLogger) Infof(format string, args ...any)    { klog.Infof(format, args...) }
func (klogLogger) Warningf(format string, args ...any) { klog.Warningf(format, args...) }
func (klogLogger) Errorf(format string, args ...any)   { klog.Errorf(format, args...) }

// Default returns the klog-backed logger.
func Default() Logger { return klogLogger{} }

type nopLogger struct{}

func (nopLogger) Infof(string, ...any)    {}
func (nopLogger) Warningf(string, ...any) {}
func (nopLogger) Errorf(string, ...any)   {}

// Nop returns a logger that discards everything.
func Nop() Logger { return nopLogger{} }
