package ui

import (
	"fmt"
	"sync"
)

// Logger is the logging surface shared by the supervisor, the app host and the
// window launcher. Console is the production implementation.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Console logs through the package's colored helpers. Lines from concurrent
// goroutines (stdout/stderr observers, kill timers) are serialized.
type Console struct {
	Verbose bool
	mu      sync.Mutex
}

// NewConsole returns a console logger. Debug lines are printed only when verbose is set.
func NewConsole(verbose bool) *Console {
	return &Console{Verbose: verbose}
}

func (c *Console) Debugf(format string, args ...interface{}) {
	if !c.Verbose {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	Debug(fmt.Sprintf(format, args...))
}

func (c *Console) Infof(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	Info(fmt.Sprintf(format, args...))
}

func (c *Console) Warnf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	Warning(fmt.Sprintf(format, args...))
}

func (c *Console) Errorf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	Error(fmt.Sprintf(format, args...))
}

// Discard drops every message.
type Discard struct{}

func (Discard) Debugf(string, ...interface{}) {}
func (Discard) Infof(string, ...interface{})  {}
func (Discard) Warnf(string, ...interface{})  {}
func (Discard) Errorf(string, ...interface{}) {}
