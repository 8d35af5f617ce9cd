package backend

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/braunmar/deskshell/pkg/process"
)

// recordingLogger keeps every formatted line
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) add(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debugf(format string, args ...interface{}) { l.add(format, args...) }
func (l *recordingLogger) Infof(format string, args ...interface{})  { l.add(format, args...) }
func (l *recordingLogger) Warnf(format string, args ...interface{})  { l.add(format, args...) }
func (l *recordingLogger) Errorf(format string, args ...interface{}) { l.add(format, args...) }

func (l *recordingLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

type signalCall struct {
	pid   int
	group bool
	sig   process.Signal
	at    time.Time
}

// recordingSignaler records calls and answers with err, or delegates to next
// when it is set. gracefulErr, when set, answers graceful signals only.
type recordingSignaler struct {
	mu          sync.Mutex
	calls       []signalCall
	err         error
	gracefulErr error
	next        process.Signaler
}

func (r *recordingSignaler) Signal(pid int, group bool, sig process.Signal) error {
	r.mu.Lock()
	r.calls = append(r.calls, signalCall{pid: pid, group: group, sig: sig, at: time.Now()})
	r.mu.Unlock()

	if sig == process.Graceful && r.gracefulErr != nil {
		return r.gracefulErr
	}
	if r.next != nil {
		return r.next.Signal(pid, group, sig)
	}
	return r.err
}

func (r *recordingSignaler) snapshot() []signalCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]signalCall(nil), r.calls...)
}

func (r *recordingSignaler) count(sig process.Signal) int {
	n := 0
	for _, c := range r.snapshot() {
		if c.sig == sig {
			n++
		}
	}
	return n
}
