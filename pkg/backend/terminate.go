package backend

import (
	"errors"
	"time"

	"github.com/braunmar/deskshell/pkg/process"
)

// target is one recipient of the termination sequence.
type target struct {
	name  string
	pid   int
	group bool // Signal the process group led by pid
	spawn bool // The spawn handle, whose exit the supervisor observes
}

// Stop runs the termination sequence once: a graceful signal to every known
// target, then a forced signal to each after the grace period. Failures are
// logged and never returned; only a target known to be gone is spared the
// forced signal. Later calls do nothing.
func (s *Supervisor) Stop() {
	s.stopOnce.Do(s.stop)
}

func (s *Supervisor) stop() {
	s.mu.Lock()
	var targets []target
	if s.started {
		targets = append(targets, target{name: "serverProcess", pid: s.spawnPID, group: true, spawn: true})
	}
	if s.reportedPID != 0 && s.reportedPID != s.spawnPID {
		targets = append(targets, target{name: "server PID", pid: s.reportedPID})
	}
	s.mu.Unlock()

	if len(targets) == 0 {
		s.log.Infof("No backend process to stop")
		return
	}

	// Every graceful signal goes out before any forced signal is scheduled
	var signalled []target
	for _, t := range targets {
		s.log.Infof("Killing %s: %d", t.name, t.pid)
		if err := s.signaler.Signal(t.pid, t.group, process.Graceful); err != nil {
			s.logSignalError(t, process.Graceful, err)
			if errors.Is(err, process.ErrProcessGone) {
				continue
			}
			// The target may only accept the forced signal; it is still due
		}
		signalled = append(signalled, t)
	}

	for _, t := range signalled {
		s.scheduleForcedKill(t)
	}
}

func (s *Supervisor) scheduleForcedKill(t target) {
	if !t.spawn {
		s.pending.Add(1)
		time.AfterFunc(s.grace, func() {
			defer s.pending.Done()
			s.forceKill(t)
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exitObserved && !s.groupAlive(t.pid) {
		s.log.Debugf("%s %d already exited; no forced kill scheduled", t.name, t.pid)
		return
	}
	s.pending.Add(1)
	s.spawnKill = time.AfterFunc(s.grace, func() {
		defer s.pending.Done()
		s.mu.Lock()
		s.spawnKill = nil
		s.mu.Unlock()
		s.forceKill(t)
	})
}

func (s *Supervisor) forceKill(t target) {
	if (t.group && !s.groupAlive(t.pid)) || (!t.group && !s.alive(t.pid)) {
		s.log.Infof("%s %d is already terminated.", t.name, t.pid)
		return
	}
	if err := s.signaler.Signal(t.pid, t.group, process.Forced); err != nil {
		s.logSignalError(t, process.Forced, err)
		return
	}
	s.log.Infof("Force killed %s: %d", t.name, t.pid)
}

func (s *Supervisor) logSignalError(t target, sig process.Signal, err error) {
	if errors.Is(err, process.ErrProcessGone) {
		s.log.Infof("%s %d is already terminated.", t.name, t.pid)
		return
	}
	s.log.Errorf("Failed to send %s to %s: %d. Error: %v", sig, t.name, t.pid, err)
}
