// Package backend owns the lifetime of the external server process spawned by
// the application host.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/braunmar/deskshell/pkg/process"
	"github.com/braunmar/deskshell/pkg/state"
	"github.com/braunmar/deskshell/pkg/ui"
)

// DefaultGrace is the delay between the graceful and the forced signal.
const DefaultGrace = 2 * time.Second

// Supervisor starts one backend process and terminates it on shutdown.
type Supervisor struct {
	command    string
	dir        string
	env        []string
	grace      time.Duration
	log        ui.Logger
	signaler   process.Signaler
	alive      func(pid int) bool
	groupAlive func(pgid int) bool // Whether the spawn's process group has members left
	store      *state.Store

	mu           sync.Mutex
	started      bool
	spawnPID     int
	reportedPID  int
	exitCode     int
	exitObserved bool
	spawnKill    *time.Timer // Pending forced kill of the spawn target
	exited       chan struct{}

	pending  sync.WaitGroup
	stopOnce sync.Once
}

// Option configures a Supervisor
type Option func(*Supervisor)

// WithDir sets the backend's working directory
func WithDir(dir string) Option {
	return func(s *Supervisor) { s.dir = dir }
}

// WithEnv sets the backend's environment
func WithEnv(env []string) Option {
	return func(s *Supervisor) { s.env = env }
}

// WithGrace sets the delay before the forced signal
func WithGrace(d time.Duration) Option {
	return func(s *Supervisor) { s.grace = d }
}

// WithLogger sets the logger
func WithLogger(l ui.Logger) Option {
	return func(s *Supervisor) { s.log = l }
}

// WithSignaler replaces the OS signal delivery
func WithSignaler(sig process.Signaler) Option {
	return func(s *Supervisor) { s.signaler = sig }
}

// WithStateStore records spawned and reported PIDs in store
func WithStateStore(store *state.Store) Option {
	return func(s *Supervisor) { s.store = store }
}

// New creates a supervisor for the given shell command line
func New(command string, opts ...Option) *Supervisor {
	s := &Supervisor{
		command:    command,
		grace:      DefaultGrace,
		log:        ui.Discard{},
		signaler:   process.OS{},
		alive:      process.IsAlive,
		groupAlive: process.GroupAlive,
		exitCode:   -1,
		exited:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.env == nil {
		s.env = os.Environ()
	}
	return s
}

// Start spawns the backend. Observers are attached before the process starts
// so no output is missed. A supervisor is started at most once.
func (s *Supervisor) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return errors.New("backend already started")
	}

	cmd := process.ShellCommand(s.command, s.dir, s.env)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to attach backend stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to attach backend stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		s.log.Errorf("Failed to start backend %q: %v", s.command, err)
		return fmt.Errorf("failed to start backend: %w", err)
	}

	s.started = true
	s.spawnPID = cmd.Process.Pid
	s.log.Infof("Started backend (pid %d): %s", s.spawnPID, s.command)
	s.record(func(r *state.Run) {
		*r = state.Run{
			HostPID:   os.Getpid(),
			SpawnPID:  cmd.Process.Pid,
			Command:   s.command,
			AppRoot:   s.dir,
			StartedAt: time.Now(),
		}
	})

	go s.observeStdout(stdout)
	go s.observeStderr(stderr)
	// Reap through os.Process rather than exec.Cmd.Wait: the exit is reported
	// as soon as the shell exits even if a grandchild still holds the pipes.
	go s.observeExit(cmd.Process)

	return nil
}

func (s *Supervisor) observeStdout(r io.ReadCloser) {
	defer r.Close()

	var scanner Announcement
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			s.log.Infof("Server stdout: %s", strings.TrimRight(string(chunk), "\r\n"))
			if pid, ok := scanner.Feed(chunk); ok {
				s.setReportedPID(pid)
			}
		}
		if err != nil {
			if pid, ok := scanner.Flush(); ok {
				s.setReportedPID(pid)
			}
			return
		}
	}
}

func (s *Supervisor) observeStderr(r io.ReadCloser) {
	defer r.Close()

	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			s.log.Warnf("Server stderr: %s", strings.TrimRight(string(buf[:n]), "\r\n"))
		}
		if err != nil {
			return
		}
	}
}

func (s *Supervisor) observeExit(p *os.Process) {
	code := -1
	ps, err := p.Wait()
	if err != nil {
		s.log.Errorf("Failed to wait for backend process %d: %v", p.Pid, err)
	} else {
		code = ps.ExitCode()
	}
	s.log.Infof("Server process ended. Exit code: %d", code)

	s.mu.Lock()
	s.exitCode = code
	s.exitObserved = true
	var timer *time.Timer
	// Children that ignored the graceful signal keep the group alive after
	// the shell exits; their forced kill stays scheduled.
	if s.spawnKill != nil && !s.groupAlive(p.Pid) {
		timer = s.spawnKill
		s.spawnKill = nil
	}
	s.mu.Unlock()

	if timer != nil && timer.Stop() {
		s.log.Debugf("Backend exited within the grace period; forced kill of process group %d cancelled", p.Pid)
		s.pending.Done()
	}
	close(s.exited)
}

func (s *Supervisor) setReportedPID(pid int) {
	s.mu.Lock()
	if s.reportedPID != 0 {
		s.mu.Unlock()
		return
	}
	s.reportedPID = pid
	s.mu.Unlock()

	s.log.Infof("Received Server PID: %d", pid)
	s.record(func(r *state.Run) { r.ReportedPID = pid })
}

func (s *Supervisor) record(fn func(*state.Run)) {
	if s.store == nil {
		return
	}
	if err := s.store.Update(fn); err != nil {
		s.log.Warnf("Failed to record backend state: %v", err)
	}
}

// SpawnPID returns the PID of the spawned process, 0 if it never started.
func (s *Supervisor) SpawnPID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawnPID
}

// ReportedPID returns the PID announced on stdout, 0 if none was announced.
func (s *Supervisor) ReportedPID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reportedPID
}

// Exited is closed once the spawned process has exited and been reaped.
func (s *Supervisor) Exited() <-chan struct{} {
	return s.exited
}

// ExitCode returns the backend's exit code, or -1 while it is running or if
// it was killed by a signal.
func (s *Supervisor) ExitCode() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitCode
}

// Wait blocks until every forced kill scheduled by Stop has fired or been
// cancelled. The recorded run state is cleared once that happens.
func (s *Supervisor) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if s.store != nil {
		if err := s.store.Clear(); err != nil {
			s.log.Warnf("Failed to clear backend state: %v", err)
		}
	}
	return nil
}
