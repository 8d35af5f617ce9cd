package process

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	gopsproc "github.com/shirou/gopsutil/v4/process"
)

// ErrProcessGone is returned when a signal target no longer exists.
var ErrProcessGone = errors.New("process not found")

// Signal is a termination request, mapped to the platform's mechanism.
type Signal int

const (
	// Graceful asks the target to shut down (SIGTERM on Unix)
	Graceful Signal = iota
	// Forced terminates the target unconditionally (SIGKILL on Unix)
	Forced
)

func (s Signal) String() string {
	switch s {
	case Graceful:
		return "SIGTERM"
	case Forced:
		return "SIGKILL"
	default:
		return fmt.Sprintf("Signal(%d)", int(s))
	}
}

// Signaler delivers termination signals. When group is true the signal goes to
// the process group led by pid rather than the single process.
type Signaler interface {
	Signal(pid int, group bool, sig Signal) error
}

// OS is the Signaler backed by the operating system.
type OS struct{}

func (OS) Signal(pid int, group bool, sig Signal) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid %d", pid)
	}
	return signal(pid, group, sig)
}

// Info describes a live process.
type Info struct {
	PID     int
	Name    string
	Cmdline string
	Started time.Time
}

// IsAlive reports whether pid refers to a running process. Zombies count as dead.
func IsAlive(pid int) bool {
	return IsAliveContext(context.Background(), pid)
}

// IsAliveContext is IsAlive with a context for the underlying process table lookup.
func IsAliveContext(ctx context.Context, pid int) bool {
	if pid <= 0 {
		return false
	}

	exists, err := gopsproc.PidExistsWithContext(ctx, int32(pid))
	if err != nil || !exists {
		return false
	}

	p, err := gopsproc.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return false
	}
	status, err := p.StatusWithContext(ctx)
	if err != nil {
		// Status is unsupported on some platforms; existence is the best we know
		return true
	}
	return !slices.Contains(status, gopsproc.Zombie)
}

// Describe looks up name, command line and start time of a live process.
func Describe(ctx context.Context, pid int) (Info, error) {
	p, err := gopsproc.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		if errors.Is(err, gopsproc.ErrorProcessNotRunning) {
			return Info{}, fmt.Errorf("pid %d: %w", pid, ErrProcessGone)
		}
		return Info{}, fmt.Errorf("failed to inspect pid %d: %w", pid, err)
	}

	info := Info{PID: pid}
	// Fields are best-effort: permissions may hide some of them
	if name, err := p.NameWithContext(ctx); err == nil {
		info.Name = name
	}
	if cmdline, err := p.CmdlineWithContext(ctx); err == nil {
		info.Cmdline = cmdline
	}
	if created, err := p.CreateTimeWithContext(ctx); err == nil {
		info.Started = time.UnixMilli(created)
	}
	return info, nil
}

// Terminate sends a graceful signal, waits up to grace for the target to exit,
// then sends a forced signal if it is still running. A target that is already
// gone is not an error.
func Terminate(ctx context.Context, s Signaler, pid int, group bool, grace time.Duration) error {
	if err := s.Signal(pid, group, Graceful); err != nil {
		if errors.Is(err, ErrProcessGone) {
			return nil
		}
		return fmt.Errorf("failed to send %s to %d: %w", Graceful, pid, err)
	}

	// Wait for graceful shutdown
	deadline := time.Now().Add(grace)
	for time.Now().Before(deadline) {
		if !IsAliveContext(ctx, pid) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}

	// Force kill if still running
	if err := s.Signal(pid, group, Forced); err != nil && !errors.Is(err, ErrProcessGone) {
		return fmt.Errorf("failed to send %s to %d: %w", Forced, pid, err)
	}
	return nil
}
