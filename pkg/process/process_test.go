//go:build !windows

package process

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"
)

// startSleeper starts a shell in its own process group and reaps it in the background.
func startSleeper(t *testing.T, script string) (pid int, done <-chan struct{}) {
	t.Helper()
	cmd := ShellCommand(script, t.TempDir(), os.Environ())
	if err := cmd.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		<-exited
	})
	return cmd.Process.Pid, exited
}

func TestShellCommand(t *testing.T) {
	cmd := ShellCommand("echo hi", "/tmp", []string{"A=b"})

	if cmd.Args[0] != "sh" || cmd.Args[1] != "-c" || cmd.Args[2] != "echo hi" {
		t.Errorf("Args = %v", cmd.Args)
	}
	if cmd.SysProcAttr == nil || !cmd.SysProcAttr.Setpgid {
		t.Error("expected Setpgid so the command gets its own process group")
	}
	if cmd.Dir != "/tmp" {
		t.Errorf("Dir = %q", cmd.Dir)
	}
}

func TestSignalGroup(t *testing.T) {
	pid, done := startSleeper(t, "sleep 30")

	if !IsAlive(pid) {
		t.Fatal("expected sleeper to be alive")
	}

	if err := (OS{}).Signal(pid, true, Graceful); err != nil {
		t.Fatalf("Signal() error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("process group did not exit after SIGTERM")
	}
}

func TestSignalGone(t *testing.T) {
	pid, done := startSleeper(t, "exit 0")
	<-done

	for _, sig := range []Signal{Graceful, Forced} {
		err := (OS{}).Signal(pid, false, sig)
		if !errors.Is(err, ErrProcessGone) {
			t.Errorf("Signal(%s) on exited pid = %v, want ErrProcessGone", sig, err)
		}
	}

	if IsAlive(pid) {
		t.Error("IsAlive() = true for exited pid")
	}
}

func TestGroupAlive(t *testing.T) {
	pid, done := startSleeper(t, "exec sleep 30")

	if !GroupAlive(pid) {
		t.Fatal("GroupAlive() = false for a running group")
	}
	if err := (OS{}).Signal(pid, true, Forced); err != nil {
		t.Fatalf("Signal() error = %v", err)
	}
	<-done

	if GroupAlive(pid) {
		t.Error("GroupAlive() = true after the only member was reaped")
	}
	if GroupAlive(0) {
		t.Error("GroupAlive(0) = true")
	}
}

func TestSignalInvalidPID(t *testing.T) {
	if err := (OS{}).Signal(0, true, Forced); err == nil {
		t.Error("expected error for pid 0")
	}
}

func TestDescribe(t *testing.T) {
	info, err := Describe(context.Background(), os.Getpid())
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if info.PID != os.Getpid() {
		t.Errorf("PID = %d", info.PID)
	}
	if info.Name == "" {
		t.Error("expected a process name")
	}
}

type recordingSignaler struct {
	mu    sync.Mutex
	calls []Signal
	next  Signaler
}

func (r *recordingSignaler) Signal(pid int, group bool, sig Signal) error {
	r.mu.Lock()
	r.calls = append(r.calls, sig)
	r.mu.Unlock()
	return r.next.Signal(pid, group, sig)
}

func TestTerminate(t *testing.T) {
	t.Run("graceful exit skips forced kill", func(t *testing.T) {
		pid, done := startSleeper(t, "sleep 30")
		rec := &recordingSignaler{next: OS{}}

		// The sleeper is only reaped by the background Wait; give Terminate
		// enough grace to observe that
		if err := Terminate(context.Background(), rec, pid, true, 3*time.Second); err != nil {
			t.Fatalf("Terminate() error = %v", err)
		}
		<-done

		if len(rec.calls) != 1 || rec.calls[0] != Graceful {
			t.Errorf("calls = %v, want [SIGTERM]", rec.calls)
		}
	})

	t.Run("ignored SIGTERM escalates", func(t *testing.T) {
		pid, done := startSleeper(t, "trap '' TERM; while :; do sleep 0.05; done")
		time.Sleep(100 * time.Millisecond) // let the trap install
		rec := &recordingSignaler{next: OS{}}

		if err := Terminate(context.Background(), rec, pid, true, 300*time.Millisecond); err != nil {
			t.Fatalf("Terminate() error = %v", err)
		}

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("process survived forced kill")
		}
		if len(rec.calls) != 2 || rec.calls[1] != Forced {
			t.Errorf("calls = %v, want [SIGTERM SIGKILL]", rec.calls)
		}
	})

	t.Run("already gone", func(t *testing.T) {
		pid, done := startSleeper(t, "exit 0")
		<-done
		if err := Terminate(context.Background(), OS{}, pid, true, time.Second); err != nil {
			t.Errorf("Terminate() on exited pid = %v, want nil", err)
		}
	})
}
