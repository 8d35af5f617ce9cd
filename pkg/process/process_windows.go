//go:build windows

package process

import (
	"fmt"
	"os/exec"
	"strconv"
	"syscall"
)

// ShellCommand builds a command that runs through cmd.exe in a new process group.
// Note: Windows has no signal-based graceful shutdown; Graceful maps to a
// plain taskkill, which asks windowed programs to close.
func ShellCommand(command, dir string, env []string) *exec.Cmd {
	cmd := exec.Command("cmd", "/C", command)
	cmd.Dir = dir
	cmd.Env = env
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
	return cmd
}

func signal(pid int, group bool, sig Signal) error {
	if !IsAlive(pid) {
		return ErrProcessGone
	}

	args := []string{"/PID", strconv.Itoa(pid)}
	if group {
		args = append(args, "/T")
	}
	if sig == Forced {
		args = append(args, "/F")
	}

	out, err := exec.Command("taskkill", args...).CombinedOutput()
	if err != nil {
		if !IsAlive(pid) {
			return ErrProcessGone
		}
		return fmt.Errorf("taskkill %v: %w: %s", args, err, out)
	}
	return nil
}

// GroupAlive reports whether the group leader pgid still runs. Windows keeps
// no process groups after the leader exits, so this is IsAlive.
func GroupAlive(pgid int) bool {
	return IsAlive(pgid)
}
