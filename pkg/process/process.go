//go:build !windows

package process

import (
	"errors"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// ShellCommand builds a command that runs through the shell in its own
// process group, so the whole tree can be signalled through the group.
func ShellCommand(command, dir string, env []string) *exec.Cmd {
	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = dir
	cmd.Env = env
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return cmd
}

func signal(pid int, group bool, sig Signal) error {
	target := pid
	if group {
		// Negative PID addresses the entire process group
		target = -pid
	}

	unixSig := unix.SIGTERM
	if sig == Forced {
		unixSig = unix.SIGKILL
	}

	err := unix.Kill(target, unixSig)
	if errors.Is(err, unix.ESRCH) {
		return ErrProcessGone
	}
	return err
}

// GroupAlive reports whether any process is left in the process group led by
// pgid. The group outlives its leader while children remain.
func GroupAlive(pgid int) bool {
	if pgid <= 0 {
		return false
	}
	err := unix.Kill(-pgid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
