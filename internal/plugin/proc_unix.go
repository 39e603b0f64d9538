//go:build unix

package plugin

import (
	"os/exec"
	"syscall"
)

// isolateProcessGroup starts the plugin in a new process group so that
// cancellation also reaches any children it spawned.
func isolateProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
