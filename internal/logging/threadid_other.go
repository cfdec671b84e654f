//go:build !windows

package logging

import "os"

// currentThreadID stands in for the OS thread id off Windows, where the
// record format still requires the field; the pid keeps it meaningful.
func currentThreadID() int {
	return os.Getpid()
}
