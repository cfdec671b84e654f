//go:build windows

package logging

import "golang.org/x/sys/windows"

// currentThreadID returns the OS thread id writing the record.
func currentThreadID() int {
	return int(windows.GetCurrentThreadId())
}
