package pidfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// AlreadyRunningError is returned when another live process holds the lock
type AlreadyRunningError struct {
	PID int
}

func (e *AlreadyRunningError) Error() string {
	return fmt.Sprintf("another dashboard is already running (PID %d)", e.PID)
}

// PIDFile keeps a single interactive dashboard per state directory
type PIDFile struct {
	path string
}

// New creates a new PIDFile manager
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the lock file location
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire writes the current PID. A file left behind by a dead process is
// replaced; a live owner yields *AlreadyRunningError.
func (p *PIDFile) Acquire() error {
	if pid, err := p.Owner(); err == nil {
		if isProcessRunning(pid) && pid != os.Getpid() {
			return &AlreadyRunningError{PID: pid}
		}
		_ = os.Remove(p.path)
	} else if !errors.Is(err, os.ErrNotExist) {
		// unreadable or garbage content
		_ = os.Remove(p.path)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("failed to create PID file directory: %w", err)
	}
	if err := os.WriteFile(p.path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Owner reads the PID recorded in the lock file
func (p *PIDFile) Owner() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file content: %w", err)
	}
	return pid, nil
}

// Release removes the PID file
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// isProcessRunning probes pid with signal 0
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return true
	case errors.Is(err, syscall.EPERM):
		// exists, owned by someone else
		return true
	default:
		return false
	}
}
