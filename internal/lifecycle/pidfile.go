// Package lifecycle manages the process marker file that external tooling
// uses to detect whether the dashboard is running.
package lifecycle

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// WritePIDFile persists the current process id to path.
func WritePIDFile(path string) error {
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	return nil
}

// RemovePIDFile removes the marker. Best effort: a missing file is not an error.
func RemovePIDFile(path string) {
	_ = os.Remove(path)
}

// ReadPIDFile returns the process id recorded at path.
func ReadPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading PID file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parsing PID file: %w", err)
	}
	return pid, nil
}
