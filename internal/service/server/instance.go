package server

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/theme-alarm/internal/logger"
)

// ErrAlreadyRunning is returned when another server process is found.
var ErrAlreadyRunning = errors.New("another theme-alarm-server instance is running")

// processLister returns the running processes.
type processLister func() ([]ps.Process, error)

// listProcesses is the production process lister.
func listProcesses() ([]ps.Process, error) {
	return ps.Processes()
}

// ensureSingleInstance fails when a process with the same executable name as
// the current one is running.
func ensureSingleInstance(ctx context.Context, list processLister) error {
	processList, err := list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	thisProcessID := os.Getpid()

	var executable string

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			executable = process.Executable()

			break
		}
	}

	if executable == "" {
		logger.Warn(ctx, "Current process not found, skipping single-instance check")

		return nil
	}

	for _, process := range processList {
		if process.Pid() == thisProcessID || process.Executable() != executable {
			continue
		}

		return fmt.Errorf("pid %d: %w", process.Pid(), ErrAlreadyRunning)
	}

	return nil
}
