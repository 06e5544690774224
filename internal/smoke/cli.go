package smoke

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/teamhub/pkg/logger"
)

const logFilePermission = 0o600

// SetupLogging initializes the global logger, writing to stdout and, when
// logFile is set, to that file as well. The returned func closes the file.
func SetupLogging(logFile string, verbose bool) (func(), error) {
	var (
		w       io.Writer = os.Stdout
		closeFn           = func() {}
	)
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
		closeFn = func() { _ = file.Close() }
	}

	if err := logger.Init(logger.WithWriter(w)); err != nil {
		closeFn()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closeFn, nil
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`TeamHub Smoke Tool
==================

Drives a running TeamHub deployment concurrently and verifies every response.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string
        Base URL of the API deployment (default "http://localhost:3000")
  -probe-url string
        Base URL of the probe deployment (default: same as -url)
  -skip-probe
        Do not exercise /api/test
  -workers int
        Number of concurrent workers (default 4)
  -rounds int
        Times each scenario runs (default 10)
  -timeout duration
        HTTP request timeout (default 10s)
  -report string
        Write a JSON report to this file
  -log string
        Also write logs to this file
  -verbose
        Log each failure as it happens
  -help
        Show this help message

Examples:
  go run ./cmd/smoke -workers 16 -rounds 100
  go run ./cmd/smoke -url https://teamhub.example.com -report out/smoke.json
`)
}
