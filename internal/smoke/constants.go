package smoke

import "time"

// Default run parameters.
const (
	DefaultWorkers = 4
	DefaultRounds  = 10
	DefaultTimeout = 10 * time.Second
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Report constants.
const (
	PercentageMultiplier = 100
	reportFilePermission = 0o600
	directoryPermission  = 0o750
)
