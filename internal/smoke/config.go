package smoke

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL    string        // Base URL of the API deployment
	ProbeURL   string        // Base URL of the probe deployment; empty means BaseURL
	SkipProbe  bool          // Skip probe scenarios
	Workers    int           // Number of concurrent workers
	Rounds     int           // Times each scenario is executed
	Timeout    time.Duration // HTTP request timeout
	ReportFile string        // Output file for the JSON report; empty disables it
	Verbose    bool          // Log every failure as it happens
}

// Stats holds run statistics.
type Stats struct {
	Requests  int64
	Passed    int64
	Failed    int64
	Failures  map[string]string // scenario -> first failure
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

func (c *Config) probeURL() string {
	if c.ProbeURL != "" {
		return c.ProbeURL
	}
	return c.BaseURL
}
