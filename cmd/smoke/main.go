package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/teamhub/internal/smoke"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:3000", "Base URL of the API deployment")
		probeURL  = flag.String("probe-url", "", "Base URL of the probe deployment (default: same as -url)")
		skipProbe = flag.Bool("skip-probe", false, "Do not exercise /api/test")
		workers   = flag.Int("workers", smoke.DefaultWorkers, "Number of concurrent workers")
		rounds    = flag.Int("rounds", smoke.DefaultRounds, "Times each scenario runs")
		timeout   = flag.Duration("timeout", smoke.DefaultTimeout, "HTTP request timeout")
		report    = flag.String("report", "", "Write a JSON report to this file")
		logFile   = flag.String("log", "", "Also write logs to this file")
		verbose   = flag.Bool("verbose", false, "Log each failure as it happens")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	closeLog, err := smoke.SetupLogging(*logFile, *verbose)
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closeLog()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	_, err = smoke.Run(ctx, &smoke.Config{
		BaseURL:    *baseURL,
		ProbeURL:   *probeURL,
		SkipProbe:  *skipProbe,
		Workers:    *workers,
		Rounds:     *rounds,
		Timeout:    *timeout,
		ReportFile: *report,
		Verbose:    *verbose,
	})
	if err != nil {
		_, _ = os.Stderr.WriteString("Smoke run failed: " + err.Error() + "\n")
		closeLog()
		os.Exit(1)
	}
}
