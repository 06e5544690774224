package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/teamhub/pkg/logger"
)

type report struct {
	Requests   int64             `json:"requests"`
	Passed     int64             `json:"passed"`
	Failed     int64             `json:"failed"`
	Failures   map[string]string `json:"failures,omitempty"`
	StartedAt  string            `json:"startedAt"`
	DurationMs int64             `json:"durationMs"`
}

// saveReport writes stats as indented JSON to filename.
func saveReport(ctx context.Context, filename string, stats *Stats) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	b, err := json.MarshalIndent(report{
		Requests:   stats.Requests,
		Passed:     stats.Passed,
		Failed:     stats.Failed,
		Failures:   stats.Failures,
		StartedAt:  stats.StartTime.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		DurationMs: stats.Duration.Milliseconds(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(filename, append(b, '\n'), reportFilePermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Get().Info(ctx, "report saved to file", logger.String("filename", filename))
	return nil
}
