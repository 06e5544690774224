// Package serverless adapts the dispatchers to per-request function hosts,
// where the process may be reused across invocations but has no main.
package serverless

import (
	"context"
	"net/http"
	"sync"

	"github.com/okian/teamhub/internal/adapters/http/api"
	"github.com/okian/teamhub/internal/app"
	"github.com/okian/teamhub/internal/config"
	"github.com/okian/teamhub/internal/domain/dispatch"
	"github.com/okian/teamhub/pkg/logger"
)

// Selector picks the dispatcher an entry point serves.
type Selector func(*app.Service) *dispatch.Dispatcher

// API selects the main dispatcher.
func API(s *app.Service) *dispatch.Dispatcher { return s.API() }

// Probe selects the test-deployment dispatcher.
func Probe(s *app.Service) *dispatch.Dispatcher { return s.Probe() }

// Entry builds its handler once, on the first request.
type Entry struct {
	once    sync.Once
	pick    Selector
	load    func(context.Context) (*config.Config, error)
	handler http.Handler
}

// NewEntry returns an entry serving the dispatcher chosen by pick.
func NewEntry(pick Selector) *Entry {
	return &Entry{pick: pick, load: config.Load}
}

// ServeHTTP implements http.Handler.
func (e *Entry) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.once.Do(func() { e.handler = e.build(r.Context()) })
	e.handler.ServeHTTP(w, r)
}

func (e *Entry) build(ctx context.Context) http.Handler {
	log := logger.New(logger.WithFormat(logger.FormatJSON), logger.WithSource(false))

	cfg, err := e.load(ctx)
	if err != nil {
		log.Error(ctx, "config load failed; using defaults", logger.Error(err))
		cfg = config.New()
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level", logger.String("log_level", cfg.LogLevel))
	}

	opts := append([]app.Option{app.WithLogger(log)}, app.OptionsFromConfig(cfg)...)
	d := e.pick(app.New(opts...))
	return api.Handler(d, cfg.MaxBodyBytes)
}
