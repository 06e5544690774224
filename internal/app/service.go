// Package app assembles the TeamHub dispatchers from their route handlers.
package app

import (
	"github.com/okian/teamhub/internal/adapters/http/site"
	"github.com/okian/teamhub/internal/config"
	"github.com/okian/teamhub/internal/domain/dispatch"
	"github.com/okian/teamhub/internal/domain/project"
	"github.com/okian/teamhub/pkg/clock"
	"github.com/okian/teamhub/pkg/logger"
	"github.com/okian/teamhub/pkg/metrics"

	"go.opentelemetry.io/otel/trace"
)

// Dispatcher variants.
const (
	VariantAPI   = "api"
	VariantProbe = "probe"
)

// Paths matched by the dispatchers.
const (
	PathHealth   = "/api/health"
	PathProjects = "/api/projects"
	PathRoot     = "/"
	PathIndex    = "/index.html"
	PathProbe    = "/api/test"
)

// Route names, used as metric and span labels.
const (
	RouteHealth        = "health"
	RouteCreateProject = "create_project"
	RouteIndex         = "index"
	RouteProbe         = "probe"
)

// Recorder receives dispatch and project metrics. *metrics.Manager implements it.
type Recorder interface {
	dispatch.Recorder
	RecordProjectCreated()
	RecordValidationFailure(field string)
}

// Service owns the immutable dispatchers of the process.
type Service struct {
	logger    logger.Logger
	clock     clock.Clock
	ids       project.IDSource
	indexHTML string
	recorder  Recorder
	tracer    trace.Tracer

	projects *project.Factory
	api      *dispatch.Dispatcher
	probe    *dispatch.Dispatcher
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source for timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithIDSource sets how project ids are produced.
func WithIDSource(ids project.IDSource) Option {
	return func(s *Service) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithIndexHTML replaces the embedded index document.
func WithIndexHTML(doc string) Option {
	return func(s *Service) {
		if doc != "" {
			s.indexHTML = doc
		}
	}
}

// WithRecorder sets the metrics sink shared by both dispatchers and the
// project handlers.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithTracer sets the tracer used by both dispatchers.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// OptionsFromConfig maps configuration onto service options.
func OptionsFromConfig(cfg *config.Config) []Option {
	var ids project.IDSource = project.FixedID(cfg.FixedProjectID)
	if cfg.ProjectIDMode == config.ProjectIDUUID {
		ids = project.UUIDSource{}
	}
	return []Option{WithIDSource(ids)}
}

// New constructs the service and both dispatchers.
func New(opts ...Option) *Service {
	s := &Service{
		logger:    logger.Nop(),
		clock:     clock.System(),
		ids:       project.FixedID(project.DefaultID),
		indexHTML: site.IndexHTML(),
		recorder:  metrics.Global(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.projects = project.NewFactory(s.ids, s.clock)

	s.api = dispatch.New(VariantAPI, []dispatch.Route{
		{Name: RouteHealth, Match: dispatch.PathIs(PathHealth), Handle: s.handleHealth},
		{Name: RouteCreateProject, Match: dispatch.All(dispatch.PathIs(PathProjects), dispatch.MethodIs("POST")), Handle: s.handleCreateProject},
		{Name: RouteIndex, Match: dispatch.PathIs(PathRoot, PathIndex), Handle: s.handleIndex},
	}, s.dispatchOptions(VariantAPI)...)

	s.probe = dispatch.New(VariantProbe, []dispatch.Route{
		{Name: RouteProbe, Match: dispatch.PathIs(PathProbe), Handle: s.handleProbe},
	}, s.dispatchOptions(VariantProbe)...)

	return s
}

func (s *Service) dispatchOptions(variant string) []dispatch.Option {
	return []dispatch.Option{
		dispatch.WithLogger(s.logger.Named(variant)),
		dispatch.WithRecorder(s.recorder),
		dispatch.WithTracer(s.tracer),
	}
}

// API returns the dispatcher for health, projects and the index page.
func (s *Service) API() *dispatch.Dispatcher { return s.api }

// Probe returns the minimal test-deployment dispatcher.
func (s *Service) Probe() *dispatch.Dispatcher { return s.probe }
