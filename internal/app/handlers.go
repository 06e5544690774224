package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/teamhub/internal/domain/dispatch"
	"github.com/okian/teamhub/internal/domain/project"
	"github.com/okian/teamhub/pkg/clock"
	"github.com/okian/teamhub/pkg/logger"
)

// MessageNameRequired is the 400 message for a missing project name.
const MessageNameRequired = "Name is required"

// MessageProbe is returned by the probe route.
const MessageProbe = "Test endpoint is working"

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type probeResponse struct {
	Message string `json:"message"`
	Method  string `json:"method"`
}

// handleHealth answers any method on /api/health.
func (s *Service) handleHealth(_ context.Context, _ dispatch.Request) (dispatch.Response, error) {
	return dispatch.JSON(http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: clock.Format(s.clock.Now()),
	})
}

// handleCreateProject answers POST /api/projects. It is the only handler that
// reads the body; read and decode failures are returned as errors so the
// dispatcher turns them into 500s.
func (s *Service) handleCreateProject(ctx context.Context, req dispatch.Request) (dispatch.Response, error) {
	body, err := req.ReadBody()
	if err != nil {
		return dispatch.Response{}, err
	}
	in, err := project.DecodeCreateInput(body)
	if err != nil {
		return dispatch.Response{}, err
	}
	p, err := s.projects.Create(ctx, in)
	if errors.Is(err, project.ErrNameRequired) {
		s.recorder.RecordValidationFailure("name")
		return dispatch.Message(http.StatusBadRequest, MessageNameRequired)
	}
	if err != nil {
		return dispatch.Response{}, err
	}
	s.recorder.RecordProjectCreated()
	s.logger.Info(ctx, "project created", logger.String("id", p.ID), logger.String("name", p.Name))
	return dispatch.JSON(http.StatusCreated, p)
}

func (s *Service) handleIndex(_ context.Context, _ dispatch.Request) (dispatch.Response, error) {
	return dispatch.HTML(http.StatusOK, s.indexHTML), nil
}

func (s *Service) handleProbe(_ context.Context, req dispatch.Request) (dispatch.Response, error) {
	return dispatch.JSON(http.StatusOK, probeResponse{Message: MessageProbe, Method: req.Method})
}
