package smoke

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

var errUnexpected = errors.New("unexpected response")

// Scenario is one request and the check applied to its answer.
type Scenario struct {
	Name   string
	Probe  bool // sent to the probe deployment
	Method string
	Path   string
	Body   func() string
	Check  func(status int, body []byte) error
}

// Scenarios returns the checks run against a deployment.
func Scenarios(includeProbe bool) []Scenario {
	s := []Scenario{
		{
			Name: "health", Method: http.MethodGet, Path: "/api/health",
			Check: all(wantStatus(http.StatusOK), wantField("status", "ok"), wantTimestamp("timestamp")),
		},
		{
			Name: "health_post", Method: http.MethodPost, Path: "/api/health",
			Check: all(wantStatus(http.StatusOK), wantField("status", "ok")),
		},
		{
			Name: "create_project", Method: http.MethodPost, Path: "/api/projects",
			Body:  uniqueProjectBody,
			Check: all(wantStatus(http.StatusCreated), wantNonEmpty("id"), wantNonEmpty("name"), wantTimestamp("createdAt")),
		},
		{
			Name: "create_project_no_name", Method: http.MethodPost, Path: "/api/projects",
			Body:  constBody(`{}`),
			Check: all(wantStatus(http.StatusBadRequest), wantField("message", "Name is required")),
		},
		{
			Name: "create_project_empty_name", Method: http.MethodPost, Path: "/api/projects",
			Body:  constBody(`{"name":""}`),
			Check: all(wantStatus(http.StatusBadRequest), wantField("message", "Name is required")),
		},
		{
			Name: "create_project_spaces_name", Method: http.MethodPost, Path: "/api/projects",
			Body:  constBody(`{"name":"   "}`),
			Check: all(wantStatus(http.StatusCreated), wantField("name", "   ")),
		},
		{
			Name: "create_project_malformed", Method: http.MethodPost, Path: "/api/projects",
			Body:  constBody(`{"name":`),
			Check: all(wantStatus(http.StatusInternalServerError), wantField("error", "Internal server error"), wantNonEmpty("details")),
		},
		{
			Name: "projects_get", Method: http.MethodGet, Path: "/api/projects",
			Check: all(wantStatus(http.StatusNotFound), wantField("message", "Not found")),
		},
		{
			Name: "unknown_path", Method: http.MethodGet, Path: "/unknown",
			Check: all(wantStatus(http.StatusNotFound), wantField("message", "Not found")),
		},
		{
			Name: "index", Method: http.MethodGet, Path: "/",
			Check: all(wantStatus(http.StatusOK), wantHTML),
		},
		{
			Name: "index_html", Method: http.MethodGet, Path: "/index.html",
			Check: all(wantStatus(http.StatusOK), wantHTML),
		},
	}
	if includeProbe {
		s = append(s, Scenario{
			Name: "probe", Probe: true, Method: http.MethodDelete, Path: "/api/test",
			Check: all(wantStatus(http.StatusOK), wantField("message", "Test endpoint is working"), wantField("method", http.MethodDelete)),
		})
	}
	return s
}

func uniqueProjectBody() string {
	b, _ := json.Marshal(map[string]string{"name": "smoke-" + uuid.NewString()})
	return string(b)
}

func constBody(s string) func() string {
	return func() string { return s }
}

func all(checks ...func(int, []byte) error) func(int, []byte) error {
	return func(status int, body []byte) error {
		for _, c := range checks {
			if err := c(status, body); err != nil {
				return err
			}
		}
		return nil
	}
}

func wantStatus(want int) func(int, []byte) error {
	return func(status int, _ []byte) error {
		if status != want {
			return fmt.Errorf("%w: status %d, want %d", errUnexpected, status, want)
		}
		return nil
	}
}

func field(body []byte, key string) (string, error) {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return "", fmt.Errorf("%w: body is not a JSON object: %w", errUnexpected, err)
	}
	v, ok := m[key].(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q missing or not a string", errUnexpected, key)
	}
	return v, nil
}

func wantField(key, want string) func(int, []byte) error {
	return func(_ int, body []byte) error {
		got, err := field(body, key)
		if err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("%w: %s = %q, want %q", errUnexpected, key, got, want)
		}
		return nil
	}
}

func wantNonEmpty(key string) func(int, []byte) error {
	return func(_ int, body []byte) error {
		got, err := field(body, key)
		if err != nil {
			return err
		}
		if got == "" {
			return fmt.Errorf("%w: %s is empty", errUnexpected, key)
		}
		return nil
	}
}

func wantTimestamp(key string) func(int, []byte) error {
	return func(_ int, body []byte) error {
		got, err := field(body, key)
		if err != nil {
			return err
		}
		if _, err := time.Parse(time.RFC3339, got); err != nil {
			return fmt.Errorf("%w: %s is not ISO-8601: %w", errUnexpected, key, err)
		}
		return nil
	}
}

func wantHTML(_ int, body []byte) error {
	if !strings.Contains(strings.ToLower(string(body)), "<html") {
		return fmt.Errorf("%w: body is not an HTML document", errUnexpected)
	}
	return nil
}
