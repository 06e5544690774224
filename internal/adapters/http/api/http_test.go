package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/teamhub/internal/adapters/http/api"
	"github.com/okian/teamhub/internal/app"
	"github.com/okian/teamhub/internal/domain/dispatch"
	"github.com/okian/teamhub/pkg/clock"
	"github.com/okian/teamhub/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func newMux(opts ...api.Option) *http.ServeMux {
	svc := app.New(
		app.WithClock(clock.Fixed(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))),
		app.WithRecorder(metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))),
	)
	mux := http.NewServeMux()
	api.NewServer(svc, opts...).Register(context.Background(), mux)
	return mux
}

func serve(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode(rec *httptest.ResponseRecorder) map[string]any {
	var m map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &m)
	return m
}

func TestServerRoutes(t *testing.T) {
	Convey("Given a server with default options", t, func() {
		mux := newMux()

		Convey("Health answers 200 with a JSON content type", func() {
			rec := serve(mux, http.MethodGet, "/api/health?verbose=1", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldEqual, dispatch.ContentTypeJSON)
			So(decode(rec)["status"], ShouldEqual, "ok")
			So(decode(rec)["timestamp"], ShouldEqual, "2025-01-02T03:04:05.000Z")
		})

		Convey("Project creation passes the body through", func() {
			rec := serve(mux, http.MethodPost, "/api/projects", `{"name":"Widgets"}`)
			So(rec.Code, ShouldEqual, http.StatusCreated)
			So(decode(rec)["id"], ShouldEqual, "test-project-id")
			So(decode(rec)["name"], ShouldEqual, "Widgets")
		})

		Convey("Missing names are rejected", func() {
			rec := serve(mux, http.MethodPost, "/api/projects", `{}`)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(decode(rec)["message"], ShouldEqual, "Name is required")
		})

		Convey("Malformed bodies reach the failure boundary", func() {
			rec := serve(mux, http.MethodPost, "/api/projects", `{"name":`)
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			So(decode(rec)["error"], ShouldEqual, "Internal server error")
			So(decode(rec)["details"], ShouldNotBeEmpty)
		})

		Convey("The index page is HTML", func() {
			for _, p := range []string{"/", "/index.html"} {
				rec := serve(mux, http.MethodGet, p, "")
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldStartWith, "text/html")
				So(rec.Body.String(), ShouldContainSubstring, "<html")
			}
		})

		Convey("Unknown paths fall through to 404", func() {
			rec := serve(mux, http.MethodGet, "/unknown", "")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
			So(decode(rec), ShouldResemble, map[string]any{"message": "Not found"})
		})

		Convey("The probe reports the method", func() {
			rec := serve(mux, http.MethodPut, "/api/test", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(decode(rec), ShouldResemble, map[string]any{
				"message": "Test endpoint is working",
				"method":  "PUT",
			})
		})

		Convey("Metrics are exposed", func() {
			rec := serve(mux, http.MethodGet, "/metrics", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "teamhub_")
		})
	})
}

func TestServerOptions(t *testing.T) {
	Convey("Given a server with the probe and metrics disabled", t, func() {
		mux := newMux(api.WithProbe(false), api.WithMetricsEndpoint(false))

		Convey("The probe path is handled by the API dispatcher", func() {
			rec := serve(mux, http.MethodGet, "/api/test", "")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("The metrics path is handled by the API dispatcher", func() {
			rec := serve(mux, http.MethodGet, "/metrics", "")
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a small body limit", t, func() {
		mux := newMux(api.WithMaxBodyBytes(16))

		Convey("Oversized bodies become a 500", func() {
			rec := serve(mux, http.MethodPost, "/api/projects", `{"name":"a very long project name"}`)
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			So(decode(rec)["details"], ShouldEqual, "read request body: body exceeds 16 bytes")
		})

		Convey("Routes that ignore the body are unaffected by its size", func() {
			big := strings.Repeat("x", 64)

			health := serve(mux, http.MethodGet, "/api/health", big)
			So(health.Code, ShouldEqual, http.StatusOK)
			So(decode(health)["status"], ShouldEqual, "ok")

			unknown := serve(mux, http.MethodGet, "/unknown", big)
			So(unknown.Code, ShouldEqual, http.StatusNotFound)
			So(decode(unknown), ShouldResemble, map[string]any{"message": "Not found"})

			So(serve(mux, http.MethodPost, "/", big).Code, ShouldEqual, http.StatusOK)
			So(serve(mux, http.MethodPost, "/api/test", big).Code, ShouldEqual, http.StatusOK)
		})

		Convey("Bodies under the limit are accepted", func() {
			rec := serve(mux, http.MethodPost, "/api/projects", `{"name":"a"}`)
			So(rec.Code, ShouldEqual, http.StatusCreated)
		})
	})

	Convey("Register rejects a nil mux", t, func() {
		So(func() { api.NewServer(app.New()).Register(context.Background(), nil) }, ShouldPanic)
	})
}

func TestRequestMetrics(t *testing.T) {
	Convey("Given requests that end in a fault and in a 404", t, func() {
		mux := newMux()
		serve(mux, http.MethodPost, "/api/projects", `{"name":`)
		serve(mux, http.MethodGet, "/does-not-exist", "")

		Convey("Then the exposition separates the two outcomes per variant", func() {
			out := serve(mux, http.MethodGet, "/metrics", "").Body.String()
			So(out, ShouldContainSubstring, `errors_by_endpoint_total{endpoint="api",error_type="fault",method="POST"}`)
			So(out, ShouldContainSubstring, `errors_by_endpoint_total{endpoint="api",error_type="not_found",method="GET"}`)
			So(out, ShouldContainSubstring, `http_requests_total{endpoint="api",method="POST",status_code="500"}`)
		})
	})
}
