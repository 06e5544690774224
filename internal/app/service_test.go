package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okian/teamhub/internal/app"
	"github.com/okian/teamhub/internal/config"
	"github.com/okian/teamhub/internal/domain/dispatch"
	"github.com/okian/teamhub/pkg/clock"
	"github.com/okian/teamhub/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 535_000_000, time.UTC)

func newService(opts ...app.Option) *app.Service {
	base := []app.Option{
		app.WithClock(clock.Fixed(fixedNow)),
		app.WithRecorder(metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))),
	}
	return app.New(append(base, opts...)...)
}

func body(resp dispatch.Response) map[string]any {
	var m map[string]any
	_ = json.Unmarshal(resp.Body, &m)
	return m
}

func TestAPIDispatcher(t *testing.T) {
	Convey("Given the API dispatcher", t, func() {
		d := newService().API()
		ctx := context.Background()

		Convey("When the health path is requested with any method", func() {
			for _, method := range []string{"GET", "POST", "DELETE"} {
				resp := d.Dispatch(ctx, dispatch.Request{Method: method, Path: app.PathHealth})

				So(resp.Status, ShouldEqual, http.StatusOK)
				b := body(resp)
				So(b["status"], ShouldEqual, "ok")
				So(b["timestamp"], ShouldEqual, "2025-03-14T15:09:26.535Z")
				_, err := time.Parse(time.RFC3339, b["timestamp"].(string))
				So(err, ShouldBeNil)
			}
		})

		Convey("When repeating the health check", func() {
			first := d.Dispatch(ctx, dispatch.Request{Method: "GET", Path: app.PathHealth})
			second := d.Dispatch(ctx, dispatch.Request{Method: "GET", Path: app.PathHealth})

			Convey("Then both should report ok", func() {
				So(body(first)["status"], ShouldEqual, "ok")
				So(body(second)["status"], ShouldEqual, "ok")
			})
		})

		Convey("When creating a project named Widgets", func() {
			resp := d.Dispatch(ctx, dispatch.Request{Method: "POST", Path: app.PathProjects, Body: `{"name":"Widgets"}`})

			Convey("Then it should answer 201 with the fabricated project", func() {
				So(resp.Status, ShouldEqual, http.StatusCreated)
				So(resp.ContentType, ShouldEqual, dispatch.ContentTypeJSON)
				So(body(resp), ShouldResemble, map[string]any{
					"id":        "test-project-id",
					"name":      "Widgets",
					"createdAt": "2025-03-14T15:09:26.535Z",
				})
			})
		})

		Convey("When creating a project without a name", func() {
			for _, b := range []string{"", "{}", `{"name":""}`, "null"} {
				resp := d.Dispatch(ctx, dispatch.Request{Method: "POST", Path: app.PathProjects, Body: b})

				So(resp.Status, ShouldEqual, http.StatusBadRequest)
				So(body(resp)["message"], ShouldEqual, app.MessageNameRequired)
			}
		})

		Convey("When creating a project whose name is only spaces", func() {
			resp := d.Dispatch(ctx, dispatch.Request{Method: "POST", Path: app.PathProjects, Body: `{"name":"   "}`})

			Convey("Then it should be created with the name as sent", func() {
				So(resp.Status, ShouldEqual, http.StatusCreated)
				So(body(resp)["name"], ShouldEqual, "   ")
			})
		})

		Convey("When the project body is malformed", func() {
			resp := d.Dispatch(ctx, dispatch.Request{Method: "POST", Path: app.PathProjects, Body: `{"name":`})

			Convey("Then the boundary should answer 500 with details", func() {
				So(resp.Status, ShouldEqual, http.StatusInternalServerError)
				b := body(resp)
				So(b["error"], ShouldEqual, dispatch.FaultMarker)
				So(b["details"], ShouldNotBeEmpty)
			})
		})

		Convey("When the projects path is requested with another method", func() {
			resp := d.Dispatch(ctx, dispatch.Request{Method: "GET", Path: app.PathProjects})

			Convey("Then it should fall through to not found", func() {
				So(resp.Status, ShouldEqual, http.StatusNotFound)
				So(body(resp)["message"], ShouldEqual, "Not found")
			})
		})

		Convey("When the root or index path is requested", func() {
			for _, path := range []string{app.PathRoot, app.PathIndex} {
				resp := d.Dispatch(ctx, dispatch.Request{Method: "GET", Path: path})

				So(resp.Status, ShouldEqual, http.StatusOK)
				So(resp.ContentType, ShouldEqual, dispatch.ContentTypeHTML)
				So(string(resp.Body), ShouldContainSubstring, "<html")
			}
		})

		Convey("When an unknown path is requested", func() {
			for _, path := range []string{"/unknown", "/api/health/", "/api/test", "/index.htm"} {
				resp := d.Dispatch(ctx, dispatch.Request{Method: "GET", Path: path})

				So(resp.Status, ShouldEqual, http.StatusNotFound)
				So(string(resp.Body), ShouldEqual, `{"message":"Not found"}`)
			}
		})

		Convey("Then the rules should be in priority order", func() {
			So(d.Routes(), ShouldResemble, []string{app.RouteHealth, app.RouteCreateProject, app.RouteIndex})
		})
	})
}

func TestProbeDispatcher(t *testing.T) {
	Convey("Given the probe dispatcher", t, func() {
		d := newService().Probe()
		ctx := context.Background()

		Convey("When the test endpoint is requested", func() {
			resp := d.Dispatch(ctx, dispatch.Request{Method: "PUT", Path: app.PathProbe})

			Convey("Then it should echo the method", func() {
				So(resp.Status, ShouldEqual, http.StatusOK)
				So(body(resp), ShouldResemble, map[string]any{"message": app.MessageProbe, "method": "PUT"})
			})
		})

		Convey("When any other path is requested", func() {
			resp := d.Dispatch(ctx, dispatch.Request{Method: "GET", Path: app.PathHealth})

			Convey("Then it should answer not found", func() {
				So(resp.Status, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestServiceOptions(t *testing.T) {
	Convey("Given a service built from a uuid config", t, func() {
		cfg := config.New()
		cfg.ProjectIDMode = config.ProjectIDUUID
		d := newService(app.OptionsFromConfig(cfg)...).API()

		Convey("When creating a project", func() {
			resp := d.Dispatch(context.Background(), dispatch.Request{Method: "POST", Path: app.PathProjects, Body: `{"name":"Acme"}`})

			Convey("Then the id should be a uuid", func() {
				So(resp.Status, ShouldEqual, http.StatusCreated)
				_, err := uuid.Parse(body(resp)["id"].(string))
				So(err, ShouldBeNil)
			})
		})
	})

	Convey("Given a service built from a fixed-id config", t, func() {
		cfg := config.New()
		cfg.FixedProjectID = "demo"
		d := newService(app.OptionsFromConfig(cfg)...).API()

		Convey("Then created projects should carry the configured id", func() {
			resp := d.Dispatch(context.Background(), dispatch.Request{Method: "POST", Path: app.PathProjects, Body: `{"name":"Acme"}`})
			So(body(resp)["id"], ShouldEqual, "demo")
		})
	})

	Convey("Given a custom index document", t, func() {
		d := newService(app.WithIndexHTML("<html>custom</html>")).API()

		Convey("Then the index route should serve it", func() {
			resp := d.Dispatch(context.Background(), dispatch.Request{Method: "GET", Path: "/"})
			So(string(resp.Body), ShouldEqual, "<html>custom</html>")
		})
	})
}

type countingRecorder struct {
	mu         sync.Mutex
	matches    map[string]int
	created    int
	validation map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{matches: map[string]int{}, validation: map[string]int{}}
}

func (c *countingRecorder) RecordRouteMatched(variant, route string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matches[variant+"/"+route]++
}

func (c *countingRecorder) RecordDispatchFault(string, string) {}
func (c *countingRecorder) RecordDispatchDuration(string, float64) {}

func (c *countingRecorder) RecordProjectCreated() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.created++
}

func (c *countingRecorder) RecordValidationFailure(field string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.validation[field]++
}

func TestServiceRecorder(t *testing.T) {
	Convey("Given a service with its own recorder", t, func() {
		rec := newCountingRecorder()
		d := newService(app.WithRecorder(rec)).API()
		ctx := context.Background()

		Convey("When projects are created and rejected", func() {
			d.Dispatch(ctx, dispatch.Request{Method: "POST", Path: app.PathProjects, Body: `{"name":"Widgets"}`})
			d.Dispatch(ctx, dispatch.Request{Method: "POST", Path: app.PathProjects, Body: `{"name":"Gadgets"}`})
			d.Dispatch(ctx, dispatch.Request{Method: "POST", Path: app.PathProjects, Body: `{}`})

			Convey("Then the project counters land on that recorder", func() {
				So(rec.created, ShouldEqual, 2)
				So(rec.validation["name"], ShouldEqual, 1)
				So(rec.matches["api/"+app.RouteCreateProject], ShouldEqual, 3)
			})
		})
	})
}
