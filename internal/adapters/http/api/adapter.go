package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/teamhub/internal/domain/dispatch"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 1 << 20

// Handler adapts d to net/http. The request path is taken from URL.Path, so
// query strings never affect matching. The body is read only when a matched
// handler asks for it; a body larger than maxBodyBytes fails that handler and
// is answered with the dispatcher's fault response. Request metrics are
// recorded per dispatcher variant.
func Handler(d *dispatch.Dispatcher, maxBodyBytes int64) http.HandlerFunc {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		req := dispatch.Request{
			Method:   r.Method,
			Path:     r.URL.Path,
			LoadBody: bodyLoader(w, r, maxBodyBytes),
		}
		resp := d.Dispatch(ctx, req)
		writeResponse(w, resp)
		observe(d.Variant(), r.Method, resp, time.Since(start))
	}
}

// bodyLoader reads the body at most once and replays the result.
func bodyLoader(w http.ResponseWriter, r *http.Request, limit int64) func() (string, error) {
	var (
		loaded bool
		body   string
		err    error
	)
	return func() (string, error) {
		if !loaded {
			loaded = true
			body, err = readBody(w, r, limit)
			if err != nil {
				err = fmt.Errorf("%w: %w", ErrReadBody, err)
			}
		}
		return body, err
	}
}

func readBody(w http.ResponseWriter, r *http.Request, limit int64) (string, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return "", nil
	}
	defer func() { _ = r.Body.Close() }()
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", fmt.Errorf("body exceeds %d bytes", tooLarge.Limit)
		}
		return "", err
	}
	return string(b), nil
}

func writeResponse(w http.ResponseWriter, resp dispatch.Response) {
	h := w.Header()
	if resp.ContentType != "" {
		h.Set("Content-Type", resp.ContentType)
	}
	h.Set("Content-Length", strconv.Itoa(len(resp.Body)))
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}
