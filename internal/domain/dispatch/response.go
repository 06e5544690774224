package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Content types written by the response constructors.
const (
	ContentTypeJSON = "application/json; charset=utf-8"
	ContentTypeHTML = "text/html; charset=utf-8"
)

// Fault body values.
const (
	FaultMarker    = "Internal server error"
	UnknownFailure = "Unknown error"
)

// fallbackFault is written when even the fault body cannot be encoded.
var fallbackFault = []byte(`{"error":"Internal server error","details":"Unknown error"}`)

// Request is the host-independent view of an incoming call.
type Request struct {
	Method string
	Path   string
	// Body is the raw payload; empty when absent.
	Body string
	// LoadBody, when set, supplies the payload on demand instead of Body.
	// Hosts set it so that only handlers that consume a body pay for, and
	// fail on, reading it.
	LoadBody func() (string, error)
}

// ReadBody returns the payload, calling LoadBody when it is set.
func (r Request) ReadBody() (string, error) {
	if r.LoadBody == nil {
		return r.Body, nil
	}
	return r.LoadBody()
}

// Response is a fully encoded reply.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

type messageBody struct {
	Message string `json:"message"`
}

type faultBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// JSON encodes v as the response body.
func JSON(status int, v any) (Response, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Response{}, fmt.Errorf("encode response: %w", err)
	}
	return Response{Status: status, ContentType: ContentTypeJSON, Body: b}, nil
}

// Message builds a {"message": msg} response.
func Message(status int, msg string) (Response, error) {
	return JSON(status, messageBody{Message: msg})
}

// HTML wraps an HTML document.
func HTML(status int, doc string) Response {
	return Response{Status: status, ContentType: ContentTypeHTML, Body: []byte(doc)}
}

// FaultResponse renders err as a 500 with an error marker and details.
func FaultResponse(err error) Response {
	b, mErr := json.Marshal(faultBody{Error: FaultMarker, Details: faultDetails(err)})
	if mErr != nil {
		b = fallbackFault
	}
	return Response{Status: http.StatusInternalServerError, ContentType: ContentTypeJSON, Body: b}
}

// PanicError carries a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", p.Value)
}

// Unwrap exposes the panic value when it is an error.
func (p *PanicError) Unwrap() error {
	if err, ok := p.Value.(error); ok {
		return err
	}
	return nil
}

func faultDetails(err error) string {
	if err == nil {
		return UnknownFailure
	}
	msg := err.Error()
	var pe *PanicError
	if errors.As(err, &pe) {
		switch v := pe.Value.(type) {
		case error:
			msg = v.Error()
		case string:
			msg = v
		default:
			msg = ""
		}
	}
	if msg == "" {
		return UnknownFailure
	}
	return msg
}
