package dispatch

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFaultDetails(t *testing.T) {
	Convey("Given different fault sources", t, func() {
		Convey("Then a plain error should expose its message", func() {
			So(faultDetails(errors.New("boom")), ShouldEqual, "boom")
		})

		Convey("And a wrapped error should keep the wrap context", func() {
			So(faultDetails(fmt.Errorf("decode: %w", errors.New("eof"))), ShouldEqual, "decode: eof")
		})

		Convey("And a nil error should be unknown", func() {
			So(faultDetails(nil), ShouldEqual, UnknownFailure)
		})

		Convey("And a panic with an error value should unwrap", func() {
			pe := &PanicError{Value: errors.New("inner")}
			So(faultDetails(pe), ShouldEqual, "inner")
			So(errors.Unwrap(pe), ShouldNotBeNil)
		})

		Convey("And a panic with an opaque value should be unknown", func() {
			pe := &PanicError{Value: struct{}{}}
			So(faultDetails(pe), ShouldEqual, UnknownFailure)
			So(pe.Unwrap(), ShouldBeNil)
			So(pe.Error(), ShouldStartWith, "panic:")
		})
	})
}

func TestConstructors(t *testing.T) {
	Convey("Given the response constructors", t, func() {
		Convey("Then Message should encode a message object", func() {
			resp, err := Message(400, "Name is required")
			So(err, ShouldBeNil)
			So(string(resp.Body), ShouldEqual, `{"message":"Name is required"}`)
			So(resp.ContentType, ShouldEqual, ContentTypeJSON)
		})

		Convey("And HTML should carry the document verbatim", func() {
			resp := HTML(200, "<!doctype html>")
			So(string(resp.Body), ShouldEqual, "<!doctype html>")
			So(resp.ContentType, ShouldEqual, ContentTypeHTML)
		})

		Convey("And FaultResponse should carry the marker and details", func() {
			resp := FaultResponse(errors.New("x"))
			So(resp.Status, ShouldEqual, http.StatusInternalServerError)
			So(string(resp.Body), ShouldEqual, `{"error":"Internal server error","details":"x"}`)
		})
	})
}
