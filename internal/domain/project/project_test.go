package project

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okian/teamhub/pkg/clock"
	. "github.com/smartystreets/goconvey/convey"
)

type failingIDs struct{}

func (failingIDs) NewID(context.Context) (string, error) { return "", errors.New("entropy exhausted") }

func TestDecodeCreateInput(t *testing.T) {
	Convey("Given project creation bodies", t, func() {
		Convey("When the body is empty or blank", func() {
			for _, body := range []string{"", "   \n"} {
				in, err := DecodeCreateInput(body)

				So(err, ShouldBeNil)
				So(in.Name, ShouldBeNil)
			}
		})

		Convey("When the body carries a name", func() {
			in, err := DecodeCreateInput(`{"name":"Acme"}`)

			Convey("Then the name should be decoded", func() {
				So(err, ShouldBeNil)
				So(in.Name, ShouldNotBeNil)
				So(*in.Name, ShouldEqual, "Acme")
			})
		})

		Convey("When the body is an empty object or null", func() {
			for _, body := range []string{`{}`, `null`, `{"other":1}`} {
				in, err := DecodeCreateInput(body)

				So(err, ShouldBeNil)
				So(in.Name, ShouldBeNil)
			}
		})

		Convey("When the body is malformed or of the wrong shape", func() {
			for _, body := range []string{`{"name":`, `[]`, `"Acme"`, `{"name":5}`, `{"name":"a"} {"name":"b"}`} {
				_, err := DecodeCreateInput(body)

				So(err, ShouldNotBeNil)
				So(errors.Is(err, ErrDecode), ShouldBeTrue)
			}
		})
	})
}

func TestCreateInput_Validate(t *testing.T) {
	Convey("Given create inputs", t, func() {
		name := func(s string) *string { return &s }

		Convey("Then a missing name should be rejected", func() {
			_, err := CreateInput{}.Validate()
			So(err, ShouldEqual, ErrNameRequired)
		})

		Convey("And an empty name should be rejected", func() {
			_, err := CreateInput{Name: name("")}.Validate()
			So(err, ShouldEqual, ErrNameRequired)
		})

		Convey("And a whitespace-only name should be accepted unchanged", func() {
			got, err := CreateInput{Name: name("  \t")}.Validate()
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "  \t")
		})

		Convey("And a present name should be returned as provided", func() {
			got, err := CreateInput{Name: name(" Widgets ")}.Validate()
			So(err, ShouldBeNil)
			So(got, ShouldEqual, " Widgets ")
		})
	})
}

func TestFactory_Create(t *testing.T) {
	Convey("Given a factory with a fixed id and clock", t, func() {
		at := time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
		f := NewFactory(FixedID(DefaultID), clock.Fixed(at))
		ctx := context.Background()
		widgets := "Widgets"

		Convey("When creating a valid project", func() {
			p, err := f.Create(ctx, CreateInput{Name: &widgets})

			Convey("Then it should carry the id, name and timestamp", func() {
				So(err, ShouldBeNil)
				So(p.ID, ShouldEqual, "test-project-id")
				So(p.Name, ShouldEqual, "Widgets")
				So(p.CreatedAt.Equal(at), ShouldBeTrue)
			})

			Convey("And it should render the wire shape", func() {
				b, err := json.Marshal(p)
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `{"id":"test-project-id","name":"Widgets","createdAt":"2024-01-02T03:04:05.006Z"}`)
			})
		})

		Convey("When the name is missing", func() {
			_, err := f.Create(ctx, CreateInput{})

			Convey("Then validation should fail", func() {
				So(errors.Is(err, ErrNameRequired), ShouldBeTrue)
			})
		})

		Convey("When the id source fails", func() {
			bad := NewFactory(failingIDs{}, clock.Fixed(at))
			_, err := bad.Create(ctx, CreateInput{Name: &widgets})

			Convey("Then the error should be wrapped", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "generate project id")
			})
		})
	})

	Convey("Given a factory with defaults", t, func() {
		f := NewFactory(nil, nil)
		acme := "Acme"

		Convey("Then it should use the default id and the system clock", func() {
			p, err := f.Create(context.Background(), CreateInput{Name: &acme})
			So(err, ShouldBeNil)
			So(p.ID, ShouldEqual, DefaultID)
			So(p.CreatedAt.IsZero(), ShouldBeFalse)
		})
	})
}

func TestUUIDSource(t *testing.T) {
	Convey("Given the uuid source", t, func() {
		src := UUIDSource{}

		Convey("Then ids should be valid and distinct", func() {
			a, err := src.NewID(context.Background())
			So(err, ShouldBeNil)
			b, err := src.NewID(context.Background())
			So(err, ShouldBeNil)
			So(a, ShouldNotEqual, b)
			_, err = uuid.Parse(a)
			So(err, ShouldBeNil)
		})
	})
}
