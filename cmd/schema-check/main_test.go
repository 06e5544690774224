package main

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSplitColumns(t *testing.T) {
	Convey("Given a comma separated column flag", t, func() {
		Convey("Then blanks and empty entries are dropped", func() {
			So(splitColumns(" id, email,,name ,"), ShouldResemble, []string{"id", "email", "name"})
			So(splitColumns(" , "), ShouldBeEmpty)
		})
	})
}
