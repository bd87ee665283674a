package util

import (
	"testing"

	"github.com/shortdrama-cli/shortdrama/filesystem"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "video", "videos"), ShouldEqual, "1 video")
		So(Quantify(0, "video", "videos"), ShouldEqual, "0 videos")
		So(Quantify(12, "entry", "entries"), ShouldEqual, "12 entries")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("history"), ShouldEqual, "History")
		So(Capitalize("ёлка"), ShouldEqual, "Ёлка")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max and Min", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
		So(Max(-3, -7), ShouldEqual, -3)
		So(Min[int](), ShouldEqual, 0)
	})
}

func TestDelete(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()
		fs := filesystem.API()

		Convey("A directory is removed with its contents", func() {
			So(fs.MkdirAll("/tmp/shortdrama/a", 0o755), ShouldBeNil)
			So(afero.WriteFile(fs, "/tmp/shortdrama/a/f", []byte("x"), 0o644), ShouldBeNil)

			So(Delete("/tmp/shortdrama"), ShouldBeNil)
			exists, _ := afero.Exists(fs, "/tmp/shortdrama")
			So(exists, ShouldBeFalse)
		})

		Convey("A missing path is not an error", func() {
			So(Delete("/nope"), ShouldBeNil)
		})
	})
}

func TestStack(t *testing.T) {
	Convey("Given an empty stack", t, func() {
		var s Stack[int]

		Convey("Pop yields the zero value", func() {
			So(s.Pop(), ShouldEqual, 0)
			_, ok := s.TryPop()
			So(ok, ShouldBeFalse)
		})

		Convey("Entries come back in reverse order", func() {
			s.Push(1)
			s.Push(2)
			So(s.Len(), ShouldEqual, 2)
			So(s.Peek(), ShouldEqual, 2)
			So(s.Pop(), ShouldEqual, 2)
			So(s.Pop(), ShouldEqual, 1)
		})

		Convey("A limit drops the oldest entries", func() {
			s.Limit = 2
			s.Push(1)
			s.Push(2)
			s.Push(3)
			So(s.Len(), ShouldEqual, 2)
			So(s.Pop(), ShouldEqual, 3)
			So(s.Pop(), ShouldEqual, 2)
		})
	})
}
