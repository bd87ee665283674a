package filesystem

import (
	"io"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestBackend(t *testing.T) {
	Convey("Given the in-memory backend", t, func() {
		SetMemMapFs()
		defer SetOsFs()

		So(API().Name(), ShouldEqual, "MemMapFS")

		Convey("GacheFs writes through it", func() {
			var fs GacheFs
			So(fs.MkdirAll("/cache/shortdrama", 0o755), ShouldBeNil)

			f, err := fs.OpenFile("/cache/shortdrama/rubrics.json", os.O_CREATE|os.O_WRONLY, 0o644)
			So(err, ShouldBeNil)
			_, err = io.WriteString(f, "[]")
			So(err, ShouldBeNil)
			So(f.Close(), ShouldBeNil)

			data, err := afero.ReadFile(API(), "/cache/shortdrama/rubrics.json")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "[]")
		})
	})

	Convey("SetOsFs restores the real filesystem", t, func() {
		SetOsFs()
		So(API().Name(), ShouldEqual, "OsFs")
	})
}
