package open

import (
	"testing"

	"github.com/shortdrama-cli/shortdrama/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Given a share link", t, func() {
		const address = "https://shortdrama.app/watch/12?utm_source=cli"

		Convey("Linux uses xdg-open", func() {
			name, args, err := command(constant.Linux, "", address)
			So(err, ShouldBeNil)
			So(name, ShouldEqual, "xdg-open")
			So(args, ShouldResemble, []string{address})
		})

		Convey("macOS uses open", func() {
			name, _, err := command(constant.Darwin, "", address)
			So(err, ShouldBeNil)
			So(name, ShouldEqual, "open")
		})

		Convey("$BROWSER wins over the platform handler", func() {
			name, args, err := command(constant.Linux, " firefox ", address)
			So(err, ShouldBeNil)
			So(name, ShouldEqual, "firefox")
			So(args, ShouldResemble, []string{address})
		})

		Convey("Unknown platforms are an error", func() {
			_, _, err := command("plan9", "", address)
			So(err, ShouldNotBeNil)
		})
	})
}
