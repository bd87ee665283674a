package where

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Cache()", func() {
			path := Cache()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs()", func() {
			path := Logs()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("List files live next to the config", func() {
			So(filepath.Dir(Saved()), ShouldEqual, Config())
			So(filepath.Dir(History()), ShouldEqual, Config())
			So(filepath.Base(Notifications()), ShouldEqual, "notification_settings.json")
		})

		Convey("The config directory can be overridden", func() {
			custom := filepath.Join(os.TempDir(), "shortdrama-where-test")
			t.Setenv(EnvConfigPath, custom)
			So(Config(), ShouldEqual, custom)
			So(History(), ShouldEqual, filepath.Join(custom, "history.json"))
		})
	})
}
