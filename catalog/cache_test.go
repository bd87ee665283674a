package catalog

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCacher(t *testing.T) {
	Convey("Given a cache file without entries", t, func() {
		path := "/catalog-cache-test/" + time.Now().Format("150405.000000000") + ".json"
		c := newCacher[string, int](path, time.Hour)
		So(c.internal.Set(&cacheData[string, int]{}), ShouldBeNil)

		Convey("Lookups miss", func() {
			So(c.Get("rubric").IsAbsent(), ShouldBeTrue)
		})

		Convey("Storing a value starts a fresh table", func() {
			So(c.Set("rubric", 7), ShouldBeNil)
			So(c.Get("rubric").MustGet(), ShouldEqual, 7)
		})
	})
}
