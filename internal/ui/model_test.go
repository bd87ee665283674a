package ui

import (
	"strings"
	"testing"

	"github.com/shortdrama-cli/shortdrama/notify"
	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a toast model", t, func() {
		var m Model
		first := notify.New("Now Watching: Hidden Identity", "A heir returns...", "")
		second := notify.New("New episodes", "Fresh drops", "")

		Convey("The first notification is shown and scheduled to expire", func() {
			So(m.Update(first), ShouldNotBeNil)
			So(m.Update(second), ShouldBeNil)

			current, ok := m.Current()
			So(ok, ShouldBeTrue)
			So(current.ID, ShouldEqual, first.ID)
			So(m.View("line one\nline two\nline three\nline four", 60), ShouldContainSubstring, "Hidden Identity")

			Convey("Expiring it promotes the next one", func() {
				So(m.Update(ExpireMsg{ID: first.ID}), ShouldNotBeNil)
				current, ok := m.Current()
				So(ok, ShouldBeTrue)
				So(current.ID, ShouldEqual, second.ID)

				So(m.Update(ExpireMsg{ID: second.ID}), ShouldBeNil)
				_, ok = m.Current()
				So(ok, ShouldBeFalse)
			})

			Convey("A stale expiry is ignored", func() {
				So(m.Update(ExpireMsg{ID: second.ID}), ShouldBeNil)
				current, _ := m.Current()
				So(current.ID, ShouldEqual, first.ID)
			})
		})

		Convey("Without a notification the content is untouched", func() {
			So(m.View("content", 40), ShouldEqual, "content")
			So(strings.Count(m.View("a\nb", 40), "\n"), ShouldEqual, 1)
		})
	})
}
