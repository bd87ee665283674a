package series

import (
	"math"
	"testing"

	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

func ep(id int, collection string, order int) *catalog.Video {
	return &catalog.Video{ID: id, CollectionTitle: collection, DisplayOrder: order}
}

func idsOf(videos []*catalog.Video) []int {
	return lo.Map(videos, func(v *catalog.Video, _ int) int { return v.ID })
}

func TestGroup(t *testing.T) {
	Convey("Given videos from two collections", t, func() {
		videos := []*catalog.Video{
			ep(3, "B", 1),
			ep(2, "A", 2),
			ep(1, "A", 1),
			ep(4, "B", 0),
		}

		collections := Group(videos)

		Convey("Collections follow first appearance", func() {
			So(lo.Map(collections, func(c *Collection, _ int) string { return c.Title }), ShouldResemble, []string{"B", "A"})
		})

		Convey("Episodes are sorted by display order", func() {
			So(idsOf(collections[0].Episodes), ShouldResemble, []int{4, 3})
			So(idsOf(collections[1].Episodes), ShouldResemble, []int{1, 2})
		})
	})

	Convey("Ties keep their input order", t, func() {
		a := ep(10, "S", 1)
		b := ep(11, "S", 1)
		c := ep(12, "S", 1)
		first := ep(9, "S", 0)

		for _, input := range [][]*catalog.Video{
			{a, b, first, c},
			{first, a, b, c},
			{a, first, b, c},
		} {
			So(idsOf(Group(input)[0].Episodes), ShouldResemble, []int{9, 10, 11, 12})
		}

		So(idsOf(Group([]*catalog.Video{c, b, a})[0].Episodes), ShouldResemble, []int{12, 11, 10})
	})

	Convey("Extreme display orders still sort", t, func() {
		low := ep(1, "S", math.MinInt)
		high := ep(2, "S", math.MaxInt)
		So(idsOf(Group([]*catalog.Video{high, low})[0].Episodes), ShouldResemble, []int{1, 2})
	})
}

func TestOrder(t *testing.T) {
	Convey("Order walks every episode collection by collection", t, func() {
		videos := []*catalog.Video{
			ep(3, "B", 2),
			ep(1, "A", 1),
			ep(4, "B", 1),
			ep(2, "A", 2),
			ep(5, "C", 1),
		}

		So(idsOf(Order(videos)), ShouldResemble, []int{4, 3, 1, 2, 5})

		seq := New(videos, Terminal)
		var walked []int
		for {
			walked = append(walked, seq.Current().ID)
			if !seq.Advance() {
				break
			}
		}
		So(walked, ShouldResemble, idsOf(Order(videos)))
	})

	Convey("Order of nothing is empty", t, func() {
		So(Order(nil), ShouldBeEmpty)
	})
}

func TestNext(t *testing.T) {
	a1, a2, b1 := ep(1, "A", 1), ep(2, "A", 2), ep(3, "B", 1)
	videos := []*catalog.Video{a1, a2, b1}

	Convey("With the terminal policy, the default", t, func() {
		s := New(videos, Terminal)
		So(s.Current(), ShouldEqual, a1)

		next, ok := s.Next()
		So(ok, ShouldBeTrue)
		So(next, ShouldEqual, a2)

		So(s.Advance(), ShouldBeTrue)
		next, ok = s.Next()
		So(ok, ShouldBeTrue)
		So(next, ShouldEqual, b1)

		So(s.Advance(), ShouldBeTrue)
		next, ok = s.Next()
		So(ok, ShouldBeFalse)
		So(next, ShouldBeNil)
		So(s.Advance(), ShouldBeFalse)
		So(s.Current(), ShouldEqual, b1)
	})

	Convey("With the wrap policy", t, func() {
		s := New(videos, Wrap)
		So(s.Focus(b1.ID), ShouldBeTrue)

		next, ok := s.Next()
		So(ok, ShouldBeTrue)
		So(next, ShouldEqual, a1)

		So(s.Advance(), ShouldBeTrue)
		So(s.Current(), ShouldEqual, a1)
	})

	Convey("Prev mirrors Next", t, func() {
		s := New(videos, Terminal)
		So(s.Focus(b1.ID), ShouldBeTrue)

		prev, ok := s.Prev()
		So(ok, ShouldBeTrue)
		So(prev, ShouldEqual, a2)

		So(s.Back(), ShouldBeTrue)
		So(s.Back(), ShouldBeTrue)
		So(s.Current(), ShouldEqual, a1)
		So(s.Back(), ShouldBeFalse)
	})

	Convey("An empty sequencer has nothing to play", t, func() {
		s := New(nil, Wrap)
		So(s.Current(), ShouldBeNil)
		_, ok := s.Next()
		So(ok, ShouldBeFalse)
		So(s.Swipe(-100), ShouldBeFalse)
		So(s.MarkStarted(), ShouldBeFalse)
	})
}

func TestSwipe(t *testing.T) {
	Convey("Given three collections", t, func() {
		videos := []*catalog.Video{
			ep(1, "A", 1), ep(2, "A", 2),
			ep(3, "B", 1), ep(4, "B", 2),
			ep(5, "C", 1),
		}
		s := New(videos, Wrap)
		So(s.Focus(2), ShouldBeTrue)

		Convey("Short drags are ignored", func() {
			So(s.Swipe(-49), ShouldBeFalse)
			So(s.Swipe(49.9), ShouldBeFalse)
			So(s.Current().ID, ShouldEqual, 2)
		})

		Convey("A left drag jumps to the first episode of the next collection", func() {
			So(s.Swipe(-SwipeThreshold), ShouldBeTrue)
			So(s.Current().ID, ShouldEqual, 3)
		})

		Convey("A right drag jumps to the first episode of the previous collection", func() {
			So(s.Focus(4), ShouldBeTrue)
			So(s.Swipe(80), ShouldBeTrue)
			So(s.Current().ID, ShouldEqual, 1)
		})

		Convey("Swipes never wrap past either end", func() {
			So(s.Swipe(120), ShouldBeFalse)
			So(s.Focus(5), ShouldBeTrue)
			So(s.Swipe(-120), ShouldBeFalse)
			So(s.Current().ID, ShouldEqual, 5)
		})
	})
}

func TestSelect(t *testing.T) {
	Convey("Given a loaded list", t, func() {
		s := New([]*catalog.Video{ep(1, "A", 1), ep(2, "A", 2), ep(3, "B", 1)}, Terminal)

		Convey("Selecting another episode jumps to it directly", func() {
			changed, err := s.Select(3)
			So(err, ShouldBeNil)
			So(changed, ShouldBeTrue)
			So(s.Current().ID, ShouldEqual, 3)

			series, episode := s.Position()
			So(series, ShouldEqual, 1)
			So(episode, ShouldEqual, 0)
		})

		Convey("Selecting the current episode changes nothing", func() {
			changed, err := s.Select(1)
			So(err, ShouldBeNil)
			So(changed, ShouldBeFalse)
		})

		Convey("Unknown ids are rejected", func() {
			_, err := s.Select(99)
			So(err, ShouldEqual, ErrUnknownEpisode)
			So(s.Focus(99), ShouldBeFalse)
		})
	})
}

func TestStarted(t *testing.T) {
	Convey("The started flag fires once per loaded video", t, func() {
		s := New([]*catalog.Video{ep(1, "A", 1), ep(2, "A", 2)}, Terminal)

		So(s.MarkStarted(), ShouldBeTrue)
		So(s.MarkStarted(), ShouldBeFalse)
		So(s.Started(), ShouldBeTrue)

		Convey("Moving away and back resets it", func() {
			So(s.Advance(), ShouldBeTrue)
			So(s.Started(), ShouldBeFalse)
			So(s.MarkStarted(), ShouldBeTrue)

			changed, err := s.Select(1)
			So(err, ShouldBeNil)
			So(changed, ShouldBeTrue)
			So(s.MarkStarted(), ShouldBeTrue)
		})

		Convey("Re-selecting the current video does not", func() {
			_, _ = s.Select(1)
			So(s.MarkStarted(), ShouldBeFalse)
		})
	})
}
