package browse

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

func v(id int, collection, title string) *catalog.Video {
	return &catalog.Video{ID: id, CollectionTitle: collection, Title: title}
}

func TestFilterRubrics(t *testing.T) {
	Convey("The reserved rubric never survives filtering", t, func() {
		reservedByLabel := &catalog.Rubric{ID: "r", Title: "Internal", Label: ReservedRubric}
		reservedByTitle := &catalog.Rubric{ID: "t", Title: ReservedRubric, Label: "internal"}
		romance := &catalog.Rubric{ID: "1", Title: "Romance", Label: "romance"}
		action := &catalog.Rubric{ID: "2", Title: "Action", Label: "action"}

		inputs := [][]*catalog.Rubric{
			{reservedByLabel, romance, action},
			{romance, reservedByLabel, action},
			{romance, action, reservedByLabel},
			{reservedByTitle, romance, reservedByLabel, action, reservedByTitle},
			{reservedByLabel},
		}

		for _, input := range inputs {
			filtered := FilterRubrics(input)
			for _, r := range filtered {
				So(r.Label, ShouldNotEqual, ReservedRubric)
				So(r.Title, ShouldNotEqual, ReservedRubric)
			}
		}

		So(FilterRubrics(inputs[3]), ShouldResemble, []*catalog.Rubric{romance, action})
		So(FilterRubrics(inputs[4]), ShouldBeEmpty)
	})

	Convey("Matching is case-sensitive", t, func() {
		lower := &catalog.Rubric{ID: "x", Title: "getbriz", Label: "getbriz"}
		So(FilterRubrics([]*catalog.Rubric{lower}), ShouldHaveLength, 1)
	})
}

func TestEpisodeNumber(t *testing.T) {
	Convey("Episode numbers are read from the E<n> marker", t, func() {
		n, ok := EpisodeNumber("Hidden Identity S01E05")
		So(ok, ShouldBeTrue)
		So(n, ShouldEqual, 5)

		n, ok = EpisodeNumber("Trailer")
		So(ok, ShouldBeFalse)
		So(n, ShouldEqual, MissingEpisode)
	})
}

func TestFirstEpisodes(t *testing.T) {
	Convey("Given videos from several collections", t, func() {
		videos := []*catalog.Video{
			v(1, "Hidden Identity", "Hidden Identity S01E03"),
			v(2, "Stepmom", "Stepmom S01E02"),
			v(3, "Hidden Identity", "Hidden Identity S01E01"),
			v(4, "Stepmom", "Stepmom S01 Special"),
			v(5, "Stepmom", "Stepmom S02E01"),
			v(6, "Fake Girlfriend", "Fake Girlfriend S02E01"),
		}

		firsts := FirstEpisodes(videos)
		got := lo.Map(firsts, func(v *catalog.Video, _ int) int { return v.ID })

		Convey("The lowest numbered first-season episode wins", func() {
			So(got, ShouldResemble, []int{3, 2})
		})

		Convey("Titles without a number sort after numbered ones", func() {
			reordered := []*catalog.Video{
				v(10, "A", "A S01 Pilot"),
				v(11, "A", "A S01E07"),
			}
			So(FirstEpisodes(reordered)[0].ID, ShouldEqual, 11)
		})

		Convey("A collection with only unnumbered episodes keeps its first one", func() {
			only := []*catalog.Video{v(20, "B", "B S01 Pilot"), v(21, "B", "B S01 Extra")}
			So(FirstEpisodes(only)[0].ID, ShouldEqual, 20)
		})
	})
}

type fakeSource struct {
	pages map[string][]*catalog.Video
	fail  map[string]bool
}

func (f *fakeSource) Videos(_ context.Context, rubricID string) (*catalog.Page, error) {
	if f.fail[rubricID] {
		return nil, errors.New("boom")
	}
	return &catalog.Page{Videos: f.pages[rubricID]}, nil
}

func (f *fakeSource) Rubrics(context.Context) ([]*catalog.Rubric, error) {
	return nil, nil
}

func TestGridAndShelves(t *testing.T) {
	Convey("Given a catalog source", t, func() {
		src := &fakeSource{
			pages: map[string][]*catalog.Video{
				"":  {v(1, "A", "A S01E02"), v(2, "A", "A S01E01")},
				"1": {v(3, "C", "C S01E01"), v(4, "C", "C S01E02")},
				"9": {v(5, "X", "X S01E01")},
			},
			fail: map[string]bool{"2": true},
		}

		Convey("All mode shows first episodes only", func() {
			videos, err := Grid(context.Background(), src, "")
			So(err, ShouldBeNil)
			So(videos, ShouldHaveLength, 1)
			So(videos[0].ID, ShouldEqual, 2)
		})

		Convey("A selected rubric shows its whole list", func() {
			videos, err := Grid(context.Background(), src, "1")
			So(err, ShouldBeNil)
			So(videos, ShouldHaveLength, 2)
		})

		Convey("Shelves skip failing, empty and reserved rubrics", func() {
			shelves := Shelves(context.Background(), src, []*catalog.Rubric{
				{ID: "1", Title: "Romance"},
				{ID: "2", Title: "Broken"},
				{ID: "3", Title: "Empty"},
				{ID: "9", Title: "Internal", Label: ReservedRubric},
			})
			So(shelves, ShouldHaveLength, 1)
			So(shelves[0].Rubric.ID, ShouldEqual, "1")
			So(shelves[0].Videos[0].ID, ShouldEqual, 3)
		})
	})
}
