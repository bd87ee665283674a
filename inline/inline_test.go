package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/samber/mo"
	"github.com/shortdrama-cli/shortdrama/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeSource struct {
	videos  []*catalog.Video
	found   []*catalog.Video
	rubrics []*catalog.Rubric
	err     error
}

func (f *fakeSource) Videos(_ context.Context, _ string) (*catalog.Page, error) {
	return &catalog.Page{Videos: f.videos}, f.err
}

func (f *fakeSource) Rubrics(context.Context) ([]*catalog.Rubric, error) {
	return f.rubrics, f.err
}

func (f *fakeSource) Search(_ context.Context, _ string) (*catalog.Page, error) {
	return &catalog.Page{Videos: f.found}, f.err
}

func episode(id, order int, collection, title string) *catalog.Video {
	return &catalog.Video{ID: id, DisplayOrder: order, CollectionTitle: collection, Title: title}
}

func fixture() *fakeSource {
	videos := []*catalog.Video{
		episode(1, 1, "Hidden Identity", "Hidden Identity S01E01"),
		episode(2, 2, "Hidden Identity", "Hidden Identity S01E02"),
		episode(3, 3, "Hidden Identity", "Hidden Identity S01E03"),
		episode(4, 1, "The CEO's Secret Bride", "The CEO's Secret Bride S01E01"),
	}
	return &fakeSource{videos: videos, found: videos[3:]}
}

func decode(buf *bytes.Buffer) Output {
	var output Output
	So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
	return output
}

func TestWriteJson(t *testing.T) {
	Convey("An empty result is still a JSON array", t, func() {
		var buf bytes.Buffer
		So(writeJson(&buf, &Output{Query: "test"}), ShouldBeNil)
		So(buf.String(), ShouldContainSubstring, `"result":[]`)

		output := decode(&buf)
		So(output.Query, ShouldEqual, "test")
		So(output.Result, ShouldHaveLength, 0)
	})
}

func TestRun(t *testing.T) {
	Convey("Given a catalog", t, func() {
		src := fixture()
		var buf bytes.Buffer
		options := &Options{Out: &buf, Source: src, Json: true}

		Convey("The listing holds one entry per series", func() {
			So(Run(context.Background(), options), ShouldBeNil)
			output := decode(&buf)
			So(output.Result, ShouldHaveLength, 2)
			So(output.Result[0].Video.ID, ShouldEqual, 1)
			So(output.Result[1].Series, ShouldEqual, "The CEO's Secret Bride")
		})

		Convey("A query searches instead", func() {
			options.Query = "bride"
			So(Run(context.Background(), options), ShouldBeNil)
			output := decode(&buf)
			So(output.Query, ShouldEqual, "bride")
			So(output.Result, ShouldHaveLength, 1)
			So(output.Result[0].Video.ID, ShouldEqual, 4)
		})

		Convey("Episodes are attached and filtered", func() {
			picker, err := ParseVideoPicker("first", "")
			So(err, ShouldBeNil)
			filter, err := ParseEpisodesFilter("1-2")
			So(err, ShouldBeNil)

			options.VideoPicker = mo.Some(picker)
			options.EpisodesFilter = mo.Some(filter)
			options.Episodes = true

			So(Run(context.Background(), options), ShouldBeNil)
			output := decode(&buf)
			So(output.Result, ShouldHaveLength, 1)
			So(output.Result[0].Episodes, ShouldHaveLength, 2)
			So(output.Result[0].Episodes[0].ID, ShouldEqual, 2)
		})

		Convey("Plain output prints one line per video", func() {
			options.Json = false
			So(Run(context.Background(), options), ShouldBeNil)
			So(buf.String(), ShouldStartWith, "1\tHidden Identity S01E01\t")
		})

		Convey("Catalog failures are returned", func() {
			src.err = errors.New("offline")
			So(Run(context.Background(), options), ShouldNotBeNil)
		})
	})
}

func TestParseVideoPicker(t *testing.T) {
	videos := fixture().videos

	Convey("Pickers select from the candidates", t, func() {
		for kind, want := range map[string]int{"first": 1, "last": 4, "1": 2, "99": 4} {
			picker, err := ParseVideoPicker(kind, "")
			So(err, ShouldBeNil)
			So(picker(videos).ID, ShouldEqual, want)
		}
	})

	Convey("Exact matches titles case-insensitively", t, func() {
		picker, _ := ParseVideoPicker("exact", "hidden identity s01e03")
		So(picker(videos).ID, ShouldEqual, 3)
	})

	Convey("Closest tolerates typos", t, func() {
		picker, _ := ParseVideoPicker("closest", "the ceos secret brid")
		So(picker(videos).ID, ShouldEqual, 4)
	})

	Convey("Pickers on an empty list return nil", t, func() {
		picker, _ := ParseVideoPicker("first", "")
		So(picker(nil), ShouldBeNil)
	})

	Convey("Unknown pickers are rejected", t, func() {
		_, err := ParseVideoPicker("random", "")
		So(err, ShouldNotBeNil)
	})
}

func TestParseEpisodesFilter(t *testing.T) {
	episodes := fixture().videos[:3]

	Convey("Filters", t, func() {
		for description, want := range map[string]int{"first": 1, "last": 1, "all": 3, "0-1": 2, "5-9": 0, "2": 1, "7": 0, "@e02@": 1} {
			filter, err := ParseEpisodesFilter(description)
			So(err, ShouldBeNil)
			got, err := filter(episodes)
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, want)
		}
	})

	Convey("Garbage is rejected", t, func() {
		_, err := ParseEpisodesFilter("most")
		So(err, ShouldNotBeNil)
	})
}
