package library

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

var counter int

func tempPath(name string) string {
	counter++
	return filepath.Join("/library-test", fmt.Sprintf("%d-%s", counter, name))
}

func video(id int) *catalog.Video {
	return &catalog.Video{ID: id, Title: fmt.Sprintf("Video %d", id)}
}

func ids(videos []*catalog.Video) []int {
	return lo.Map(videos, func(v *catalog.Video, _ int) int { return v.ID })
}

func TestSaved(t *testing.T) {
	Convey("Given an empty saved list", t, func() {
		path := tempPath("saved.json")
		saved := NewSaved(path)

		Convey("Adding the same id twice keeps one entry", func() {
			So(saved.Add(video(1)), ShouldBeNil)
			So(saved.Add(video(1)), ShouldBeNil)
			So(saved.Add(video(2)), ShouldBeNil)
			So(ids(saved.All()), ShouldResemble, []int{1, 2})
		})

		Convey("Membership survives a fresh instance reading the same file", func() {
			So(saved.Add(video(1)), ShouldBeNil)
			So(saved.Add(video(2)), ShouldBeNil)
			So(saved.Add(video(3)), ShouldBeNil)
			So(saved.Remove(2), ShouldBeNil)

			reopened := NewSaved(path)
			So(reopened.Contains(1), ShouldBeTrue)
			So(reopened.Contains(2), ShouldBeFalse)
			So(reopened.Contains(3), ShouldBeTrue)
			So(ids(reopened.All()), ShouldResemble, ids(saved.All()))
		})

		Convey("Toggle flips membership", func() {
			on, err := saved.Toggle(video(5))
			So(err, ShouldBeNil)
			So(on, ShouldBeTrue)

			on, err = saved.Toggle(video(5))
			So(err, ShouldBeNil)
			So(on, ShouldBeFalse)
			So(saved.Contains(5), ShouldBeFalse)
		})

		Convey("Concurrent toggles alternate", func() {
			const toggles = 41

			var (
				mu     sync.Mutex
				wg     sync.WaitGroup
				states []bool
			)
			for range toggles {
				wg.Add(1)
				go func() {
					defer wg.Done()
					on, err := saved.Toggle(video(6))
					mu.Lock()
					defer mu.Unlock()
					if err == nil {
						states = append(states, on)
					}
				}()
			}
			wg.Wait()

			So(states, ShouldHaveLength, toggles)
			added := lo.Count(states, true)
			So(added-(toggles-added), ShouldEqual, 1)
			So(saved.Contains(6), ShouldBeTrue)
			So(ids(saved.All()), ShouldResemble, []int{6})
		})

		Convey("Removing an unknown id is a no-op", func() {
			So(saved.Remove(42), ShouldBeNil)
			So(saved.All(), ShouldBeEmpty)
		})
	})
}

func TestHistory(t *testing.T) {
	Convey("Given an empty history", t, func() {
		path := tempPath("history.json")
		history := NewHistory(path)

		Convey("Entries are most recent first", func() {
			So(history.Add(video(1)), ShouldBeNil)
			So(history.Add(video(2)), ShouldBeNil)
			So(ids(history.All()), ShouldResemble, []int{2, 1})
		})

		Convey("Re-watching moves the entry to the front without duplicating it", func() {
			So(history.Add(video(1)), ShouldBeNil)
			So(history.Add(video(2)), ShouldBeNil)
			So(history.Add(video(1)), ShouldBeNil)
			So(history.Add(video(1)), ShouldBeNil)
			So(ids(history.All()), ShouldResemble, []int{1, 2})

			So(ids(NewHistory(path).All()), ShouldResemble, []int{1, 2})
		})

		Convey("Clear empties the list on disk", func() {
			So(history.Add(video(1)), ShouldBeNil)
			So(history.Clear(), ShouldBeNil)
			So(NewHistory(path).All(), ShouldBeEmpty)
		})
	})
}

func TestCorruptStore(t *testing.T) {
	Convey("Given a corrupt file on disk", t, func() {
		path := tempPath("broken.json")
		So(filesystem.API().MkdirAll(filepath.Dir(path), 0o755), ShouldBeNil)
		So(filesystem.API().WriteFile(path, []byte("{not json"), 0o644), ShouldBeNil)

		Convey("The store starts empty and can be written again", func() {
			history := NewHistory(path)
			So(history.All(), ShouldBeEmpty)

			So(history.Add(video(9)), ShouldBeNil)
			So(ids(NewHistory(path).All()), ShouldResemble, []int{9})
		})
	})
}
