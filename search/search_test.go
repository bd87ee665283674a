package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shortdrama-cli/shortdrama/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

type recorder struct {
	mu      sync.Mutex
	terms   []string
	results []Result
}

func (r *recorder) search(videos ...*catalog.Video) Func {
	return func(ctx context.Context, term string) ([]*catalog.Video, error) {
		r.mu.Lock()
		r.terms = append(r.terms, term)
		r.mu.Unlock()
		return videos, nil
	}
}

func (r *recorder) deliver(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func (r *recorder) snapshot() ([]string, []Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.terms...), append([]Result(nil), r.results...)
}

func TestDebouncer(t *testing.T) {
	Convey("Given a debouncer", t, func() {
		rec := &recorder{}
		hit := &catalog.Video{ID: 1, Title: "Hidden Identity"}

		Convey("Rapid typing issues a single request for the last term", func() {
			d := New(20*time.Millisecond, rec.search(hit), rec.deliver)
			d.Update("h")
			d.Update("hi")
			d.Update("hid")
			So(d.Searching(), ShouldBeTrue)

			time.Sleep(100 * time.Millisecond)

			terms, results := rec.snapshot()
			So(terms, ShouldResemble, []string{"hid"})
			So(results, ShouldHaveLength, 1)
			So(results[0].Term, ShouldEqual, "hid")
			So(d.Searching(), ShouldBeFalse)

			videos, err := d.Results()
			So(err, ShouldBeNil)
			So(videos, ShouldHaveLength, 1)
		})

		Convey("Clearing the term empties results and a late response cannot repopulate them", func() {
			release := make(chan struct{})
			started := make(chan struct{})
			slow := func(ctx context.Context, term string) ([]*catalog.Video, error) {
				close(started)
				<-release
				return []*catalog.Video{hit}, nil
			}

			d := New(time.Millisecond, slow, rec.deliver)
			d.Update("hidden")
			<-started

			d.Update("   ")
			So(d.Searching(), ShouldBeFalse)
			So(d.Term(), ShouldBeEmpty)

			close(release)
			time.Sleep(50 * time.Millisecond)

			videos, _ := d.Results()
			So(videos, ShouldBeEmpty)
			So(d.Searching(), ShouldBeFalse)

			_, results := rec.snapshot()
			So(results, ShouldHaveLength, 1)
			So(results[0].Cleared, ShouldBeTrue)
		})

		Convey("A superseded request sees its context canceled", func() {
			canceled := make(chan struct{})
			started := make(chan struct{}, 1)
			search := func(ctx context.Context, term string) ([]*catalog.Video, error) {
				if term == "first" {
					started <- struct{}{}
					<-ctx.Done()
					close(canceled)
					return nil, ctx.Err()
				}
				return []*catalog.Video{hit}, nil
			}

			d := New(time.Millisecond, search, rec.deliver)
			d.Update("first")
			<-started
			d.mu.Lock()
			first := d.generation
			d.mu.Unlock()
			d.Update("second")

			select {
			case <-canceled:
			case <-time.After(time.Second):
				t.Fatal("first request was not canceled")
			}

			time.Sleep(50 * time.Millisecond)
			So(d.Current(first), ShouldBeFalse)

			_, results := rec.snapshot()
			So(results, ShouldHaveLength, 1)
			So(results[0].Term, ShouldEqual, "second")
		})

		Convey("Close abandons a pending request", func() {
			d := New(20*time.Millisecond, rec.search(hit), rec.deliver)
			d.Update("hidden")
			d.Close()
			time.Sleep(60 * time.Millisecond)

			terms, results := rec.snapshot()
			So(terms, ShouldBeEmpty)
			So(results, ShouldBeEmpty)
		})
	})
}
