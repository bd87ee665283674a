// Package search implements search-as-you-type over the catalog.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/shortdrama-cli/shortdrama/log"
	"github.com/spf13/viper"
)

// Func runs one search request.
type Func func(ctx context.Context, term string) ([]*catalog.Video, error)

// Result is delivered once per settled search. Cleared is set when the term became empty.
type Result struct {
	Generation uint64
	Term       string
	Videos     []*catalog.Video
	Err        error
	Cleared    bool
}

// Debouncer delays requests until typing pauses and drops results of superseded terms.
type Debouncer struct {
	delay   time.Duration
	search  Func
	deliver func(Result)

	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
	cancel     context.CancelFunc
	searching  bool
	term       string
	results    []*catalog.Video
	err        error
}

// New returns a Debouncer. deliver is called from a background goroutine and may be nil.
func New(delay time.Duration, search Func, deliver func(Result)) *Debouncer {
	if deliver == nil {
		deliver = func(Result) {}
	}

	return &Debouncer{delay: delay, search: search, deliver: deliver}
}

// Delay returns the configured debounce delay.
func Delay() time.Duration {
	return time.Duration(viper.GetInt(key.SearchDebounce)) * time.Millisecond
}

// Update records a new term. Any pending or in-flight request for an older term is abandoned.
func (d *Debouncer) Update(term string) {
	term = strings.TrimSpace(term)

	d.mu.Lock()
	d.generation++
	generation := d.generation
	d.stop()

	if term == "" {
		d.term = ""
		d.results = nil
		d.err = nil
		d.searching = false
		d.mu.Unlock()

		d.deliver(Result{Generation: generation, Cleared: true})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.term = term
	d.searching = true
	d.timer = time.AfterFunc(d.delay, func() {
		d.run(ctx, generation, term)
	})
	d.mu.Unlock()
}

func (d *Debouncer) run(ctx context.Context, generation uint64, term string) {
	log.Debugf("search %q (generation %d)", term, generation)
	videos, err := d.search(ctx, term)

	d.mu.Lock()
	if generation != d.generation {
		d.mu.Unlock()
		log.Debugf("dropping stale search results for %q", term)
		return
	}

	d.results = videos
	d.err = err
	d.searching = false
	d.mu.Unlock()

	d.deliver(Result{Generation: generation, Term: term, Videos: videos, Err: err})
}

// stop must be called with mu held.
func (d *Debouncer) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// Close abandons any pending request.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.generation++
	d.stop()
	d.searching = false
}

// Current reports whether generation is still the latest one.
func (d *Debouncer) Current(generation uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return generation == d.generation
}

// Searching reports whether a request for the current term is pending.
func (d *Debouncer) Searching() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.searching
}

// Term returns the current non-empty term, or "" when cleared.
func (d *Debouncer) Term() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.term
}

// Results returns the results of the latest settled search.
func (d *Debouncer) Results() ([]*catalog.Video, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.results, d.err
}
