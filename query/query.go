// Package query remembers search terms and suggests them back while the user types.
package query

import (
	"cmp"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/shortdrama-cli/shortdrama/filesystem"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/shortdrama-cli/shortdrama/where"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

type record struct {
	Rank  int       `json:"rank"`
	Query string    `json:"query"`
	Last  time.Time `json:"last"`
}

// Memory is a ranked set of past search terms.
type Memory struct {
	mu    sync.Mutex
	store *gache.Cache[map[string]*record]
	memo  map[string][]*record
}

// NewMemory returns a memory persisted at path.
func NewMemory(path string) *Memory {
	return &Memory{
		store: gache.New[map[string]*record](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
		memo: make(map[string][]*record),
	}
}

var (
	defaultMemory     *Memory
	defaultMemoryOnce sync.Once
)

// Default returns the shared memory in the cache directory.
func Default() *Memory {
	defaultMemoryOnce.Do(func() {
		defaultMemory = NewMemory(where.Queries())
	})
	return defaultMemory
}

func (m *Memory) records() map[string]*record {
	records, expired, err := m.store.Get()
	if expired || err != nil || records == nil {
		return make(map[string]*record)
	}
	return records
}

// Remember adds weight to the rank of term. Blank terms are ignored.
func (m *Memory) Remember(term string, weight int) error {
	term = normalize(term)
	if term == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.records()
	if r, ok := records[term]; ok {
		r.Rank += weight
		r.Last = time.Now()
	} else {
		records[term] = &record{Rank: weight, Query: term, Last: time.Now()}
	}

	clear(m.memo)
	return m.store.Set(records)
}

// Forget drops term from the memory.
func (m *Memory) Forget(term string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.records()
	delete(records, normalize(term))
	clear(m.memo)
	return m.store.Set(records)
}

// Suggest returns the best ranked past term matching the partial input.
func (m *Memory) Suggest(partial string) mo.Option[string] {
	suggestions := m.SuggestMany(partial)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns every past term matching the partial input. Terms starting with the
// input come first, then terms containing it, then fuzzy matches, each group highest rank first.
// The input itself is never suggested back.
func (m *Memory) SuggestMany(partial string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return nil
	}

	partial = normalize(partial)

	m.mu.Lock()
	defer m.mu.Unlock()

	matches, ok := m.memo[partial]
	if !ok {
		tiers := make(map[*record]matchTier)
		for _, r := range m.records() {
			if r.Query == partial {
				continue
			}
			if tier, ok := tierOf(partial, r.Query); ok {
				tiers[r] = tier
				matches = append(matches, r)
			}
		}

		slices.SortFunc(matches, func(a, b *record) int {
			if c := cmp.Compare(tiers[a], tiers[b]); c != 0 {
				return c
			}
			if c := cmp.Compare(b.Rank, a.Rank); c != 0 {
				return c
			}
			return strings.Compare(a.Query, b.Query)
		})

		m.memo[partial] = matches
	}

	return lo.Map(matches, func(r *record, _ int) string {
		return r.Query
	})
}

type matchTier int

const (
	tierPrefix matchTier = iota
	tierSubstring
	tierFuzzy
)

func tierOf(partial, query string) (matchTier, bool) {
	switch {
	case strings.HasPrefix(query, partial):
		return tierPrefix, true
	case strings.Contains(query, partial):
		return tierSubstring, true
	case fuzzy.Match(partial, query):
		return tierFuzzy, true
	default:
		return 0, false
	}
}

func normalize(term string) string {
	return strings.ToLower(strings.Join(strings.Fields(term), " "))
}
