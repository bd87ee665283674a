// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/util"
)

type (
	VideoPicker    func([]*catalog.Video) *catalog.Video
	EpisodesFilter func([]*catalog.Video) ([]*catalog.Video, error)
)

// Source is the part of the catalog inline mode reads from.
type Source interface {
	Videos(ctx context.Context, rubricID string) (*catalog.Page, error)
	Rubrics(ctx context.Context) ([]*catalog.Rubric, error)
	Search(ctx context.Context, term string) (*catalog.Page, error)
}

type Options struct {
	Out    io.Writer
	Source Source
	Json   bool

	// Query searches the catalog. When empty, Rubric selects the listing.
	Query  string
	Rubric string

	// Shelves lists every category with its first episodes instead of a single listing.
	Shelves bool

	VideoPicker    mo.Option[VideoPicker]
	EpisodesFilter mo.Option[EpisodesFilter]

	// Episodes attaches the episodes of each selected video's series.
	Episodes bool
}

func ParseVideoPicker(kind, value string) (VideoPicker, error) {
	switch kind {
	case "first":
		return func(videos []*catalog.Video) *catalog.Video {
			if len(videos) == 0 {
				return nil
			}
			return videos[0]
		}, nil
	case "last":
		return func(videos []*catalog.Video) *catalog.Video {
			if len(videos) == 0 {
				return nil
			}
			return videos[len(videos)-1]
		}, nil
	case "exact":
		return func(videos []*catalog.Video) *catalog.Video {
			v, _ := lo.Find(videos, func(v *catalog.Video) bool {
				return strings.EqualFold(v.Title, value) || strings.EqualFold(v.CollectionTitle, value)
			})
			return v
		}, nil
	case "closest":
		return func(videos []*catalog.Video) *catalog.Video {
			return closest(videos, value)
		}, nil
	default:
		idx, err := strconv.ParseUint(kind, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("unknown picker type: %s", kind)
		}
		return func(videos []*catalog.Video) *catalog.Video {
			if len(videos) == 0 {
				return nil
			}
			return videos[util.Min(idx, uint64(len(videos)-1))]
		}, nil
	}
}

// closest returns the video whose title or series title is nearest to name.
func closest(videos []*catalog.Video, name string) *catalog.Video {
	if len(videos) == 0 {
		return nil
	}

	name = strings.ToLower(name)
	distance := func(v *catalog.Video) int {
		return min(
			levenshtein.Distance(name, strings.ToLower(v.Title)),
			levenshtein.Distance(name, strings.ToLower(v.CollectionTitle)),
		)
	}

	return lo.MinBy(videos, func(a, b *catalog.Video) bool {
		return distance(a) < distance(b)
	})
}

// ParseEpisodesFilter parses an episode selector.
// Format: "first", "last", "all", "1-5", "@substring@" or a single index.
func ParseEpisodesFilter(description string) (EpisodesFilter, error) {
	switch description {
	case "first":
		return func(episodes []*catalog.Video) ([]*catalog.Video, error) {
			if len(episodes) == 0 {
				return episodes, nil
			}
			return episodes[:1], nil
		}, nil
	case "last":
		return func(episodes []*catalog.Video) ([]*catalog.Video, error) {
			if len(episodes) == 0 {
				return episodes, nil
			}
			return episodes[len(episodes)-1:], nil
		}, nil
	case "all":
		return func(episodes []*catalog.Video) ([]*catalog.Video, error) {
			return episodes, nil
		}, nil
	}

	if from, to, ok := strings.Cut(description, "-"); ok {
		start, err1 := strconv.ParseUint(from, 10, 16)
		end, err2 := strconv.ParseUint(to, 10, 16)
		if err1 == nil && err2 == nil {
			return func(episodes []*catalog.Video) ([]*catalog.Video, error) {
				n := uint64(len(episodes))
				start, end := util.Min(start, n), util.Min(end+1, n)
				if start > end {
					return []*catalog.Video{}, nil
				}
				return episodes[start:end], nil
			}, nil
		}
	}

	if len(description) > 1 && strings.HasPrefix(description, "@") && strings.HasSuffix(description, "@") {
		sub := strings.ToLower(description[1 : len(description)-1])
		return func(episodes []*catalog.Video) ([]*catalog.Video, error) {
			return lo.Filter(episodes, func(e *catalog.Video, _ int) bool {
				return strings.Contains(strings.ToLower(e.Title), sub)
			}), nil
		}, nil
	}

	if idx, err := strconv.ParseUint(description, 10, 16); err == nil {
		return func(episodes []*catalog.Video) ([]*catalog.Video, error) {
			if uint64(len(episodes)) <= idx {
				return []*catalog.Video{}, nil
			}
			return []*catalog.Video{episodes[idx]}, nil
		}, nil
	}

	return nil, fmt.Errorf("invalid episode filter: %s", description)
}
