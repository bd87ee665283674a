// Package browse holds the catalog views shown on the home screen.
package browse

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/log"
)

// ReservedRubric is a provider-internal category that must never reach the UI.
const ReservedRubric = "GETBRIZ"

// MissingEpisode is the episode number assumed for titles without an E<n> marker.
const MissingEpisode = 999

const firstSeasonMarker = "S01"

var episodePattern = regexp.MustCompile(`E(\d+)`)

// FilterRubrics drops every rubric whose label or title is the reserved one.
func FilterRubrics(rubrics []*catalog.Rubric) []*catalog.Rubric {
	return lo.Filter(rubrics, func(r *catalog.Rubric, _ int) bool {
		return r != nil && r.Label != ReservedRubric && r.Title != ReservedRubric
	})
}

// EpisodeNumber extracts n from the first E<n> in title.
func EpisodeNumber(title string) (int, bool) {
	match := episodePattern.FindStringSubmatch(title)
	if match == nil {
		return MissingEpisode, false
	}

	n, err := strconv.Atoi(match[1])
	if err != nil {
		return MissingEpisode, false
	}

	return n, true
}

func episodeRank(title string) int {
	n, _ := EpisodeNumber(title)
	return n
}

// FirstEpisodes picks one entry per collection: the first-season video with the lowest episode number.
// Collections are returned in order of first appearance.
func FirstEpisodes(videos []*catalog.Video) []*catalog.Video {
	var order []string
	picked := make(map[string]*catalog.Video)

	for _, v := range videos {
		if v == nil || !strings.Contains(v.Title, firstSeasonMarker) {
			continue
		}

		current, ok := picked[v.CollectionTitle]
		if !ok {
			order = append(order, v.CollectionTitle)
			picked[v.CollectionTitle] = v
			continue
		}

		if episodeRank(v.Title) < episodeRank(current.Title) {
			picked[v.CollectionTitle] = v
		}
	}

	return lo.Map(order, func(title string, _ int) *catalog.Video {
		return picked[title]
	})
}

// Source is the subset of the catalog client browsing needs.
type Source interface {
	Videos(ctx context.Context, rubricID string) (*catalog.Page, error)
	Rubrics(ctx context.Context) ([]*catalog.Rubric, error)
}

// Shelf is a rubric and the first episodes of the collections it holds.
type Shelf struct {
	Rubric *catalog.Rubric  `json:"rubric"`
	Videos []*catalog.Video `json:"videos"`
}

// Grid returns the videos of the home grid: first episodes in "all" mode,
// the full list when a rubric is selected.
func Grid(ctx context.Context, src Source, rubricID string) ([]*catalog.Video, error) {
	page, err := src.Videos(ctx, rubricID)
	if err != nil {
		return nil, err
	}

	if rubricID == "" {
		return FirstEpisodes(page.Videos), nil
	}

	return page.Videos, nil
}

// Shelves loads one shelf per visible rubric. Rubrics that fail to load or are empty are skipped.
func Shelves(ctx context.Context, src Source, rubrics []*catalog.Rubric) []*Shelf {
	var shelves []*Shelf
	for _, rubric := range FilterRubrics(rubrics) {
		if ctx.Err() != nil {
			break
		}

		page, err := src.Videos(ctx, rubric.ID)
		if err != nil {
			log.Warnf("loading rubric %s: %v", rubric.ID, err)
			continue
		}

		if videos := FirstEpisodes(page.Videos); len(videos) > 0 {
			shelves = append(shelves, &Shelf{Rubric: rubric, Videos: videos})
		}
	}

	return shelves
}
