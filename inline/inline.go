// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/browse"
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/log"
	"github.com/shortdrama-cli/shortdrama/series"
)

func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Source == nil {
		options.Source = catalog.Default()
	}

	output := &Output{Query: options.Query, Rubric: options.Rubric}

	if options.Shelves {
		rubrics, err := options.Source.Rubrics(ctx)
		if err != nil {
			return fmt.Errorf("rubrics: %w", err)
		}
		output.Shelves = browse.Shelves(ctx, options.Source, rubrics)
		return emit(options, output)
	}

	// Step 1: list the candidates.
	videos, err := candidates(ctx, options)
	if err != nil {
		return err
	}

	// Step 2: apply the picker, if any.
	selected := videos
	if options.VideoPicker.IsPresent() {
		selected = nil
		if choice := options.VideoPicker.MustGet()(videos); choice != nil {
			selected = []*catalog.Video{choice}
		}
	}

	output.Result = lo.Map(selected, func(v *catalog.Video, _ int) *Entry {
		return &Entry{Video: v, Series: seriesTitle(v)}
	})

	// Step 3: attach episodes.
	if options.Episodes && len(output.Result) > 0 {
		if err := attachEpisodes(ctx, options, output.Result); err != nil {
			return err
		}
	}

	return emit(options, output)
}

func candidates(ctx context.Context, options *Options) ([]*catalog.Video, error) {
	if options.Query != "" {
		page, err := options.Source.Search(ctx, options.Query)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", options.Query, err)
		}
		return page.Videos, nil
	}

	videos, err := browse.Grid(ctx, options.Source, options.Rubric)
	if err != nil {
		return nil, fmt.Errorf("listing: %w", err)
	}
	return videos, nil
}

func attachEpisodes(ctx context.Context, options *Options, entries []*Entry) error {
	page, err := options.Source.Videos(ctx, "")
	if err != nil {
		return fmt.Errorf("episodes: %w", err)
	}

	collections := series.Group(page.Videos)
	for _, entry := range entries {
		c, ok := lo.Find(collections, func(c *series.Collection) bool {
			return c.Title == entry.Video.CollectionTitle
		})

		episodes := []*catalog.Video{entry.Video}
		if ok {
			episodes = c.Episodes
		} else {
			log.Warnf("no series found for %q", entry.Video.Title)
		}

		if options.EpisodesFilter.IsPresent() {
			if episodes, err = options.EpisodesFilter.MustGet()(episodes); err != nil {
				return err
			}
		}

		entry.Episodes = episodes
	}

	return nil
}

func seriesTitle(v *catalog.Video) string {
	if v.CollectionTitle != "" {
		return v.CollectionTitle
	}
	return v.Title
}

func emit(options *Options, output *Output) error {
	if options.Json {
		return writeJson(options.Out, output)
	}

	for _, shelf := range output.Shelves {
		fmt.Fprintln(options.Out, shelf.Rubric.Title)
		for _, v := range shelf.Videos {
			fmt.Fprintf(options.Out, "\t%d\t%s\n", v.ID, v.Title)
		}
	}

	for _, entry := range output.Result {
		if len(entry.Episodes) == 0 {
			fmt.Fprintf(options.Out, "%d\t%s\t%s\n", entry.Video.ID, entry.Video.Title, entry.Video.DeliveryURL())
			continue
		}
		for _, v := range entry.Episodes {
			fmt.Fprintf(options.Out, "%d\t%s\t%s\n", v.ID, v.Title, v.DeliveryURL())
		}
	}

	return nil
}

func writeJson(out io.Writer, output *Output) error {
	data, err := asJson(output)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
