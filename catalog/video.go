// Package catalog is a client for the publishing catalog API: videos, rubrics and content detail.
package catalog

import (
	"fmt"
	"strings"
)

// Cover is a single artwork rendition of a video.
type Cover struct {
	URL            string `json:"url"`
	Ratio          string `json:"ratio"`
	RatioTechLabel string `json:"ratio_tech_label"`
}

// Delivery describes the primary playable asset of a video.
type Delivery struct {
	URL        string   `json:"url_without_token"`
	Duration   int      `json:"duration"`
	Audio      []string `json:"audio"`
	Subtitle   []string `json:"subtitle"`
	Resolution string   `json:"resolution"`
}

// Video is one playable unit of the catalog.
// Values are decoded once per request and never mutated afterwards.
type Video struct {
	ID              int    `json:"content_id" jsonschema:"description=Catalog content id"`
	Title           string `json:"title"`
	CollectionTitle string `json:"collection_title" jsonschema:"description=Series this episode belongs to"`
	Description     string `json:"description"`
	Duration        int    `json:"duration" jsonschema:"description=Duration in seconds"`
	Year            int    `json:"product_year"`
	DisplayOrder    int    `json:"display_order,omitempty" jsonschema:"description=Position of the episode inside its series"`

	Assets struct {
		Cover []Cover `json:"cover"`
	} `json:"assets"`

	Deliveries struct {
		Main Delivery `json:"mainDelivery"`
	} `json:"deliveries"`
}

// CoverURL returns a portrait cover when one exists, otherwise the first cover.
func (v *Video) CoverURL() string {
	covers := v.Assets.Cover
	for _, cover := range covers {
		if isPortrait(cover) && cover.URL != "" {
			return cover.URL
		}
	}

	if len(covers) > 0 {
		return covers[0].URL
	}

	return ""
}

// DeliveryURL returns the stream address handed to the player.
func (v *Video) DeliveryURL() string {
	return v.Deliveries.Main.URL
}

// Runtime formats the duration as m:ss.
func (v *Video) Runtime() string {
	seconds := v.Duration
	if seconds <= 0 {
		seconds = v.Deliveries.Main.Duration
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func (v *Video) String() string {
	return v.Title
}

func isPortrait(cover Cover) bool {
	label := strings.ToLower(cover.RatioTechLabel)
	if strings.Contains(label, "portrait") || strings.Contains(label, "vertical") {
		return true
	}

	var w, h int
	if _, err := fmt.Sscanf(cover.Ratio, "%d:%d", &w, &h); err == nil {
		return w < h
	}

	return false
}

// Page is a single result page of the content list endpoint.
type Page struct {
	TotalItems    int      `json:"total_items"`
	CurrentResult int      `json:"current_result"`
	PageCount     int      `json:"nb_page_max"`
	ItemsPerPage  int      `json:"items_per_page"`
	Page          int      `json:"page"`
	Videos        []*Video `json:"data"`
}

// Rubric is a catalog category.
type Rubric struct {
	ID          string `json:"rubric_id"`
	Title       string `json:"rubric_title"`
	Description string `json:"rubric_description"`
	Count       int    `json:"contents_count"`
	Label       string `json:"rubric_label"`
}

func (r *Rubric) String() string {
	return r.Title
}

type envelope[T any] struct {
	Code    int    `json:"code"`
	Error   int    `json:"error"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type rubricList struct {
	Rubrics []*Rubric `json:"data"`
}
