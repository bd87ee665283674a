package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/shortdrama-cli/shortdrama/log"
	"github.com/shortdrama-cli/shortdrama/network"
	"github.com/shortdrama-cli/shortdrama/util"
	"github.com/shortdrama-cli/shortdrama/where"
	"github.com/spf13/viper"
)

const (
	contentTypes = "movie,tv_movie,series,series_episode"

	pathContentList   = "/publishing-content-list"
	pathContentDetail = "/publishing-content-detail"
	pathRubricList    = "/publishing-rubric-list"

	rubricCacheLifetime = 6 * time.Hour
)

// Options configures a Client.
type Options struct {
	BaseURL      string
	APIKey       string
	APISecret    string
	CampaignID   string
	ServiceID    string
	Locale       string
	ItemsPerPage int
	Timeout      time.Duration

	// HTTP defaults to network.Client.
	HTTP *http.Client

	// CacheRubrics keeps the rubric list on disk between runs.
	CacheRubrics bool
}

// Client issues catalog requests. It is safe for concurrent use.
type Client struct {
	opts    Options
	http    *http.Client
	rubrics *cacher[string, []*Rubric]
}

// New returns a client for the given options.
func New(opts Options) *Client {
	if opts.HTTP == nil {
		opts.HTTP = network.Client
	}

	if opts.ItemsPerPage <= 0 {
		opts.ItemsPerPage = 100
	}

	c := &Client{opts: opts, http: opts.HTTP}
	if opts.CacheRubrics {
		c.rubrics = newCacher[string, []*Rubric](
			filepath.Join(where.Cache(), "catalog_rubrics.json"),
			rubricCacheLifetime,
		)
	}

	return c
}

// Default returns a client configured from viper.
func Default() *Client {
	return New(Options{
		BaseURL:      viper.GetString(key.CatalogBaseURL),
		APIKey:       viper.GetString(key.CatalogAPIKey),
		APISecret:    viper.GetString(key.CatalogAPISecret),
		CampaignID:   viper.GetString(key.CatalogCampaignID),
		ServiceID:    viper.GetString(key.CatalogServiceID),
		Locale:       viper.GetString(key.CatalogLocale),
		ItemsPerPage: viper.GetInt(key.CatalogItemsPerPage),
		Timeout:      time.Duration(viper.GetInt(key.CatalogTimeout)) * time.Second,
		CacheRubrics: true,
	})
}

// Videos returns the first page of the catalog, optionally restricted to a rubric.
func (c *Client) Videos(ctx context.Context, rubricID string) (*Page, error) {
	params := c.listParams()
	if rubricID != "" {
		params.Set("rubric_id", rubricID)
	}

	log.Infof("fetching catalog videos (rubric %q)", rubricID)
	return fetch[*Page](ctx, c, pathContentList, params)
}

// Search returns the first page of videos whose title matches term.
func (c *Client) Search(ctx context.Context, term string) (*Page, error) {
	params := c.listParams()
	params.Set("content_title", term)

	log.Infof("searching catalog for %q", term)
	return fetch[*Page](ctx, c, pathContentList, params)
}

// Detail returns a single video by content id.
func (c *Client) Detail(ctx context.Context, id int) (*Video, error) {
	params := c.credentials()
	params.Set("content_id", strconv.Itoa(id))
	params.Set("preview", "true")
	params.Set("asset", "true")
	params.Set("delivery", "true")

	page, err := fetch[*Page](ctx, c, pathContentDetail, params)
	if err != nil {
		return nil, err
	}

	if page == nil || len(page.Videos) == 0 {
		return nil, fmt.Errorf("content %d: %w", id, ErrNotFound)
	}

	return page.Videos[0], nil
}

// Rubrics returns every catalog category, unfiltered.
func (c *Client) Rubrics(ctx context.Context) ([]*Rubric, error) {
	if c.rubrics != nil {
		if cached, ok := c.rubrics.Get(c.opts.Locale).Get(); ok {
			return cached, nil
		}
	}

	list, err := fetch[*rubricList](ctx, c, pathRubricList, c.credentials())
	if err != nil {
		return nil, err
	}

	var rubrics []*Rubric
	if list != nil {
		rubrics = list.Rubrics
	}

	if c.rubrics != nil {
		if err := c.rubrics.Set(c.opts.Locale, rubrics); err != nil {
			log.Warnf("caching rubrics: %v", err)
		}
	}

	return rubrics, nil
}

func (c *Client) credentials() url.Values {
	country, lang := localeParams(c.opts.Locale)

	params := url.Values{}
	params.Set("api_key", c.opts.APIKey)
	params.Set("api_secret_key", c.opts.APISecret)
	params.Set("country_code", country)
	params.Set("language_code", lang)
	params.Set("campaign_id", c.opts.CampaignID)
	params.Set("service_id", c.opts.ServiceID)
	return params
}

func (c *Client) listParams() url.Values {
	params := c.credentials()
	params.Set("content_type", contentTypes)
	params.Set("preview", "true")
	params.Set("asset", "true")
	params.Set("delivery", "true")
	params.Set("without_token", "true")
	params.Set("itemsPerPage", strconv.Itoa(c.opts.ItemsPerPage))
	params.Set("page", "1")
	return params
}

// fetch performs one GET and unwraps the response envelope.
func fetch[T any](ctx context.Context, c *Client, path string, params url.Values) (T, error) {
	var zero T

	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	endpoint := strings.TrimSuffix(c.opts.BaseURL, "/") + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return zero, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error(err)
		return zero, fmt.Errorf("catalog %s: %w", path, network.Classify(err))
	}
	defer util.Ignore(resp.Body.Close)

	if err := network.CheckStatus(resp); err != nil {
		log.Errorf("catalog %s returned status %d", path, resp.StatusCode)
		return zero, fmt.Errorf("catalog %s: %w", path, err)
	}

	var body envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Error(err)
		if ctx.Err() != nil {
			return zero, fmt.Errorf("catalog %s: %w", path, network.Classify(ctx.Err()))
		}
		return zero, fmt.Errorf("catalog %s: decode: %w", path, err)
	}

	if body.Code != http.StatusOK {
		return zero, fmt.Errorf("catalog %s: %w", path, &APIError{Code: body.Code, Message: body.Message})
	}

	return body.Data, nil
}
