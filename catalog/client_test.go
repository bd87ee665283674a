package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/shortdrama-cli/shortdrama/filesystem"
	"github.com/shortdrama-cli/shortdrama/network"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

const pageBody = `{
  "code": 200,
  "error": 0,
  "data": {
    "total_items": 2, "current_result": 2, "nb_page_max": 1, "items_per_page": 100, "page": 1,
    "data": [
      {"content_id": 11, "title": "Hidden Identity S01E01", "collection_title": "Hidden Identity", "duration": 95, "display_order": 1,
       "assets": {"cover": [{"url": "https://img/land.jpg", "ratio": "16:9"}, {"url": "https://img/port.jpg", "ratio": "9:16"}]},
       "deliveries": {"mainDelivery": {"url_without_token": "https://cdn/11.m3u8", "resolution": "1080p"}}},
      {"content_id": 12, "title": "Hidden Identity S01E02", "collection_title": "Hidden Identity", "display_order": 2}
    ]
  }
}`

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server, *url.Values) {
	var seen url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Query()
		handler(w, r)
	}))

	client := New(Options{
		BaseURL:    server.URL,
		APIKey:     "key",
		APISecret:  "secret",
		CampaignID: "5027",
		ServiceID:  "39",
		Locale:     "en-GB",
		Timeout:    2 * time.Second,
	})

	return client, server, &seen
}

func TestVideos(t *testing.T) {
	Convey("Given a catalog server", t, func() {
		client, server, seen := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(pageBody))
		})
		defer server.Close()

		Convey("Videos sends the credential and list parameters", func() {
			page, err := client.Videos(context.Background(), "77")
			So(err, ShouldBeNil)
			So(page.Videos, ShouldHaveLength, 2)

			q := *seen
			So(q.Get("api_key"), ShouldEqual, "key")
			So(q.Get("api_secret_key"), ShouldEqual, "secret")
			So(q.Get("country_code"), ShouldEqual, "gb")
			So(q.Get("language_code"), ShouldEqual, "en")
			So(q.Get("campaign_id"), ShouldEqual, "5027")
			So(q.Get("service_id"), ShouldEqual, "39")
			So(q.Get("content_type"), ShouldEqual, contentTypes)
			So(q.Get("without_token"), ShouldEqual, "true")
			So(q.Get("itemsPerPage"), ShouldEqual, "100")
			So(q.Get("page"), ShouldEqual, "1")
			So(q.Get("rubric_id"), ShouldEqual, "77")
		})

		Convey("Search passes the title filter", func() {
			_, err := client.Search(context.Background(), "identity")
			So(err, ShouldBeNil)
			So(seen.Get("content_title"), ShouldEqual, "identity")
			So(seen.Has("rubric_id"), ShouldBeFalse)
		})

		Convey("Decoded videos expose their assets", func() {
			page, err := client.Videos(context.Background(), "")
			So(err, ShouldBeNil)

			first := page.Videos[0]
			So(first.ID, ShouldEqual, 11)
			So(first.CoverURL(), ShouldEqual, "https://img/port.jpg")
			So(first.DeliveryURL(), ShouldEqual, "https://cdn/11.m3u8")
			So(first.Runtime(), ShouldEqual, "1:35")
			So(page.Videos[1].CoverURL(), ShouldBeEmpty)
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given failing servers", t, func() {
		Convey("A non-2xx status is a StatusError", func() {
			client, server, _ := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			})
			defer server.Close()

			_, err := client.Videos(context.Background(), "")
			var status *network.StatusError
			So(errors.As(err, &status), ShouldBeTrue)
			So(status.Code, ShouldEqual, http.StatusBadGateway)
			So(network.Code(err), ShouldEqual, http.StatusBadGateway)
		})

		Convey("An embedded code other than 200 is an APIError", func() {
			client, server, _ := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"code": 403, "message": "invalid api key"}`))
			})
			defer server.Close()

			_, err := client.Rubrics(context.Background())
			var apiErr *APIError
			So(errors.As(err, &apiErr), ShouldBeTrue)
			So(apiErr.Code, ShouldEqual, 403)
			So(apiErr.Message, ShouldEqual, "invalid api key")
			So(network.Code(err), ShouldEqual, 403)
		})

		Convey("A slow server yields ErrTimeout", func() {
			client, server, _ := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			})
			defer server.Close()
			client.opts.Timeout = 50 * time.Millisecond

			_, err := client.Videos(context.Background(), "")
			So(errors.Is(err, network.ErrTimeout), ShouldBeTrue)
			So(errors.Is(err, network.ErrOffline), ShouldBeFalse)
		})

		Convey("An unreachable server yields ErrOffline", func() {
			client, server, _ := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
			server.Close()

			_, err := client.Videos(context.Background(), "")
			So(errors.Is(err, network.ErrOffline), ShouldBeTrue)
			So(network.Code(err), ShouldEqual, network.CodeOffline)
		})

		Convey("Malformed bodies are decode errors", func() {
			client, server, _ := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"code":`))
			})
			defer server.Close()

			_, err := client.Videos(context.Background(), "")
			So(err, ShouldNotBeNil)
			So(errors.Is(err, network.ErrOffline), ShouldBeFalse)
			So(errors.Is(err, network.ErrTimeout), ShouldBeFalse)
		})
	})
}

func TestDetail(t *testing.T) {
	Convey("Given a detail endpoint", t, func() {
		client, server, seen := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("content_id") == "11" {
				_, _ = w.Write([]byte(pageBody))
				return
			}
			_, _ = w.Write([]byte(`{"code": 200, "data": {"data": []}}`))
		})
		defer server.Close()

		Convey("A known id returns the first video", func() {
			video, err := client.Detail(context.Background(), 11)
			So(err, ShouldBeNil)
			So(video.ID, ShouldEqual, 11)
			So(seen.Get("delivery"), ShouldEqual, "true")
		})

		Convey("An empty result is ErrNotFound", func() {
			_, err := client.Detail(context.Background(), 99)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestRubrics(t *testing.T) {
	Convey("Given a rubric endpoint", t, func() {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			_, _ = w.Write([]byte(`{"code": 200, "data": {"data": [
				{"rubric_id": "1", "rubric_title": "Romance", "rubric_label": "romance"},
				{"rubric_id": "2", "rubric_title": "Internal", "rubric_label": "GETBRIZ"}
			]}}`))
		}))
		defer server.Close()

		Convey("Rubrics are returned unfiltered", func() {
			client := New(Options{BaseURL: server.URL, Locale: "en-GB"})
			rubrics, err := client.Rubrics(context.Background())
			So(err, ShouldBeNil)
			So(rubrics, ShouldHaveLength, 2)
			So(rubrics[0].Title, ShouldEqual, "Romance")
		})

		Convey("A caching client reuses the stored list", func() {
			client := New(Options{BaseURL: server.URL, Locale: "fr-FR", CacheRubrics: true})
			_, err := client.Rubrics(context.Background())
			So(err, ShouldBeNil)
			_, err = client.Rubrics(context.Background())
			So(err, ShouldBeNil)
			So(calls, ShouldEqual, 1)
		})
	})
}

func TestLocaleParams(t *testing.T) {
	Convey("Locale tags map to catalog parameters", t, func() {
		country, lang := localeParams("fr-BE")
		So(country, ShouldEqual, "be")
		So(lang, ShouldEqual, "fr")

		country, lang = localeParams("not a tag")
		So(country, ShouldEqual, "gb")
		So(lang, ShouldEqual, "en")
	})
}
