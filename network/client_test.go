package network

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDecodingTransport(t *testing.T) {
	Convey("Given a server that compresses its responses", t, func() {
		var seenEncoding, seenAgent string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenEncoding = r.Header.Get("Accept-Encoding")
			seenAgent = r.Header.Get("User-Agent")

			switch r.URL.Path {
			case "/br":
				w.Header().Set("Content-Encoding", "br")
				bw := brotli.NewWriter(w)
				_, _ = bw.Write([]byte(`{"code":200}`))
				_ = bw.Close()
			case "/gzip":
				w.Header().Set("Content-Encoding", "gzip")
				gw := gzip.NewWriter(w)
				_, _ = gw.Write([]byte(`{"code":200}`))
				_ = gw.Close()
			default:
				_, _ = w.Write([]byte(`{"code":200}`))
			}
		}))
		defer server.Close()

		read := func(path string) string {
			resp, err := Client.Get(server.URL + path)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			So(err, ShouldBeNil)
			So(resp.Header.Get("Content-Encoding"), ShouldBeEmpty)
			return string(body)
		}

		Convey("Brotli bodies are decoded", func() {
			So(read("/br"), ShouldEqual, `{"code":200}`)
			So(seenEncoding, ShouldEqual, AcceptEncoding)
			So(seenAgent, ShouldStartWith, "shortdrama-cli/")
		})

		Convey("Gzip bodies are decoded", func() {
			So(read("/gzip"), ShouldEqual, `{"code":200}`)
		})

		Convey("Identity bodies pass through", func() {
			So(read("/plain"), ShouldEqual, `{"code":200}`)
		})
	})
}
