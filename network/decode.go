package network

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/shortdrama-cli/shortdrama/constant"
	"github.com/shortdrama-cli/shortdrama/log"
)

// AcceptEncoding is advertised on every outgoing request.
const AcceptEncoding = "br, gzip"

// decodingTransport negotiates compressed responses and hands callers a plain body.
type decodingTransport struct {
	base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *decodingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", AcceptEncoding)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", constant.UserAgent)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	body, decoded := decompress(resp)
	if decoded {
		resp.Body = body
		resp.Header.Del("Content-Encoding")
		resp.Header.Del("Content-Length")
		resp.ContentLength = -1
		resp.Uncompressed = true
	}

	return resp, nil
}

// decompress wraps the response body according to its Content-Encoding.
func decompress(resp *http.Response) (io.ReadCloser, bool) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "br":
		return &decompressReader{reader: brotli.NewReader(resp.Body), closer: resp.Body}, true
	case "gzip":
		reader, err := gzip.NewReader(resp.Body)
		if err != nil {
			log.Warnf("gzip reader: %v, returning raw body", err)
			return resp.Body, false
		}
		return &decompressReader{reader: reader, closer: resp.Body}, true
	default:
		return resp.Body, false
	}
}

// decompressReader pairs a decompression reader with the original body closer.
type decompressReader struct {
	reader io.Reader
	closer io.Closer
}

func (d *decompressReader) Read(p []byte) (int, error) {
	return d.reader.Read(p)
}

func (d *decompressReader) Close() error {
	if closer, ok := d.reader.(io.Closer); ok {
		_ = closer.Close()
	}
	return d.closer.Close()
}
