// Package network provides the shared HTTP client used for catalog and account API communication.
package network

import (
	"net"
	"net/http"
	"time"

	"github.com/shortdrama-cli/shortdrama/log"
	"golang.org/x/net/http2"
)

// Client is the singleton HTTP client shared across the application.
// Request deadlines are carried by the caller's context; the client timeout is a last resort.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: &decodingTransport{base: newTransport()},
}

// newTransport initializes a tuned http.Transport with HTTP/2 negotiation enabled.
func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	t := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	if err := http2.ConfigureTransport(t); err != nil {
		log.Warnf("http2 unavailable, falling back to http/1.1: %v", err)
	}

	return t
}
