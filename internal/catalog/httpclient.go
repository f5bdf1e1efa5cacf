package catalog

import (
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	httpDialTimeout           = 5 * time.Second
	httpKeepAlive             = 30 * time.Second
	httpTLSHandshakeTimeout   = 5 * time.Second
	httpResponseHeaderTimeout = 10 * time.Second
	httpIdleConnTimeout       = 90 * time.Second
)

var catalogHTTPTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   httpDialTimeout,
		KeepAlive: httpKeepAlive,
	}).DialContext,
	TLSHandshakeTimeout:   httpTLSHandshakeTimeout,
	ResponseHeaderTimeout: httpResponseHeaderTimeout,
	IdleConnTimeout:       httpIdleConnTimeout,
}

func newRetryableHTTPClient(timeout time.Duration, retryMax int) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryMax
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{
		Timeout:   timeout,
		Transport: catalogHTTPTransport,
	}

	return retryClient.StandardClient()
}
