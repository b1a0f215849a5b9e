package mapsapi

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

const (
	// DefaultTimeout bounds blocking calls when no other timeout is configured.
	DefaultTimeout = 10 * time.Second

	httpMaxIdleConns    = 10
	httpIdleConnTimeout = 30 * time.Second
)

// NewHTTPClient returns an *http.Client suitable for the client's
// HttpRequester. proxyURL may be empty, or use the http, https or socks5 scheme.
func NewHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        httpMaxIdleConns,
		MaxIdleConnsPerHost: httpMaxIdleConns,
		IdleConnTimeout:     httpIdleConnTimeout,
	}
	if proxyURL != "" {
		pu, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("mapsapi: parse proxy url: %w", err)
		}
		switch pu.Scheme {
		case "socks5":
			var auth *proxy.Auth
			if pu.User != nil {
				password, _ := pu.User.Password()
				auth = &proxy.Auth{User: pu.User.Username(), Password: password}
			}
			dialer, err := proxy.SOCKS5("tcp", pu.Host, auth, proxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("mapsapi: create socks5 dialer: %w", err)
			}
			transport.Proxy = nil
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				if cd, ok := dialer.(proxy.ContextDialer); ok {
					return cd.DialContext(ctx, network, addr)
				}
				return dialer.Dial(network, addr)
			}
		case "http", "https":
			transport.Proxy = http.ProxyURL(pu)
		default:
			return nil, fmt.Errorf("mapsapi: unsupported proxy scheme %q", pu.Scheme)
		}
	}
	return &http.Client{Timeout: timeout, Transport: transport}, nil
}
