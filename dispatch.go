package mapsapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxErrorBody caps how much of a non-2xx body is kept in a TransportError.
const maxErrorBody = 512

// Call is a request running in the background.
type Call[T any] struct {
	done chan struct{}
	resp *T
	err  error
}

// Done is closed once the call has finished.
func (c *Call[T]) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call has finished. Exactly one of the results is non-nil.
func (c *Call[T]) Wait() (*T, error) {
	<-c.done
	return c.resp, c.err
}

func failedCall[T any](err error) *Call[T] {
	call := &Call[T]{done: make(chan struct{}), err: err}
	close(call.done)
	return call
}

// start validates and builds the request synchronously, then performs the
// round trip and decoding on a new goroutine.
func start[T any, PT interface {
	*T
	response
}](ctx context.Context, c *Client, req Request) *Call[T] {
	target, err := c.prepare(req)
	if err != nil {
		return failedCall[T](err)
	}
	label := endpointLabel(req)

	call := &Call[T]{done: make(chan struct{})}
	go func() {
		defer close(call.done)
		body, err := c.send(ctx, label, target)
		if err != nil {
			call.err = err
			return
		}
		resp := PT(new(T))
		if err := resolve(body, resp); err != nil {
			call.err = err
			return
		}
		call.resp = (*T)(resp)
	}()
	return call
}

// query is the blocking form of start, bounded by the client timeout.
func query[T any, PT interface {
	*T
	response
}](c *Client, req Request) (*T, error) {
	ctx := context.Background()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return start[T, PT](ctx, c, req).Wait()
}

// prepare validates req and returns its target url. No network traffic happens here.
func (c *Client) prepare(req Request) (*url.URL, error) {
	if req == nil {
		return nil, errNilRequest
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	common := req.common().merge(c.defaults)
	if !common.satisfies(req.credentials()) {
		return nil, invalid("APIKey", "must be provided for this request")
	}
	if bk := common.Signing; bk != nil && (bk.ClientID == "" || bk.SigningKey == "") {
		return nil, invalid("Signing", "needs both ClientID and SigningKey")
	}
	return c.buildURL(req, common)
}

// send performs one GET and returns the raw body of a 2xx response.
func (c *Client) send(ctx context.Context, label string, target *url.URL) ([]byte, error) {
	logger := c.logger.With("request_id", uuid.NewString(), "endpoint", label)
	logger.DebugContext(ctx, "maps request", "url", redactURL(target))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, &TransportError{Kind: TransportNetwork, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")

	t := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	// The requester may ignore the request context.
	if ctx.Err() != nil {
		return nil, classifyTransport(ctx, ctx.Err())
	}
	if resp == nil || resp.Body == nil {
		return nil, &TransportError{Kind: TransportNetwork, Err: errors.New("empty http response")}
	}

	body, err := io.ReadAll(resp.Body)
	if c.observer != nil {
		c.observer.ObserveHTTPRequest(label, time.Since(t))
	}
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}
	if ctx.Err() != nil {
		return nil, classifyTransport(ctx, ctx.Err())
	}
	logger.DebugContext(ctx, "maps response", "status", resp.StatusCode, "bytes", len(body), "elapsed", time.Since(t))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := body
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &TransportError{
			Kind:       TransportHTTPStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s: %s", http.StatusText(resp.StatusCode), strings.TrimSpace(string(snippet))),
		}
	}
	return body, nil
}

func classifyTransport(ctx context.Context, err error) *TransportError {
	var netErr net.Error
	switch {
	case errors.Is(ctx.Err(), context.Canceled), errors.Is(err, context.Canceled):
		return &TransportError{Kind: TransportCancelled, Err: err}
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return &TransportError{Kind: TransportTimeout, Err: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &TransportError{Kind: TransportTimeout, Err: err}
	}
	return &TransportError{Kind: TransportNetwork, Err: err}
}

// endpointLabel turns "maps.googleapis.com/maps/api/place/search/" into "place/search".
func endpointLabel(req Request) string {
	base := strings.TrimSuffix(req.BaseURL(), "/")
	if i := strings.Index(base, "/api/"); i >= 0 {
		return base[i+len("/api/"):]
	}
	return base
}

// redactURL masks credentials and tokens before a url is logged.
func redactURL(u *url.URL) string {
	masked := *u
	parts := strings.Split(u.RawQuery, "&")
	for i, part := range parts {
		key, value, ok := strings.Cut(part, "=")
		if !ok || !shouldMaskQueryParam(key) {
			continue
		}
		parts[i] = key + "=" + url.QueryEscape(hideSecret(value))
	}
	masked.RawQuery = strings.Join(parts, "&")
	return masked.String()
}

func shouldMaskQueryParam(key string) bool {
	switch strings.ToLower(key) {
	case "key", "signature", "pagetoken", "sessiontoken":
		return true
	}
	return false
}

func hideSecret(s string) string {
	if len(s) > 8 {
		return s[:4] + "..." + s[len(s)-4:]
	}
	return "..."
}
