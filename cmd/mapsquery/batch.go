package main

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/alvillain/mapsapi"
)

// defaultOverQueryPause is how long every worker holds off after the service
// reports OVER_QUERY_LIMIT.
const defaultOverQueryPause = 2 * time.Second

type batchResult struct {
	Address          string            `json:"address"`
	Status           string            `json:"status,omitempty"`
	FormattedAddress string            `json:"formatted_address,omitempty"`
	Location         *mapsapi.Location `json:"location,omitempty"`
	Error            string            `json:"error,omitempty"`
}

// batchGeocoder geocodes many addresses with bounded concurrency under a
// shared request rate.
type batchGeocoder struct {
	client         *mapsapi.Client
	limiter        *rate.Limiter
	concurrency    int
	overQueryPause time.Duration
	logger         *slog.Logger

	mu          sync.Mutex
	pausedUntil time.Time
}

func newBatchGeocoder(client *mapsapi.Client, qps float64, concurrency int, logger *slog.Logger) *batchGeocoder {
	limit := rate.Inf
	if qps > 0 {
		limit = rate.Limit(qps)
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &batchGeocoder{
		client:         client,
		limiter:        rate.NewLimiter(limit, 1),
		concurrency:    concurrency,
		overQueryPause: defaultOverQueryPause,
		logger:         logger,
	}
}

// Run returns one result per address, in input order. Per-address failures
// are reported in the results; only cancellation aborts the batch.
func (b *batchGeocoder) Run(ctx context.Context, addresses []string) ([]batchResult, error) {
	results := make([]batchResult, len(addresses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, address := range addresses {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r, err := b.geocode(gctx, address)
			results[i] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, ctx.Err()
}

func (b *batchGeocoder) geocode(ctx context.Context, address string) (batchResult, error) {
	r := batchResult{Address: address}
	if err := b.wait(ctx); err != nil {
		return r, err
	}

	resp, err := b.client.GeocodeAsync(ctx, &mapsapi.GeocodingRequest{Address: address}).Wait()
	if err != nil {
		if ctx.Err() != nil {
			return r, ctx.Err()
		}
		r.Error = err.Error()
		return r, nil
	}

	r.Status = resp.Status.String()
	if resp.Status == mapsapi.StatusOverQueryLimit {
		b.pause()
	}
	if err := resp.Err(); err != nil {
		r.Error = err.Error()
		return r, nil
	}
	if len(resp.Results) > 0 {
		first := resp.Results[0]
		r.FormattedAddress = first.FormattedAddress
		r.Location = &first.Geometry.Location
	}
	return r, nil
}

// wait blocks until the batch is not paused and the limiter admits a request.
func (b *batchGeocoder) wait(ctx context.Context) error {
	b.mu.Lock()
	until := b.pausedUntil
	b.mu.Unlock()
	if err := sleep(ctx, time.Until(until)); err != nil {
		return err
	}
	return b.limiter.Wait(ctx)
}

func (b *batchGeocoder) pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	until := time.Now().Add(b.overQueryPause)
	if until.After(b.pausedUntil) {
		b.pausedUntil = until
		b.logger.Warn("over query limit, pausing batch", "pause", b.overQueryPause)
	}
}

// readLines returns the non-blank lines of r, trimmed.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
