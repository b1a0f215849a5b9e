// Command mapsquery issues maps web-service requests from the command line
// and prints the responses as JSON.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alvillain/mapsapi"
	"github.com/alvillain/mapsapi/internal/config"
	"github.com/alvillain/mapsapi/internal/json"
	"github.com/alvillain/mapsapi/internal/logging"
)

const (
	exitOK       = 0
	exitError    = 1
	exitDeclined = 2
)

// maxPlacesPages is the most pages a nearby search returns.
const maxPlacesPages = 3

var pageTokenDelay = mapsapi.PageTokenDelay

const usage = `Usage: mapsquery [flags] <command> [args]

Commands:
  directions ORIGIN DEST [WAYPOINT...]
  geocode ADDRESS
  reverse LAT,LNG
  places LAT,LNG
  autocomplete INPUT
  elevation LAT,LNG...
  decode POLYLINE
  encode [LAT,LNG...]       reads a JSON array of {"lat","lng"} from stdin without args
  batch-geocode             reads one address per line from stdin

Flags:
`

type app struct {
	client *mapsapi.Client
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	mode         string
	avoid        []string
	alternatives bool
	radius       float64
	keyword      string
	placeType    string
	rankBy       string
	allPages     bool
	countries    []string
	samples      int
	qps          float64
	concurrency  int
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	var configPath, envFile, logLevel, logFile, baseURL string
	fs := flag.NewFlagSet("mapsquery", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&configPath, "config", "", "YAML configuration file")
	fs.StringVar(&envFile, "env-file", ".env", "Environment file loaded before the MAPS_* variables are read")
	fs.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	fs.StringVar(&logFile, "log-file", "", "Write logs to a rotated file instead of stderr")
	fs.StringVar(&baseURL, "base-url", "", "")
	_ = fs.MarkHidden("base-url")

	fs.StringVar(&a.mode, "mode", "", "Directions travel mode: driving, walking, bicycling or transit")
	fs.StringSliceVar(&a.avoid, "avoid", nil, "Directions features to avoid: tolls, highways, ferries, indoor")
	fs.BoolVar(&a.alternatives, "alternatives", false, "Ask for alternative routes")
	fs.Float64Var(&a.radius, "radius", 0, "Places search radius in meters")
	fs.StringVar(&a.keyword, "keyword", "", "Places keyword")
	fs.StringVar(&a.placeType, "type", "", "Places type filter, or autocomplete types")
	fs.StringVar(&a.rankBy, "rank-by", "", "Places ranking: prominence or distance")
	fs.BoolVar(&a.allPages, "all-pages", false, "Follow places next_page_token")
	fs.StringSliceVar(&a.countries, "country", nil, "Autocomplete country restriction")
	fs.IntVar(&a.samples, "samples", 0, "Elevation samples along the given points as a path")
	fs.Float64Var(&a.qps, "qps", 10, "Batch requests per second, 0 for unlimited")
	fs.IntVar(&a.concurrency, "concurrency", 4, "Batch requests in flight")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return exitError
	}

	if err := config.LoadDotEnv(envFile); err != nil {
		fmt.Fprintf(stderr, "mapsquery: %v\n", err)
		return exitError
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "mapsquery: %v\n", err)
		return exitError
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "mapsquery: %v\n", err)
		return exitError
	}

	logger, closer, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		fmt.Fprintf(stderr, "mapsquery: %v\n", err)
		return exitError
	}
	defer closer.Close()
	a.logger = logger

	opts, err := cfg.ClientOptions()
	if err != nil {
		fmt.Fprintf(stderr, "mapsquery: %v\n", err)
		return exitError
	}
	a.client, err = mapsapi.NewClient(append(opts, mapsapi.WithLogger(logger))...)
	if err != nil {
		fmt.Fprintf(stderr, "mapsquery: %v\n", err)
		return exitError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return a.dispatch(ctx, rest[0], rest[1:])
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) int {
	switch cmd {
	case "directions":
		return a.directions(ctx, args)
	case "geocode":
		return a.geocode(ctx, args)
	case "reverse":
		return a.reverse(ctx, args)
	case "places":
		return a.places(ctx, args)
	case "autocomplete":
		return a.autocomplete(ctx, args)
	case "elevation":
		return a.elevation(ctx, args)
	case "decode":
		return a.decode(args)
	case "encode":
		return a.encode(args)
	case "batch-geocode":
		return a.batchGeocode(ctx)
	}
	return a.fail(fmt.Errorf("unknown command %q", cmd))
}

func (a *app) directions(ctx context.Context, args []string) int {
	if len(args) < 2 {
		return a.fail(errors.New("directions needs ORIGIN and DEST"))
	}
	req := &mapsapi.DirectionsRequest{
		Origin:       args[0],
		Destination:  args[1],
		Waypoints:    args[2:],
		TravelMode:   mapsapi.TravelMode(a.mode),
		Alternatives: a.alternatives,
	}
	for _, v := range a.avoid {
		req.Avoid = append(req.Avoid, mapsapi.Avoid(v))
	}
	resp, err := a.client.DirectionsAsync(ctx, req).Wait()
	if err != nil {
		return a.fail(err)
	}
	return a.finish(resp, resp.Envelope)
}

func (a *app) geocode(ctx context.Context, args []string) int {
	if len(args) == 0 {
		return a.fail(errors.New("geocode needs an ADDRESS"))
	}
	resp, err := a.client.GeocodeAsync(ctx, &mapsapi.GeocodingRequest{Address: strings.Join(args, " ")}).Wait()
	if err != nil {
		return a.fail(err)
	}
	return a.finish(resp, resp.Envelope)
}

func (a *app) reverse(ctx context.Context, args []string) int {
	if len(args) != 1 {
		return a.fail(errors.New("reverse needs one LAT,LNG"))
	}
	loc, err := parseLatLng(args[0])
	if err != nil {
		return a.fail(err)
	}
	resp, err := a.client.ReverseGeocode(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return a.fail(err)
	}
	return a.finish(resp, resp.Envelope)
}

func (a *app) places(ctx context.Context, args []string) int {
	if len(args) != 1 {
		return a.fail(errors.New("places needs one LAT,LNG"))
	}
	loc, err := parseLatLng(args[0])
	if err != nil {
		return a.fail(err)
	}
	req := &mapsapi.PlacesRequest{Location: &loc, Keyword: a.keyword, Type: a.placeType}
	if a.radius != 0 {
		req.Radius = &a.radius
	}
	if a.rankBy != "" {
		if req.RankBy, err = mapsapi.ParseRankBy(a.rankBy); err != nil {
			return a.fail(err)
		}
	}

	resp, err := a.client.PlacesAsync(ctx, req).Wait()
	if err != nil {
		return a.fail(err)
	}
	if !a.allPages {
		return a.finish(resp, resp.Envelope)
	}

	pages := []*mapsapi.PlacesResponse{resp}
	for next := mapsapi.NextPageRequest(req, resp); next != nil && len(pages) < maxPlacesPages; next = mapsapi.NextPageRequest(next, resp) {
		if err := sleep(ctx, pageTokenDelay); err != nil {
			return a.fail(err)
		}
		if resp, err = a.client.PlacesAsync(ctx, next).Wait(); err != nil {
			return a.fail(err)
		}
		pages = append(pages, resp)
		if resp.Err() != nil {
			break
		}
	}
	return a.finish(pages, resp.Envelope)
}

func (a *app) autocomplete(ctx context.Context, args []string) int {
	if len(args) == 0 {
		return a.fail(errors.New("autocomplete needs an INPUT"))
	}
	req := &mapsapi.PlaceAutocompleteRequest{
		Input:     strings.Join(args, " "),
		Types:     a.placeType,
		Countries: a.countries,
	}
	resp, err := a.client.PlaceAutocompleteAsync(ctx, req).Wait()
	if err != nil {
		return a.fail(err)
	}
	return a.finish(resp, resp.Envelope)
}

func (a *app) elevation(ctx context.Context, args []string) int {
	points, err := parseLatLngs(args)
	if err != nil {
		return a.fail(err)
	}
	req := &mapsapi.ElevationRequest{Locations: points}
	if a.samples > 0 {
		req = &mapsapi.ElevationRequest{Path: points, Samples: a.samples}
	}
	resp, err := a.client.ElevationAsync(ctx, req).Wait()
	if err != nil {
		return a.fail(err)
	}
	return a.finish(resp, resp.Envelope)
}

func (a *app) decode(args []string) int {
	if len(args) != 1 {
		return a.fail(errors.New("decode needs one POLYLINE"))
	}
	points, err := mapsapi.DecodePolyline(args[0])
	if err != nil {
		return a.fail(err)
	}
	return a.finish(points, mapsapi.Envelope{Status: mapsapi.StatusOK})
}

func (a *app) encode(args []string) int {
	var points []mapsapi.Location
	if len(args) == 0 {
		if err := json.NewDecoder(a.stdin).Decode(&points); err != nil {
			return a.fail(fmt.Errorf("read points: %w", err))
		}
	} else {
		var err error
		if points, err = parseLatLngs(args); err != nil {
			return a.fail(err)
		}
	}
	fmt.Fprintln(a.stdout, mapsapi.EncodePolyline(points))
	return exitOK
}

func (a *app) batchGeocode(ctx context.Context) int {
	addresses, err := readLines(a.stdin)
	if err != nil {
		return a.fail(err)
	}
	b := newBatchGeocoder(a.client, a.qps, a.concurrency, a.logger)
	results, err := b.Run(ctx, addresses)
	if err != nil {
		return a.fail(err)
	}
	if err := a.print(results); err != nil {
		return a.fail(err)
	}
	for _, r := range results {
		if r.Error != "" {
			return exitDeclined
		}
	}
	return exitOK
}

// finish prints v and maps the service status onto the exit code.
func (a *app) finish(v any, env mapsapi.Envelope) int {
	if err := a.print(v); err != nil {
		return a.fail(err)
	}
	if err := env.Err(); err != nil {
		fmt.Fprintf(a.stderr, "mapsquery: %v\n", err)
		return exitDeclined
	}
	return exitOK
}

func (a *app) print(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "%s\n", b)
	return err
}

func (a *app) fail(err error) int {
	if kind := mapsapi.Kind(err); kind != "internal" {
		fmt.Fprintf(a.stderr, "mapsquery: %s: %v\n", kind, err)
	} else {
		fmt.Fprintf(a.stderr, "mapsquery: %v\n", err)
	}
	return exitError
}

func parseLatLng(s string) (mapsapi.Location, error) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return mapsapi.Location{}, fmt.Errorf("expected LAT,LNG, got %q", s)
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return mapsapi.Location{}, fmt.Errorf("latitude %q: %w", lat, err)
	}
	ln, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return mapsapi.Location{}, fmt.Errorf("longitude %q: %w", lng, err)
	}
	return mapsapi.NewLocation(la, ln), nil
}

func parseLatLngs(args []string) ([]mapsapi.Location, error) {
	if len(args) == 0 {
		return nil, errors.New("at least one LAT,LNG is needed")
	}
	points := make([]mapsapi.Location, len(args))
	for i, arg := range args {
		loc, err := parseLatLng(arg)
		if err != nil {
			return nil, err
		}
		points[i] = loc
	}
	return points, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
