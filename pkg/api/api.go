// Package api provides types and functions to interact with the French government
// fuel price catalog API ("prix des carburants en France, flux instantané").
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultBaseURL  = "https://data.economie.gouv.fr/api/explore/v2.1/catalog/datasets/prix-des-carburants-en-france-flux-instantane-v2/records"
	DefaultTimeZone = "Europe/Paris"
	DefaultTimeout  = 30 * time.Second
	Language        = "fr"
)

// Fetcher fetches a record set from the catalog for the given query.
type Fetcher interface {
	Records(ctx context.Context, q Query) (*RecordSet, error)
}

// FuelPriceAPI provides methods to fetch fuel price data from the official API.
type FuelPriceAPI struct {
	baseURL    string
	timeZone   string
	timeout    time.Duration
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a FuelPriceAPI.
type Option func(*FuelPriceAPI)

// WithBaseURL overrides the catalog endpoint.
func WithBaseURL(u string) Option {
	return func(a *FuelPriceAPI) {
		a.baseURL = u
	}
}

// WithTimeZone sets the time zone the API uses to render dates.
func WithTimeZone(tz string) Option {
	return func(a *FuelPriceAPI) {
		if tz != "" {
			a.timeZone = tz
		}
	}
}

// WithTimeout sets the time budget of a single request.
func WithTimeout(d time.Duration) Option {
	return func(a *FuelPriceAPI) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithHTTPClient shares an existing HTTP client across calls.
func WithHTTPClient(c *http.Client) Option {
	return func(a *FuelPriceAPI) {
		if c != nil {
			a.httpClient = c
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *FuelPriceAPI) {
		if l != nil {
			a.log = l
		}
	}
}

// NewFuelPriceAPI creates a new FuelPriceAPI client with default settings.
func NewFuelPriceAPI(opts ...Option) *FuelPriceAPI {
	a := &FuelPriceAPI{
		baseURL:    DefaultBaseURL,
		timeZone:   DefaultTimeZone,
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Records runs a single catalog query. Transport failures and timeouts are
// returned as *CannotConnectError, bad statuses and payloads as *RequestError.
func (api *FuelPriceAPI) Records(ctx context.Context, q Query) (*RecordSet, error) {
	start := time.Now()
	set, err := api.records(ctx, q)
	observeRequest(start, err)
	return set, err
}

func (api *FuelPriceAPI) records(ctx context.Context, q Query) (*RecordSet, error) {
	ctx, cancel := context.WithTimeout(ctx, api.timeout)
	defer cancel()

	params := q.Values()
	params.Set("lang", Language)
	params.Set("timezone", api.timeZone)

	u, err := url.Parse(api.baseURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing base URL: %w", err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	api.log.Debug("Requesting fuel price API", "params", params.Encode())

	resp, err := api.httpClient.Do(req)
	if err != nil {
		return nil, newCannotConnectError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newCannotConnectError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload struct {
		TotalCount int       `json:"total_count"`
		Results    *[]Record `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(body), Err: err}
	}
	if payload.Results == nil {
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return &RecordSet{TotalCount: payload.TotalCount, Results: *payload.Results}, nil
}
