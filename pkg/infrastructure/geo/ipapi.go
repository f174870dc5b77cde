package geo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/service"
	jsoniter "github.com/json-iterator/go"
)

// DefaultEndpoint is the public ip-api.com endpoint
const DefaultEndpoint = "http://ip-api.com"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrLookupFailed is returned when the service answered but did not locate the address
var ErrLookupFailed = errors.New("geolocation lookup failed")

// Config holds geolocation client configuration
type Config struct {
	Endpoint string
}

// Locator implements service.GeoLocator against the ip-api.com JSON API
type Locator struct {
	endpoint string
	fetcher  service.HTTPFetcher
}

// ipAPIResponse mirrors the JSON object returned by /json/{ip}
type ipAPIResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Query      string `json:"query"`
	Country    string `json:"country"`
	RegionName string `json:"regionName"`
	City       string `json:"city"`
	Zip        string `json:"zip"`
	ISP        string `json:"isp"`
	Timezone   string `json:"timezone"`
	Org        string `json:"org"`
	AS         string `json:"as"`
}

// NewLocator creates a geolocation client
func NewLocator(config Config, fetcher service.HTTPFetcher) *Locator {
	endpoint := strings.TrimRight(config.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Locator{endpoint: endpoint, fetcher: fetcher}
}

// Locate implements service.GeoLocator
func (l *Locator) Locate(ctx context.Context, ip string) (*service.GeoLocation, error) {
	target := fmt.Sprintf("%s/json/%s", l.endpoint, url.PathEscape(strings.TrimSpace(ip)))

	resp, err := l.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, &service.TransportError{Err: err}
	}

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrLookupFailed, resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, &service.TransportError{Err: fmt.Errorf("decode geolocation response: %w", err)}
	}

	if body.Status != "success" {
		if body.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrLookupFailed, body.Message)
		}
		return nil, ErrLookupFailed
	}

	return &service.GeoLocation{
		Query:    body.Query,
		Country:  body.Country,
		Region:   body.RegionName,
		City:     body.City,
		Zip:      body.Zip,
		ISP:      body.ISP,
		Timezone: body.Timezone,
		Org:      body.Org,
		AS:       body.AS,
	}, nil
}
