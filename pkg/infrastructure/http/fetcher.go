package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
	"github.com/WangYihang/OSINT-Lab/pkg/domain/repository"
	"github.com/WangYihang/OSINT-Lab/pkg/domain/service"
)

// Fetcher implements service.HTTPFetcher
type Fetcher struct {
	client          *http.Client
	maxResponseSize int64
	userAgent       string
	logWriter       repository.LogWriter
}

// Config holds HTTP fetcher configuration
type Config struct {
	Timeout         time.Duration
	MaxResponseSize int64
	UserAgent       string
	// LogWriter receives every request/response pair, may be nil
	LogWriter repository.LogWriter
}

// NewFetcher creates a new HTTP fetcher
func NewFetcher(config Config) *Fetcher {
	if config.MaxResponseSize <= 0 {
		config.MaxResponseSize = 1 << 20
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: config.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		maxResponseSize: config.MaxResponseSize,
		userAgent:       config.UserAgent,
		logWriter:       config.LogWriter,
	}
}

// Fetch implements service.HTTPFetcher
func (f *Fetcher) Fetch(ctx context.Context, url string) (*service.HTTPResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &service.HTTPResponse{URL: url, Error: err.Error()}, err
	}

	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	httpMsg := &entity.HTTPMessage{
		Request: &entity.HTTPRequest{
			Method: req.Method,
			URL:    req.URL.String(),
			Proto:  req.Proto,
			Header: flattenHeader(req.Header),
		},
	}
	defer f.log(httpMsg)

	resp, err := f.client.Do(req)
	if err != nil {
		return &service.HTTPResponse{URL: url, Error: err.Error(), Message: httpMsg}, err
	}
	defer resp.Body.Close()

	// Limit response size
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxResponseSize))
	if err != nil {
		return &service.HTTPResponse{
			URL:        url,
			StatusCode: resp.StatusCode,
			Error:      err.Error(),
			Message:    httpMsg,
		}, err
	}

	headers := flattenHeader(resp.Header)
	httpMsg.Response = &entity.HTTPResponse{
		Proto:         resp.Proto,
		StatusCode:    resp.StatusCode,
		Status:        resp.Status,
		Header:        headers,
		Body:          string(body),
		ContentLength: resp.ContentLength,
	}

	return &service.HTTPResponse{
		URL:           url,
		StatusCode:    resp.StatusCode,
		Headers:       headers,
		Body:          body,
		ContentLength: len(body),
		Message:       httpMsg,
	}, nil
}

func (f *Fetcher) log(msg *entity.HTTPMessage) {
	if f.logWriter == nil {
		return
	}
	_ = f.logWriter.WriteHTTPLog(msg)
}

func flattenHeader(header http.Header) map[string]string {
	flat := make(map[string]string, len(header))
	for key, values := range header {
		flat[key] = strings.Join(values, ", ")
	}
	return flat
}
