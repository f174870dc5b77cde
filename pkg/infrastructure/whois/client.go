package whois

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
	"github.com/WangYihang/OSINT-Lab/pkg/domain/repository"
	"github.com/WangYihang/OSINT-Lab/pkg/domain/service"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
)

// ErrEmptyResponse is returned when the registry answered with nothing
var ErrEmptyResponse = errors.New("empty whois response")

// Querier performs a raw WHOIS query; satisfied by *whois.Client
type Querier interface {
	Whois(domain string, servers ...string) (string, error)
}

// Config holds WHOIS client configuration
type Config struct {
	Timeout time.Duration
	// Server overrides the registry lookup, e.g. "whois.verisign-grs.com"
	Server string
	// LogWriter receives a summary of every query, may be nil
	LogWriter repository.LogWriter
}

// Client implements service.WhoisClient
type Client struct {
	querier   Querier
	server    string
	logWriter repository.LogWriter
}

// NewClient creates a WHOIS client backed by github.com/likexian/whois
func NewClient(config Config) *Client {
	raw := whois.NewClient()
	if config.Timeout > 0 {
		raw.SetTimeout(config.Timeout)
	}
	return NewClientWithQuerier(config, raw)
}

// NewClientWithQuerier creates a WHOIS client using a custom querier
func NewClientWithQuerier(config Config, querier Querier) *Client {
	return &Client{
		querier:   querier,
		server:    strings.TrimSpace(config.Server),
		logWriter: config.LogWriter,
	}
}

type queryResult struct {
	raw string
	err error
}

// Lookup implements service.WhoisClient
func (c *Client) Lookup(ctx context.Context, domain string) (*service.WhoisRecord, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))

	// The underlying client has no context support; abandon it on cancellation
	done := make(chan queryResult, 1)
	go func() {
		var servers []string
		if c.server != "" {
			servers = append(servers, c.server)
		}
		raw, err := c.querier.Whois(domain, servers...)
		done <- queryResult{raw: raw, err: err}
	}()

	var result queryResult
	select {
	case <-ctx.Done():
		result.err = ctx.Err()
	case result = <-done:
	}

	record, err := parse(domain, result)
	c.log(domain, err)
	return record, err
}

func parse(domain string, result queryResult) (*service.WhoisRecord, error) {
	if result.err != nil {
		return nil, fmt.Errorf("whois query %s: %w", domain, result.err)
	}
	if strings.TrimSpace(result.raw) == "" {
		return nil, ErrEmptyResponse
	}

	info, err := whoisparser.Parse(result.raw)
	if err != nil {
		return nil, fmt.Errorf("parse whois for %s: %w", domain, err)
	}

	record := &service.WhoisRecord{Raw: result.raw}
	if info.Domain != nil {
		record.DomainName = info.Domain.Domain
		record.CreationDate = info.Domain.CreatedDate
		record.ExpirationDate = info.Domain.ExpirationDate
		record.NameServers = uniqueNameServers(info.Domain.NameServers)
	}
	if info.Registrar != nil {
		record.Registrar = info.Registrar.Name
	}
	if record.DomainName == "" {
		record.DomainName = domain
	}
	return record, nil
}

// uniqueNameServers lower-cases, strips trailing dots and de-duplicates
func uniqueNameServers(servers []string) []string {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, s := range servers {
		s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
		if s != "" {
			set.Add(s)
		}
	}
	unique := set.ToSlice()
	sort.Strings(unique)
	return unique
}

func (c *Client) log(domain string, err error) {
	if c.logWriter == nil {
		return
	}
	entry := &entity.WhoisMessage{
		Domain: domain,
		Server: c.server,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	_ = c.logWriter.WriteWhoisLog(entry)
}
