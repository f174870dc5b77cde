package service

import (
	"context"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
)

// InputValidator checks the shape of user-entered identifiers
type InputValidator interface {
	// ValidateDomain checks a domain name against the label.label.tld pattern
	ValidateDomain(domain string) entity.ValidationResult
	// ValidateEmail checks an email address against local@domain.tld
	ValidateEmail(email string) entity.ValidationResult
	// ValidateIP checks that the input parses as an IPv4 or IPv6 address
	ValidateIP(ip string) entity.ValidationResult
	// AnalyzePhone cleans a phone number and detects its calling code
	AnalyzePhone(phone string) entity.PhoneAnalysis
	// EmailDomain returns the domain part of an email address
	EmailDomain(email string) string
	// RegistrableDomain returns the eTLD+1 of a domain
	RegistrableDomain(domain string) (string, error)
}

// ProfileURLBuilder maps a username to guessed profile URLs
type ProfileURLBuilder interface {
	// Build substitutes the username into every platform template
	Build(username string) entity.PlatformURLSet
	// Platforms returns the configured platform names in order
	Platforms() []string
}

// HTTPFetcher fetches web content
type HTTPFetcher interface {
	// Fetch fetches a URL and returns the response
	Fetch(ctx context.Context, url string) (*HTTPResponse, error)
}

// HTTPResponse represents an HTTP response
type HTTPResponse struct {
	URL           string
	StatusCode    int
	Headers       map[string]string
	Body          []byte
	ContentLength int
	Error         string
	Message       *entity.HTTPMessage
}

// TransportError wraps failures to reach an external service or read its answer
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// GeoLocator resolves an IP address to a location
type GeoLocator interface {
	// Locate queries the geolocation service for ip
	Locate(ctx context.Context, ip string) (*GeoLocation, error)
}

// GeoLocation is a decoded geolocation answer
type GeoLocation struct {
	Query    string
	Country  string
	Region   string
	City     string
	Zip      string
	ISP      string
	Timezone string
	Org      string
	AS       string
}

// DNSResolver queries DNS records
type DNSResolver interface {
	// Query resolves records of one type for domain
	Query(ctx context.Context, domain, recordType string) (*DNSResolution, error)
}

// DNSResolution represents detailed DNS resolution result
type DNSResolution struct {
	Domain     string
	RecordType string
	Records    []string
	Server     string
	Rcode      string
	RTTMs      int64
	Error      string
}

// HostResolver resolves a hostname to addresses using the system resolver
type HostResolver interface {
	// LookupHost returns the addresses of host
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// WhoisClient queries and parses WHOIS registration records
type WhoisClient interface {
	// Lookup returns the parsed registration record of domain
	Lookup(ctx context.Context, domain string) (*WhoisRecord, error)
}

// WhoisRecord is a loosely structured registration record
type WhoisRecord struct {
	DomainName     string
	Registrar      string
	CreationDate   string
	ExpirationDate string
	NameServers    []string
	Raw            string
}
