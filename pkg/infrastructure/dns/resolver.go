package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
	"github.com/WangYihang/OSINT-Lab/pkg/domain/repository"
	"github.com/WangYihang/OSINT-Lab/pkg/domain/service"
	"github.com/miekg/dns"
)

var (
	// ErrNoRecords is returned when the answer holds no record of the requested type
	ErrNoRecords = errors.New("no records found")
	// ErrUnsupportedType is returned for record types outside RecordTypes
	ErrUnsupportedType = errors.New("unsupported record type")
)

// RecordTypes are the record types the resolver answers for
var RecordTypes = entity.DNSRecordTypes

var recordTypeCodes = map[string]uint16{
	"A":    dns.TypeA,
	"AAAA": dns.TypeAAAA,
	"MX":   dns.TypeMX,
	"NS":   dns.TypeNS,
	"TXT":  dns.TypeTXT,
}

// DefaultResolvConf is where the system name servers are read from
const DefaultResolvConf = "/etc/resolv.conf"

// DefaultServers are the public resolvers tried after the system servers
var DefaultServers = []string{
	"8.8.8.8:53",
	"8.8.4.4:53",
	"1.1.1.1:53",
	"1.0.0.1:53",
}

// Resolver implements service.DNSResolver
type Resolver struct {
	servers   []string
	timeout   time.Duration
	client    *dns.Client
	tcpClient *dns.Client
	logWriter repository.LogWriter
}

// MinAttemptTimeout is the floor of the per-server share of the timeout
const MinAttemptTimeout = 250 * time.Millisecond

// ednsBufferSize is the UDP payload size advertised through EDNS0
const ednsBufferSize = 4096

// Config holds DNS resolver configuration
type Config struct {
	Servers []string
	Timeout time.Duration
	// ResolvConf is read for system servers when Servers is empty
	ResolvConf string
	// LogWriter receives every exchange, may be nil
	LogWriter repository.LogWriter
}

// NewResolver creates a new DNS resolver
func NewResolver(config Config) *Resolver {
	servers := normalizeServers(config.Servers)
	if len(servers) == 0 {
		servers = append(systemServers(config.ResolvConf), DefaultServers...)
	}

	timeout := attemptTimeout(config.Timeout, len(servers))
	return &Resolver{
		servers: servers,
		timeout: timeout,
		client: &dns.Client{
			Timeout: timeout,
		},
		tcpClient: &dns.Client{
			Net:     "tcp",
			Timeout: timeout,
		},
		logWriter: config.LogWriter,
	}
}

// attemptTimeout splits the lookup budget across the servers so that a
// server dropping packets leaves time for the next ones
func attemptTimeout(total time.Duration, servers int) time.Duration {
	if total <= 0 || servers <= 1 {
		return total
	}
	share := total / time.Duration(servers)
	floor := min(MinAttemptTimeout, total)
	return max(share, floor)
}

// Servers returns the servers tried in order
func (r *Resolver) Servers() []string {
	return r.servers
}

// Query implements service.DNSResolver
func (r *Resolver) Query(ctx context.Context, domain, recordType string) (*service.DNSResolution, error) {
	recordType = strings.ToUpper(strings.TrimSpace(recordType))
	qtype, ok := recordTypeCodes[recordType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, recordType)
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(strings.TrimSpace(domain)), qtype)
	msg.RecursionDesired = true
	msg.SetEdns0(ednsBufferSize, false)

	resolution := &service.DNSResolution{
		Domain:     domain,
		RecordType: recordType,
	}

	var lastErr error
	var response *dns.Msg

	// Try each DNS server
	for _, server := range r.servers {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		queryCtx := ctx
		var cancel context.CancelFunc = func() {}
		if r.timeout > 0 {
			queryCtx, cancel = context.WithTimeout(ctx, r.timeout)
		}
		resp, rtt, err := r.client.ExchangeContext(queryCtx, msg, server)
		if err == nil && resp != nil && resp.Truncated {
			// Retry over TCP for the complete answer
			resp, rtt, err = r.tcpClient.ExchangeContext(queryCtx, msg, server)
		}
		cancel()

		resolution.Server = server
		resolution.RTTMs = rtt.Milliseconds()

		if err == nil && resp != nil {
			response = resp
			break
		}
		lastErr = err
	}

	if response == nil {
		if lastErr == nil {
			lastErr = errors.New("no response from any DNS server")
		}
		resolution.Error = lastErr.Error()
		r.log(resolution)
		return resolution, lastErr
	}

	resolution.Rcode = dns.RcodeToString[response.Rcode]
	if response.Rcode != dns.RcodeSuccess {
		err := fmt.Errorf("%w: %s", ErrNoRecords, resolution.Rcode)
		resolution.Error = err.Error()
		r.log(resolution)
		return resolution, err
	}

	for _, answer := range response.Answer {
		if answer.Header().Rrtype != qtype {
			continue
		}
		resolution.Records = append(resolution.Records, rdata(answer))
	}

	if len(resolution.Records) == 0 {
		resolution.Error = ErrNoRecords.Error()
		r.log(resolution)
		return resolution, ErrNoRecords
	}

	r.log(resolution)
	return resolution, nil
}

// rdata returns the presentation form of a record without its header,
// e.g. "10 mail.example.com." for MX
func rdata(rr dns.RR) string {
	return strings.TrimPrefix(rr.String(), rr.Header().String())
}

func (r *Resolver) log(resolution *service.DNSResolution) {
	if r.logWriter == nil {
		return
	}
	_ = r.logWriter.WriteDNSLog(&entity.DNSMessage{
		Domain:     resolution.Domain,
		RecordType: resolution.RecordType,
		Server:     resolution.Server,
		Rcode:      resolution.Rcode,
		Answers:    resolution.Records,
		RTT:        resolution.RTTMs,
		Error:      resolution.Error,
	})
}

// systemServers reads name servers from a resolv.conf file
func systemServers(path string) []string {
	if path == "" {
		return nil
	}
	config, err := dns.ClientConfigFromFile(path)
	if err != nil {
		return nil
	}

	port := config.Port
	if port == "" {
		port = "53"
	}

	servers := make([]string, 0, len(config.Servers))
	for _, s := range config.Servers {
		servers = append(servers, net.JoinHostPort(s, port))
	}
	return servers
}

// normalizeServers appends the default port to bare addresses
func normalizeServers(servers []string) []string {
	var normalized []string
	for _, s := range servers {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, _, err := net.SplitHostPort(s); err != nil {
			s = net.JoinHostPort(strings.Trim(s, "[]"), "53")
		}
		normalized = append(normalized, s)
	}
	return normalized
}
