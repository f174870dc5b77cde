package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
	"github.com/WangYihang/OSINT-Lab/pkg/domain/service"
	"github.com/WangYihang/OSINT-Lab/pkg/infrastructure/domainservice"
	"github.com/WangYihang/OSINT-Lab/pkg/infrastructure/geo"
)

type fakeGeo struct {
	loc *service.GeoLocation
	err error
}

func (f *fakeGeo) Locate(ctx context.Context, ip string) (*service.GeoLocation, error) {
	return f.loc, f.err
}

type fakeHosts struct {
	addrs map[string][]string
	err   error
}

func (f *fakeHosts) LookupHost(ctx context.Context, host string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.addrs[host], nil
}

type fakeResolver struct {
	records map[string][]string
	delay   time.Duration
}

func (f *fakeResolver) Query(ctx context.Context, domain, recordType string) (*service.DNSResolution, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	records, ok := f.records[recordType]
	if !ok {
		return nil, errors.New("no records")
	}
	return &service.DNSResolution{Domain: domain, RecordType: recordType, Records: records}, nil
}

type fakeWhois struct {
	mu      sync.Mutex
	queried []string
	err     error
}

func (f *fakeWhois) Lookup(ctx context.Context, domain string) (*service.WhoisRecord, error) {
	f.mu.Lock()
	f.queried = append(f.queried, domain)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &service.WhoisRecord{
		DomainName:  domain,
		Registrar:   "RESERVED-Internet Assigned Numbers Authority",
		NameServers: []string{"a.iana-servers.net", "b.iana-servers.net"},
	}, nil
}

type memoryReportWriter struct {
	mu      sync.Mutex
	reports []any
	closed  bool
}

func (w *memoryReportWriter) Write(report any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reports = append(w.reports, report)
	return nil
}

func (w *memoryReportWriter) Flush() error { return nil }

func (w *memoryReportWriter) Close() error {
	w.closed = true
	return nil
}

type memoryLogWriter struct {
	mu      sync.Mutex
	entries []*entity.LookupLog
}

func (w *memoryLogWriter) WriteLookupLog(entry *entity.LookupLog) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, entry)
	return nil
}

func (w *memoryLogWriter) WriteHTTPLog(data any) error  { return nil }
func (w *memoryLogWriter) WriteDNSLog(data any) error   { return nil }
func (w *memoryLogWriter) WriteWhoisLog(data any) error { return nil }
func (w *memoryLogWriter) Close() error                 { return nil }

type countingObserver struct {
	mu       sync.Mutex
	outcomes []entity.Outcome
}

func (o *countingObserver) OnLookup(outcome entity.Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

type fixture struct {
	uc      *LookupUseCase
	geo     *fakeGeo
	hosts   *fakeHosts
	dns     *fakeResolver
	whois   *fakeWhois
	reports *memoryReportWriter
	logs    *memoryLogWriter
}

func newFixture(timeout time.Duration) *fixture {
	f := &fixture{
		geo: &fakeGeo{loc: &service.GeoLocation{
			Query: "8.8.8.8", Country: "United States", Region: "Virginia",
			City: "Ashburn", ISP: "Google LLC", AS: "AS15169 Google LLC",
		}},
		hosts: &fakeHosts{addrs: map[string][]string{
			"example.com": {"2606:2800:21f:cb07:6820:80da:af6b:8b2c", "93.184.215.14"},
			"gmail.com":   {"142.250.74.69"},
		}},
		dns: &fakeResolver{records: map[string][]string{
			"A":  {"93.184.215.14"},
			"MX": {"0 ."},
			"NS": {"a.iana-servers.net.", "b.iana-servers.net."},
		}},
		whois:   &fakeWhois{},
		reports: &memoryReportWriter{},
		logs:    &memoryLogWriter{},
	}
	f.uc = NewLookupUseCase(
		Config{Timeout: timeout},
		domainservice.NewValidator(),
		domainservice.NewProfileBuilder(domainservice.SocialPlatforms, nil),
		f.geo, f.hosts, f.dns, f.whois,
		f.reports, f.logs,
	)
	return f
}

func TestGeolocateFailureReasons(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason entity.FailureReason
	}{
		{"service rejected", errors.New("lookup failed: reserved range"), entity.ReasonLookupFailed},
		{"wrapped service rejection", fmt.Errorf("%w: HTTP 429", geo.ErrLookupFailed), entity.ReasonLookupFailed},
		{"transport", &service.TransportError{Err: errors.New("connection refused")}, entity.ReasonNetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(time.Second)
			f.geo.err = tt.err

			outcome := f.uc.Geolocate(context.Background(), "10.0.0.1")
			if outcome.OK() {
				t.Fatal("expected failure")
			}
			if outcome.Reason() != tt.reason {
				t.Errorf("reason = %s, want %s", outcome.Reason(), tt.reason)
			}
			if outcome.Kind != entity.LookupGeolocation || outcome.Query != "10.0.0.1" {
				t.Errorf("unexpected outcome identity: %+v", outcome)
			}
		})
	}
}

func TestLookupIP(t *testing.T) {
	f := newFixture(time.Second)

	report, err := f.uc.LookupIP(context.Background(), " 8.8.8.8 ")
	if err != nil {
		t.Fatalf("LookupIP() error = %v", err)
	}
	if !report.Validation.Valid {
		t.Error("8.8.8.8 should validate")
	}
	if !report.Geolocation.OK() {
		t.Fatalf("geolocation failed: %+v", report.Geolocation.Failure)
	}
	if got := report.Geolocation.String(entity.FieldCity); got != "Ashburn" {
		t.Errorf("city = %q", got)
	}
	if len(f.reports.reports) != 1 {
		t.Errorf("reports written = %d, want 1", len(f.reports.reports))
	}

	if _, err := f.uc.LookupIP(context.Background(), "   "); !errors.Is(err, entity.ErrEmptyTarget) {
		t.Errorf("blank ip error = %v, want ErrEmptyTarget", err)
	}
}

func TestResolveHostnamePrefersIPv4(t *testing.T) {
	f := newFixture(time.Second)

	outcome := f.uc.ResolveHostname(context.Background(), "example.com")
	if got := outcome.String(entity.FieldAddress); got != "93.184.215.14" {
		t.Errorf("address = %q, want 93.184.215.14", got)
	}

	outcome = f.uc.ResolveHostname(context.Background(), "missing.invalid")
	if outcome.Reason() != entity.ReasonResolutionFailed {
		t.Errorf("empty answer reason = %s", outcome.Reason())
	}

	f.hosts.err = errors.New("no such host")
	outcome = f.uc.ResolveHostname(context.Background(), "example.com")
	if outcome.Reason() != entity.ReasonResolutionFailed {
		t.Errorf("error reason = %s", outcome.Reason())
	}
}

func TestResolveDNSRecords(t *testing.T) {
	f := newFixture(time.Second)

	tests := []struct {
		recordType string
		ok         bool
		reason     entity.FailureReason
	}{
		{"A", true, ""},
		{"NS", true, ""},
		{"TXT", false, entity.ReasonNotFound},
		{"SOA", false, entity.ReasonInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.recordType, func(t *testing.T) {
			outcome := f.uc.ResolveDNSRecords(context.Background(), "example.com", tt.recordType)
			if outcome.OK() != tt.ok {
				t.Fatalf("OK() = %v, want %v", outcome.OK(), tt.ok)
			}
			if !tt.ok && outcome.Reason() != tt.reason {
				t.Errorf("reason = %s, want %s", outcome.Reason(), tt.reason)
			}
			if outcome.RecordType != tt.recordType {
				t.Errorf("record type = %q", outcome.RecordType)
			}
		})
	}
}

func TestUniformTimeout(t *testing.T) {
	f := newFixture(20 * time.Millisecond)
	f.dns.delay = time.Second

	start := time.Now()
	outcome := f.uc.ResolveDNSRecords(context.Background(), "example.com", "A")
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("lookup took %s, timeout not applied", elapsed)
	}
	if outcome.Reason() != entity.ReasonNotFound {
		t.Errorf("timeout reason = %s, want NotFound", outcome.Reason())
	}
}

func TestAnalyzeDomain(t *testing.T) {
	f := newFixture(time.Second)
	observer := &countingObserver{}
	f.uc.RegisterLookupObserver(observer)

	report, err := f.uc.AnalyzeDomain(context.Background(), "WWW.Example.com")
	if err != nil {
		t.Fatalf("AnalyzeDomain() error = %v", err)
	}

	if !report.Validation.Valid || report.Validation.Normalized != "www.example.com" {
		t.Errorf("validation = %+v", report.Validation)
	}
	if report.RegistrableDomain != "example.com" {
		t.Errorf("registrable = %q", report.RegistrableDomain)
	}
	if len(f.whois.queried) != 1 || f.whois.queried[0] != "example.com" {
		t.Errorf("whois queried %v, want [example.com]", f.whois.queried)
	}
	if len(report.DNS) != len(entity.DNSRecordTypes) {
		t.Fatalf("dns outcomes = %d", len(report.DNS))
	}
	for i, outcome := range report.DNS {
		if outcome.RecordType != entity.DNSRecordTypes[i] {
			t.Errorf("dns[%d] type = %s, want %s", i, outcome.RecordType, entity.DNSRecordTypes[i])
		}
	}
	if !report.Whois.OK() {
		t.Errorf("whois failed: %+v", report.Whois.Failure)
	}

	// whois + 5 dns + hostname
	if len(observer.outcomes) != 7 {
		t.Errorf("observed %d lookups, want 7", len(observer.outcomes))
	}
	if len(f.logs.entries) != 7 {
		t.Errorf("logged %d lookups, want 7", len(f.logs.entries))
	}

	metrics := f.uc.GetMetrics()
	if metrics.Lookups != 7 || metrics.ByKind[entity.LookupDNS] != 5 {
		t.Errorf("metrics = %+v", metrics)
	}
	// AAAA and TXT are absent from the fake zone
	if metrics.FailuresByKind[entity.LookupDNS] != 2 {
		t.Errorf("dns failures = %d, want 2", metrics.FailuresByKind[entity.LookupDNS])
	}
}

func TestAnalyzeDomainInvalidStillLooksUp(t *testing.T) {
	f := newFixture(time.Second)
	f.whois.err = errors.New("no whois server")

	report, err := f.uc.AnalyzeDomain(context.Background(), "localhost")
	if err != nil {
		t.Fatalf("AnalyzeDomain() error = %v", err)
	}
	if report.Validation.Valid {
		t.Error("localhost should not validate")
	}
	if report.Whois.Reason() != entity.ReasonWhoisFailed {
		t.Errorf("whois reason = %s", report.Whois.Reason())
	}
	if len(f.whois.queried) != 1 || f.whois.queried[0] != "localhost" {
		t.Errorf("whois queried %v", f.whois.queried)
	}
}

func TestCheckEmail(t *testing.T) {
	f := newFixture(time.Second)

	report, err := f.uc.CheckEmail(context.Background(), "someone@gmail.com")
	if err != nil {
		t.Fatalf("CheckEmail() error = %v", err)
	}
	if !report.Validation.Valid || report.Domain != "gmail.com" {
		t.Errorf("report = %+v", report)
	}
	if report.Address == nil || report.Address.String(entity.FieldAddress) != "142.250.74.69" {
		t.Errorf("address = %+v", report.Address)
	}
	if report.MX == nil || !report.MX.OK() {
		t.Errorf("mx = %+v", report.MX)
	}

	report, err = f.uc.CheckEmail(context.Background(), "a@b.c")
	if err != nil {
		t.Fatalf("CheckEmail() error = %v", err)
	}
	if report.Validation.Valid || report.Address != nil || report.MX != nil {
		t.Errorf("invalid email should skip lookups: %+v", report)
	}
	if got := f.uc.GetMetrics().Lookups; got != 2 {
		t.Errorf("lookups = %d, want 2", got)
	}
}

func TestSearchUsernameAndPhone(t *testing.T) {
	f := newFixture(time.Second)

	users, err := f.uc.SearchUsername("octocat")
	if err != nil {
		t.Fatalf("SearchUsername() error = %v", err)
	}
	if users.Verified {
		t.Error("profile URLs must be reported unverified")
	}
	if len(users.Profiles) != len(domainservice.SocialPlatforms) {
		t.Errorf("profiles = %d", len(users.Profiles))
	}
	if users.Profiles[0].URL != "https://github.com/octocat" {
		t.Errorf("first profile = %+v", users.Profiles[0])
	}

	phone, err := f.uc.AnalyzePhone("+971 50 123 4567")
	if err != nil {
		t.Fatalf("AnalyzePhone() error = %v", err)
	}
	if phone.Analysis.Country != "UAE" {
		t.Errorf("country = %q, want UAE", phone.Analysis.Country)
	}

	if got := f.uc.GetMetrics().Lookups; got != 0 {
		t.Errorf("offline tools issued %d lookups", got)
	}
}

func TestRun(t *testing.T) {
	f := newFixture(time.Second)

	for _, kind := range entity.TargetKinds {
		report, err := f.uc.Run(context.Background(), kind, "example.com")
		if err != nil {
			t.Errorf("Run(%s) error = %v", kind, err)
		}
		if report == nil {
			t.Errorf("Run(%s) returned no report", kind)
		}
	}

	if _, err := f.uc.Run(context.Background(), "breach", "x"); err == nil {
		t.Error("unknown kind should fail")
	}

	if err := f.uc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !f.reports.closed {
		t.Error("report writer not closed")
	}
}

type snapshotObserver struct {
	mu      sync.Mutex
	lookups []int64
}

func (o *snapshotObserver) OnMetricsUpdate(metrics *entity.Metrics) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lookups = append(o.lookups, metrics.Lookups)
}

func TestMetricsObserversSeeIncreasingSnapshots(t *testing.T) {
	f := newFixture(time.Second)
	observer := &snapshotObserver{}
	f.uc.RegisterMetricsObserver(observer)

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, recordType := range entity.DNSRecordTypes {
				f.uc.ResolveDNSRecords(context.Background(), "example.com", recordType)
			}
		}()
	}
	wg.Wait()

	want := workers * len(entity.DNSRecordTypes)
	if len(observer.lookups) != want {
		t.Fatalf("got %d snapshots, want %d", len(observer.lookups), want)
	}
	for i := 1; i < len(observer.lookups); i++ {
		if observer.lookups[i] <= observer.lookups[i-1] {
			t.Fatalf("snapshot %d has Lookups=%d after %d", i, observer.lookups[i], observer.lookups[i-1])
		}
	}
	if last := observer.lookups[len(observer.lookups)-1]; last != int64(want) {
		t.Errorf("last snapshot Lookups = %d, want %d", last, want)
	}
}
