package cli

import (
	"fmt"

	"github.com/WangYihang/OSINT-Lab/pkg/application"
	"github.com/WangYihang/OSINT-Lab/pkg/infrastructure/dns"
	"github.com/WangYihang/OSINT-Lab/pkg/infrastructure/domainservice"
	"github.com/WangYihang/OSINT-Lab/pkg/infrastructure/geo"
	"github.com/WangYihang/OSINT-Lab/pkg/infrastructure/http"
	"github.com/WangYihang/OSINT-Lab/pkg/infrastructure/metrics"
	"github.com/WangYihang/OSINT-Lab/pkg/infrastructure/storage"
	"github.com/WangYihang/OSINT-Lab/pkg/infrastructure/whois"
	"github.com/sirupsen/logrus"
)

// Assembler assembles all components for the application
type Assembler struct {
	config    *Config
	collector *metrics.Collector
}

// NewAssembler creates a new assembler
func NewAssembler(config *Config) *Assembler {
	return &Assembler{config: config}
}

// ConfigureLogging applies the configured operational log level
func (a *Assembler) ConfigureLogging() {
	level, err := logrus.ParseLevel(a.config.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Collector returns the Prometheus collector registered on the last assembled use case
func (a *Assembler) Collector() *metrics.Collector {
	return a.collector
}

// AssembleUseCase assembles the lookup use case with all dependencies
func (a *Assembler) AssembleUseCase() (*application.LookupUseCase, error) {
	// Create repositories
	reportWriter, err := storage.NewReportWriter(a.config.OutputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create report writer: %w", err)
	}

	logWriter, err := storage.NewLogWriter(a.config.LookupLogFile)
	if err != nil {
		reportWriter.Close()
		return nil, fmt.Errorf("failed to create lookup log writer: %w", err)
	}

	// Create domain services
	validator := domainservice.NewValidator()
	profiles := domainservice.NewProfileBuilder(
		domainservice.PlatformSets[a.config.PlatformSet],
		a.config.Platforms,
	)

	// Create HTTP fetcher and geolocation client
	fetcher := http.NewFetcher(http.Config{
		Timeout:         a.config.TimeoutDuration,
		MaxResponseSize: a.config.MaxResponseSize,
		UserAgent:       a.config.UserAgent,
		LogWriter:       logWriter,
	})
	locator := geo.NewLocator(geo.Config{Endpoint: a.config.GeoEndpoint}, fetcher)

	// Create DNS resolvers
	resolver := dns.NewResolver(dns.Config{
		Servers:    a.config.DNSServers,
		Timeout:    a.config.TimeoutDuration,
		ResolvConf: dns.DefaultResolvConf,
		LogWriter:  logWriter,
	})
	logrus.WithField("servers", resolver.Servers()).Debug("dns resolver configured")

	// Create WHOIS client
	whoisClient := whois.NewClient(whois.Config{
		Timeout:   a.config.TimeoutDuration,
		Server:    a.config.WhoisServer,
		LogWriter: logWriter,
	})

	// Create use case
	useCase := application.NewLookupUseCase(
		application.Config{
			Timeout: a.config.TimeoutDuration,
		},
		validator,
		profiles,
		locator,
		dns.NewHostResolver(),
		resolver,
		whoisClient,
		reportWriter,
		logWriter,
	)

	a.collector = metrics.NewCollector()
	useCase.RegisterLookupObserver(a.collector)

	return useCase, nil
}
