package application

import (
	"sync"
	"time"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
	"github.com/WangYihang/OSINT-Lab/pkg/domain/repository"
	"github.com/WangYihang/OSINT-Lab/pkg/domain/service"
	"github.com/sirupsen/logrus"
)

// LookupUseCase validates identifiers and dispatches the lookups of every tool
type LookupUseCase struct {
	config Config

	// Services
	validator service.InputValidator
	profiles  service.ProfileURLBuilder
	geo       service.GeoLocator
	hosts     service.HostResolver
	resolver  service.DNSResolver
	whois     service.WhoisClient

	// Repositories
	reportWriter repository.ReportWriter
	logWriter    repository.LogWriter

	// State
	metrics          *entity.Metrics
	metricsLock      sync.RWMutex
	notifyLock       sync.Mutex // observers see snapshots in update order
	lookupObservers  []LookupObserver
	metricsObservers []MetricsObserver
}

// Config holds the use case configuration
type Config struct {
	// Timeout bounds every outbound lookup; zero means no bound
	Timeout time.Duration
}

// LookupObserver is notified after every outbound lookup.
// Implementations must be safe for concurrent use.
type LookupObserver interface {
	OnLookup(outcome entity.Outcome)
}

// MetricsObserver observes metrics changes
type MetricsObserver interface {
	OnMetricsUpdate(metrics *entity.Metrics)
}

// NewLookupUseCase creates a new lookup use case
func NewLookupUseCase(
	config Config,
	validator service.InputValidator,
	profiles service.ProfileURLBuilder,
	geo service.GeoLocator,
	hosts service.HostResolver,
	resolver service.DNSResolver,
	whois service.WhoisClient,
	reportWriter repository.ReportWriter,
	logWriter repository.LogWriter,
) *LookupUseCase {
	return &LookupUseCase{
		config:       config,
		validator:    validator,
		profiles:     profiles,
		geo:          geo,
		hosts:        hosts,
		resolver:     resolver,
		whois:        whois,
		reportWriter: reportWriter,
		logWriter:    logWriter,
		metrics: &entity.Metrics{
			ByKind:         make(map[entity.LookupKind]int64),
			FailuresByKind: make(map[entity.LookupKind]int64),
			StartTime:      time.Now(),
		},
	}
}

// RegisterLookupObserver registers a lookup observer
func (uc *LookupUseCase) RegisterLookupObserver(observer LookupObserver) {
	uc.lookupObservers = append(uc.lookupObservers, observer)
}

// RegisterMetricsObserver registers a metrics observer
func (uc *LookupUseCase) RegisterMetricsObserver(observer MetricsObserver) {
	uc.metricsObservers = append(uc.metricsObservers, observer)
}

// Platforms returns the platform names used by the username search
func (uc *LookupUseCase) Platforms() []string {
	return uc.profiles.Platforms()
}

// GetMetrics returns a snapshot of the current metrics
func (uc *LookupUseCase) GetMetrics() *entity.Metrics {
	uc.metricsLock.RLock()
	defer uc.metricsLock.RUnlock()

	return uc.snapshot()
}

// snapshot copies the metrics; the caller holds metricsLock
func (uc *LookupUseCase) snapshot() *entity.Metrics {
	metrics := *uc.metrics
	metrics.ByKind = make(map[entity.LookupKind]int64, len(uc.metrics.ByKind))
	for k, v := range uc.metrics.ByKind {
		metrics.ByKind[k] = v
	}
	metrics.FailuresByKind = make(map[entity.LookupKind]int64, len(uc.metrics.FailuresByKind))
	for k, v := range uc.metrics.FailuresByKind {
		metrics.FailuresByKind[k] = v
	}
	return &metrics
}

// record updates metrics, notifies observers and writes the lookup log
func (uc *LookupUseCase) record(outcome entity.Outcome) {
	uc.notifyLock.Lock()
	uc.metricsLock.Lock()
	uc.metrics.Lookups++
	uc.metrics.ByKind[outcome.Kind]++
	if !outcome.OK() {
		uc.metrics.Failures++
		uc.metrics.FailuresByKind[outcome.Kind]++
	}
	uc.metrics.LastQuery = outcome.Query
	uc.metrics.LastUpdateTime = time.Now()
	metrics := uc.snapshot()
	uc.metricsLock.Unlock()

	for _, observer := range uc.lookupObservers {
		observer.OnLookup(outcome)
	}
	for _, observer := range uc.metricsObservers {
		observer.OnMetricsUpdate(metrics)
	}
	uc.notifyLock.Unlock()

	if uc.logWriter == nil {
		return
	}
	entry := &entity.LookupLog{
		Kind:       outcome.Kind,
		Query:      outcome.Query,
		RecordType: outcome.RecordType,
		OK:         outcome.OK(),
		DurationMs: outcome.Duration.Milliseconds(),
		Timestamp:  time.Now().Unix(),
	}
	if outcome.Failure != nil {
		entry.Reason = outcome.Failure.Reason
		entry.Message = outcome.Failure.Message
	}
	if err := uc.logWriter.WriteLookupLog(entry); err != nil {
		logrus.WithError(err).Warn("failed to write lookup log")
	}
}

// saveReport writes a report, logging but otherwise ignoring failures
func (uc *LookupUseCase) saveReport(report any) {
	if uc.reportWriter == nil {
		return
	}
	if err := uc.reportWriter.Write(report); err != nil {
		logrus.WithError(err).Warn("failed to write report")
	}
}

// Close flushes and closes the writers
func (uc *LookupUseCase) Close() error {
	var firstErr error
	if uc.reportWriter != nil {
		if err := uc.reportWriter.Flush(); err != nil {
			firstErr = err
		}
		if err := uc.reportWriter.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if uc.logWriter != nil {
		if err := uc.logWriter.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
