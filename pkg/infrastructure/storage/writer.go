package storage

import (
	"io"
	"os"
	"sync"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
	"github.com/WangYihang/OSINT-Lab/pkg/domain/repository"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ReportWriter implements repository.ReportWriter as JSON lines
type ReportWriter struct {
	file    *os.File
	encoder *jsoniter.Encoder
	mu      sync.Mutex
}

// NewReportWriter creates a new report writer.
// An empty filename returns a writer that discards everything.
func NewReportWriter(filename string) (repository.ReportWriter, error) {
	if filename == "" {
		return NopReportWriter{}, nil
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	return &ReportWriter{
		file:    file,
		encoder: json.NewEncoder(file),
	}, nil
}

// Write writes a single report
func (w *ReportWriter) Write(report any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.encoder.Encode(report)
}

// Flush ensures all buffered data is written
func (w *ReportWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.file.Sync()
}

// Close closes the writer
func (w *ReportWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.file.Close()
}

// NopReportWriter discards reports
type NopReportWriter struct{}

func (NopReportWriter) Write(any) error { return nil }
func (NopReportWriter) Flush() error    { return nil }
func (NopReportWriter) Close() error    { return nil }

// LogWriter implements repository.LogWriter.
// Lookup, HTTP, DNS and WHOIS entries share one JSON lines stream tagged by "type".
type LogWriter struct {
	closer  io.Closer
	encoder *jsoniter.Encoder
	mu      sync.Mutex
}

type logLine struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// NewLogWriter creates a new log writer.
// An empty filename returns a writer that discards everything.
func NewLogWriter(filename string) (repository.LogWriter, error) {
	if filename == "" {
		return NopLogWriter{}, nil
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	return newLogWriter(file), nil
}

func newLogWriter(w io.WriteCloser) *LogWriter {
	return &LogWriter{
		closer:  w,
		encoder: json.NewEncoder(w),
	}
}

// WriteLookupLog writes one lookup outcome summary
func (w *LogWriter) WriteLookupLog(entry *entity.LookupLog) error {
	return w.write("lookup", entry)
}

// WriteHTTPLog writes an HTTP request/response log
func (w *LogWriter) WriteHTTPLog(data any) error {
	return w.write("http", data)
}

// WriteDNSLog writes a DNS query/response log
func (w *LogWriter) WriteDNSLog(data any) error {
	return w.write("dns", data)
}

// WriteWhoisLog writes a WHOIS query log
func (w *LogWriter) WriteWhoisLog(data any) error {
	return w.write("whois", data)
}

func (w *LogWriter) write(kind string, data any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.encoder.Encode(logLine{Type: kind, Data: data})
}

// Close closes the underlying file
func (w *LogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.closer.Close()
}

// NopLogWriter discards logs
type NopLogWriter struct{}

func (NopLogWriter) WriteLookupLog(*entity.LookupLog) error { return nil }
func (NopLogWriter) WriteHTTPLog(any) error                 { return nil }
func (NopLogWriter) WriteDNSLog(any) error                  { return nil }
func (NopLogWriter) WriteWhoisLog(any) error                { return nil }
func (NopLogWriter) Close() error                           { return nil }
