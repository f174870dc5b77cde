package repository

import "github.com/WangYihang/OSINT-Lab/pkg/domain/entity"

// ReportWriter writes tool reports
type ReportWriter interface {
	// Write writes a single report
	Write(report any) error
	// Flush ensures all buffered data is written
	Flush() error
	// Close closes the writer
	Close() error
}

// LogWriter writes structured logs
type LogWriter interface {
	// WriteLookupLog writes one lookup outcome summary
	WriteLookupLog(entry *entity.LookupLog) error
	// WriteHTTPLog writes an HTTP request/response log
	WriteHTTPLog(data any) error
	// WriteDNSLog writes a DNS query/response log
	WriteDNSLog(data any) error
	// WriteWhoisLog writes a WHOIS query log
	WriteWhoisLog(data any) error
	// Close closes all log writers
	Close() error
}
