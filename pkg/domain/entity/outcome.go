package entity

import (
	"fmt"
	"time"
)

// LookupKind identifies the external source queried by a lookup
type LookupKind string

const (
	LookupGeolocation LookupKind = "geolocation"
	LookupHostname    LookupKind = "hostname"
	LookupDNS         LookupKind = "dns"
	LookupWhois       LookupKind = "whois"
)

// DNSRecordTypes are the record types queried for a domain, in report order
var DNSRecordTypes = []string{"A", "AAAA", "MX", "NS", "TXT"}

// FailureReason is the cause attached to a failed lookup
type FailureReason string

const (
	ReasonInvalidFormat    FailureReason = "InvalidFormat"
	ReasonNetworkError     FailureReason = "NetworkError"
	ReasonLookupFailed     FailureReason = "LookupFailed"
	ReasonResolutionFailed FailureReason = "ResolutionFailed"
	ReasonNotFound         FailureReason = "NotFound"
	ReasonWhoisFailed      FailureReason = "WhoisFailed"
)

// Payload keys
const (
	FieldCountry        = "country"
	FieldRegion         = "region"
	FieldCity           = "city"
	FieldZip            = "zip"
	FieldISP            = "isp"
	FieldTimezone       = "timezone"
	FieldOrg            = "org"
	FieldAS             = "as"
	FieldAddress        = "address"
	FieldAddresses      = "addresses"
	FieldRecords        = "records"
	FieldDomainName     = "domainName"
	FieldRegistrar      = "registrar"
	FieldCreationDate   = "creationDate"
	FieldExpirationDate = "expirationDate"
	FieldNameServers    = "nameServers"
)

// Failure carries the reason a lookup did not succeed
type Failure struct {
	Reason  FailureReason `json:"reason"`
	Message string        `json:"message,omitempty"`
}

// Outcome is the result of exactly one outbound lookup
type Outcome struct {
	Kind       LookupKind     `json:"kind"`
	Query      string         `json:"query"`
	RecordType string         `json:"record_type,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	Failure    *Failure       `json:"failure,omitempty"`
	Duration   time.Duration  `json:"duration"`
}

// Succeed builds a successful outcome
func Succeed(kind LookupKind, query string, payload map[string]any) Outcome {
	return Outcome{Kind: kind, Query: query, Payload: payload}
}

// Fail builds a failed outcome; err may be nil
func Fail(kind LookupKind, query string, reason FailureReason, err error) Outcome {
	failure := &Failure{Reason: reason}
	if err != nil {
		failure.Message = err.Error()
	}
	return Outcome{Kind: kind, Query: query, Failure: failure}
}

// OK reports whether the lookup succeeded
func (o Outcome) OK() bool {
	return o.Failure == nil
}

// String returns a payload value as a string, or "" when absent
func (o Outcome) String(key string) string {
	v, ok := o.Payload[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Strings returns a payload value as a string slice
func (o Outcome) Strings(key string) []string {
	switch v := o.Payload[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return nil
	}
}

// Reason returns the failure reason, or "" for a success
func (o Outcome) Reason() FailureReason {
	if o.Failure == nil {
		return ""
	}
	return o.Failure.Reason
}
