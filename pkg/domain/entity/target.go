package entity

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyTarget is returned when a lookup target has no value
var ErrEmptyTarget = errors.New("target value is empty")

// TargetKind identifies what kind of identifier a target holds
type TargetKind string

const (
	KindIP       TargetKind = "ip"
	KindDomain   TargetKind = "domain"
	KindEmail    TargetKind = "email"
	KindUsername TargetKind = "username"
	KindPhone    TargetKind = "phone"
)

// TargetKinds lists every supported kind in menu order
var TargetKinds = []TargetKind{KindIP, KindDomain, KindEmail, KindUsername, KindPhone}

// ParseTargetKind converts a string into a TargetKind
func ParseTargetKind(s string) (TargetKind, error) {
	kind := TargetKind(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range TargetKinds {
		if k == kind {
			return kind, nil
		}
	}
	return "", errors.New("unknown target kind: " + s)
}

// Target is a user-entered identifier to look up
type Target struct {
	Kind  TargetKind `json:"kind"`
	Value string     `json:"value"`
}

// NewTarget creates a target, rejecting empty values
func NewTarget(kind TargetKind, value string) (Target, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Target{}, ErrEmptyTarget
	}
	return Target{Kind: kind, Value: value}, nil
}

// ValidationResult is the outcome of a shape check
type ValidationResult struct {
	Valid      bool   `json:"valid"`
	Normalized string `json:"normalized,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// PhoneAnalysis describes a cleaned phone number
type PhoneAnalysis struct {
	Cleaned        string `json:"cleaned"`
	HasCountryCode bool   `json:"has_country_code"`
	CallingCode    string `json:"calling_code,omitempty"`
	Country        string `json:"country,omitempty"`
}

// PlatformURL is a guessed profile URL on one platform
type PlatformURL struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// PlatformURLSet is an ordered list of guessed profile URLs
type PlatformURLSet []PlatformURL

// Metrics represents lookup counters
type Metrics struct {
	Lookups        int64
	Failures       int64
	ByKind         map[LookupKind]int64
	FailuresByKind map[LookupKind]int64
	StartTime      time.Time
	LastUpdateTime time.Time
	LastQuery      string
}
