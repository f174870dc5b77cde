package domainservice

import (
	"net/netip"
	"regexp"
	"strings"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
	"github.com/WangYihang/OSINT-Lab/pkg/domain/service"
	"golang.org/x/net/publicsuffix"
)

// Validator implements service.InputValidator
type Validator struct {
	domainRegex *regexp.Regexp
	emailRegex  *regexp.Regexp
	phoneCodes  []CallingCode
}

// NewValidator creates a new input validator
func NewValidator() service.InputValidator {
	return &Validator{
		domainRegex: regexp.MustCompile(`(?i)^([a-z0-9]+(-[a-z0-9]+)*\.)+[a-z]{2,}$`),
		emailRegex:  regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`),
		phoneCodes:  sortedCallingCodes(DefaultCallingCodes),
	}
}

// ValidateDomain checks a domain name against the label.label.tld pattern
func (v *Validator) ValidateDomain(domain string) entity.ValidationResult {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return entity.ValidationResult{Reason: "empty domain"}
	}
	if !v.domainRegex.MatchString(domain) {
		return entity.ValidationResult{Reason: "unusual domain format"}
	}
	return entity.ValidationResult{Valid: true, Normalized: strings.ToLower(domain)}
}

// ValidateEmail checks an email address against local@domain.tld
func (v *Validator) ValidateEmail(email string) entity.ValidationResult {
	email = strings.TrimSpace(email)
	if email == "" {
		return entity.ValidationResult{Reason: "empty email address"}
	}
	if !v.emailRegex.MatchString(email) {
		return entity.ValidationResult{Reason: "invalid email format"}
	}
	return entity.ValidationResult{Valid: true, Normalized: email}
}

// ValidateIP checks that the input parses as an IPv4 or IPv6 address
func (v *Validator) ValidateIP(ip string) entity.ValidationResult {
	ip = strings.TrimSpace(ip)
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return entity.ValidationResult{Reason: "not an IP address"}
	}
	return entity.ValidationResult{Valid: true, Normalized: addr.String()}
}

// EmailDomain returns the domain part of an email address
func (v *Validator) EmailDomain(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return email[at+1:]
}

// RegistrableDomain returns the eTLD+1 of a domain
func (v *Validator) RegistrableDomain(domain string) (string, error) {
	domain = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(domain), "."))
	return publicsuffix.EffectiveTLDPlusOne(domain)
}
