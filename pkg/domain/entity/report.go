package entity

import "time"

// IPReport is the result of the IP lookup tool
type IPReport struct {
	Target      Target           `json:"target"`
	Validation  ValidationResult `json:"validation"`
	Geolocation Outcome          `json:"geolocation"`
	CreatedAt   time.Time        `json:"created_at"`
}

// DomainReport is the result of the domain analyzer tool
type DomainReport struct {
	Target            Target           `json:"target"`
	Validation        ValidationResult `json:"validation"`
	RegistrableDomain string           `json:"registrable_domain,omitempty"`
	Whois             Outcome          `json:"whois"`
	DNS               []Outcome        `json:"dns"`
	Address           Outcome          `json:"address"`
	CreatedAt         time.Time        `json:"created_at"`
}

// EmailReport is the result of the email validator tool.
// Address and MX are nil when the address failed validation.
type EmailReport struct {
	Target     Target           `json:"target"`
	Validation ValidationResult `json:"validation"`
	Domain     string           `json:"domain,omitempty"`
	Address    *Outcome         `json:"address,omitempty"`
	MX         *Outcome         `json:"mx,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// UsernameReport is the result of the username search tool
type UsernameReport struct {
	Target    Target         `json:"target"`
	Profiles  PlatformURLSet `json:"profiles"`
	Verified  bool           `json:"verified"`
	CreatedAt time.Time      `json:"created_at"`
}

// PhoneReport is the result of the phone lookup tool
type PhoneReport struct {
	Target    Target        `json:"target"`
	Analysis  PhoneAnalysis `json:"analysis"`
	CreatedAt time.Time     `json:"created_at"`
}
