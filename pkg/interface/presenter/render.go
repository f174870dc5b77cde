package presenter

import (
	"fmt"
	"strings"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
	"github.com/charmbracelet/lipgloss"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")).
			Width(16)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#04B575"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Italic(true)
)

func panelStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color)).
		Padding(0, 1)
}

// RenderJSON renders a report as indented JSON
func RenderJSON(report any) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RenderReport renders any tool report as styled panels
func RenderReport(report any) string {
	switch r := report.(type) {
	case *entity.IPReport:
		return RenderIPReport(r)
	case *entity.DomainReport:
		return RenderDomainReport(r)
	case *entity.EmailReport:
		return RenderEmailReport(r)
	case *entity.UsernameReport:
		return RenderUsernameReport(r)
	case *entity.PhoneReport:
		return RenderPhoneReport(r)
	default:
		return failStyle.Render(fmt.Sprintf("unsupported report %T", report))
	}
}

// RenderIPReport renders the IP lookup tool result
func RenderIPReport(r *entity.IPReport) string {
	lines := []string{
		titleStyle.Render("🌐 IP Lookup: " + r.Target.Value),
		"",
		renderValidation(r.Validation),
	}
	lines = append(lines, renderOutcome(r.Geolocation, []field{
		{"Country", entity.FieldCountry},
		{"Region", entity.FieldRegion},
		{"City", entity.FieldCity},
		{"ZIP", entity.FieldZip},
		{"ISP", entity.FieldISP},
		{"Organization", entity.FieldOrg},
		{"AS", entity.FieldAS},
		{"Timezone", entity.FieldTimezone},
	})...)

	return panelStyle("#874BFD").Render(strings.Join(lines, "\n"))
}

// RenderDomainReport renders the domain analyzer result
func RenderDomainReport(r *entity.DomainReport) string {
	header := []string{
		titleStyle.Render("🔍 Domain Analysis: " + r.Target.Value),
		"",
		renderValidation(r.Validation),
	}
	if r.RegistrableDomain != "" {
		header = append(header, row("Registrable", r.RegistrableDomain))
	}
	header = append(header, renderOutcome(r.Address, []field{
		{"IP Address", entity.FieldAddress},
	})...)

	whois := []string{titleStyle.Render("📋 WHOIS")}
	whois = append(whois, renderOutcome(r.Whois, []field{
		{"Domain", entity.FieldDomainName},
		{"Registrar", entity.FieldRegistrar},
		{"Created", entity.FieldCreationDate},
		{"Expires", entity.FieldExpirationDate},
	})...)
	if r.Whois.OK() {
		for _, ns := range r.Whois.Strings(entity.FieldNameServers) {
			whois = append(whois, row("Name Server", ns))
		}
	}

	records := []string{titleStyle.Render("📡 DNS Records")}
	for _, outcome := range r.DNS {
		records = append(records, renderRecords(outcome)...)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		panelStyle("#874BFD").Render(strings.Join(header, "\n")),
		panelStyle("#FF6B6B").Render(strings.Join(whois, "\n")),
		panelStyle("#4ECDC4").Render(strings.Join(records, "\n")),
	)
}

// RenderEmailReport renders the email validator result
func RenderEmailReport(r *entity.EmailReport) string {
	lines := []string{
		titleStyle.Render("📧 Email Check: " + r.Target.Value),
		"",
		renderValidation(r.Validation),
	}
	if r.Domain != "" {
		lines = append(lines, row("Domain", r.Domain))
	}
	if r.Address != nil {
		lines = append(lines, renderOutcome(*r.Address, []field{
			{"Domain IP", entity.FieldAddress},
		})...)
	}
	if r.MX != nil {
		lines = append(lines, renderRecords(*r.MX)...)
	}

	return panelStyle("#874BFD").Render(strings.Join(lines, "\n"))
}

// RenderUsernameReport renders the guessed profile URLs
func RenderUsernameReport(r *entity.UsernameReport) string {
	lines := []string{
		titleStyle.Render("👤 Username Search: " + r.Target.Value),
		"",
	}
	for _, profile := range r.Profiles {
		lines = append(lines, row(profile.Platform, profile.URL))
	}
	if !r.Verified {
		lines = append(lines, "", noteStyle.Render("Profiles are not verified, check each URL manually"))
	}

	return panelStyle("#04B575").Render(strings.Join(lines, "\n"))
}

// RenderPhoneReport renders the phone analysis
func RenderPhoneReport(r *entity.PhoneReport) string {
	a := r.Analysis
	lines := []string{
		titleStyle.Render("📱 Phone Lookup: " + r.Target.Value),
		"",
		row("Cleaned", a.Cleaned),
		row("Country Code", yesNo(a.HasCountryCode)),
	}
	if a.HasCountryCode {
		country := a.Country
		if country == "" {
			country = "Unknown"
		}
		lines = append(lines, row("Calling Code", a.CallingCode), row("Country", country))
	}

	return panelStyle("#4ECDC4").Render(strings.Join(lines, "\n"))
}

type field struct {
	label string
	key   string
}

func row(label, value string) string {
	if value == "" {
		value = "-"
	}
	return labelStyle.Render(label) + value
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func renderValidation(v entity.ValidationResult) string {
	if v.Valid {
		return labelStyle.Render("Format") + okStyle.Render("✓ valid")
	}
	status := "✗ invalid"
	if v.Reason != "" {
		status += " (" + v.Reason + ")"
	}
	return labelStyle.Render("Format") + failStyle.Render(status)
}

func renderFailure(label string, outcome entity.Outcome) string {
	message := string(outcome.Reason())
	if outcome.Failure.Message != "" {
		message += ": " + outcome.Failure.Message
	}
	return labelStyle.Render(label) + failStyle.Render("✗ "+message)
}

func renderOutcome(outcome entity.Outcome, fields []field) []string {
	if !outcome.OK() {
		return []string{renderFailure(string(outcome.Kind), outcome)}
	}
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, row(f.label, outcome.String(f.key)))
	}
	return lines
}

func renderRecords(outcome entity.Outcome) []string {
	label := outcome.RecordType
	if !outcome.OK() {
		return []string{renderFailure(label, outcome)}
	}
	records := outcome.Strings(entity.FieldRecords)
	lines := make([]string, 0, len(records))
	for i, record := range records {
		if i > 0 {
			label = ""
		}
		lines = append(lines, labelStyle.Render(label)+okStyle.Render(record))
	}
	return lines
}
