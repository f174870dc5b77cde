package domainservice

import (
	"sort"
	"strings"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
)

// CallingCode maps an international prefix to a country
type CallingCode struct {
	Prefix  string
	Country string
}

// DefaultCallingCodes is the built-in calling code table
var DefaultCallingCodes = []CallingCode{
	{"+1", "United States/Canada"},
	{"+44", "United Kingdom"},
	{"+91", "India"},
	{"+86", "China"},
	{"+81", "Japan"},
	{"+49", "Germany"},
	{"+33", "France"},
	{"+966", "Saudi Arabia"},
	{"+971", "UAE"},
}

// sortedCallingCodes orders prefixes longest first so matching does not
// depend on table order
func sortedCallingCodes(codes []CallingCode) []CallingCode {
	sorted := make([]CallingCode, len(codes))
	copy(sorted, codes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return sorted
}

// AnalyzePhone cleans a phone number and detects its calling code
func (v *Validator) AnalyzePhone(phone string) entity.PhoneAnalysis {
	phone = strings.TrimSpace(phone)
	analysis := entity.PhoneAnalysis{Cleaned: cleanPhone(phone)}

	if !strings.HasPrefix(phone, "+") {
		return analysis
	}

	analysis.HasCountryCode = true
	for _, code := range v.phoneCodes {
		if strings.HasPrefix(analysis.Cleaned, code.Prefix) {
			analysis.CallingCode = code.Prefix
			analysis.Country = code.Country
			break
		}
	}
	return analysis
}

// cleanPhone keeps digits and a single leading plus sign
func cleanPhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	if strings.HasPrefix(phone, "+") {
		b.WriteByte('+')
	}
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
