package application

import (
	"context"
	"strings"
	"time"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
	"golang.org/x/sync/errgroup"
)

// LookupIP runs the IP lookup tool. Validation is advisory; the
// geolocation service is queried either way.
func (uc *LookupUseCase) LookupIP(ctx context.Context, ip string) (*entity.IPReport, error) {
	target, err := entity.NewTarget(entity.KindIP, ip)
	if err != nil {
		return nil, err
	}

	report := &entity.IPReport{
		Target:      target,
		Validation:  uc.validator.ValidateIP(target.Value),
		Geolocation: uc.Geolocate(ctx, target.Value),
		CreatedAt:   time.Now(),
	}
	uc.saveReport(report)
	return report, nil
}

// AnalyzeDomain runs the domain analyzer: WHOIS, every DNS record type and
// hostname resolution, concurrently. Validation is advisory.
func (uc *LookupUseCase) AnalyzeDomain(ctx context.Context, domain string) (*entity.DomainReport, error) {
	target, err := entity.NewTarget(entity.KindDomain, domain)
	if err != nil {
		return nil, err
	}

	report := &entity.DomainReport{
		Target:     target,
		Validation: uc.validator.ValidateDomain(target.Value),
		DNS:        make([]entity.Outcome, len(entity.DNSRecordTypes)),
	}

	name := strings.ToLower(target.Value)
	if report.Validation.Valid {
		name = report.Validation.Normalized
	}

	whoisName := name
	if root, err := uc.validator.RegistrableDomain(name); err == nil {
		report.RegistrableDomain = root
		whoisName = root
	}

	var g errgroup.Group
	g.Go(func() error {
		report.Whois = uc.LookupWHOIS(ctx, whoisName)
		return nil
	})
	for i, recordType := range entity.DNSRecordTypes {
		i, recordType := i, recordType
		g.Go(func() error {
			report.DNS[i] = uc.ResolveDNSRecords(ctx, name, recordType)
			return nil
		})
	}
	g.Go(func() error {
		report.Address = uc.ResolveHostname(ctx, name)
		return nil
	})
	_ = g.Wait()

	report.CreatedAt = time.Now()
	uc.saveReport(report)
	return report, nil
}

// CheckEmail runs the email validator. The domain is only resolved when
// the address is well formed.
func (uc *LookupUseCase) CheckEmail(ctx context.Context, email string) (*entity.EmailReport, error) {
	target, err := entity.NewTarget(entity.KindEmail, email)
	if err != nil {
		return nil, err
	}

	report := &entity.EmailReport{
		Target:     target,
		Validation: uc.validator.ValidateEmail(target.Value),
	}

	if report.Validation.Valid {
		report.Domain = uc.validator.EmailDomain(target.Value)

		var address, mx entity.Outcome
		var g errgroup.Group
		g.Go(func() error {
			address = uc.ResolveHostname(ctx, report.Domain)
			return nil
		})
		g.Go(func() error {
			mx = uc.ResolveDNSRecords(ctx, report.Domain, "MX")
			return nil
		})
		_ = g.Wait()

		report.Address = &address
		report.MX = &mx
	}

	report.CreatedAt = time.Now()
	uc.saveReport(report)
	return report, nil
}

// SearchUsername builds the unverified profile URLs for a username
func (uc *LookupUseCase) SearchUsername(username string) (*entity.UsernameReport, error) {
	target, err := entity.NewTarget(entity.KindUsername, username)
	if err != nil {
		return nil, err
	}

	report := &entity.UsernameReport{
		Target:    target,
		Profiles:  uc.profiles.Build(target.Value),
		Verified:  false,
		CreatedAt: time.Now(),
	}
	uc.saveReport(report)
	return report, nil
}

// AnalyzePhone cleans a phone number and detects its country
func (uc *LookupUseCase) AnalyzePhone(phone string) (*entity.PhoneReport, error) {
	target, err := entity.NewTarget(entity.KindPhone, phone)
	if err != nil {
		return nil, err
	}

	report := &entity.PhoneReport{
		Target:    target,
		Analysis:  uc.validator.AnalyzePhone(target.Value),
		CreatedAt: time.Now(),
	}
	uc.saveReport(report)
	return report, nil
}

// Run dispatches a target to its tool and returns the tool's report
func (uc *LookupUseCase) Run(ctx context.Context, kind entity.TargetKind, value string) (any, error) {
	switch kind {
	case entity.KindIP:
		return uc.LookupIP(ctx, value)
	case entity.KindDomain:
		return uc.AnalyzeDomain(ctx, value)
	case entity.KindEmail:
		return uc.CheckEmail(ctx, value)
	case entity.KindUsername:
		return uc.SearchUsername(value)
	case entity.KindPhone:
		return uc.AnalyzePhone(value)
	default:
		_, err := entity.ParseTargetKind(string(kind))
		return nil, err
	}
}
