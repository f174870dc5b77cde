package application

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
	"github.com/WangYihang/OSINT-Lab/pkg/domain/service"
)

// errUnsupportedRecordType marks record types the analyzer never queries
var errUnsupportedRecordType = errors.New("unsupported record type")

// dispatch runs one lookup under the uniform timeout and records its outcome
func (uc *LookupUseCase) dispatch(
	ctx context.Context,
	kind entity.LookupKind,
	query, recordType string,
	lookup func(ctx context.Context) entity.Outcome,
) entity.Outcome {
	if uc.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	outcome := lookup(ctx)
	outcome.Kind = kind
	outcome.Query = query
	outcome.RecordType = recordType
	outcome.Duration = time.Since(start)

	uc.record(outcome)
	return outcome
}

// Geolocate queries the geolocation service for ip
func (uc *LookupUseCase) Geolocate(ctx context.Context, ip string) entity.Outcome {
	return uc.dispatch(ctx, entity.LookupGeolocation, ip, "", func(ctx context.Context) entity.Outcome {
		loc, err := uc.geo.Locate(ctx, ip)
		if err != nil {
			var transportErr *service.TransportError
			if errors.As(err, &transportErr) {
				return entity.Fail(entity.LookupGeolocation, ip, entity.ReasonNetworkError, err)
			}
			return entity.Fail(entity.LookupGeolocation, ip, entity.ReasonLookupFailed, err)
		}

		return entity.Succeed(entity.LookupGeolocation, ip, map[string]any{
			entity.FieldCountry:  loc.Country,
			entity.FieldRegion:   loc.Region,
			entity.FieldCity:     loc.City,
			entity.FieldZip:      loc.Zip,
			entity.FieldISP:      loc.ISP,
			entity.FieldTimezone: loc.Timezone,
			entity.FieldOrg:      loc.Org,
			entity.FieldAS:       loc.AS,
		})
	})
}

// ResolveHostname resolves domain with the system resolver.
// The first IPv4 address is preferred, as gethostbyname would return.
func (uc *LookupUseCase) ResolveHostname(ctx context.Context, domain string) entity.Outcome {
	return uc.dispatch(ctx, entity.LookupHostname, domain, "", func(ctx context.Context) entity.Outcome {
		addrs, err := uc.hosts.LookupHost(ctx, domain)
		if err != nil {
			return entity.Fail(entity.LookupHostname, domain, entity.ReasonResolutionFailed, err)
		}
		if len(addrs) == 0 {
			return entity.Fail(entity.LookupHostname, domain, entity.ReasonResolutionFailed, fmt.Errorf("no addresses for %s", domain))
		}

		return entity.Succeed(entity.LookupHostname, domain, map[string]any{
			entity.FieldAddress:   firstAddress(addrs),
			entity.FieldAddresses: addrs,
		})
	})
}

func firstAddress(addrs []string) string {
	for _, addr := range addrs {
		if ip := net.ParseIP(addr); ip != nil && ip.To4() != nil {
			return addr
		}
	}
	return addrs[0]
}

// ResolveDNSRecords queries one record type for domain.
// Every resolver failure collapses to NotFound.
func (uc *LookupUseCase) ResolveDNSRecords(ctx context.Context, domain, recordType string) entity.Outcome {
	return uc.dispatch(ctx, entity.LookupDNS, domain, recordType, func(ctx context.Context) entity.Outcome {
		if !supportedRecordType(recordType) {
			return entity.Fail(entity.LookupDNS, domain, entity.ReasonInvalidFormat,
				fmt.Errorf("%w: %s", errUnsupportedRecordType, recordType))
		}

		resolution, err := uc.resolver.Query(ctx, domain, recordType)
		if err != nil {
			return entity.Fail(entity.LookupDNS, domain, entity.ReasonNotFound, err)
		}

		return entity.Succeed(entity.LookupDNS, domain, map[string]any{
			entity.FieldRecords: resolution.Records,
		})
	})
}

func supportedRecordType(recordType string) bool {
	for _, t := range entity.DNSRecordTypes {
		if t == recordType {
			return true
		}
	}
	return false
}

// LookupWHOIS queries the registration record of domain
func (uc *LookupUseCase) LookupWHOIS(ctx context.Context, domain string) entity.Outcome {
	return uc.dispatch(ctx, entity.LookupWhois, domain, "", func(ctx context.Context) entity.Outcome {
		record, err := uc.whois.Lookup(ctx, domain)
		if err != nil {
			return entity.Fail(entity.LookupWhois, domain, entity.ReasonWhoisFailed, err)
		}

		return entity.Succeed(entity.LookupWhois, domain, map[string]any{
			entity.FieldDomainName:     record.DomainName,
			entity.FieldRegistrar:      record.Registrar,
			entity.FieldCreationDate:   record.CreationDate,
			entity.FieldExpirationDate: record.ExpirationDate,
			entity.FieldNameServers:    record.NameServers,
		})
	})
}
