package dns

import (
	"context"
	"net"
)

// HostResolver implements service.HostResolver with the system resolver,
// which also honours /etc/hosts like gethostbyname does
type HostResolver struct {
	resolver *net.Resolver
}

// NewHostResolver creates a system hostname resolver
func NewHostResolver() *HostResolver {
	return &HostResolver{resolver: net.DefaultResolver}
}

// LookupHost implements service.HostResolver
func (h *HostResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	return h.resolver.LookupHost(ctx, host)
}
