package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

const domainLookupTimeout = 3 * time.Second

// IsEmailDomainValid reports whether the address's domain has a mail
// exchanger or at least resolves to a host. A lookup that times out counts
// as invalid.
func IsEmailDomainValid(ctx context.Context, email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := strings.TrimSuffix(email[at+1:], ".")

	ctx, cancel := context.WithTimeout(ctx, domainLookupTimeout)
	defer cancel()

	r := net.DefaultResolver
	if mx, err := r.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	if addrs, err := r.LookupHost(ctx, domain); err == nil && len(addrs) > 0 {
		return true
	}
	return false
}
