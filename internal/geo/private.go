package geo

import (
	"net/netip"
)

// Documentation and benchmark ranges are not flagged by the netip
// helpers, so they are matched explicitly.
var documentationRanges = []netip.Prefix{
	netip.MustParsePrefix("192.0.2.0/24"),    // TEST-NET-1
	netip.MustParsePrefix("198.51.100.0/24"), // TEST-NET-2
	netip.MustParsePrefix("203.0.113.0/24"),  // TEST-NET-3
	netip.MustParsePrefix("198.18.0.0/15"),   // benchmarking
	netip.MustParsePrefix("2001:db8::/32"),
}

// IsPrivate reports whether the address must never be sent to the
// geolocation service: RFC1918 and ULA space, loopback, link-local,
// unspecified, and the documentation/test ranges.
func IsPrivate(addr netip.Addr) bool {
	if addr.IsPrivate() || addr.IsLoopback() || addr.IsUnspecified() {
		return true
	}
	if addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() {
		return true
	}
	for _, p := range documentationRanges {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
