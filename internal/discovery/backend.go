package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Backend is a console backend found on the local network.
type Backend struct {
	// Instance is the advertised service instance name (e.g., "lab-console")
	Instance string

	// Host is the mDNS hostname (e.g., "lab.local.")
	Host string

	// IP is the address to connect to, IPv4 preferred
	IP string

	// Port is the HTTP port of the backend
	Port int

	// Path is the URL prefix of the action endpoints, from the "path" TXT record
	Path string

	// Transport is "http" or "websocket", from the "transport" TXT record
	Transport string

	// Metadata contains all TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the backend was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the backend
func (b *Backend) String() string {
	return fmt.Sprintf("%s (%s) at %s via %s", b.Instance, b.Host, b.URL(), b.Transport)
}

// URL returns the base URL of the backend, without the /action suffix.
func (b *Backend) URL() string {
	path := strings.TrimRight(b.Path, "/")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "http://" + net.JoinHostPort(b.IP, strconv.Itoa(b.Port)) + path
}
