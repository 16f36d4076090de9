package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Backend is a todo backend found on the local network
type Backend struct {
	// Instance is the advertised service instance name (e.g., "todos on nas")
	Instance string

	// Hostname is the mDNS hostname (e.g., "nas.local.")
	Hostname string

	// IP is the address to connect to, IPv4 when one was advertised
	IP string

	// Port is the HTTP port
	Port int

	// Metadata contains the TXT record data ("path", "version")
	Metadata map[string]string

	// DiscoveredAt is when the backend was seen
	DiscoveredAt time.Time
}

// String returns a human-readable description of the backend
func (b *Backend) String() string {
	return fmt.Sprintf("%s (%s) at %s", b.Instance, b.Hostname, b.URL())
}

// URL returns the base URL the todo client should use
func (b *Backend) URL() string {
	u := "http://" + net.JoinHostPort(b.IP, strconv.Itoa(b.Port))
	if path := strings.TrimRight(b.GetMetadata("path"), "/"); path != "" {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		u += path
	}
	return u
}

// ProfileName derives a config profile name from the instance name
func (b *Backend) ProfileName() string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(b.Instance) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		case !lastDash:
			sb.WriteByte('-')
			lastDash = true
		}
	}
	name := strings.Trim(sb.String(), "-")
	if name == "" {
		return "discovered"
	}
	return name
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (b *Backend) GetMetadata(key string) string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata[key]
}
