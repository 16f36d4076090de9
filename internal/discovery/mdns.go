package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/todos/internal/logging"
)

const (
	// ServiceType is the mDNS service type todo backends advertise
	ServiceType = "_todos._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for backend discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is assumed when an entry carries no port
	DefaultPort = 3000
)

// Scanner handles mDNS backend discovery
type Scanner struct {
	// Timeout is the maximum time to wait for answers
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan browses for todo backends until the timeout or ctx ends and returns
// them sorted by instance name
func (s *Scanner) Scan(ctx context.Context) ([]*Backend, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	results := make(chan []*Backend, 1)
	go func() {
		results <- collect(ctx, entries)
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	backends := <-results
	logging.Debug("mDNS scan finished", zap.Int("found", len(backends)))
	return backends, nil
}

// collect reads entries until the channel closes or ctx ends. Repeated
// announcements of one instance keep the latest address.
func collect(ctx context.Context, entries <-chan *zeroconf.ServiceEntry) []*Backend {
	seen := make(map[string]*Backend)
	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return sortBackends(seen)
			}
			if b := parseServiceEntry(entry); b != nil {
				seen[b.Instance] = b
			}
		case <-ctx.Done():
			return sortBackends(seen)
		}
	}
}

func sortBackends(seen map[string]*Backend) []*Backend {
	out := make([]*Backend, 0, len(seen))
	for _, b := range seen {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Instance < out[j].Instance })
	return out
}

// parseServiceEntry converts a zeroconf service entry to a Backend.
// Returns nil if the entry has no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Backend {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	return &Backend{
		Instance:     unescapeInstance(entry.Instance),
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     parseTXT(entry.Text),
		DiscoveredAt: time.Now(),
	}
}

// parseTXT splits "key=value" TXT records; a bare key maps to ""
func parseTXT(records []string) map[string]string {
	metadata := make(map[string]string, len(records))
	for _, txt := range records {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}
	return metadata
}

// unescapeInstance removes DNS-SD escaping ("todos\ on\ nas")
func unescapeInstance(s string) string {
	return strings.ReplaceAll(s, `\`, "")
}

// Advertiser publishes a backend over mDNS until Shutdown is called
type Advertiser struct {
	server *zeroconf.Server
}

// Advertise announces a todo backend listening on port
func Advertise(instance string, port int, version string) (*Advertiser, error) {
	text := AdvertisedTXT(version)
	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, text, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	logging.Info("Advertising todo backend over mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)
	return &Advertiser{server: server}, nil
}

// AdvertisedTXT returns the TXT records published with the service
func AdvertisedTXT(version string) []string {
	return []string{"path=/", "version=" + version}
}

// Shutdown withdraws the announcement
func (a *Advertiser) Shutdown() {
	if a != nil && a.server != nil {
		a.server.Shutdown()
	}
}
