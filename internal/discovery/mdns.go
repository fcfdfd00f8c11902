package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/consolekit/internal/logging"
)

const (
	// ServiceType is the mDNS service type advertised by console backends
	ServiceType = "_consolekit._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for backend discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is used when an entry carries no port
	DefaultPort = 8088

	defaultTransport = "http"
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

// Scan browses for backends until the timeout or ctx ends and returns what
// it found, sorted by instance name. Each instance is reported once.
func (s *Scanner) Scan(ctx context.Context) ([]*Backend, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	var (
		mu    sync.Mutex
		found = make(map[string]*Backend)
	)
	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		for entry := range entries {
			b := parseServiceEntry(entry)
			if b == nil {
				continue
			}
			logging.Debug("Backend discovered",
				zap.String("instance", b.Instance),
				zap.String("url", b.URL()),
			)
			mu.Lock()
			found[b.Instance] = b
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	backends := make([]*Backend, 0, len(found))
	for _, b := range found {
		backends = append(backends, b)
	}
	sort.Slice(backends, func(i, j int) bool { return backends[i].Instance < backends[j].Instance })
	return backends, nil
}

// First returns the first backend that answers, or an error when none does
// within the timeout.
func (s *Scanner) First(ctx context.Context) (*Backend, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	backendChan := make(chan *Backend, 1)
	go func() {
		for entry := range entries {
			if b := parseServiceEntry(entry); b != nil {
				select {
				case backendChan <- b:
					cancel()
				default:
				}
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case b := <-backendChan:
		return b, nil
	case <-ctx.Done():
		// the browse goroutine may have won the race with the timeout
		select {
		case b := <-backendChan:
			return b, nil
		default:
		}
		return nil, fmt.Errorf("no %s backend found within %s", ServiceType, s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Backend.
// Returns nil if the entry has no instance name or no address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Backend {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	// prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	transport := strings.ToLower(metadata["transport"])
	if transport == "" {
		transport = defaultTransport
	}

	return &Backend{
		Instance:     entry.Instance,
		Host:         entry.HostName,
		IP:           ip,
		Port:         port,
		Path:         metadata["path"],
		Transport:    transport,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Announce registers a backend on all interfaces. The returned function
// withdraws the announcement.
func Announce(instance string, port int, txt []string) (func(), error) {
	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}
	logging.Info("Announcing backend via mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)
	return server.Shutdown, nil
}

// TXTRecords builds the TXT records Announce publishes for a backend.
func TXTRecords(path, transport string) []string {
	txt := []string{"transport=" + transport}
	if path != "" {
		txt = append(txt, "path="+path)
	}
	return txt
}
