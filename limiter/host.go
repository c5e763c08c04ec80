package limiter

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// HostLimiter maps an origin host to its own Pool, created on first use.
// The table lock is only held for lookup-or-insert, never while waiting.
type HostLimiter struct {
	perHost int
	mu      sync.Mutex
	pools   map[string]*Pool
}

func NewHostLimiter(perHost int) *HostLimiter {
	return &HostLimiter{
		perHost: perHost,
		pools:   make(map[string]*Pool),
	}
}

func (h *HostLimiter) pool(host string) *Pool {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.pools[host]
	if !ok {
		p = NewPool(h.perHost)
		h.pools[host] = p
	}
	return p
}

func (h *HostLimiter) Acquire(ctx context.Context, host string) error {
	return h.pool(host).Acquire(ctx)
}

// Release must pair with a successful Acquire for the same host.
func (h *HostLimiter) Release(host string) {
	h.pool(host).Release()
}

// Hosts returns every host seen so far, sorted.
func (h *HostLimiter) Hosts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	hosts := make([]string, 0, len(h.pools))
	for host := range h.pools {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)
	return hosts
}

// Host returns the lower-cased authority of rawURL. Input without a scheme
// is cut at the first slash.
func Host(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return strings.ToLower(u.Host)
	}
	if i := strings.Index(rawURL, "://"); i >= 0 {
		rawURL = rawURL[i+3:]
	}
	if i := strings.IndexAny(rawURL, "/?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	if i := strings.LastIndex(rawURL, "@"); i >= 0 {
		rawURL = rawURL[i+1:]
	}
	return strings.ToLower(rawURL)
}
