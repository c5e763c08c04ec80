package proxy

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
)

var ErrNoProxy = errors.New("proxy URL list empty")

type ProxyFunc func(*http.Request) (*url.URL, error)

// RoundRobinProxySwitcher rotates outgoing requests across proxyURLs.
// Blank entries are ignored.
func RoundRobinProxySwitcher(proxyURLs ...string) (ProxyFunc, error) {
	urls := make([]*url.URL, 0, len(proxyURLs))
	for _, u := range proxyURLs {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		parsedU, err := url.Parse(u)
		if err != nil {
			return nil, fmt.Errorf("parse proxy %q: %w", u, err)
		}
		if parsedU.Scheme == "" || parsedU.Host == "" {
			return nil, fmt.Errorf("proxy %q: scheme and host required", u)
		}
		urls = append(urls, parsedU)
	}
	if len(urls) == 0 {
		return nil, ErrNoProxy
	}

	return (&roundRobinSwitcher{proxyURLs: urls}).GetProxy, nil
}

type roundRobinSwitcher struct {
	proxyURLs []*url.URL
	index     atomic.Uint32
}

func (r *roundRobinSwitcher) GetProxy(_ *http.Request) (*url.URL, error) {
	index := r.index.Add(1) - 1
	u := r.proxyURLs[index%uint32(len(r.proxyURLs))]

	return u, nil
}
