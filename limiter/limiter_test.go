package limiter

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHost(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "http://www.example.com/a/b", "www.example.com"},
		{"upper", "HTTPS://News.Example.COM/x?y=1", "news.example.com"},
		{"port", "http://example.com:8080/path", "example.com:8080"},
		{"userinfo", "http://user:pw@example.com/path", "example.com"},
		{"no scheme", "example.com/a/b", "example.com"},
		{"bare host", "Example.com", "example.com"},
		{"query only", "example.com?x=1", "example.com"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Host(tt.in))
		})
	}
}

func TestPoolBlocksWhenExhausted(t *testing.T) {
	p := NewPool(2)
	require.Equal(t, 2, p.Size())
	require.NoError(t, p.Acquire(context.Background()))
	require.NoError(t, p.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Acquire(ctx), context.DeadlineExceeded)

	p.Release()
	ctx, cancel = context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, p.Acquire(ctx))
}

func TestNewPoolMinimumSize(t *testing.T) {
	assert.Equal(t, 1, NewPool(0).Size())
	assert.Equal(t, 1, NewPool(-3).Size())
}

func TestHostLimiterCapsPerHost(t *testing.T) {
	const perHost = 3
	h := NewHostLimiter(perHost)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		current = map[string]int{}
		peak    = map[string]int{}
	)
	for i := 0; i < 40; i++ {
		host := []string{"a.com", "b.com"}[i%2]
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !assert.NoError(t, h.Acquire(context.Background(), host)) {
				return
			}
			mu.Lock()
			current[host]++
			if current[host] > peak[host] {
				peak[host] = current[host]
			}
			mu.Unlock()
			time.Sleep(2 * time.Millisecond)
			mu.Lock()
			current[host]--
			mu.Unlock()
			h.Release(host)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak["a.com"], perHost)
	assert.LessOrEqual(t, peak["b.com"], perHost)
	assert.Equal(t, []string{"a.com", "b.com"}, h.Hosts())
}

func TestHostLimiterHostsAreIndependent(t *testing.T) {
	h := NewHostLimiter(1)
	require.NoError(t, h.Acquire(context.Background(), "busy.com"))

	var acquired atomic.Bool
	done := make(chan struct{})
	go func() {
		defer close(done)
		if h.Acquire(context.Background(), "free.com") == nil {
			acquired.Store(true)
			h.Release("free.com")
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("a full pool for one host blocked another host")
	}
	assert.True(t, acquired.Load())
	h.Release("busy.com")
}
