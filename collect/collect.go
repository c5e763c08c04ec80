package collect

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; news-aggregator/1.0; +https://github.com/awaketai/news-aggregator)"

type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// BrowserFetch fetches documents over HTTP(S) and decodes them to UTF-8.
// Local paths and file:// URIs are read from disk.
type BrowserFetch struct {
	client *http.Client
	options
}

func NewBrowserFetch(opts ...Option) *BrowserFetch {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	client := &http.Client{
		Timeout: options.Timeout,
	}
	// 设置代理服务
	if options.Proxy != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = options.Proxy
		client.Transport = transport
	}

	return &BrowserFetch{
		client:  client,
		options: options,
	}
}

func (b *BrowserFetch) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if path, ok := localPath(rawURL); ok {
		return b.readFile(path)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	request.Header.Set("User-Agent", b.UserAgent)
	resp, err := b.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b.Logger.Debug("unexpected http status",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("error http status:%v", resp.Status)
	}

	return decode(resp.Body, resp.Header.Get("Content-Type"))
}

func (b *BrowserFetch) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return decode(f, "")
}

func decode(r io.Reader, contentType string) ([]byte, error) {
	bodyReader := bufio.NewReader(r)
	e := DetermineEncoding(bodyReader, contentType)
	utf8Reader := transform.NewReader(bodyReader, e.NewDecoder())

	return io.ReadAll(utf8Reader)
}

// DetermineEncoding sniffs the first KiB of r without consuming it.
func DetermineEncoding(r *bufio.Reader, contentType string) encoding.Encoding {
	bytes, err := r.Peek(1024)
	if err != nil && len(bytes) == 0 {
		return unicode.UTF8
	}
	e, _, _ := charset.DetermineEncoding(bytes, contentType)
	return e
}

func localPath(rawURL string) (string, bool) {
	if strings.HasPrefix(rawURL, "file://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", false
		}
		return u.Path, true
	}
	if strings.Contains(rawURL, "://") {
		return "", false
	}

	return rawURL, true
}
