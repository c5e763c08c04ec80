package collect

import (
	"time"

	"github.com/awaketai/news-aggregator/proxy"
	"go.uber.org/zap"
)

type options struct {
	Timeout   time.Duration // 0 表示不超时
	UserAgent string
	Proxy     proxy.ProxyFunc
	Logger    *zap.Logger
}

var defaultOptions = options{
	UserAgent: defaultUserAgent,
	Logger:    zap.NewNop(),
}

type Option func(options *options)

func WithLogger(logger *zap.Logger) Option {
	return func(options *options) {
		options.Logger = logger
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(options *options) {
		options.Timeout = timeout
	}
}

func WithUserAgent(userAgent string) Option {
	return func(options *options) {
		if userAgent != "" {
			options.UserAgent = userAgent
		}
	}
}

func WithProxy(proxy proxy.ProxyFunc) Option {
	return func(options *options) {
		options.Proxy = proxy
	}
}
