package engine

import (
	"github.com/awaketai/news-aggregator/collect"
	"github.com/awaketai/news-aggregator/metrics"
	"github.com/awaketai/news-aggregator/output"
	"go.uber.org/zap"
)

const (
	DefaultMaxFeeds   = 8  // feeds downloading at once
	DefaultMaxTasks   = 64 // article fetches in flight overall
	DefaultMaxPerHost = 12 // article fetches in flight per host
)

type Option func(opt *options)

type options struct {
	MaxFeeds    int
	MaxTasks    int
	MaxPerHost  int
	FeedSource  collect.FeedSource
	TokenSource collect.TokenSource
	Index       Indexer
	Logger      *zap.Logger
	Console     *output.Console
	Metrics     *metrics.Metrics
	// Reload 同一 URL 出现在多个 feed 中时是否重复抓取
	Reload bool
}

var defaultOptions = options{
	MaxFeeds:   DefaultMaxFeeds,
	MaxTasks:   DefaultMaxTasks,
	MaxPerHost: DefaultMaxPerHost,
	Logger:     zap.NewNop(),
}

func WithLogger(logger *zap.Logger) Option {
	return func(opt *options) {
		opt.Logger = logger
	}
}

func WithMaxFeeds(n int) Option {
	return func(opt *options) {
		opt.MaxFeeds = n
	}
}

func WithMaxTasks(n int) Option {
	return func(opt *options) {
		opt.MaxTasks = n
	}
}

func WithMaxPerHost(n int) Option {
	return func(opt *options) {
		opt.MaxPerHost = n
	}
}

func WithFeedSource(source collect.FeedSource) Option {
	return func(opt *options) {
		opt.FeedSource = source
	}
}

func WithTokenSource(source collect.TokenSource) Option {
	return func(opt *options) {
		opt.TokenSource = source
	}
}

func WithIndex(index Indexer) Option {
	return func(opt *options) {
		opt.Index = index
	}
}

func WithConsole(console *output.Console) Option {
	return func(opt *options) {
		opt.Console = console
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(opt *options) {
		opt.Metrics = m
	}
}

func WithReload(reload bool) Option {
	return func(opt *options) {
		opt.Reload = reload
	}
}
