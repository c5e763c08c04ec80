package aggregate

import (
	"context"
	"fmt"
	"io"

	"github.com/awaketai/news-aggregator/collect"
	"github.com/awaketai/news-aggregator/config"
	"github.com/awaketai/news-aggregator/engine"
	"github.com/awaketai/news-aggregator/index"
	cLog "github.com/awaketai/news-aggregator/log"
	"github.com/awaketai/news-aggregator/metrics"
	"github.com/awaketai/news-aggregator/output"
	"github.com/awaketai/news-aggregator/parse/article"
	"github.com/awaketai/news-aggregator/parse/rss"
	"github.com/awaketai/news-aggregator/proxy"
	"github.com/awaketai/news-aggregator/query"
	"github.com/awaketai/news-aggregator/server"
	"go.uber.org/zap"
)

// IO is where the run talks to the user.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run crawls every feed named by the feed list at uri, then answers queries
// read from stdio.In until an empty line or end of input. A feed list that
// cannot be loaded ends the run early without an error.
func Run(ctx context.Context, cfg config.Config, uri string, stdio IO) error {
	logger, closer, err := cLog.FromConfig(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	defer logger.Sync()
	logger.Info("news aggregator start", zap.String("feed_list", uri))

	fetcher, err := newFetcher(cfg, logger)
	if err != nil {
		return err
	}
	parser := rss.NewParser(fetcher, logger)
	m := metrics.New()

	if cfg.MetricsAddr != "" {
		srvCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = server.RunHTTPServer(srvCtx, server.NewHTTPServer(cfg.MetricsAddr, m, logger), logger)
		}()
		defer func() {
			cancel()
			<-done
		}()
	}

	feeds, err := parser.ParseFeedList(ctx, uri)
	if err != nil {
		logger.Error("ran into trouble while pulling full RSS feed list, aborting",
			zap.String("uri", uri),
			zap.Error(err),
		)
		fmt.Fprintln(stdio.Err, "Aborting....")
		return nil
	}
	logger.Info("feed list loaded", zap.Int("feeds", len(feeds)))

	idx := index.New()
	crawler, err := engine.NewCrawler(
		engine.WithFeedSource(parser),
		engine.WithTokenSource(article.NewTokenizer(fetcher, logger)),
		engine.WithIndex(idx),
		engine.WithMaxFeeds(cfg.MaxFeeds),
		engine.WithMaxTasks(cfg.MaxTasks),
		engine.WithMaxPerHost(cfg.MaxPerHost),
		engine.WithReload(cfg.Reload),
		engine.WithConsole(output.NewConsole(stdio.Out)),
		engine.WithMetrics(m),
		engine.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	report := crawler.Run(ctx, feeds)
	report.Render(stdio.Err)

	fmt.Fprintln(stdio.Out)
	if err := query.New(idx, article.Normalize).Loop(stdio.In, stdio.Out); err != nil {
		logger.Warn("read query failed", zap.Error(err))
	}
	fmt.Fprintln(stdio.Out, "Exiting....")
	return nil
}

func newFetcher(cfg config.Config, logger *zap.Logger) (*collect.BrowserFetch, error) {
	opts := []collect.Option{
		collect.WithLogger(logger),
		collect.WithTimeout(cfg.FetchTimeout()),
		collect.WithUserAgent(cfg.UserAgent),
	}
	if len(cfg.Proxies) > 0 {
		p, err := proxy.RoundRobinProxySwitcher(cfg.Proxies...)
		if err != nil {
			return nil, fmt.Errorf("proxy: %w", err)
		}
		opts = append(opts, collect.WithProxy(p))
	}
	return collect.NewBrowserFetch(opts...), nil
}
