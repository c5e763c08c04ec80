package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/awaketai/news-aggregator/collect"
	"github.com/awaketai/news-aggregator/limiter"
	"github.com/awaketai/news-aggregator/metrics"
	"github.com/awaketai/news-aggregator/output"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Indexer receives the tokens of every article fetched successfully.
// Add is called concurrently.
type Indexer interface {
	Add(article collect.Article, tokens []string)
}

// Crawler fans out from feeds to articles under three limits: feeds being
// downloaded, article fetches in flight overall, and article fetches in
// flight per origin host. A failing feed or article is recorded and skipped;
// it never stops its siblings.
type Crawler struct {
	feeds *limiter.Pool
	tasks *limiter.Pool
	hosts *limiter.HostLimiter

	Visited     map[string]*visit
	VisitedLock sync.Mutex
	options
}

// visit is the claim on one article URL. done is closed once the owner's
// fetch has finished; ok reports whether it was indexed.
type visit struct {
	done chan struct{}
	ok   bool
}

func NewCrawler(opts ...Option) (*Crawler, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.FeedSource == nil || options.TokenSource == nil {
		return nil, errors.New("engine: feed source and token source are required")
	}
	if options.Index == nil {
		return nil, errors.New("engine: index is required")
	}
	if options.MaxFeeds < 1 || options.MaxTasks < 1 || options.MaxPerHost < 1 {
		return nil, fmt.Errorf("engine: limits must be positive (feeds=%d tasks=%d per-host=%d)",
			options.MaxFeeds, options.MaxTasks, options.MaxPerHost)
	}
	if options.Console == nil {
		options.Console = output.NewConsole(io.Discard)
	}
	c := &Crawler{
		feeds:   limiter.NewPool(options.MaxFeeds),
		tasks:   limiter.NewPool(options.MaxTasks),
		hosts:   limiter.NewHostLimiter(options.MaxPerHost),
		Visited: map[string]*visit{},
	}
	c.options = options

	return c, nil
}

// Run crawls every feed and returns once all feed and article tasks have
// finished. Cancelling ctx makes tasks still waiting for a permit give up;
// Run still waits for tasks already running.
func (c *Crawler) Run(ctx context.Context, feeds []collect.Feed) *Report {
	report := &Report{
		ID:    uuid.NewString(),
		Feeds: make([]FeedResult, len(feeds)),
	}
	logger := c.Logger.With(zap.String("run", report.ID))
	logger.Info("crawl start",
		zap.Int("feeds", len(feeds)),
		zap.Int("max_feeds", c.feeds.Size()),
		zap.Int("max_tasks", c.tasks.Size()),
	)
	start := time.Now()

	var g errgroup.Group
	for i, feed := range feeds {
		report.Feeds[i].Feed = feed
		if err := c.feeds.Acquire(ctx); err != nil {
			report.Feeds[i].Err = err
			logger.Warn("feed not started", zap.String("url", feed.URL), zap.Error(err))
			c.Metrics.FeedDone(metrics.ResultFailed)
			continue
		}
		g.Go(func() error {
			report.Feeds[i] = c.crawlFeed(ctx, logger, feed)
			return nil
		})
	}
	_ = g.Wait()

	report.Elapsed = time.Since(start)
	s := report.Summary()
	logger.Info("crawl end",
		zap.Duration("elapsed", report.Elapsed),
		zap.Int("feeds_ok", s.FeedsOK),
		zap.Int("feeds_failed", s.FeedsFailed),
		zap.Int("articles_ok", s.ArticlesOK),
		zap.Int("articles_failed", s.ArticlesFailed),
		zap.Int("hosts", len(c.Hosts())),
	)
	return report
}

// crawlFeed is entered holding a feed permit. The permit only covers the
// feed download; it is released before any article task starts.
func (c *Crawler) crawlFeed(ctx context.Context, logger *zap.Logger, feed collect.Feed) FeedResult {
	res := FeedResult{Feed: feed}
	c.Console.Lines("Begin full download of feed URI: " + feed.URL)

	articles, err := c.parseFeed(ctx, feed)
	c.feeds.Release()
	if err != nil {
		logger.Error("ran into trouble while pulling full RSS feed, aborting",
			zap.String("url", feed.URL),
			zap.Error(err),
		)
		res.Err = err
		c.Metrics.FeedDone(metrics.ResultFailed)
		return res
	}

	res.Articles = make([]ArticleResult, len(articles))
	var g errgroup.Group
	for i, article := range articles {
		g.Go(func() error {
			res.Articles[i] = c.visitArticle(ctx, logger, article)
			return nil
		})
	}
	_ = g.Wait()

	c.Console.Lines("End full download of feed URI: " + feed.URL)
	c.Metrics.FeedDone(metrics.ResultOK)
	return res
}

// visitArticle fetches article unless another listing of the same URL already
// has. A duplicate listing waits for the fetch in progress, holding no
// permits, and takes over the claim when that fetch fails.
func (c *Crawler) visitArticle(ctx context.Context, logger *zap.Logger, article collect.Article) ArticleResult {
	if c.Reload {
		return c.crawlArticle(ctx, logger, article)
	}
	for {
		v, owner := c.claim(article.URL)
		if owner {
			res := c.crawlArticle(ctx, logger, article)
			c.finish(article.URL, v, res.Err == nil)
			return res
		}
		select {
		case <-v.done:
		case <-ctx.Done():
			c.Metrics.ArticleDone(metrics.ResultFailed, 0, 0)
			return ArticleResult{Article: article, Err: ctx.Err()}
		}
		if v.ok {
			c.Metrics.ArticleDone(metrics.ResultSkipped, 0, 0)
			logger.Debug("article already crawled", zap.String("url", article.URL))
			return ArticleResult{Article: article, Skipped: true}
		}
	}
}

func (c *Crawler) crawlArticle(ctx context.Context, logger *zap.Logger, article collect.Article) (res ArticleResult) {
	res.Article = article
	host := limiter.Host(article.URL)

	// host permit first: a task never sits on a global permit while queued
	// behind a busy host
	if err := c.hosts.Acquire(ctx, host); err != nil {
		res.Err = err
		c.Metrics.ArticleDone(metrics.ResultFailed, 0, 0)
		return res
	}
	defer c.hosts.Release(host)
	if err := c.tasks.Acquire(ctx); err != nil {
		res.Err = err
		c.Metrics.ArticleDone(metrics.ResultFailed, 0, 0)
		return res
	}
	defer c.tasks.Release()

	c.Metrics.TaskStarted(host)
	defer c.Metrics.TaskFinished(host)

	c.Console.Lines(
		fmt.Sprintf(`  Parsing "%s"`, output.Truncate(article.Title)),
		fmt.Sprintf(`   [at "%s"]`, output.Truncate(article.URL)),
	)

	start := time.Now()
	tokens, err := c.fetchTokens(ctx, article)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		logger.Error("ran into trouble while pulling full html document, aborting",
			zap.String("url", article.URL),
			zap.Error(err),
		)
		res.Err = err
		c.Metrics.ArticleDone(metrics.ResultFailed, 0, elapsed)
		return res
	}

	c.Index.Add(article, tokens)
	res.Tokens = len(tokens)
	c.Metrics.ArticleDone(metrics.ResultOK, len(tokens), elapsed)
	return res
}

// parseFeed and fetchTokens turn a panicking source into an ordinary error
// so that it stays confined to its own feed or article.
func (c *Crawler) parseFeed(ctx context.Context, feed collect.Feed) (articles []collect.Article, err error) {
	defer recoverTo(&err)
	return c.FeedSource.ParseFeed(ctx, feed.URL)
}

func (c *Crawler) fetchTokens(ctx context.Context, article collect.Article) (tokens []string, err error) {
	defer recoverTo(&err)
	return c.TokenSource.Tokens(ctx, article.URL)
}

func recoverTo(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic: %v", r)
	}
}

// claim returns the visit for url and whether the caller owns it.
func (c *Crawler) claim(url string) (*visit, bool) {
	c.VisitedLock.Lock()
	defer c.VisitedLock.Unlock()
	if v, ok := c.Visited[url]; ok {
		return v, false
	}
	v := &visit{done: make(chan struct{})}
	c.Visited[url] = v
	return v, true
}

// finish settles the owner's claim. A failed URL is forgotten so the next
// listing of it fetches again.
func (c *Crawler) finish(url string, v *visit, ok bool) {
	c.VisitedLock.Lock()
	v.ok = ok
	if !ok {
		delete(c.Visited, url)
	}
	c.VisitedLock.Unlock()
	close(v.done)
}

// Hosts lists the origin hosts seen during the crawl.
func (c *Crawler) Hosts() []string {
	return c.hosts.Hosts()
}
