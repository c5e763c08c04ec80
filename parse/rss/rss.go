// Package rss reads the feed list and individual RSS/Atom feeds.
package rss

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/awaketai/news-aggregator/collect"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

// httpPrefix is the scheme prefix a GUID needs to stand in for a link.
const httpPrefix = "http"

// Parser implements collect.FeedListSource and collect.FeedSource.
type Parser struct {
	fetcher collect.Fetcher
	logger  *zap.Logger
}

func NewParser(fetcher collect.Fetcher, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{
		fetcher: fetcher,
		logger:  logger,
	}
}

// ParseFeedList reads the root document. Each item is a feed: its link is the
// feed URL and its title the feed title. Repeated feed URLs are dropped.
func (p *Parser) ParseFeedList(ctx context.Context, uri string) ([]collect.Feed, error) {
	items, err := p.parse(ctx, uri)
	if err != nil {
		return nil, &collect.FeedListError{URI: uri, Err: err}
	}
	seen := make(map[string]struct{}, len(items))
	feeds := make([]collect.Feed, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.URL]; ok {
			continue
		}
		seen[item.URL] = struct{}{}
		feeds = append(feeds, collect.Feed{URL: item.URL, Title: item.Title})
	}
	p.logger.Debug("feed list parsed", zap.String("uri", uri), zap.Int("feeds", len(feeds)))

	return feeds, nil
}

func (p *Parser) ParseFeed(ctx context.Context, feedURL string) ([]collect.Article, error) {
	items, err := p.parse(ctx, feedURL)
	if err != nil {
		return nil, &collect.FeedError{URL: feedURL, Err: err}
	}
	articles := make([]collect.Article, 0, len(items))
	for _, item := range items {
		articles = append(articles, collect.Article{Title: item.Title, URL: item.URL})
	}

	return articles, nil
}

type item struct {
	Title string
	URL   string
}

func (p *Parser) parse(ctx context.Context, uri string) ([]item, error) {
	body, err := p.fetcher.Get(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	return parseItems(uri, body)
}

// parseItems parses an RSS, Atom or JSON feed body. Items without a usable
// link are skipped; relative links are resolved against base.
func parseItems(base string, body []byte) ([]item, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	baseURL, _ := url.Parse(base)

	items := make([]item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		link := extractLink(entry)
		if link == "" {
			continue
		}
		items = append(items, item{
			Title: strings.TrimSpace(entry.Title),
			URL:   resolve(baseURL, link),
		})
	}

	return items, nil
}

// extractLink prefers the item link and falls back to a GUID that looks
// like a URL.
func extractLink(entry *gofeed.Item) string {
	if link := strings.TrimSpace(entry.Link); link != "" {
		return link
	}
	if guid := strings.TrimSpace(entry.GUID); strings.HasPrefix(guid, httpPrefix) {
		return guid
	}

	return ""
}

func resolve(base *url.URL, link string) string {
	ref, err := url.Parse(link)
	if err != nil || ref.IsAbs() || base == nil || !base.IsAbs() {
		return link
	}
	return base.ResolveReference(ref).String()
}
