package collect

import "context"

// Article 单篇新闻，URL 即身份
type Article struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Feed 订阅源
type Feed struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type FeedListSource interface {
	ParseFeedList(ctx context.Context, uri string) ([]Feed, error)
}

type FeedSource interface {
	ParseFeed(ctx context.Context, url string) ([]Article, error)
}

type TokenSource interface {
	Tokens(ctx context.Context, url string) ([]string, error)
}
