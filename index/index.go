// Package index holds the inverted index built during a crawl.
//
// Writers call Add concurrently while the crawl runs. Once every writer has
// returned the index is treated as frozen, and Query, Len and Articles read it
// without locking. Calling Query concurrently with Add is a data race.
package index

import (
	"sort"
	"sync"

	"github.com/awaketai/news-aggregator/collect"
)

// Match is one article containing a queried token.
type Match struct {
	Article collect.Article
	Count   int
}

type Index struct {
	mu sync.Mutex
	// token -> article url -> occurrences
	tokens   map[string]map[string]int
	articles map[string]collect.Article
}

func New() *Index {
	return &Index{
		tokens:   make(map[string]map[string]int),
		articles: make(map[string]collect.Article),
	}
}

// Add counts every token against article. Calling Add again for the same
// article URL accumulates onto the existing counts. The first title seen for
// a URL is kept.
func (i *Index) Add(article collect.Article, tokens []string) {
	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.articles[article.URL]; !ok {
		i.articles[article.URL] = article
	}
	for tok, n := range counts {
		docs, ok := i.tokens[tok]
		if !ok {
			docs = make(map[string]int)
			i.tokens[tok] = docs
		}
		docs[article.URL] += n
	}
}

// Query returns the articles containing term, most occurrences first. Ties
// are ordered by URL.
func (i *Index) Query(term string) []Match {
	docs := i.tokens[term]
	if len(docs) == 0 {
		return nil
	}
	matches := make([]Match, 0, len(docs))
	for url, n := range docs {
		matches = append(matches, Match{
			Article: i.articles[url],
			Count:   n,
		})
	}
	sort.Slice(matches, func(a, b int) bool {
		if matches[a].Count != matches[b].Count {
			return matches[a].Count > matches[b].Count
		}
		return matches[a].Article.URL < matches[b].Article.URL
	})
	return matches
}

// Len is the number of distinct tokens.
func (i *Index) Len() int {
	return len(i.tokens)
}

// Articles is the number of distinct article URLs indexed.
func (i *Index) Articles() int {
	return len(i.articles)
}
