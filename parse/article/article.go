// Package article fetches an article page and turns its body into tokens.
package article

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/awaketai/news-aggregator/collect"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// nonContentSelectors lists elements stripped before body text is read.
const nonContentSelectors = "script, style, noscript, nav, header, footer"

// Tokenizer implements collect.TokenSource.
type Tokenizer struct {
	fetcher collect.Fetcher
	logger  *zap.Logger
}

func NewTokenizer(fetcher collect.Fetcher, logger *zap.Logger) *Tokenizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tokenizer{
		fetcher: fetcher,
		logger:  logger,
	}
}

func (t *Tokenizer) Tokens(ctx context.Context, url string) ([]string, error) {
	body, err := t.fetcher.Get(ctx, url)
	if err != nil {
		return nil, &collect.DocumentError{URL: url, Err: fmt.Errorf("fetch: %w", err)}
	}
	text, err := BodyText(body)
	if err != nil {
		return nil, &collect.DocumentError{URL: url, Err: err}
	}
	tokens := Tokenize(text)
	t.logger.Debug("article tokenized", zap.String("url", url), zap.Int("tokens", len(tokens)))

	return tokens, nil
}

// BodyText returns the readable text of an HTML page, preferring <article>
// over <body>.
func BodyText(page []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find(nonContentSelectors).Remove()

	root := doc.Find("article")
	if root.Length() == 0 {
		root = doc.Find("body")
	}
	var b strings.Builder
	collectText(root, &b)
	return b.String(), nil
}

// collectText writes every text node under sel, space separated, so words in
// adjacent block elements do not run together.
func collectText(sel *goquery.Selection, b *strings.Builder) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "#text" {
			b.WriteString(s.Text())
			b.WriteByte(' ')
			return
		}
		collectText(s, b)
	})
}

// Tokenize splits text on anything that is not a letter or digit and
// normalizes each word. Repeated words are kept.
func Tokenize(text string) []string {
	words := strings.FieldsFunc(norm.NFC.String(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if tok := Normalize(w); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Normalize is the canonical form shared by indexing and querying.
func Normalize(word string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(word)))
}
