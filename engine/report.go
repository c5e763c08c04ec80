package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/awaketai/news-aggregator/collect"
	"github.com/awaketai/news-aggregator/output"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type ArticleResult struct {
	Article collect.Article
	Tokens  int
	// Skipped 已在其他 feed 中抓取过
	Skipped bool
	Err     error
}

type FeedResult struct {
	Feed     collect.Feed
	Articles []ArticleResult
	Err      error
}

// Report is the outcome of one Run, one entry per input feed in input order.
type Report struct {
	ID      string
	Feeds   []FeedResult
	Elapsed time.Duration
}

type Summary struct {
	FeedsOK         int
	FeedsFailed     int
	ArticlesOK      int
	ArticlesFailed  int
	ArticlesSkipped int
	Tokens          int
}

func (r *Report) Summary() Summary {
	var s Summary
	for _, f := range r.Feeds {
		if f.Err != nil {
			s.FeedsFailed++
			continue
		}
		s.FeedsOK++
		for _, a := range f.Articles {
			switch {
			case a.Skipped:
				s.ArticlesSkipped++
			case a.Err != nil:
				s.ArticlesFailed++
			default:
				s.ArticlesOK++
				s.Tokens += a.Tokens
			}
		}
	}
	return s
}

// Render writes a per-feed table followed by the run totals.
func (r *Report) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	style := table.StyleLight
	style.Format.Footer = text.FormatDefault
	t.SetStyle(style)
	t.AppendHeader(table.Row{"Feed", "Status", "Indexed", "Failed", "Skipped", "Tokens"})
	for _, f := range r.Feeds {
		if f.Err != nil {
			t.AppendRow(table.Row{output.Truncate(f.Feed.URL), "failed", 0, 0, 0, 0})
			continue
		}
		one := (&Report{Feeds: []FeedResult{f}}).Summary()
		t.AppendRow(table.Row{output.Truncate(f.Feed.URL), "ok", one.ArticlesOK, one.ArticlesFailed, one.ArticlesSkipped, one.Tokens})
	}
	s := r.Summary()
	t.AppendFooter(table.Row{"Total", fmt.Sprintf("%d ok, %d failed", s.FeedsOK, s.FeedsFailed), s.ArticlesOK, s.ArticlesFailed, s.ArticlesSkipped, s.Tokens})
	t.SetCaption("run %s finished in %s", r.ID, r.Elapsed.Round(time.Millisecond))
	t.Render()
}
