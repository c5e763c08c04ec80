// Package query runs the interactive search loop over a finished index.
package query

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/awaketai/news-aggregator/index"
	"github.com/awaketai/news-aggregator/output"
)

// MaxMatchesToShow caps how many ranked matches are printed per query.
const MaxMatchesToShow = 15

const prompt = "Enter a search term [or just hit <enter> to quit]: "

// Searcher is the read side of the index.
type Searcher interface {
	Query(term string) []index.Match
}

type Engine struct {
	searcher  Searcher
	normalize func(string) string
}

// New returns an Engine over s. normalize is applied to each term before
// lookup and may be nil.
func New(s Searcher, normalize func(string) string) *Engine {
	if normalize == nil {
		normalize = func(term string) string { return term }
	}
	return &Engine{
		searcher:  s,
		normalize: normalize,
	}
}

// Loop prompts on out and answers each line read from in. It returns on an
// empty line or end of input.
func (e *Engine) Loop(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		response := strings.TrimSpace(line)
		if response == "" {
			return nil
		}
		e.Answer(out, response)
	}
}

// Answer prints the ranked matches for one term.
func (e *Engine) Answer(out io.Writer, term string) {
	matches := e.searcher.Query(e.normalize(term))
	if len(matches) == 0 {
		fmt.Fprintf(out, "Ah, we didn't find the term \"%s\". Try again.\n", term)
		return
	}

	fmt.Fprintf(out, "That term appears in %d article%s.  ", len(matches), plural(len(matches)))
	if len(matches) > MaxMatchesToShow {
		fmt.Fprintf(out, "Here are the top %d of them:\n", MaxMatchesToShow)
	} else {
		fmt.Fprintln(out, "Here they are:")
	}
	for i, m := range matches {
		if i == MaxMatchesToShow {
			break
		}
		times := "time"
		if m.Count != 1 {
			times = "times"
		}
		fmt.Fprintf(out, "  %2d.) \"%s\" [appears %d %s].\n", i+1, output.Truncate(m.Article.Title), m.Count, times)
		fmt.Fprintf(out, "       \"%s\"\n", output.Truncate(m.Article.URL))
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
