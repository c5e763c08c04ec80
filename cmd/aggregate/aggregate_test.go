package aggregate

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/awaketai/news-aggregator/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func rssDoc(title string, items ...[2]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0"?><rss version="2.0"><channel><title>%s</title>`, title)
	for _, it := range items {
		fmt.Fprintf(&b, `<item><title>%s</title><link>%s</link></item>`, it[0], it[1])
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/feeds.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssDoc("feeds",
			[2]string{"tech", srv.URL + "/tech.xml"},
			[2]string{"broken", srv.URL + "/missing.xml"},
		))
	})
	mux.HandleFunc("/tech.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssDoc("tech",
			[2]string{"A", srv.URL + "/a"},
			[2]string{"B", srv.URL + "/b"},
		))
	})
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><body><p>Rust rust go</p></body></html>`)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><body><p>Go</p></body></html>`)
	})
	return srv
}

func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "newsagg.log")
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })
	return cfg
}

func TestRun(t *testing.T) {
	srv := newSite(t)
	var out, errOut bytes.Buffer
	stdio := IO{In: strings.NewReader("RUST\ngo\n\n"), Out: &out, Err: &errOut}

	err := Run(context.Background(), testConfig(t), srv.URL+"/feeds.xml", stdio)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Begin full download of feed URI: "+srv.URL+"/tech.xml\n")
	assert.Contains(t, text, "End full download of feed URI: "+srv.URL+"/tech.xml\n")
	assert.NotContains(t, text, "End full download of feed URI: "+srv.URL+"/missing.xml")
	assert.Contains(t, text, `  Parsing "A"`)
	assert.Contains(t, text, "That term appears in 1 article.  Here they are:\n   1.) \"A\" [appears 2 times].\n")
	assert.Contains(t, text, "That term appears in 2 articles.  Here they are:\n")
	assert.True(t, strings.HasSuffix(text, "Exiting....\n"))

	assert.Contains(t, errOut.String(), "1 ok, 1 failed")
}

func TestRunAbortsOnFeedList(t *testing.T) {
	srv := newSite(t)
	var out, errOut bytes.Buffer
	stdio := IO{In: strings.NewReader("go\n"), Out: &out, Err: &errOut}

	err := Run(context.Background(), testConfig(t), srv.URL+"/nope.xml", stdio)
	require.NoError(t, err)
	assert.Equal(t, "Aborting....\n", errOut.String())
	assert.Empty(t, out.String())
}

func TestRunBadProxy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Proxies = []string{"::not a url"}
	err := Run(context.Background(), cfg, "feeds.xml", IO{In: strings.NewReader(""), Out: &bytes.Buffer{}, Err: &bytes.Buffer{}})
	assert.Error(t, err)
}
