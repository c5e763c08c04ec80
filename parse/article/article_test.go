package article

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/awaketai/news-aggregator/collect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"repeats kept", "Rust rust, go!", []string{"rust", "rust", "go"}},
		{"punctuation", "state-of-the-art", []string{"state", "of", "the", "art"}},
		{"numbers", "Go 1.22 released", []string{"go", "1", "22", "released"}},
		{"unicode", "Café CAFÉ", []string{"café", "café"}},
		{"decomposed accent", "Cafe\u0301", []string{"café"}},
		{"only symbols", "!@#$%^", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "rust", Normalize("  Rust "))
	assert.Equal(t, Normalize("CAFÉ"), Normalize("café"))
}

func TestBodyText(t *testing.T) {
	tests := []struct {
		name string
		page string
		want []string
	}{
		{
			name: "body without chrome",
			page: `<html><head><title>t</title><style>.x{}</style></head>
				<body><nav>menu</nav><p>Hello world</p><script>var x = 1;</script><footer>legal</footer></body></html>`,
			want: []string{"hello", "world"},
		},
		{
			name: "article preferred",
			page: `<html><body><div>sidebar</div><article><h1>Big news</h1><p>Go wins</p></article></body></html>`,
			want: []string{"big", "news", "go", "wins"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := BodyText([]byte(tt.page))
			require.NoError(t, err)
			assert.Equal(t, tt.want, Tokenize(text))
		})
	}
}

type fakeFetcher map[string]string

func (f fakeFetcher) Get(_ context.Context, url string) ([]byte, error) {
	body, ok := f[url]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return []byte(body), nil
}

func TestTokenizerTokens(t *testing.T) {
	tok := NewTokenizer(fakeFetcher{
		"http://a.com/1": `<html><body><p>Rust rust go</p></body></html>`,
	}, nil)

	got, err := tok.Tokens(context.Background(), "http://a.com/1")
	require.NoError(t, err)
	assert.Equal(t, []string{"rust", "rust", "go"}, got)

	_, err = tok.Tokens(context.Background(), "http://a.com/missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, collect.ErrDocument))
	var docErr *collect.DocumentError
	require.True(t, errors.As(err, &docErr))
	assert.Equal(t, "http://a.com/missing", docErr.URL)
}
