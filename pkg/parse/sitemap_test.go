package parse

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/sitemap-checker/pkg/utils"
)

func TestParseSitemap_Locs(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected []string
	}{
		{
			name: "standard urlset",
			body: `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://a.test/one</loc><lastmod>2024-01-15</lastmod></url>
  <url><loc>https://a.test/two</loc></url>
</urlset>`,
			expected: []string{"https://a.test/one", "https://a.test/two"},
		},
		{
			name:     "CDATA loc",
			body:     `<?xml version="1.0" encoding="UTF-8"?><urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"><url><loc><![CDATA[https://example.com/a]]></loc></url></urlset>`,
			expected: []string{"https://example.com/a"},
		},
		{
			name:     "CDATA loc with query and padding",
			body:     "<urlset><url><loc><![CDATA[ https://a.test/p?x=1&y=2 ]]></loc></url><url><loc>https://a.test/plain</loc></url></urlset>",
			expected: []string{"https://a.test/p?x=1&y=2", "https://a.test/plain"},
		},
		{
			name:     "CDATA loc in malformed document",
			body:     "<urlset><url><loc><![CDATA[https://a.test/c?x=1&y=2]]></loc><url><loc>https://a.test/unclosed",
			expected: []string{"https://a.test/c?x=1&y=2", "https://a.test/unclosed"},
		},
		{
			name:     "entity-escaped loc",
			body:     "<urlset><url><loc>https://a.test/q?a=1&amp;b=2</loc></url></urlset>",
			expected: []string{"https://a.test/q?a=1&b=2"},
		},
		{
			name:     "keeps duplicates in order",
			body:     "<urlset><url><loc>https://a.test/x</loc></url><url><loc>https://a.test/y</loc></url><url><loc>https://a.test/x</loc></url></urlset>",
			expected: []string{"https://a.test/x", "https://a.test/y", "https://a.test/x"},
		},
		{
			name:     "keeps empty loc",
			body:     "<urlset><url><loc></loc></url><url><loc>https://a.test/</loc></url></urlset>",
			expected: []string{"", "https://a.test/"},
		},
		{
			name:     "uppercase tag names",
			body:     "<URLSET><URL><LOC>https://a.test/upper</LOC></URL></URLSET>",
			expected: []string{"https://a.test/upper"},
		},
		{
			name:     "malformed document still yields recognizable locs",
			body:     "<urlset><url><loc>https://a.test/ok</loc><url><loc>https://a.test/unclosed",
			expected: []string{"https://a.test/ok", "https://a.test/unclosed"},
		},
		{
			name:     "locs outside url elements",
			body:     "<loc>https://a.test/bare</loc>",
			expected: []string{"https://a.test/bare"},
		},
		{
			name:     "html page without locs",
			body:     "<html><body><h1>Not Found</h1></body></html>",
			expected: []string{},
		},
		{
			name:     "empty body",
			body:     "",
			expected: []string{},
		},
		{
			name:     "plain text",
			body:     "this is not a sitemap",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm, err := ParseSitemap(strings.NewReader(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sm.Locs)
			assert.False(t, sm.IsIndex)
		})
	}
}

// Loc text is whitespace-trimmed in both the strict and the lenient path, so
// pretty-printed sitemaps do not produce unreachable " https://..." URLs.
func TestParseSitemap_TrimsLocWhitespace(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "well-formed", body: "<urlset><url><loc>\n   https://a.test/p  \n</loc></url></urlset>"},
		{name: "malformed", body: "<urlset><url><loc>\t https://a.test/p \r\n</loc><url>"},
		{name: "CDATA", body: "<urlset><url><loc><![CDATA[\n https://a.test/p \n]]></loc></url></urlset>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm, err := ParseSitemapBytes([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, []string{"https://a.test/p"}, sm.Locs)
		})
	}
}

func TestParseSitemap_IndexCDATA(t *testing.T) {
	body := `<sitemapindex><sitemap><loc><![CDATA[https://a.test/sitemap-1.xml]]></loc></sitemap></sitemapindex>`

	sm, err := ParseSitemapBytes([]byte(body))
	require.NoError(t, err)
	assert.True(t, sm.IsIndex)
	assert.Equal(t, []string{"https://a.test/sitemap-1.xml"}, sm.Locs)
}

func TestParseSitemap_Index(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://a.test/sitemap-posts.xml</loc></sitemap>
  <sitemap><loc>https://a.test/sitemap-pages.xml</loc></sitemap>
</sitemapindex>`

	sm, err := ParseSitemapBytes([]byte(body))
	require.NoError(t, err)
	assert.True(t, sm.IsIndex)
	assert.Equal(t, []string{"https://a.test/sitemap-posts.xml", "https://a.test/sitemap-pages.xml"}, sm.Locs)
}

func TestParseSitemap_ReadError(t *testing.T) {
	sm, err := ParseSitemap(iotest.ErrReader(errors.New("connection reset")))
	assert.Nil(t, sm)
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrParsing))
	assert.Equal(t, "Content_ParsingSitemap", utils.CategorizeError(err))
}
