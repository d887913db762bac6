package parse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/sitemap-checker/pkg/utils"
)

func TestWebsiteKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "https://example.com", want: "https://example.com"},
		{name: "trailing slash", in: "https://example.com/", want: "https://example.com"},
		{name: "uppercase host and scheme", in: "HTTPS://Example.COM", want: "https://example.com"},
		{name: "default https port", in: "https://example.com:443/", want: "https://example.com"},
		{name: "default http port", in: "http://example.com:80", want: "http://example.com"},
		{name: "custom port kept", in: "http://127.0.0.1:8080/", want: "http://127.0.0.1:8080"},
		{name: "sub path kept", in: "https://example.com/docs/", want: "https://example.com/docs"},
		{name: "query and fragment dropped", in: "https://example.com/?a=1#top", want: "https://example.com"},
		{name: "surrounding whitespace", in: "  https://example.com  ", want: "https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WebsiteKey(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWebsiteKey_Invalid(t *testing.T) {
	for _, in := range []string{"example.com", "ftp://example.com", "https://", "http://[::1"} {
		t.Run(in, func(t *testing.T) {
			_, err := WebsiteKey(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, utils.ErrParsing))
		})
	}
}

func TestDuplicateWebsites(t *testing.T) {
	websites := []string{
		"https://a.example",
		"https://b.example/",
		"https://A.example/",
		"not a url",
		"not a url",
		"https://b.example:443",
	}

	assert.Equal(t, []string{"https://A.example/", "not a url", "https://b.example:443"}, DuplicateWebsites(websites))
	assert.Empty(t, DuplicateWebsites([]string{"https://a.example", "https://b.example"}))
	assert.NotNil(t, DuplicateWebsites(nil))
}
