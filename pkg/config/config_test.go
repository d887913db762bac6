package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestGetEffectiveInsecureSkipVerify(t *testing.T) {
	tests := []struct {
		name     string
		cfg      HTTPClientConfig
		expected bool
	}{
		{
			name:     "unset skips verification",
			cfg:      HTTPClientConfig{InsecureSkipVerify: nil},
			expected: true,
		},
		{
			name:     "explicit true skips verification",
			cfg:      HTTPClientConfig{InsecureSkipVerify: boolPtr(true)},
			expected: true,
		},
		{
			name:     "explicit false verifies certificates",
			cfg:      HTTPClientConfig{InsecureSkipVerify: boolPtr(false)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetEffectiveInsecureSkipVerify(tt.cfg))
		})
	}
}

func TestGetEffectiveSitemapPath(t *testing.T) {
	tests := []struct {
		name     string
		cfg      AppConfig
		expected string
	}{
		{
			name:     "empty uses default",
			cfg:      AppConfig{},
			expected: "/sitemap.xml",
		},
		{
			name:     "configured path wins",
			cfg:      AppConfig{SitemapPath: "/sitemap_index.xml"},
			expected: "/sitemap_index.xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetEffectiveSitemapPath(tt.cfg))
		})
	}
}
