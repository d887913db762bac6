package input

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/sitemap-checker/pkg/utils"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "websites.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWebsites(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name:     "single site",
			content:  "https://a.test\n",
			expected: []string{"https://a.test"},
		},
		{
			name:     "preserves order",
			content:  "https://b.test\nhttps://a.test\nhttps://c.test",
			expected: []string{"https://b.test", "https://a.test", "https://c.test"},
		},
		{
			name:     "skips blank and whitespace lines",
			content:  "\n  \nhttps://a.test\n\t\n\nhttps://b.test\n\n",
			expected: []string{"https://a.test", "https://b.test"},
		},
		{
			name:     "trims whitespace and CRLF",
			content:  "  https://a.test  \r\nhttps://b.test\r\n",
			expected: []string{"https://a.test", "https://b.test"},
		},
		{
			name:     "keeps duplicates and non-URLs",
			content:  "https://a.test\nhttps://a.test\nnot a url\n",
			expected: []string{"https://a.test", "https://a.test", "not a url"},
		},
		{
			name:     "empty file",
			content:  "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			websites, err := LoadWebsites(writeInput(t, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, websites)
		})
	}
}

func TestLoadWebsites_MissingFile(t *testing.T) {
	websites, err := LoadWebsites(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Nil(t, websites)
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrInputFile))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, "Filesystem_NotExist", utils.CategorizeError(err))
}

func TestLoadWebsites_Directory(t *testing.T) {
	websites, err := LoadWebsites(t.TempDir())
	assert.Nil(t, websites)
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrInputFile))
}

func TestReadWebsites_LineTooLong(t *testing.T) {
	long := strings.Repeat("a", maxLineBytes+1)
	websites, err := ReadWebsites(strings.NewReader(long))
	assert.Nil(t, websites)
	require.Error(t, err)
}
