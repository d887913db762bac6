// Package input reads the list of website root URLs to check.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Sriram-PR/sitemap-checker/pkg/utils"
)

// maxLineBytes bounds a single line; website roots are far shorter
const maxLineBytes = 1 << 20

// LoadWebsites reads path and returns its non-empty lines, trimmed, in file order.
// Lines are not validated as URLs; malformed entries surface later as missing sitemaps.
func LoadWebsites(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open '%s': %w", utils.ErrInputFile, path, err)
	}
	defer f.Close()

	websites, err := ReadWebsites(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read '%s': %w", utils.ErrInputFile, path, err)
	}
	return websites, nil
}

// ReadWebsites parses newline-delimited website URLs from r.
// Blank and whitespace-only lines are skipped; CRLF endings are accepted.
func ReadWebsites(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	websites := make([]string, 0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		websites = append(websites, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return websites, nil
}
