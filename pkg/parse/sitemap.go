// Package parse extracts page locations from sitemap documents.
//
// A body is first decoded as a strict urlset or sitemapindex document. When that
// fails, it is re-read with an HTML tokenizer so malformed or partially valid
// sitemaps still yield every recognizable <loc> element.
package parse

import (
	"bytes"
	"encoding/xml"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Sriram-PR/sitemap-checker/pkg/utils"
)

// --- XML Structs for Sitemap Parsing ---

// xmlEntry is a <url> or <sitemap> element
type xmlEntry struct {
	Locs []string `xml:"loc"`
}

// xmlURLSet represents a <urlset> element in a sitemap
type xmlURLSet struct {
	XMLName xml.Name   `xml:"urlset"`
	URLs    []xmlEntry `xml:"url"`
}

// xmlSitemapIndex represents a <sitemapindex> element
type xmlSitemapIndex struct {
	XMLName  xml.Name   `xml:"sitemapindex"`
	Sitemaps []xmlEntry `xml:"sitemap"`
}

// The HTML tokenizer turns CDATA into comments
var cdataPattern = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)

// Sitemap is the result of parsing one sitemap document
type Sitemap struct {
	Locs    []string // Text of every <loc> element, trimmed, in document order
	IsIndex bool     // Root element was <sitemapindex>
}

// ParseSitemap reads r and extracts its entries.
// Only a failure to read r is an error; unparseable markup yields zero entries.
func ParseSitemap(r io.Reader) (*Sitemap, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, utils.WrapErrorf(utils.ErrParsing, "sitemap XML: %v", err)
	}
	return ParseSitemapBytes(body)
}

// ParseSitemapBytes is ParseSitemap over an in-memory body
func ParseSitemapBytes(body []byte) (*Sitemap, error) {
	if sm, ok := decodeXML(body); ok {
		return sm, nil
	}

	unwrapped := cdataPattern.ReplaceAllFunc(body, func(m []byte) []byte {
		inner := cdataPattern.FindSubmatch(m)[1]
		return []byte(html.EscapeString(string(inner)))
	})
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(unwrapped))
	if err != nil {
		return nil, utils.WrapErrorf(utils.ErrParsing, "sitemap HTML: %v", err)
	}
	return &Sitemap{
		Locs:    ExtractLocs(doc),
		IsIndex: IsSitemapIndex(doc),
	}, nil
}

// decodeXML decodes a well-formed urlset or sitemapindex.
// ok is false when body is neither.
func decodeXML(body []byte) (sm *Sitemap, ok bool) {
	var set xmlURLSet
	if err := xml.Unmarshal(body, &set); err == nil {
		return &Sitemap{Locs: entryLocs(set.URLs)}, true
	}
	var index xmlSitemapIndex
	if err := xml.Unmarshal(body, &index); err == nil {
		return &Sitemap{Locs: entryLocs(index.Sitemaps), IsIndex: true}, true
	}
	return nil, false
}

func entryLocs(entries []xmlEntry) []string {
	locs := make([]string, 0, len(entries))
	for _, e := range entries {
		for _, loc := range e.Locs {
			locs = append(locs, strings.TrimSpace(loc))
		}
	}
	return locs
}

// ExtractLocs returns the text of every loc element in document order.
// Empty locs are kept so a broken entry is still checked and reported.
func ExtractLocs(doc *goquery.Document) []string {
	locs := make([]string, 0)
	doc.Find("loc").Each(func(_ int, s *goquery.Selection) {
		locs = append(locs, strings.TrimSpace(s.Text()))
	})
	return locs
}

// IsSitemapIndex reports whether the document is a sitemap index rather than a urlset
func IsSitemapIndex(doc *goquery.Document) bool {
	return doc.Find("sitemapindex").Length() > 0
}
