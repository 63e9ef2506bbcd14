// Package goquery implements HTML extraction for news pages using goquery:
// the canonical body strategies, page metadata and homepage link discovery.
package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/newsdigest"
)

// documentKey stores the parsed document on a FetchedPage.
type documentKey struct{}

// parse returns the document of an HTML page. The markup is parsed once per
// page and shared by the strategies and the metadata extractor, which only
// read it. Returns nil for JSON payloads and unparseable markup.
func parse(page *newsdigest.FetchedPage) *goquery.Document {
	if page == nil || page.Kind != newsdigest.PayloadHTML {
		return nil
	}
	doc, _ := page.Parsed(documentKey{}, func() any {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Payload))
		if err != nil {
			return nil
		}
		return doc
	}).(*goquery.Document)
	return doc
}

// paragraphs collects the trimmed text of every element in sel whose text
// is longer than minRunes and for which keep returns true.
func paragraphs(sel *goquery.Selection, minRunes int, keep func(string) bool) []string {
	var units []string
	sel.Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" || utf8.RuneCountInString(text) <= minRunes {
			return
		}
		if keep != nil && !keep(text) {
			return
		}
		units = append(units, text)
	})
	return units
}

// firstMatch returns the first element matching any of selectors, tried in
// order, or nil when none match.
func firstMatch(doc *goquery.Document, selectors ...string) *goquery.Selection {
	for _, s := range selectors {
		if sel := doc.Find(s).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}
