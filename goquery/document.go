// Package goquery implements the DOM scraping strategies and HTML text
// rendering on top of github.com/PuerkitoBio/goquery.
package goquery

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/jobtext"
)

// readDocument parses the current HTML of doc. A document that cannot be
// read yields nil and no error unless ctx is done, because an unreadable
// context simply has no content for the strategy.
func readDocument(ctx context.Context, doc jobtext.ExecutionContext) (*goquery.Document, error) {
	if doc == nil {
		return nil, nil
	}
	raw, err := doc.HTML(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	d, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, nil
	}
	return d, nil
}

// pageTitle returns og:title, or the <title> text.
func pageTitle(d *goquery.Document) string {
	if og, ok := d.Find(`meta[property="og:title"]`).First().Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	return strings.TrimSpace(d.Find("title").First().Text())
}

// cleanText returns the visible text of a clone of sel with every noise
// subtree removed. The parsed document itself is left untouched.
func cleanText(sel *goquery.Selection, noise []string) string {
	clone := sel.Clone()
	for _, s := range noise {
		clone.Find(s).Remove()
	}
	return Text(clone)
}

// firstRegion returns the noise-free text of the first selector, in order,
// whose first match yields at least minLength runes.
func firstRegion(d *goquery.Document, selectors, noise []string, minLength int) string {
	for _, s := range selectors {
		sel := d.Find(s).First()
		if sel.Length() == 0 {
			continue
		}
		if text := cleanText(sel, noise); runeLen(text) >= minLength {
			return text
		}
	}
	return ""
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
