package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/jobtext"
)

var _ jobtext.EmbedFinder = (*Detector)(nil)

// Detector finds the documents a page embeds: iframes and job board embed
// scripts. It works on markup alone, so it also sees embeds whose frames a
// static fetch never loads.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// FrameURLs returns the absolute URLs of the page's iframes in document
// order, without duplicates.
func (d *Detector) FrameURLs(raw, baseURL string) []string {
	return d.find(raw, baseURL, []string{"iframe[src]"})
}

// EmbedURLs returns the iframe URLs followed by the URLs of embed scripts,
// such as the Greenhouse job board loader whose query names the board.
func (d *Detector) EmbedURLs(raw, baseURL string) []string {
	return d.find(raw, baseURL, []string{
		"iframe[src]",
		`script[src*="greenhouse.io"]`,
		`script[src*="/embed/"]`,
	})
}

func (d *Detector) find(raw, baseURL string, selectors []string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var urls []string
	for _, s := range selectors {
		doc.Find(s).Each(func(_ int, sel *goquery.Selection) {
			src, _ := sel.Attr("src")
			if src == "" || isNonHTTPLink(src) {
				return
			}
			resolved := resolveURL(base, src)
			if resolved == "" || seen[resolved] {
				return
			}
			seen[resolved] = true
			urls = append(urls, resolved)
		})
	}
	return urls
}

// resolveURL resolves a possibly relative URL against base. Fragments are
// dropped.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// isNonHTTPLink checks if a src points somewhere no document can be fetched
// from.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "about:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "blob:")
}
