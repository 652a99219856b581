// Package bloom remembers which posting URLs a batch has already queued.
package bloom

import (
	"net/url"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Seen is a probabilistic set of posting URLs. It is safe for concurrent use.
type Seen struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewSeen creates a Seen sized for n expected URLs with the given false
// positive rate.
func NewSeen(n uint, fpRate float64) *Seen {
	return &Seen{f: bloom.NewWithEstimates(max(n, 1), fpRate)}
}

// Mark records rawURL and reports whether it was new. URLs are compared by
// Key. Blank URLs are never new.
func (s *Seen) Mark(rawURL string) bool {
	k := Key(rawURL)
	if k == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.f.TestOrAddString(k)
}

// Has reports whether rawURL might have been marked. False positives are
// possible; false negatives are not.
func (s *Seen) Has(rawURL string) bool {
	k := Key(rawURL)
	if k == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.TestString(k)
}

// Count returns the approximate number of marked URLs.
func (s *Seen) Count() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint(s.f.ApproximatedSize())
}

// Key returns the form of rawURL used for deduplication: trimmed, without
// fragment or utm_ tracking parameters, with a lower-case host. Input that
// does not parse is only trimmed and cut at the fragment.
func Key(rawURL string) string {
	raw := strings.TrimSpace(rawURL)
	if i := strings.Index(raw, "#"); i != -1 {
		raw = raw[:i]
	}
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	u.Host = strings.ToLower(u.Host)
	if u.RawQuery != "" {
		q := u.Query()
		for name := range q {
			if strings.HasPrefix(strings.ToLower(name), "utm_") {
				q.Del(name)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}
