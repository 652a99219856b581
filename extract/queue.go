package extract

import (
	"sync"

	"github.com/fwojciec/jobtext/bloom"
)

// Queue is a FIFO of posting URLs that drops URLs it has already seen.
// It is safe for concurrent use.
type Queue struct {
	mu   sync.Mutex
	seen *bloom.Seen
	urls []string
}

// NewQueue creates a Queue sized for n expected URLs with the given false
// positive rate for deduplication.
func NewQueue(n uint, fpRate float64) *Queue {
	return &Queue{seen: bloom.NewSeen(n, fpRate)}
}

// Push appends rawURL and reports whether it was new. URLs are compared by
// bloom.Key, so fragments, tracking parameters and surrounding space do not
// make a URL new. Blank input is never queued.
func (q *Queue) Push(rawURL string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.seen.Mark(rawURL) {
		return false
	}
	q.urls = append(q.urls, bloom.Key(rawURL))
	return true
}

// Pop removes and returns the oldest URL. The bool result is false if the
// queue is empty.
func (q *Queue) Pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.urls) == 0 {
		return "", false
	}
	u := q.urls[0]
	q.urls = q.urls[1:]
	return u, true
}

// Len returns the number of queued URLs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.urls)
}
