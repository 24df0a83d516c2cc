// Package dedupe drops event log rows that repeat an already accepted
// question for the same contestant.
package dedupe

import (
	"context"
	"strings"
	"sync"

	"github.com/okian/quizpattern/internal/domain/model"
)

const defaultMaxSize = 50_000

// Deduper records seen row fingerprints.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	// Reset forgets every recorded key.
	Reset()

	Size() int
}

// Fingerprint identifies the question an event answers: episode, contestant
// and question text. Events missing the episode or the question text have no
// identity and report ok=false; callers keep them.
func Fingerprint(e model.Event) (key string, ok bool) {
	q := strings.TrimSpace(e.Question)
	v := strings.TrimSpace(e.VideoID)
	if q == "" || v == "" {
		return "", false
	}
	return strings.Join([]string{v, e.ContestantID, q}, "\x1f"), true
}

// inMemoryDeduper keeps at most maxSize keys; the oldest key is evicted first.
// maxSize <= 0 keeps every key.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // ring of keys in insertion order, bounded mode only
	next    int
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	if d.maxSize > 0 {
		if len(d.order) < d.maxSize {
			d.order = append(d.order, key)
		} else {
			delete(d.seen, d.order[d.next])
			d.order[d.next] = key
			d.next = (d.next + 1) % d.maxSize
		}
	}
	d.seen[key] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = make(map[string]struct{})
	d.order = nil
	d.next = 0
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
