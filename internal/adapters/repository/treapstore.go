package repository

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/okian/quizpattern/internal/domain/types"
	"github.com/okian/quizpattern/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: winnings DESC, then max level DESC, then contestant id ASC, so
// every contestant has a unique rank. "less" means ranks earlier, which makes
// an in-order traversal produce the standings from best to worst. Subtree
// sizes give O(log n) rank queries.

type key struct {
	winnings float64
	level    int
	id       string
}

func keyOf(s types.Standing) key {
	w := s.Winnings
	if math.IsNaN(w) {
		w = 0
	}
	return key{winnings: w, level: s.MaxLevel, id: s.ContestantID}
}

func less(a, b key) bool {
	if a.winnings != b.winnings {
		return a.winnings > b.winnings
	}
	if a.level != b.level {
		return a.level > b.level
	}
	return a.id < b.id
}

type node struct {
	key   key
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, k key, prio uint64) *node {
	if n == nil {
		return &node{key: k, prio: prio, size: 1}
	}
	if less(k, n.key) {
		n.left = insert(n.left, k, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, k, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, k key) *node {
	if n == nil {
		return nil
	}
	switch {
	case k == n.key:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, k)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, k)
		}
	case less(k, n.key):
		n.left = deleteNode(n.left, k)
	default:
		n.right = deleteNode(n.right, k)
	}
	fix(n)
	return n
}

// position returns the 1-based in-order position of k.
func position(n *node, k key) int {
	pos := 0
	for n != nil {
		switch {
		case k == n.key:
			return pos + nsize(n.left) + 1
		case less(k, n.key):
			n = n.left
		default:
			pos += nsize(n.left) + 1
			n = n.right
		}
	}
	return 0
}

// collectTopN appends up to limit keys in rank order.
func collectTopN(n *node, limit int, out *[]key) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, n.key)
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// TreapStore is the in-memory standings store.
type TreapStore struct {
	mu   sync.RWMutex
	root *node
	byID map[string]types.Standing
	seed uint64
	rng  *rand.Rand
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{byID: make(map[string]types.Standing), seed: uint64(time.Now().UnixNano())}
	for _, opt := range opts {
		opt(s)
	}
	s.rng = rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))
	return s
}

// Upsert implements Store.Upsert in O(log n) expected time.
func (s *TreapStore) Upsert(_ context.Context, st types.Standing) error {
	if st.ContestantID == "" {
		metrics.RecordErrorByComponent("repository", "invalid_id")
		return ErrInvalidID
	}
	start := time.Now()
	defer func() {
		metrics.RecordStandingsUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	st.Rank = 0
	s.mu.Lock()
	if old, ok := s.byID[st.ContestantID]; ok {
		s.root = deleteNode(s.root, keyOf(old))
	}
	s.byID[st.ContestantID] = st
	s.root = insert(s.root, keyOf(st), s.rng.Uint64())
	count := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateStandingsRecords(count)
	return nil
}

// Rank returns the standing of a contestant in O(log n).
func (s *TreapStore) Rank(_ context.Context, contestantID string) (types.Standing, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStandingsQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.byID[contestantID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.Standing{}, ErrNotFound
	}
	st.Rank = position(s.root, keyOf(st))
	return st, nil
}

// TopN returns the top n standings in rank order.
func (s *TreapStore) TopN(_ context.Context, n int) ([]types.Standing, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStandingsQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]key, 0, min(n, len(s.byID)))
	collectTopN(s.root, n, &keys)
	out := make([]types.Standing, len(keys))
	for i, k := range keys {
		st := s.byID[k.id]
		st.Rank = i + 1
		out[i] = st
	}
	return out, nil
}

// Count returns the number of contestants.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Reset drops every standing.
func (s *TreapStore) Reset(_ context.Context) {
	s.mu.Lock()
	s.root = nil
	s.byID = make(map[string]types.Standing)
	s.mu.Unlock()
	metrics.UpdateStandingsRecords(0)
}
