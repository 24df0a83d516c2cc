package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"testing"

	"github.com/okian/quizpattern/internal/domain/types"
)

func standing(id string, winnings float64, level int) types.Standing {
	return types.Standing{ContestantID: id, Winnings: winnings, MaxLevel: level}
}

func TestTreapStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(WithSeed(1))

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	if err := store.Upsert(ctx, standing("c1", 5000, 6)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	st, err := store.Rank(ctx, "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Rank != 1 || st.Winnings != 5000 || st.MaxLevel != 6 {
		t.Errorf("unexpected standing %+v", st)
	}

	top, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 1 || top[0].ContestantID != "c1" || top[0].Rank != 1 {
		t.Errorf("unexpected top %+v", top)
	}
}

func TestTreapStore_Ordering(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(WithSeed(2))

	for _, st := range []types.Standing{
		standing("dora", 1000, 3),
		standing("ali", 250000, 11),
		standing("can", 1000, 4),
		standing("bea", 1000, 4),
		standing("eda", 0, 1),
	} {
		if err := store.Upsert(ctx, st); err != nil {
			t.Fatalf("upsert %s: %v", st.ContestantID, err)
		}
	}

	top, err := store.TopN(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"ali", "bea", "can", "dora", "eda"}
	for i, st := range top {
		if st.ContestantID != want[i] {
			t.Errorf("position %d: expected %s, got %s", i+1, want[i], st.ContestantID)
		}
		if st.Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i+1, i+1, st.Rank)
		}
		ranked, err := store.Rank(ctx, st.ContestantID)
		if err != nil {
			t.Fatalf("rank %s: %v", st.ContestantID, err)
		}
		if ranked.Rank != st.Rank {
			t.Errorf("%s: Rank %d disagrees with TopN %d", st.ContestantID, ranked.Rank, st.Rank)
		}
	}

	top, err = store.TopN(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 2 || top[1].ContestantID != "bea" {
		t.Errorf("unexpected truncated top %+v", top)
	}
}

func TestTreapStore_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(WithSeed(3))

	_ = store.Upsert(ctx, standing("a", 100, 1))
	_ = store.Upsert(ctx, standing("b", 200, 2))
	_ = store.Upsert(ctx, standing("a", 300, 3))

	if count := store.Count(ctx); count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
	st, err := store.Rank(ctx, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Rank != 1 || st.Winnings != 300 {
		t.Errorf("expected a first with 300, got %+v", st)
	}

	// A lower value replaces too; standings are recomputed, not best-of.
	_ = store.Upsert(ctx, standing("a", 50, 1))
	st, _ = store.Rank(ctx, "a")
	if st.Rank != 2 || st.Winnings != 50 {
		t.Errorf("expected a second with 50, got %+v", st)
	}
}

func TestTreapStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	if _, err := store.Rank(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	for _, n := range []int{0, -1} {
		if _, err := store.TopN(ctx, n); !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("limit %d: expected ErrInvalidLimit, got %v", n, err)
		}
	}
	if err := store.Upsert(ctx, types.Standing{}); !errors.Is(err, ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}

func TestTreapStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()
	for i := 0; i < 10; i++ {
		_ = store.Upsert(ctx, standing(fmt.Sprintf("c%d", i), float64(i), i))
	}
	store.Reset(ctx)

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected empty store, got %d", count)
	}
	top, err := store.TopN(ctx, 5)
	if err != nil || len(top) != 0 {
		t.Errorf("expected no standings, got %v %v", top, err)
	}
}

func TestTreapStore_MatchesSortedOrder(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(WithSeed(4))
	r := rand.New(rand.NewPCG(9, 9))

	latest := map[string]types.Standing{}
	for i := 0; i < 2000; i++ {
		id := fmt.Sprintf("c%03d", r.IntN(300))
		st := standing(id, float64(r.IntN(20)*1000), 1+r.IntN(13))
		latest[id] = st
		if err := store.Upsert(ctx, st); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	want := make([]types.Standing, 0, len(latest))
	for _, st := range latest {
		want = append(want, st)
	}
	sort.Slice(want, func(i, j int) bool { return less(keyOf(want[i]), keyOf(want[j])) })

	got, err := store.TopN(ctx, len(want)+10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d standings, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ContestantID != want[i].ContestantID {
			t.Fatalf("position %d: expected %s, got %s", i+1, want[i].ContestantID, got[i].ContestantID)
		}
		if ranked, _ := store.Rank(ctx, want[i].ContestantID); ranked.Rank != i+1 {
			t.Fatalf("%s: expected rank %d, got %d", want[i].ContestantID, i+1, ranked.Rank)
		}
	}
}

func TestTreapStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				id := fmt.Sprintf("w%d-%d", w, i%50)
				_ = store.Upsert(ctx, standing(id, float64(i), i%13))
				_, _ = store.TopN(ctx, 10)
				_, _ = store.Rank(ctx, id)
			}
		}(w)
	}
	wg.Wait()

	if count := store.Count(ctx); count != 8*50 {
		t.Errorf("expected %d contestants, got %d", 8*50, count)
	}
}
