package product

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func at(ms int64) *time.Time {
	t := time.UnixMilli(ms)
	return &t
}

func TestSortNewestFirst_MissingTimestampIsOldest(t *testing.T) {
	products := []*Product{
		{ID: "t1", CreatedAt: at(5)},
		{ID: "t2", CreatedAt: at(10)},
		{ID: "t3"},
	}

	SortNewestFirst(products)

	require.Equal(t, "t2", products[0].ID)
	require.Equal(t, "t1", products[1].ID)
	require.Equal(t, "t3", products[2].ID)
}

func TestSortNewestFirst_StableForEqualTimestamps(t *testing.T) {
	products := []*Product{
		{ID: "a"},
		{ID: "b", CreatedAt: at(1)},
		{ID: "c"},
	}

	SortNewestFirst(products)

	require.Equal(t, []string{"b", "a", "c"}, []string{products[0].ID, products[1].ID, products[2].ID})
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Category
		wantErr error
	}{
		{name: "Known", input: "anillos", want: CategoryRings},
		{name: "Trimmed and lowered", input: "  Collares ", want: CategoryNecklaces},
		{name: "Unknown", input: "relojes", wantErr: ErrUnknownCategory},
		{name: "Empty", input: "", wantErr: ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCategory_LabelAndPlaceholder(t *testing.T) {
	require.Equal(t, "broqueles de plata", CategoryStuds.Label())
	require.Equal(t, "anillos", CategoryRings.Label())
	require.Equal(t, "▣", CategoryBracelets.Placeholder())
	require.Equal(t, "◆", Category("relojes").Placeholder())
	require.False(t, Category("relojes").IsKnown())
}

func TestFilterCategory_ExactMatchOnly(t *testing.T) {
	products := []*Product{
		{ID: "1", Category: CategoryRings},
		{ID: "2", Category: "Anillos"},
		{ID: "3", Category: CategoryChains},
	}

	got := FilterCategory(products, CategoryRings)

	require.Len(t, got, 1)
	require.Equal(t, "1", got[0].ID)
}

func TestWatch_LatestSnapshotWins(t *testing.T) {
	release := make(chan struct{})
	sub := Watch(context.Background(), func(ctx context.Context, emit func(Snapshot)) error {
		emit(Snapshot{{ID: "old"}})
		emit(Snapshot{{ID: "new"}})
		close(release)
		<-ctx.Done()
		return ctx.Err()
	})
	<-release

	snap := <-sub.Snapshots()
	require.Equal(t, "new", snap[0].ID)

	sub.Unsubscribe()
	require.NoError(t, sub.Err())
}

func TestWatch_ErrorEndsSubscription(t *testing.T) {
	boom := errors.New("unreachable")
	sub := Watch(context.Background(), func(ctx context.Context, emit func(Snapshot)) error {
		return boom
	})

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription did not stop")
	}
	require.ErrorIs(t, sub.Err(), boom)
}

func TestRelist_EmitsOnEveryNotification(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lists := 0
	var emitted []Snapshot
	waits := 0

	err := Relist(ctx,
		func(ctx context.Context) ([]*Product, error) {
			lists++
			return []*Product{{ID: "p"}}, nil
		},
		func(ctx context.Context) error {
			waits++
			if waits == 3 {
				return context.Canceled
			}
			return nil
		},
		func(s Snapshot) { emitted = append(emitted, s) },
	)

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 3, lists)
	require.Len(t, emitted, 3)
}
