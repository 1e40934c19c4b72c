package iter

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type elem struct {
	value int
}

func TestSlice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	numValues := 10
	elems := make([]*elem, 0, numValues)
	for y := 0; y < numValues; y = y + 1 {
		elems = append(elems, &elem{value: y})
	}
	it := NewSlice(elems)
	for y := 0; y < numValues; y = y + 1 {
		val := it.Next(ctx)
		require.True(t, val.IsPresent())
		require.Equal(t, y, val.Value().value)
	}
	require.False(t, it.Next(ctx).IsPresent())
	require.Nil(t, it.Close(ctx))
}

func TestFilterCollect(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	filter := Filter[*elem](FilterFunc[*elem](func(ctx context.Context, val *elem) bool {
		return val.value%2 == 0
	}))
	for numValues := 0; numValues < 6; numValues = numValues + 1 {
		numValues := numValues
		t.Run(fmt.Sprintf("N(%d)", numValues), func(t *testing.T) {
			elems := make([]*elem, 0, numValues)
			for y := 0; y < numValues; y = y + 1 {
				elems = append(elems, &elem{value: y})
			}
			out, err := Collect(ctx, NewIteratorFilter(NewSlice(elems), filter))
			require.NoError(t, err)
			require.Len(t, out, (numValues+1)/2)
			for x, e := range out {
				require.Equal(t, x*2, e.value)
			}
		})
	}
}

func TestCollectCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Collect(ctx, NewSlice([]int{1, 2, 3}))
	require.ErrorIs(t, err, context.Canceled)
}

func BenchmarkCollect(b *testing.B) {
	ctx := context.Background()
	values := make([]int, 1024)
	keep := FilterFunc[int](func(ctx context.Context, val int) bool { return true })
	b.ResetTimer()
	for n := 0; n < b.N; n = n + 1 {
		_, _ = Collect(ctx, NewIteratorFilter[int](NewSlice(values), keep))
	}
}
