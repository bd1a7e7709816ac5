package service

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqIDs(n int) []uint {
	ids := make([]uint, n)
	for i := range ids {
		ids[i] = uint(i + 1)
	}
	return ids
}

func TestClampPercentage(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-5, 0},
		{0, 0},
		{42.5, 42.5},
		{100, 100},
		{150, 100},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampPercentage(tt.in))
	}
}

func TestSampleSize(t *testing.T) {
	tests := []struct {
		name string
		n    int
		p    float64
		want int
	}{
		{name: "empty population", n: 0, p: 50, want: 0},
		{name: "zero percent", n: 10, p: 0, want: 0},
		{name: "full", n: 10, p: 100, want: 10},
		{name: "ceil", n: 10, p: 25, want: 3},
		{name: "exact", n: 10, p: 70, want: 7},
		{name: "tiny share rounds up", n: 3, p: 1, want: 1},
		{name: "over 100 clamps", n: 4, p: 250, want: 4},
		{name: "negative clamps", n: 4, p: -1, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SampleSize(tt.n, tt.p))
		})
	}
}

func TestSelectSample_Deterministic(t *testing.T) {
	ids := seqIDs(50)

	first := SelectSample(ids, 30, 17)
	second := SelectSample(ids, 30, 17)
	assert.Equal(t, first, second)

	// 输入顺序不影响结果
	reversed := slices.Clone(ids)
	slices.Reverse(reversed)
	assert.Equal(t, first, SelectSample(reversed, 30, 17))
}

func TestSelectSample_SizeAndSubsetLaws(t *testing.T) {
	ids := seqIDs(37)
	for _, p := range []float64{0, 1, 10, 33.3, 50, 99, 100} {
		got := SelectSample(ids, p, 99)
		assert.Len(t, got, SampleSize(len(ids), p), "percentage %v", p)
		for _, id := range got {
			assert.Contains(t, ids, id)
		}
	}
}

func TestSelectSample_FullPopulationIsSetEqual(t *testing.T) {
	ids := []uint{8, 3, 5, 1}
	got := SelectSample(ids, 100, 4)
	assert.ElementsMatch(t, ids, got)
}

func TestSelectSample_DoesNotMutateInput(t *testing.T) {
	ids := []uint{9, 2, 7, 4, 1}
	snapshot := slices.Clone(ids)
	_ = SelectSample(ids, 60, 3)
	assert.Equal(t, snapshot, ids)
}

func TestSelectSample_SeedsSampleIndependently(t *testing.T) {
	ids := seqIDs(200)
	a := SelectSample(ids, 10, 1)
	b := SelectSample(ids, 10, 2)
	require.Len(t, a, 20)
	assert.NotEqual(t, a, b)
}

func TestSelectSample_Empty(t *testing.T) {
	assert.Empty(t, SelectSample(nil, 100, 1))
	assert.Empty(t, SelectSample(seqIDs(5), 0, 1))
	assert.NotNil(t, SelectSample(nil, 100, 1))
}
