package dataset

import (
	"fmt"
	"math/rand"
	"testing"

	"mleus/errors"

	"github.com/stretchr/testify/require"
)

func TestBatcher_TenSamples(t *testing.T) {
	req := require.New(t)
	data := []string{
		"My name is Ahmed",
		"One doesnt simple write python code",
		"heh",
		"This life journey will be my masterpiece",
		"The unseen blade is the deadliest",
		"Hah!",
		"Make Egypt Great Again",
		"8",
		"9",
		"10",
	}

	batcher, err := NewBatcher(data, 4)
	req.NoError(err)

	expectedSamples := map[Target]int{Train: 8, Valid: 1, Test: 1}
	expectedBatches := map[Target]int{Train: 2, Valid: 1, Test: 1}
	for target, want := range expectedSamples {
		samples, err := batcher.Samples(target)
		req.NoError(err)
		req.Equal(want, samples, "target=%s", target)

		batches, err := batcher.TotalBatches(target)
		req.NoError(err)
		req.Equal(expectedBatches[target], batches, "target=%s", target)
	}

	// Then partitions keep the original order
	valid, err := batcher.NextBatch(Valid)
	req.NoError(err)
	req.Equal([]string{"9"}, valid)
	test, err := batcher.NextBatch(Test)
	req.NoError(err)
	req.Equal([]string{"10"}, test)
}

func TestBatcher_PartitionSizes(t *testing.T) {
	req := require.New(t)
	for n := 1; n <= 250; n++ {
		data := make([]int, n)
		batcher, err := NewBatcher(data, 3)
		req.NoError(err)

		train, _ := batcher.Samples(Train)
		valid, _ := batcher.Samples(Valid)
		test, _ := batcher.Samples(Test)

		req.Equal(n, train+valid+test, "n=%d", n)
		req.Equal(n/10, valid, "n=%d", n)
		req.Equal(n/10, test, "n=%d", n)
		req.Equal(n-2*(n/10), train, "n=%d", n)
	}
}

func TestBatcher_Iteration(t *testing.T) {
	tests := []struct {
		size      int
		batchSize int
	}{
		{size: 10, batchSize: 4},
		{size: 100, batchSize: 10},
		{size: 37, batchSize: 5},
		{size: 7, batchSize: 1},
		{size: 3, batchSize: 50},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("size=%d,batch=%d", tt.size, tt.batchSize), func(t *testing.T) {
			req := require.New(t)
			data := make([]int, tt.size)
			for i := range data {
				data[i] = i
			}
			batcher, err := NewBatcher(data, tt.batchSize)
			req.NoError(err)

			samples, err := batcher.Samples(Train)
			req.NoError(err)
			total, err := batcher.TotalBatches(Train)
			req.NoError(err)
			req.Equal((samples+tt.batchSize-1)/tt.batchSize, total)

			var batches [][]int
			var seen []int
			for batcher.HasNext(Train) {
				batch, err := batcher.NextBatch(Train)
				req.NoError(err)
				batches = append(batches, batch)
				seen = append(seen, batch...)
			}
			req.Len(batches, total)
			req.Equal(data[:samples], seen)

			last := batches[len(batches)-1]
			if samples%tt.batchSize == 0 {
				req.Len(last, tt.batchSize)
			} else {
				req.Len(last, samples%tt.batchSize)
			}

			// Then a restart yields the same batches
			batcher.Initialize()
			var replay [][]int
			for batcher.HasNext(Train) {
				batch, err := batcher.NextBatch(Train)
				req.NoError(err)
				replay = append(replay, batch)
			}
			req.Equal(batches, replay)
		})
	}
}

func TestBatcher_Errors(t *testing.T) {
	req := require.New(t)

	_, err := NewBatcher([]int{1, 2, 3}, 0)
	req.ErrorIs(err, errors.ErrInvalidBatchSize)

	_, err = NewBatcher([]int{}, 2)
	req.ErrorIs(err, errors.ErrEmptyDataset)

	_, err = NewBatcher([]int{1, 2, 3}, 2, WithSplit(Split{Valid: 0.5, Test: 0.5}))
	req.ErrorIs(err, errors.ErrInvalidSplit)

	batcher, err := NewBatcher([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 4)
	req.NoError(err)

	_, err = batcher.TotalBatches("holdout")
	req.ErrorIs(err, errors.ErrInvalidTarget)
	_, err = batcher.NextBatch("holdout")
	req.ErrorIs(err, errors.ErrInvalidTarget)
	req.False(batcher.HasNext("holdout"))

	_, err = batcher.NextBatch(Test)
	req.NoError(err)
	req.False(batcher.HasNext(Test))
	_, err = batcher.NextBatch(Test)
	req.ErrorIs(err, errors.ErrExhaustedPartition)
}

func TestBatcher_CustomSplit(t *testing.T) {
	req := require.New(t)
	batcher, err := NewBatcher(make([]int, 20), 5, WithSplit(Split{Valid: 0.25, Test: 0}))
	req.NoError(err)

	train, _ := batcher.Samples(Train)
	valid, _ := batcher.Samples(Valid)
	test, _ := batcher.Samples(Test)
	req.Equal(15, train)
	req.Equal(5, valid)
	req.Equal(0, test)
	req.False(batcher.HasNext(Test))
}

func TestBatcher_Shuffle(t *testing.T) {
	req := require.New(t)
	data := make([]int, 100)
	for i := range data {
		data[i] = i
	}
	batcher, err := NewBatcher(data, 100)
	req.NoError(err)

	req.NoError(batcher.Shuffle(Train, rand.New(rand.NewSource(42))))
	batch, err := batcher.NextBatch(Train)
	req.NoError(err)
	req.ElementsMatch(data[:80], batch)
	req.NotEqual(data[:80], batch)

	// Then the caller's slice is untouched
	for i := range data {
		req.Equal(i, data[i])
	}

	req.ErrorIs(batcher.Shuffle("holdout", rand.New(rand.NewSource(1))), errors.ErrInvalidTarget)
	req.ErrorIs(batcher.Shuffle(Train, nil), errors.ErrMissingRandSource)
}

func TestParseTarget(t *testing.T) {
	req := require.New(t)
	for _, s := range []string{"train", "valid", "test"} {
		target, err := ParseTarget(s)
		req.NoError(err)
		req.Equal(Target(s), target)
	}
	_, err := ParseTarget("validation")
	req.ErrorIs(err, errors.ErrInvalidTarget)
}
