// Package dataset splits ordered collections into train/valid/test partitions and serves
// them in fixed-size batches.
package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"mleus/errors"
)

type Target string

const (
	Train Target = "train"
	Valid Target = "valid"
	Test  Target = "test"
)

func ParseTarget(s string) (Target, error) {
	switch t := Target(s); t {
	case Train, Valid, Test:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrInvalidTarget, s)
	}
}

// Split holds the validation and test ratios. Train receives everything else,
// including the remainder left by integer truncation.
type Split struct {
	Valid float64
	Test  float64
}

// DefaultSplit is the 80/10/10 split.
var DefaultSplit = Split{Valid: 0.1, Test: 0.1}

func (s Split) validate() error {
	if s.Valid < 0 || s.Test < 0 || s.Valid+s.Test >= 1 {
		return fmt.Errorf("%w: valid=%v test=%v", errors.ErrInvalidSplit, s.Valid, s.Test)
	}
	return nil
}

type partition[T any] struct {
	items  []T
	cursor int
}

// Batcher serves one partition at a time, tracking a cursor per partition.
// It is not safe for concurrent use.
type Batcher[T any] struct {
	batchSize  int
	split      Split
	total      int
	partitions map[Target]*partition[T]
}

type BatcherOption func(*batcherOptions)

type batcherOptions struct {
	split Split
}

// WithSplit overrides the default 80/10/10 ratios.
func WithSplit(split Split) BatcherOption {
	return func(o *batcherOptions) { o.split = split }
}

// NewBatcher partitions data in its original order: train first, then valid, then test.
// The input slice is copied so shuffling a partition never touches the caller's data.
func NewBatcher[T any](data []T, batchSize int, opts ...BatcherOption) (*Batcher[T], error) {
	options := batcherOptions{split: DefaultSplit}
	for _, opt := range opts {
		opt(&options)
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("%w: got %d", errors.ErrInvalidBatchSize, batchSize)
	}
	if len(data) == 0 {
		return nil, errors.ErrEmptyDataset
	}
	if err := options.split.validate(); err != nil {
		return nil, err
	}

	n := len(data)
	validCount := portion(n, options.split.Valid)
	testCount := portion(n, options.split.Test)
	trainCount := n - validCount - testCount

	items := make([]T, n)
	copy(items, data)

	return &Batcher[T]{
		batchSize: batchSize,
		split:     options.split,
		total:     n,
		partitions: map[Target]*partition[T]{
			Train: {items: items[:trainCount:trainCount]},
			Valid: {items: items[trainCount : trainCount+validCount : trainCount+validCount]},
			Test:  {items: items[trainCount+validCount:]},
		},
	}, nil
}

// portion truncates n*ratio, tolerating the float error of ratios like 0.1.
func portion(n int, ratio float64) int {
	return int(math.Floor(float64(n)*ratio + 1e-9))
}

func (b *Batcher[T]) BatchSize() int { return b.batchSize }

func (b *Batcher[T]) TotalSamples() int { return b.total }

func (b *Batcher[T]) Split() Split { return b.split }

// Samples returns the size of a partition.
func (b *Batcher[T]) Samples(target Target) (int, error) {
	p, err := b.partition(target)
	if err != nil {
		return 0, err
	}
	return len(p.items), nil
}

// TotalBatches is the ceiling of the partition size divided by the batch size.
func (b *Batcher[T]) TotalBatches(target Target) (int, error) {
	p, err := b.partition(target)
	if err != nil {
		return 0, err
	}
	return (len(p.items) + b.batchSize - 1) / b.batchSize, nil
}

func (b *Batcher[T]) HasNext(target Target) bool {
	p, err := b.partition(target)
	if err != nil {
		return false
	}
	return p.cursor < len(p.items)
}

// NextBatch returns up to batchSize items starting at the partition cursor.
// The last batch of a partition may be shorter.
func (b *Batcher[T]) NextBatch(target Target) ([]T, error) {
	p, err := b.partition(target)
	if err != nil {
		return nil, err
	}
	if p.cursor >= len(p.items) {
		return nil, fmt.Errorf("%w: %s", errors.ErrExhaustedPartition, target)
	}
	end := min(p.cursor+b.batchSize, len(p.items))
	batch := p.items[p.cursor:end:end]
	p.cursor = end
	return batch, nil
}

// Initialize rewinds every partition, e.g. before the next epoch.
func (b *Batcher[T]) Initialize() {
	for _, p := range b.partitions {
		p.cursor = 0
	}
}

// Shuffle permutes a single partition in place and rewinds its cursor.
func (b *Batcher[T]) Shuffle(target Target, rng *rand.Rand) error {
	if rng == nil {
		return errors.ErrMissingRandSource
	}
	p, err := b.partition(target)
	if err != nil {
		return err
	}
	rng.Shuffle(len(p.items), func(i, j int) {
		p.items[i], p.items[j] = p.items[j], p.items[i]
	})
	p.cursor = 0
	return nil
}

func (b *Batcher[T]) partition(target Target) (*partition[T], error) {
	p, ok := b.partitions[target]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errors.ErrInvalidTarget, target)
	}
	return p, nil
}
