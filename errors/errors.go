package errors

import "fmt"

// Dataset and batching
var (
	ErrEmptyDataset       = fmt.Errorf("dataset is empty")
	ErrInvalidBatchSize   = fmt.Errorf("batch size must be at least 1")
	ErrInvalidSplit       = fmt.Errorf("invalid split ratios")
	ErrInvalidTarget      = fmt.Errorf("invalid target partition")
	ErrExhaustedPartition = fmt.Errorf("partition has no more batches")
	ErrUnsupportedDataset = fmt.Errorf("unsupported dataset format")
	ErrMissingRandSource  = fmt.Errorf("missing random source")
)

// Preprocessing
var (
	ErrUnknownTransformation = fmt.Errorf("unknown transformation")
	ErrEmptyStopWords        = fmt.Errorf("no stop words have been found")
)

// Text encoding
var (
	ErrMissingVocabulary     = fmt.Errorf("missing vocabulary mapping")
	ErrInvalidVocabulary     = fmt.Errorf("invalid vocabulary mapping")
	ErrUnsupportedModel      = fmt.Errorf("unsupported embedding model")
	ErrUnimplementedStrategy = fmt.Errorf("encoding strategy is not implemented")
	ErrMissingEmbeddings     = fmt.Errorf("missing embedding table")
	ErrInvalidEmbeddings     = fmt.Errorf("invalid embedding file")
	ErrReservedStrategy      = fmt.Errorf("strategy name is reserved")
)

// Experiments
var (
	ErrExperimentExists     = fmt.Errorf("experiment already exists")
	ErrExperimentNotCreated = fmt.Errorf("experiment directory has not been created")
	ErrUnknownClass         = fmt.Errorf("label has no class index")
	ErrExperimentNotFound   = fmt.Errorf("experiment not found")
	ErrNoExperiments        = fmt.Errorf("no experiments have been found")
)
