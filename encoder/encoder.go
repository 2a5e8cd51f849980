// Package encoder turns text into index sequences or dense vectors through a pluggable
// strategy. Encoding is total: unknown tokens resolve to a fallback index or vector.
package encoder

import (
	"fmt"
	"log/slog"

	"mleus/errors"

	"github.com/samber/lo"
)

type Strategy int

const (
	CharOneHot Strategy = iota
	CharIndex
	WordOneHot
	WordIndex
	CharEmbedding
	Pretrained
	Custom
)

var strategyNames = map[Strategy]string{
	CharOneHot:    "char_one_hot",
	CharIndex:     "char_index",
	WordOneHot:    "word_one_hot",
	WordIndex:     "word_index",
	CharEmbedding: "char_embedding",
	Pretrained:    "pretrained",
	Custom:        "custom",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy maps a strategy name to its kind. Names outside the fixed set are
// taken as pretrained embedding model names and returned as the second value.
func ParseStrategy(name string) (Strategy, string) {
	for s, n := range strategyNames {
		if s == Pretrained || s == Custom {
			continue
		}
		if n == name {
			return s, ""
		}
	}
	return Pretrained, name
}

// Sequence is the encoding of one text. Index strategies fill Indexes, one-hot and
// embedding strategies fill Vectors.
type Sequence struct {
	Indexes []int
	Vectors [][]float64
}

func (s Sequence) Len() int {
	if s.Vectors != nil {
		return len(s.Vectors)
	}
	return len(s.Indexes)
}

//go:generate go run go.uber.org/mock/mockgen -source=encoder.go -destination=../mocks/mock_backend.go -package=mocks

// Backend is the capability every encoding strategy provides, custom ones included.
type Backend interface {
	Encode(text string) Sequence
	EncodingSize() int
}

type options struct {
	words         map[string]int
	chars         map[string]int
	embeddings    *EmbeddingTable
	embeddingPath string
	backend       Backend
	log           *slog.Logger
}

type Option func(*options)

// WithVocabulary sets the word to index mapping used by word strategies.
func WithVocabulary(words map[string]int) Option {
	return func(o *options) { o.words = words }
}

// WithCharacters sets the character to index mapping used by char strategies.
func WithCharacters(chars map[string]int) Option {
	return func(o *options) { o.chars = chars }
}

func WithEmbeddings(table *EmbeddingTable) Option {
	return func(o *options) { o.embeddings = table }
}

// WithEmbeddingPath loads the pretrained table from disk at construction.
func WithEmbeddingPath(path string) Option {
	return func(o *options) { o.embeddingPath = path }
}

// WithBackend injects a custom backend; the strategy name is then ignored.
func WithBackend(b Backend) Option {
	return func(o *options) { o.backend = b }
}

func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

// TextEncoder dispatches encode calls to the backend selected at construction.
type TextEncoder struct {
	strategy Strategy
	model    string
	backend  Backend
}

func NewTextEncoder(name string, opts ...Option) (*TextEncoder, error) {
	o := options{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if o.backend != nil {
		o.log.Debug("Using custom encoding backend", "size", o.backend.EncodingSize())
		return &TextEncoder{strategy: Custom, backend: o.backend}, nil
	}

	// "pretrained" and "custom" name kinds, not a model or a backend
	if name == Pretrained.String() || name == Custom.String() {
		return nil, fmt.Errorf("text encoder %q: %w", name, errors.ErrReservedStrategy)
	}

	strategy, model := ParseStrategy(name)
	backend, err := newBackend(strategy, model, o)
	if err != nil {
		return nil, fmt.Errorf("text encoder %q: %w", name, err)
	}

	o.log.Debug("Text encoder ready",
		"strategy", strategy.String(),
		"model", model,
		"encoding_size", backend.EncodingSize())

	return &TextEncoder{strategy: strategy, model: model, backend: backend}, nil
}

func newBackend(strategy Strategy, model string, o options) (Backend, error) {
	switch strategy {
	case CharOneHot:
		return newOneHot(o.chars, splitChars)
	case CharIndex:
		return newCharIndex(o.chars)
	case WordOneHot:
		return newOneHot(o.words, splitWords)
	case WordIndex:
		return newWordIndex(o.words)
	case CharEmbedding:
		return nil, errors.ErrUnimplementedStrategy
	default:
		return newPretrained(model, o)
	}
}

func (e *TextEncoder) Encode(text string) Sequence {
	return e.backend.Encode(text)
}

// EncodeBatch encodes every text, keeping the input order.
func (e *TextEncoder) EncodeBatch(texts []string) []Sequence {
	return lo.Map(texts, func(text string, _ int) Sequence {
		return e.backend.Encode(text)
	})
}

func (e *TextEncoder) EncodingSize() int {
	return e.backend.EncodingSize()
}

func (e *TextEncoder) Strategy() Strategy {
	return e.strategy
}

// Model is the pretrained model name, empty for other strategies.
func (e *TextEncoder) Model() string {
	return e.model
}

func validateIndexes(vocab map[string]int, width int) error {
	for token, idx := range vocab {
		if idx < 0 || (width > 0 && idx >= width) {
			return fmt.Errorf("%w: %q has index %d", errors.ErrInvalidVocabulary, token, idx)
		}
	}
	return nil
}
