package encoder

import (
	"fmt"
	"os"
	"slices"

	"mleus/errors"
)

// Supported pretrained models and the file layout each one is read with.
const (
	Word2Vec = "word2vec"
	FastText = "fasttext"
	GloVe    = "glove"
)

var PretrainedModels = []string{Word2Vec, FastText, GloVe}

// EmbeddingTable maps words to fixed-width vectors.
type EmbeddingTable struct {
	model   string
	dim     int
	vectors map[string][]float64
}

func NewEmbeddingTable(model string, dim int, vectors map[string][]float64) (*EmbeddingTable, error) {
	if dim < 1 {
		return nil, fmt.Errorf("%w: dimension %d", errors.ErrInvalidEmbeddings, dim)
	}
	for word, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("%w: %q has %d values, expected %d",
				errors.ErrInvalidEmbeddings, word, len(vec), dim)
		}
	}
	return &EmbeddingTable{model: model, dim: dim, vectors: vectors}, nil
}

func (t *EmbeddingTable) Model() string { return t.model }

func (t *EmbeddingTable) Dim() int { return t.dim }

// Len is the number of words in the table.
func (t *EmbeddingTable) Len() int { return len(t.vectors) }

func (t *EmbeddingTable) Lookup(word string) ([]float64, bool) {
	vec, ok := t.vectors[word]
	return vec, ok
}

// pretrained looks words up in an embedding table. <sos> and <eos> get sentinel
// vectors with a single one at the first and last position.
type pretrained struct {
	table *EmbeddingTable
}

func newPretrained(model string, o options) (Backend, error) {
	if !slices.Contains(PretrainedModels, model) {
		return nil, fmt.Errorf("%w: %q", errors.ErrUnsupportedModel, model)
	}

	table := o.embeddings
	if table == nil {
		if o.embeddingPath == "" {
			return nil, fmt.Errorf("%w: %s", errors.ErrMissingEmbeddings, model)
		}
		o.log.Info("Begin loading embedding", "model", model, "path", o.embeddingPath)
		file, err := os.Open(o.embeddingPath)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		table, err = ReadEmbeddings(file, model)
		if err != nil {
			return nil, err
		}
		o.log.Info("Embedding loaded", "model", model, "vocab_size", table.Len(), "dim", table.Dim())
	}
	if table.Model() != "" && table.Model() != model {
		return nil, fmt.Errorf("%w: table holds %q, strategy asks for %q",
			errors.ErrInvalidEmbeddings, table.Model(), model)
	}
	return pretrained{table: table}, nil
}

func (p pretrained) Encode(text string) Sequence {
	tokens := splitWords(text)
	vectors := make([][]float64, len(tokens))
	for i, token := range tokens {
		vectors[i] = p.vector(token)
	}
	return Sequence{Vectors: vectors}
}

func (p pretrained) vector(token string) []float64 {
	vec := make([]float64, p.table.dim)
	switch token {
	case SOS:
		vec[0] = 1.0
		return vec
	case EOS:
		vec[len(vec)-1] = 1.0
		return vec
	}
	if found, ok := p.table.Lookup(token); ok {
		copy(vec, found)
	}
	return vec
}

func (p pretrained) EncodingSize() int {
	return p.table.dim
}
