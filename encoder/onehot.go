package encoder

import (
	"fmt"

	"mleus/errors"
)

// oneHot encodes every token as a vector as wide as the vocabulary. Unknown tokens
// get an all-zero vector.
type oneHot struct {
	vocab    map[string]int
	tokenize func(string) []string
}

func newOneHot(vocab map[string]int, tokenize func(string) []string) (Backend, error) {
	if len(vocab) == 0 {
		return nil, errors.ErrMissingVocabulary
	}
	if err := validateIndexes(vocab, len(vocab)); err != nil {
		return nil, fmt.Errorf("one-hot width %d: %w", len(vocab), err)
	}
	return oneHot{vocab: vocab, tokenize: tokenize}, nil
}

func (o oneHot) Encode(text string) Sequence {
	tokens := o.tokenize(text)
	vectors := make([][]float64, len(tokens))
	for i, token := range tokens {
		vec := make([]float64, len(o.vocab))
		if idx, ok := o.vocab[token]; ok {
			vec[idx] = 1.0
		}
		vectors[i] = vec
	}
	return Sequence{Vectors: vectors}
}

func (o oneHot) EncodingSize() int {
	return len(o.vocab)
}
