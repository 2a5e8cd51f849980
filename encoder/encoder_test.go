package encoder

import (
	"log/slog"
	"testing"

	"mleus/errors"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

var words = map[string]int{"pad": 0, "the": 4, "cat": 5, "sat": 6, "mat": 9}

var chars = map[string]int{"#": 0, "a": 1, "b": 2, "c": 3}

func TestTextEncoder_WordIndex(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given a vocabulary that also claims the reserved tokens
	vocab := map[string]int{"<sos>": 7, "<eos>": 8, "<pad>": 9, "the": 4, "cat": 5}
	enc, err := NewTextEncoder("word_index", WithVocabulary(vocab), WithLogger(log))
	req.NoError(err)
	req.Equal(WordIndex, enc.Strategy())

	// Then the reserved tokens keep their fixed indexes and unknown words map to 3
	seq := enc.Encode("<sos> the dog cat <eos> <pad>")
	req.Equal([]int{0, 4, 3, 5, 1, 2}, seq.Indexes)
	req.Nil(seq.Vectors)
	req.Equal(6, seq.Len())

	// Then the size reserves four slots above the highest index
	req.Equal(9+4, enc.EncodingSize())
}

func TestTextEncoder_CharIndex(t *testing.T) {
	req := require.New(t)
	enc, err := NewTextEncoder("char_index", WithCharacters(chars))
	req.NoError(err)

	seq := enc.Encode("abzc")
	req.Equal([]int{1, 2, 0, 3}, seq.Indexes)
	req.Equal(len(chars), enc.EncodingSize())

	// Then multi-byte runes are one unit each
	req.Equal([]int{1, 0, 1}, enc.Encode("aéa").Indexes)
}

func TestTextEncoder_OneHot(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		option   Option
		width    int
		text     string
		hot      []int
	}{
		{
			name:     "word one-hot",
			strategy: "word_one_hot",
			option:   WithVocabulary(map[string]int{"pad": 0, "the": 1, "cat": 2, "sat": 3}),
			width:    4,
			text:     "the dog sat",
			hot:      []int{1, -1, 3},
		},
		{
			name:     "char one-hot",
			strategy: "char_one_hot",
			option:   WithCharacters(chars),
			width:    4,
			text:     "cab?",
			hot:      []int{3, 1, 2, -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			enc, err := NewTextEncoder(tt.strategy, tt.option)
			req.NoError(err)
			req.Equal(tt.width, enc.EncodingSize())

			seq := enc.Encode(tt.text)
			req.Nil(seq.Indexes)
			req.Len(seq.Vectors, len(tt.hot))
			for i, vec := range seq.Vectors {
				req.Len(vec, tt.width)
				ones := 0
				for j, v := range vec {
					if v == 1.0 {
						ones++
						req.Equal(tt.hot[i], j)
					} else {
						req.Zero(v)
					}
				}
				if tt.hot[i] == -1 {
					req.Zero(ones, "unknown token must map to an all-zero vector")
				} else {
					req.Equal(1, ones)
				}
			}

			// Then vectors are never shared between calls
			again := enc.Encode(tt.text)
			again.Vectors[0][0] = 42
			req.NotEqual(42.0, enc.Encode(tt.text).Vectors[0][0])
		})
	}
}

func TestTextEncoder_EncodeBatch(t *testing.T) {
	req := require.New(t)
	enc, err := NewTextEncoder("word_index", WithVocabulary(words))
	req.NoError(err)

	batch := enc.EncodeBatch([]string{"the cat", "", "mat sat the"})
	req.Len(batch, 3)
	req.Equal([]int{4, 5}, batch[0].Indexes)
	req.Equal(0, batch[1].Len())
	req.Equal([]int{9, 6, 4}, batch[2].Indexes)
}

func TestTextEncoder_ConstructionErrors(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		opts     []Option
		err      error
	}{
		{"word index without vocabulary", "word_index", nil, errors.ErrMissingVocabulary},
		{"word one-hot without vocabulary", "word_one_hot", []Option{WithCharacters(chars)}, errors.ErrMissingVocabulary},
		{"char index without characters", "char_index", []Option{WithVocabulary(words)}, errors.ErrMissingVocabulary},
		{"char one-hot without characters", "char_one_hot", nil, errors.ErrMissingVocabulary},
		{"one-hot index outside the width", "word_one_hot", []Option{WithVocabulary(words)}, errors.ErrInvalidVocabulary},
		{"negative index", "word_index", []Option{WithVocabulary(map[string]int{"x": -1})}, errors.ErrInvalidVocabulary},
		{"char embedding", "char_embedding", nil, errors.ErrUnimplementedStrategy},
		{"unknown model", "bert-base-uncased", nil, errors.ErrUnsupportedModel},
		{"pretrained without table", "glove", nil, errors.ErrMissingEmbeddings},
		{"bare pretrained kind", "pretrained", nil, errors.ErrReservedStrategy},
		{"custom without backend", "custom", []Option{WithVocabulary(words)}, errors.ErrReservedStrategy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			_, err := NewTextEncoder(tt.strategy, tt.opts...)
			req.ErrorIs(err, tt.err)
		})
	}
}

func TestParseStrategy(t *testing.T) {
	req := require.New(t)
	for s, name := range strategyNames {
		if s == Pretrained || s == Custom {
			continue
		}
		parsed, model := ParseStrategy(name)
		req.Equal(s, parsed)
		req.Empty(model)
	}

	parsed, model := ParseStrategy("fasttext")
	req.Equal(Pretrained, parsed)
	req.Equal("fasttext", model)
}
