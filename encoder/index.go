package encoder

import (
	"fmt"
	"strings"

	"mleus/errors"

	"github.com/samber/lo"
)

// Reserved word indexes. They take precedence over the vocabulary content.
const (
	SOS = "<sos>"
	EOS = "<eos>"
	PAD = "<pad>"

	SOSIndex     = 0
	EOSIndex     = 1
	PADIndex     = 2
	UnknownIndex = 3

	reservedWordSlots = 4
)

// FirstWordIndex is the lowest vocabulary index that no reserved word shadows.
const FirstWordIndex = reservedWordSlots

// UnknownCharIndex is the index of characters missing from the mapping.
const UnknownCharIndex = 0

func splitWords(text string) []string {
	return strings.Fields(text)
}

func splitChars(text string) []string {
	return lo.Map([]rune(text), func(r rune, _ int) string { return string(r) })
}

type charIndex struct {
	chars map[string]int
}

func newCharIndex(chars map[string]int) (Backend, error) {
	if len(chars) == 0 {
		return nil, fmt.Errorf("%w: characters", errors.ErrMissingVocabulary)
	}
	if err := validateIndexes(chars, 0); err != nil {
		return nil, err
	}
	return charIndex{chars: chars}, nil
}

func (c charIndex) Encode(text string) Sequence {
	runes := []rune(text)
	indexes := make([]int, len(runes))
	for i, r := range runes {
		if idx, ok := c.chars[string(r)]; ok {
			indexes[i] = idx
		} else {
			indexes[i] = UnknownCharIndex
		}
	}
	return Sequence{Indexes: indexes}
}

func (c charIndex) EncodingSize() int {
	return len(c.chars)
}

type wordIndex struct {
	words    map[string]int
	maxIndex int
}

func newWordIndex(words map[string]int) (Backend, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: words", errors.ErrMissingVocabulary)
	}
	if err := validateIndexes(words, 0); err != nil {
		return nil, err
	}
	return wordIndex{words: words, maxIndex: lo.Max(lo.Values(words))}, nil
}

func (w wordIndex) Encode(text string) Sequence {
	tokens := splitWords(text)
	indexes := make([]int, len(tokens))
	for i, token := range tokens {
		indexes[i] = w.index(token)
	}
	return Sequence{Indexes: indexes}
}

func (w wordIndex) index(token string) int {
	switch token {
	case SOS:
		return SOSIndex
	case EOS:
		return EOSIndex
	case PAD:
		return PADIndex
	}
	if idx, ok := w.words[token]; ok {
		return idx
	}
	return UnknownIndex
}

func (w wordIndex) EncodingSize() int {
	return w.maxIndex + reservedWordSlots
}
