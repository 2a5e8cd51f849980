package analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"mleus/encoder"
	"mleus/errors"
)

const (
	WordPadToken = "pad"
	CharPadToken = "#"
)

// WordsIndex maps every word to an index in order of first appearance, starting at 1.
// The pad token always owns index 0. Words seen fewer than minFreq times are skipped
// when minFreq is positive.
func (a *TextDatasetAnalyzer) WordsIndex(minFreq int) map[string]int {
	return a.TopWordsIndex(0, minFreq)
}

// TopWordsIndex keeps only the maxWords most frequent words before indexing them like
// WordsIndex. A non-positive maxWords keeps every word.
func (a *TextDatasetAnalyzer) TopWordsIndex(maxWords, minFreq int) map[string]int {
	freqs := a.WordsFrequencies()
	if maxWords > 0 && maxWords < len(freqs) {
		freqs = freqs[:maxWords]
	}
	return index(a.texts, strings.Fields, freqs, WordPadToken, 1, minFreq)
}

// WordsToIndex numbers words from encoder.FirstWordIndex with no pad entry, so that the
// word_index reserved tokens never collide with vocabulary words.
func (a *TextDatasetAnalyzer) WordsToIndex(maxWords, minFreq int) map[string]int {
	freqs := a.WordsFrequencies()
	if maxWords > 0 && maxWords < len(freqs) {
		freqs = freqs[:maxWords]
	}
	return index(a.texts, strings.Fields, freqs, "", encoder.FirstWordIndex, minFreq)
}

// WordsIndexFor builds the word vocabulary expected by strategy.
func (a *TextDatasetAnalyzer) WordsIndexFor(strategy encoder.Strategy, maxWords, minFreq int) map[string]int {
	if strategy == encoder.WordIndex {
		return a.WordsToIndex(maxWords, minFreq)
	}
	return a.TopWordsIndex(maxWords, minFreq)
}

// CharsIndex is the character counterpart of WordsIndex, with '#' at index 0.
func (a *TextDatasetAnalyzer) CharsIndex(minFreq int) map[string]int {
	return index(a.texts, splitChars, a.CharsFrequencies(), CharPadToken, 1, minFreq)
}

// index only assigns tokens listed in freqs, counting from start. An empty pad adds no
// pad entry.
func index(texts []string, split func(string) []string, freqs []Frequency, pad string, start, minFreq int) map[string]int {
	counts := make(map[string]int, len(freqs))
	for _, f := range freqs {
		counts[f.Token] = f.Count
	}

	vocab := map[string]int{}
	if pad != "" {
		vocab[pad] = 0
	}
	next := start
	for _, text := range texts {
		for _, token := range split(text) {
			if _, ok := vocab[token]; ok {
				continue
			}
			count, listed := counts[token]
			if !listed || (minFreq > 0 && count < minFreq) {
				continue
			}
			vocab[token] = next
			next++
		}
	}
	return vocab
}

// SaveVocabulary writes the mapping as a JSON object.
func SaveVocabulary(path string, vocab map[string]int) error {
	data, err := json.MarshalIndent(vocab, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func LoadVocabulary(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var vocab map[string]int
	if err := json.Unmarshal(data, &vocab); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrInvalidVocabulary, path, err)
	}
	if len(vocab) == 0 {
		return nil, fmt.Errorf("%w: %s", errors.ErrMissingVocabulary, path)
	}
	return vocab, nil
}
