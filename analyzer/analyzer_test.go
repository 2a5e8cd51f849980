package analyzer

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"mleus/dataset"
	"mleus/encoder"
	"mleus/errors"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newAnalyzer(records []dataset.Record) *TextDatasetAnalyzer {
	return NewTextDatasetAnalyzer(records, logs.GetLoggerFromLevel(slog.LevelDebug))
}

var records = []dataset.Record{
	{Text: "the cat sat", Label: "pos"},
	{Text: "a Dog RAN!", Label: "neg"},
	{Text: "the cat", Label: "pos"},
}

func TestAnalyze(t *testing.T) {
	req := require.New(t)

	report := newAnalyzer(records).Analyze()
	req.Equal(3, report.Instances)
	// 8 words / 3 and 28 chars / 3, integer division
	req.Equal(2, report.AvgWords)
	req.Equal(9, report.AvgChars)
	req.Equal(6, report.UniqueWords)

	req.Equal([]Frequency{
		{"the", 2}, {"cat", 2}, {"sat", 1}, {"a", 1}, {"Dog", 1}, {"RAN!", 1},
	}, report.WordsFrequencies)
	// 't' and ' ' both occur 5 times, 't' comes first
	req.Equal(Frequency{"t", 5}, report.CharsFrequencies[0])
	req.Equal(Frequency{" ", 5}, report.CharsFrequencies[1])

	req.Len(report.Classes, 2)
	pos, neg := report.Classes[0], report.Classes[1]
	req.Equal("pos", pos.Label)
	req.Equal(2, pos.Samples)
	req.Equal(3, pos.UniqueWords)
	req.Equal([]int{3, 2}, pos.WordsPerInstance)
	req.Equal([]int{11, 7}, pos.CharsPerInstance)
	req.Equal([]int{1, 1}, pos.StopWordsPerInstance)

	req.Equal("neg", neg.Label)
	req.Equal([]int{1}, neg.StopWordsPerInstance)
	req.Equal([]int{1}, neg.PunctuationsPerInstance)
	req.Equal([]int{1}, neg.UpperPerInstance)
	req.Equal([]int{1}, neg.TitlePerInstance)
}

func TestAnalyze_Empty(t *testing.T) {
	req := require.New(t)
	req.Equal(Report{}, newAnalyzer(nil).Analyze())
}

func TestAnalyze_Language(t *testing.T) {
	req := require.New(t)
	text := "This is a fairly long English sentence that should be detected without any doubt by the detector, " +
		"because it contains plenty of very common words and the usual structure of the language."

	report := newAnalyzer([]dataset.Record{{Text: text, Label: "en"}}).Analyze()
	req.Equal("en", report.Classes[0].Language)
}

func TestCasing(t *testing.T) {
	tests := []struct {
		word  string
		upper bool
		title bool
	}{
		{"RAN", true, false},
		{"Dog", false, true},
		{"dog", false, false},
		{"Hello-World", false, true},
		{"42", false, false},
		{"A", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			req := require.New(t)
			req.Equal(tt.upper, isUpper(tt.word))
			req.Equal(tt.title, isTitle(tt.word))
		})
	}
}

func TestIndexes(t *testing.T) {
	req := require.New(t)
	a := newAnalyzer(records)

	req.Equal(map[string]int{
		"pad": 0, "the": 1, "cat": 2, "sat": 3, "a": 4, "Dog": 5, "RAN!": 6,
	}, a.WordsIndex(0))
	req.Equal(map[string]int{"pad": 0, "the": 1, "cat": 2}, a.WordsIndex(2))

	chars := a.CharsIndex(0)
	req.Equal(0, chars["#"])
	req.Equal(1, chars["t"])
	req.Equal(2, chars["h"])
}

func TestVocabulary_SaveLoad(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "words.json")

	vocab := newAnalyzer(records).WordsIndex(0)
	req.NoError(SaveVocabulary(path, vocab))

	loaded, err := LoadVocabulary(path)
	req.NoError(err)
	req.Equal(vocab, loaded)

	broken := filepath.Join(dir, "broken.json")
	req.NoError(os.WriteFile(broken, []byte("[1, 2"), 0o644))
	_, err = LoadVocabulary(broken)
	req.ErrorIs(err, errors.ErrInvalidVocabulary)

	empty := filepath.Join(dir, "empty.json")
	req.NoError(os.WriteFile(empty, []byte("{}"), 0o644))
	_, err = LoadVocabulary(empty)
	req.ErrorIs(err, errors.ErrMissingVocabulary)
}

func TestReport_Write(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer

	req.NoError(newAnalyzer(records).Analyze().Write(&buf, 2))
	out := buf.String()
	req.Contains(out, "average number of words")
	req.Contains(out, "\"the\"")
	req.NotContains(out, "\"sat\"")
	req.Contains(out, "neg")
}

func TestTopWordsIndex(t *testing.T) {
	req := require.New(t)
	a := newAnalyzer(records)

	// "the" and "cat" are the two most frequent words
	req.Equal(map[string]int{"pad": 0, "the": 1, "cat": 2}, a.TopWordsIndex(2, 0))
	req.Equal(a.WordsIndex(0), a.TopWordsIndex(0, 0))
}

func TestWordsToIndex_EncodesClearOfReservedIndexes(t *testing.T) {
	req := require.New(t)
	a := newAnalyzer([]dataset.Record{{Text: "good movie great plot", Label: "pos"}})

	vocab := a.WordsToIndex(0, 0)
	req.Equal(map[string]int{"good": 4, "movie": 5, "great": 6, "plot": 7}, vocab)
	req.Equal(vocab, a.WordsIndexFor(encoder.WordIndex, 0, 0))
	req.Equal(a.WordsIndex(0), a.WordsIndexFor(encoder.WordOneHot, 0, 0))

	enc, err := encoder.NewTextEncoder("word_index", encoder.WithVocabulary(vocab))
	req.NoError(err)
	seq := enc.Encode("<sos> good <eos> movie <pad> great zzz plot")
	req.Equal([]int{
		encoder.SOSIndex, 4, encoder.EOSIndex, 5, encoder.PADIndex, 6, encoder.UnknownIndex, 7,
	}, seq.Indexes)
	req.Equal(8, enc.EncodingSize())
}
