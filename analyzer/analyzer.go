// Package analyzer computes descriptive statistics over a labelled text dataset and
// builds the vocabularies consumed by the index encoders.
package analyzer

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"mleus/dataset"
	"mleus/preprocess"

	"github.com/abadojack/whatlanggo"
	"github.com/samber/lo"
)

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Frequency is a token and how many times it occurs in the dataset.
type Frequency struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// ClassStats holds the per-instance counters of one label.
type ClassStats struct {
	Label                   string `json:"label"`
	Samples                 int    `json:"samples"`
	UniqueWords             int    `json:"unique_words"`
	Language                string `json:"language"`
	WordsPerInstance        []int  `json:"words_per_instance"`
	CharsPerInstance        []int  `json:"chars_per_instance"`
	StopWordsPerInstance    []int  `json:"stop_words_per_instance"`
	PunctuationsPerInstance []int  `json:"punctuations_per_instance"`
	UpperPerInstance        []int  `json:"upper_per_instance"`
	TitlePerInstance        []int  `json:"title_per_instance"`
}

// Report is the result of a full analysis. Averages use integer division.
type Report struct {
	Instances        int          `json:"instances"`
	AvgWords         int          `json:"avg_words"`
	AvgChars         int          `json:"avg_chars"`
	UniqueWords      int          `json:"unique_words"`
	UniqueChars      int          `json:"unique_chars"`
	WordsFrequencies []Frequency  `json:"words_frequencies"`
	CharsFrequencies []Frequency  `json:"chars_frequencies"`
	Classes          []ClassStats `json:"classes"`
}

type TextDatasetAnalyzer struct {
	texts  []string
	labels []string
	log    *slog.Logger
}

func NewTextDatasetAnalyzer(records []dataset.Record, log *slog.Logger) *TextDatasetAnalyzer {
	return &TextDatasetAnalyzer{
		texts:  dataset.Texts(records),
		labels: dataset.Labels(records),
		log:    log,
	}
}

// Analyze computes every statistic of the report. An empty dataset gives a zero report.
func (a *TextDatasetAnalyzer) Analyze() Report {
	report := Report{Instances: len(a.texts)}
	if report.Instances == 0 {
		return report
	}

	var words, chars int
	for _, text := range a.texts {
		words += len(strings.Fields(text))
		chars += len([]rune(text))
	}
	report.AvgWords = words / report.Instances
	report.AvgChars = chars / report.Instances

	report.WordsFrequencies = a.WordsFrequencies()
	report.CharsFrequencies = a.CharsFrequencies()
	report.UniqueWords = len(report.WordsFrequencies)
	report.UniqueChars = len(report.CharsFrequencies)
	report.Classes = a.classes()

	a.log.Debug("Dataset analyzed",
		"instances", report.Instances,
		"unique_words", report.UniqueWords,
		"classes", len(report.Classes))
	return report
}

// WordsFrequencies lists whitespace separated tokens, most common first. Ties keep
// the order of first appearance.
func (a *TextDatasetAnalyzer) WordsFrequencies() []Frequency {
	return frequencies(a.texts, strings.Fields)
}

func (a *TextDatasetAnalyzer) CharsFrequencies() []Frequency {
	return frequencies(a.texts, splitChars)
}

func splitChars(text string) []string {
	return lo.Map([]rune(text), func(r rune, _ int) string { return string(r) })
}

func frequencies(texts []string, split func(string) []string) []Frequency {
	counts := make(map[string]int)
	var order []string
	for _, text := range texts {
		for _, token := range split(text) {
			if _, ok := counts[token]; !ok {
				order = append(order, token)
			}
			counts[token]++
		}
	}

	freqs := lo.Map(order, func(token string, _ int) Frequency {
		return Frequency{Token: token, Count: counts[token]}
	})
	slices.SortStableFunc(freqs, func(x, y Frequency) int { return cmp.Compare(y.Count, x.Count) })
	return freqs
}

// classes orders labels by sample count, most frequent first.
func (a *TextDatasetAnalyzer) classes() []ClassStats {
	byLabel := lo.GroupBy(lo.Range(len(a.texts)), func(i int) string { return a.labels[i] })
	labels := lo.Uniq(a.labels)
	slices.SortStableFunc(labels, func(x, y string) int {
		return cmp.Compare(len(byLabel[y]), len(byLabel[x]))
	})

	return lo.Map(labels, func(label string, _ int) ClassStats {
		texts := lo.Map(byLabel[label], func(i int, _ int) string { return a.texts[i] })
		unique := lo.Uniq(lo.FlatMap(texts, func(t string, _ int) []string { return strings.Fields(t) }))

		return ClassStats{
			Label:                   label,
			Samples:                 len(texts),
			UniqueWords:             len(unique),
			Language:                language(texts),
			WordsPerInstance:        perInstance(texts, func(string) bool { return true }),
			CharsPerInstance:        lo.Map(texts, func(t string, _ int) int { return len([]rune(t)) }),
			StopWordsPerInstance:    perInstance(texts, preprocess.IsStopWord),
			PunctuationsPerInstance: lo.Map(texts, func(t string, _ int) int { return punctuations(t) }),
			UpperPerInstance:        perInstance(texts, isUpper),
			TitlePerInstance:        perInstance(texts, isTitle),
		}
	})
}

func perInstance(texts []string, match func(word string) bool) []int {
	return lo.Map(texts, func(t string, _ int) int {
		return lo.CountBy(strings.Fields(t), match)
	})
}

func punctuations(text string) int {
	var n int
	for _, word := range strings.Fields(text) {
		for _, r := range word {
			if strings.ContainsRune(asciiPunctuation, r) {
				n++
			}
		}
	}
	return n
}

// isUpper reports whether the word has at least one cased rune and no lower-case one.
func isUpper(word string) bool {
	cased := false
	for _, r := range word {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// isTitle reports whether every cased run of the word starts with an upper-case rune
// followed by lower-case ones.
func isTitle(word string) bool {
	cased := false
	previousCased := false
	for _, r := range word {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if previousCased {
				return false
			}
			previousCased = true
			cased = true
		case unicode.IsLower(r):
			if !previousCased {
				return false
			}
			previousCased = true
		default:
			previousCased = false
		}
	}
	return cased
}

// language returns the ISO 639-1 code of the language detected over all the texts of a
// class, or an empty string when detection is not reliable.
func language(texts []string) string {
	info := whatlanggo.Detect(strings.Join(texts, " "))
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
