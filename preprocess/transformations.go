// Package preprocess holds the text transformations applied to a batch of sentences
// before encoding.
package preprocess

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"mleus/errors"

	"github.com/samber/lo"
)

// Transformation maps a batch of sentences to a new batch of the same length.
// Inputs are never modified in place.
type Transformation func(sentences []string) []string

// Pipeline applies transformations in order.
func Pipeline(ts ...Transformation) Transformation {
	return func(sentences []string) []string {
		for _, t := range ts {
			sentences = t(sentences)
		}
		return sentences
	}
}

func each(fn func(string) string) Transformation {
	return func(sentences []string) []string {
		return lo.Map(sentences, func(s string, _ int) string { return fn(s) })
	}
}

var (
	extraSpaces  = regexp.MustCompile(` +`)
	punctuations = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// RemoveExtraSpaces collapses runs of spaces into one.
func RemoveExtraSpaces() Transformation {
	return each(func(s string) string { return extraSpaces.ReplaceAllString(s, " ") })
}

func ToLowerCase() Transformation {
	return each(strings.ToLower)
}

// Normalize is an alias of ToLowerCase.
func Normalize() Transformation {
	return ToLowerCase()
}

var apostrophes = [][2]string{
	{"'s", " is"},
	{"'ve", " have"},
	{"n't", " not"},
	{"'d", " would"},
	{"'m", " am"},
	{"'ll", " will"},
	{"'re", " are"},
}

// ReplaceApostrophes expands English contractions, one rule after the other.
func ReplaceApostrophes() Transformation {
	return each(func(s string) string {
		for _, kv := range apostrophes {
			s = strings.ReplaceAll(s, kv[0], kv[1])
		}
		return s
	})
}

// RemovePunctuations drops every rune that is neither a word character nor a space.
func RemovePunctuations() Transformation {
	return each(func(s string) string { return punctuations.ReplaceAllString(s, "") })
}

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// SeparatePunctuations inserts a space before each ASCII punctuation mark.
func SeparatePunctuations() Transformation {
	return each(func(s string) string {
		var sb strings.Builder
		for _, r := range s {
			if strings.ContainsRune(asciiPunctuation, r) {
				sb.WriteByte(' ')
			}
			sb.WriteRune(r)
		}
		return sb.String()
	})
}

// RemoveChars deletes every occurrence of the given strings.
func RemoveChars(chars []string) (Transformation, error) {
	remover, err := NewRemover(chars)
	if err != nil {
		return nil, err
	}
	return each(remover.Remove), nil
}

func RemoveStopWords() Transformation {
	return each(func(s string) string {
		return strings.Join(lo.Reject(strings.Fields(s), func(w string, _ int) bool {
			return IsStopWord(w)
		}), " ")
	})
}

// CleanWords keeps ASCII runes from 'A' to 'z' and digits inside each word.
func CleanWords() Transformation {
	return each(func(s string) string {
		words := strings.Fields(s)
		for i, word := range words {
			words[i] = strings.Map(func(r rune) rune {
				if (r >= 65 && r <= 122) || unicode.IsDigit(r) {
					return r
				}
				return -1
			}, word)
		}
		return strings.Join(words, " ")
	})
}

// WordPad appends token until every sentence has size words. A size <= 0 pads to
// the longest sentence of the batch.
func WordPad(size int, token string) Transformation {
	if token == "" {
		token = "pad"
	}
	return func(sentences []string) []string {
		target := size
		if target <= 0 {
			target = lo.Max(lo.Map(sentences, func(s string, _ int) int { return len(strings.Fields(s)) }))
		}
		return lo.Map(sentences, func(s string, _ int) string {
			tokens := strings.Fields(s)
			for len(tokens) < target {
				tokens = append(tokens, token)
			}
			return strings.Join(tokens, " ")
		})
	}
}

func WordTruncate(size int) Transformation {
	return each(func(s string) string {
		tokens := strings.Fields(s)
		return strings.Join(tokens[:max(0, min(size, len(tokens)))], " ")
	})
}

// CharPad appends token until every sentence has size characters. Each token counts
// as one character. A size <= 0 pads to the longest sentence of the batch.
func CharPad(size int, token string) Transformation {
	if token == "" {
		token = "#"
	}
	return func(sentences []string) []string {
		target := size
		if target <= 0 {
			target = lo.Max(lo.Map(sentences, func(s string, _ int) int { return len([]rune(s)) }))
		}
		return lo.Map(sentences, func(s string, _ int) string {
			n := len([]rune(s))
			if n >= target {
				return s
			}
			return s + strings.Repeat(token, target-n)
		})
	}
}

func CharTruncate(size int) Transformation {
	return each(func(s string) string {
		runes := []rune(s)
		return string(runes[:max(0, min(size, len(runes)))])
	})
}

// AddStartEndTokens wraps each sentence with <sos> and <eos>.
func AddStartEndTokens() Transformation {
	return each(func(s string) string {
		return strings.Join(append(append([]string{"<sos>"}, strings.Fields(s)...), "<eos>"), " ")
	})
}

// FromNames builds a pipeline from names such as "lower", "word_pad:20" or
// "remove_chars:@|#". Arguments follow a colon.
func FromNames(names []string) (Transformation, error) {
	ts := make([]Transformation, 0, len(names))
	for _, raw := range names {
		name, arg, _ := strings.Cut(strings.TrimSpace(raw), ":")
		var t Transformation
		switch name {
		case "":
			continue
		case "remove_extra_spaces":
			t = RemoveExtraSpaces()
		case "lower", "normalize":
			t = ToLowerCase()
		case "replace_apostrophes":
			t = ReplaceApostrophes()
		case "remove_punctuations":
			t = RemovePunctuations()
		case "separate_punctuations":
			t = SeparatePunctuations()
		case "remove_stop_words":
			t = RemoveStopWords()
		case "clean_words":
			t = CleanWords()
		case "add_start_end_tokens":
			t = AddStartEndTokens()
		case "remove_chars":
			var err error
			if t, err = RemoveChars(strings.Split(arg, "|")); err != nil {
				return nil, err
			}
		case "word_pad", "word_truncate", "char_pad", "char_truncate":
			size, err := sizeArg(name, arg)
			if err != nil {
				return nil, err
			}
			t = sized(name, size)
		default:
			return nil, fmt.Errorf("%w: %q", errors.ErrUnknownTransformation, name)
		}
		ts = append(ts, t)
	}
	return Pipeline(ts...), nil
}

func sizeArg(name, arg string) (int, error) {
	if arg == "" {
		return 0, nil
	}
	var size int
	if _, err := fmt.Sscanf(arg, "%d", &size); err != nil {
		return 0, fmt.Errorf("%w: %s expects a size, got %q", errors.ErrUnknownTransformation, name, arg)
	}
	return size, nil
}

func sized(name string, size int) Transformation {
	switch name {
	case "word_pad":
		return WordPad(size, "")
	case "word_truncate":
		return WordTruncate(size)
	case "char_pad":
		return CharPad(size, "")
	default:
		return CharTruncate(size)
	}
}
