package preprocess

import (
	"slices"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// Remover deletes every occurrence of a set of patterns in a single pass over the text.
type Remover struct {
	matcher *goahocorasick.Machine
}

// NewRemover builds the Aho-Corasick automaton. Empty and duplicate patterns are ignored.
func NewRemover(patterns []string) (*Remover, error) {
	unique := lo.Uniq(lo.Compact(patterns))
	slices.Sort(unique)
	runes := lo.Map(unique, func(p string, _ int) []rune { return []rune(p) })
	if len(runes) == 0 {
		return &Remover{}, nil
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(runes); err != nil {
		return nil, err
	}
	return &Remover{matcher: m}, nil
}

// Remove drops the runes covered by any match. Overlapping matches are all removed.
func (r *Remover) Remove(text string) string {
	if r.matcher == nil || text == "" {
		return text
	}

	content := []rune(text)
	spans := r.matcher.MultiPatternSearch(content, false)
	if len(spans) == 0 {
		return text
	}

	drop := make([]bool, len(content))
	for _, span := range spans {
		end := span.Pos + len(span.Word)
		if span.Pos < 0 || end > len(content) {
			continue
		}
		for i := span.Pos; i < end; i++ {
			drop[i] = true
		}
	}

	out := make([]rune, 0, len(content))
	for i, c := range content {
		if !drop[i] {
			out = append(out, c)
		}
	}
	return string(out)
}
