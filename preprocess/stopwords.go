package preprocess

import (
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"strings"

	"mleus/errors"
)

//go:embed stopwords/*.txt
var stopWordsFS embed.FS

// stopWords is the English (NLTK) list, loaded once for the whole process.
var stopWords = mustLoadStopWords()

func mustLoadStopWords() map[string]struct{} {
	words, err := LoadStopWords(stopWordsFS, "stopwords/en.txt")
	if err != nil {
		panic(err)
	}
	return words
}

// LoadStopWords reads one word per line. Blank lines are skipped.
func LoadStopWords(fsys fs.FS, path string) (map[string]struct{}, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}

	words := make(map[string]struct{})
	// Scanner handles both \n and \r\n endings
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			words[line] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, errors.ErrEmptyStopWords
	}
	return words, nil
}

// IsStopWord is case-sensitive, like the list itself ("I" is listed, "The" is not).
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}
