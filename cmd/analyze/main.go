package main

import (
	"fmt"
	"os"
	"path/filepath"

	"mleus/analyzer"
	"mleus/dataset"
	"mleus/encoder"
	"mleus/internal"
	"mleus/preprocess"

	"github.com/Netflix/go-env"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run prints the dataset report and saves the words and chars vocabularies used by
// the index and one-hot strategies.
func run() (int, error) {
	internal.LoadDotEnv(".env")
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate("analyze"); err != nil {
		return exitConfig, err
	}
	transformation, err := preprocess.FromNames(config.TransformationNames())
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	records, err := dataset.Load(config.DatasetPath, logger)
	if err != nil {
		return exitRuntime, err
	}

	// The report describes the raw dataset
	report := analyzer.NewTextDatasetAnalyzer(records, logger).Analyze()
	if err := report.Write(os.Stdout, analyzer.DefaultTopTokens); err != nil {
		return exitRuntime, err
	}

	// The vocabularies follow the transformations applied at training time
	texts := transformation(dataset.Texts(records))
	transformed := lo.Map(records, func(r dataset.Record, i int) dataset.Record {
		return dataset.Record{Text: texts[i], Label: r.Label}
	})
	a := analyzer.NewTextDatasetAnalyzer(transformed, logger)

	wordsPath := lo.Ternary(config.VocabularyPath != "", config.VocabularyPath, filepath.Join(config.ExperimentsDir, "words.json"))
	charsPath := lo.Ternary(config.CharactersPath != "", config.CharactersPath, filepath.Join(config.ExperimentsDir, "chars.json"))
	for _, p := range []string{wordsPath, charsPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return exitRuntime, err
		}
	}

	strategy, _ := encoder.ParseStrategy(config.Strategy)
	words := a.WordsIndexFor(strategy, config.MaxWords, config.MinFrequency)
	if err := analyzer.SaveVocabulary(wordsPath, words); err != nil {
		return exitRuntime, err
	}
	chars := a.CharsIndex(config.MinFrequency)
	if err := analyzer.SaveVocabulary(charsPath, chars); err != nil {
		return exitRuntime, err
	}

	logger.Info("Vocabularies saved",
		"words", wordsPath, "words_count", len(words),
		"chars", charsPath, "chars_count", len(chars))
	return exitOK, nil
}
