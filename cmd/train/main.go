package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"unicode/utf8"

	"mleus/analyzer"
	"mleus/dataset"
	"mleus/encoder"
	"mleus/experiment"
	"mleus/internal"
	"mleus/observability"
	"mleus/preprocess"
	"mleus/repositories"
	"mleus/trainer"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
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
		fmt.Fprintf(os.Stderr, "Training terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Configuration & Logger
	internal.LoadDotEnv(".env")
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate("train"); err != nil {
		return exitConfig, err
	}
	policy, err := experiment.ParseExistsPolicy(config.OnExists)
	if err != nil {
		return exitConfig, err
	}
	transformation, err := preprocess.FromNames(config.TransformationNames())
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	// Ctrl+C stops training at the current batch, the run is still evaluated and saved
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Dataset
	records, err := dataset.Load(config.DatasetPath, logger)
	if err != nil {
		return exitRuntime, err
	}
	if config.Seed != 0 {
		rng := rand.New(rand.NewSource(config.Seed))
		rng.Shuffle(len(records), func(i, j int) { records[i], records[j] = records[j], records[i] })
	}
	batcher, err := dataset.NewBatcher(records, config.BatchSize, dataset.WithSplit(dataset.Split{
		Valid: config.ValidRatio,
		Test:  config.TestRatio,
	}))
	if err != nil {
		return exitConfig, err
	}

	// 3. Encoding pipeline
	texts := transformation(dataset.Texts(records))
	pipeline, err := buildPipeline(config, records, texts, logger)
	if err != nil {
		return exitRuntime, err
	}
	enc, err := newEncoder(config, pipeline, logger)
	if err != nil {
		return exitConfig, err
	}
	pipeline.Strategy = enc.Strategy().String()
	if enc.Model() != "" {
		pipeline.Strategy = enc.Model()
	}

	model, err := trainer.NewCentroid(len(pipeline.ClassToIndex), enc.EncodingSize(), logger)
	if err != nil {
		return exitConfig, err
	}

	// 4. Experiment
	setup, err := newSetup(config, batcher, len(pipeline.ClassToIndex), inputLength(enc.Strategy(), texts))
	if err != nil {
		return exitConfig, err
	}
	exp, err := experiment.NewSupervisedExperiment(setup, logger)
	if err != nil {
		return exitConfig, err
	}
	if _, err := exp.Create(config.ExperimentsDir, policy, config.Suffix); err != nil {
		return exitRuntime, err
	}

	// 5. Registry (BadgerDB + Bluge)
	var repository repositories.IExperimentRepository
	if config.RegistryEnabled() {
		db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
		if err != nil {
			return exitRuntime, fmt.Errorf("database opening failed: %w", err)
		}
		defer func() {
			logger.Info("Closing BadgerDB...")
			_ = db.Close()
		}()

		if logger.Enabled(ctx, slog.LevelDebug) {
			logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d/inspect", config.DebugPort))
			database.StartDebugServer(db, config.DebugPort, "/inspect", repositories.ExperimentMapper)
		}

		blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
		if err != nil {
			return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
		}
		defer func() {
			logger.Info("Closing Bluge...")
			_ = blugeWriter.Close()
		}()

		repository = repositories.NewExperimentRepository(db, blugeWriter, logger, config.LimitExperiment)
	}

	monitor, err := observability.NewMonitoringManager(logger, config.MetricInterval)
	if err != nil {
		return exitRuntime, err
	}

	// 6. Training
	result, err := exp.Run(ctx, experiment.RunInput{
		Trainer:        model,
		Batcher:        batcher,
		Encoder:        enc,
		Transformation: transformation,
		ClassToIndex:   pipeline.ClassToIndex,
		Pipeline:       pipeline,
		Repository:     repository,
		Monitor:        monitor,
		Strategy:       pipeline.Strategy,
		EpochPause:     config.EpochPause,
		// A second Ctrl+C ends validation, results are still written
		ValidationContext: func() (context.Context, context.CancelFunc) {
			return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		},
		Out:     os.Stdout,
		Colours: config.Colours,
	})
	if err != nil {
		return exitRuntime, err
	}
	if err := result.Evaluation.Write(os.Stdout, experiment.IndexToClass(pipeline.ClassToIndex)); err != nil {
		return exitRuntime, err
	}

	logger.Info("Training finished",
		"experiment", exp.Name(),
		"interrupted", result.Interrupted,
		"accuracy", result.Evaluation.Accuracy)
	return exitOK, nil
}

// buildPipeline loads the vocabularies from disk when configured, otherwise builds them
// from the transformed dataset.
func buildPipeline(config internal.Config, records []dataset.Record, texts []string, logger *slog.Logger) (*experiment.Pipeline, error) {
	labels := lo.Uniq(dataset.Labels(records))
	slices.Sort(labels)
	classToIndex := lo.SliceToMap(labels, func(label string) (string, int) {
		return label, slices.Index(labels, label)
	})

	transformed := lo.Map(records, func(r dataset.Record, i int) dataset.Record {
		return dataset.Record{Text: texts[i], Label: r.Label}
	})
	a := analyzer.NewTextDatasetAnalyzer(transformed, logger)

	strategy, _ := encoder.ParseStrategy(config.Strategy)
	words := a.WordsIndexFor(strategy, config.MaxWords, config.MinFrequency)
	if config.VocabularyPath != "" {
		loaded, err := analyzer.LoadVocabulary(config.VocabularyPath)
		if err != nil {
			return nil, err
		}
		words = loaded
	}
	chars := a.CharsIndex(config.MinFrequency)
	if config.CharactersPath != "" {
		loaded, err := analyzer.LoadVocabulary(config.CharactersPath)
		if err != nil {
			return nil, err
		}
		chars = loaded
	}

	logger.Debug("Pipeline ready", "classes", len(classToIndex), "words", len(words), "chars", len(chars))
	return &experiment.Pipeline{
		Words:           words,
		Chars:           chars,
		Transformations: config.TransformationNames(),
		ClassToIndex:    classToIndex,
	}, nil
}

func newEncoder(config internal.Config, pipeline *experiment.Pipeline, logger *slog.Logger) (*encoder.TextEncoder, error) {
	opts := []encoder.Option{
		encoder.WithVocabulary(pipeline.Words),
		encoder.WithCharacters(pipeline.Chars),
		encoder.WithLogger(logger),
	}
	if config.EmbeddingPath != "" {
		opts = append(opts, encoder.WithEmbeddingPath(config.EmbeddingPath))
	}
	return encoder.NewTextEncoder(config.Strategy, opts...)
}

func newSetup(config internal.Config, batcher *dataset.Batcher[dataset.Record], classes, input int) (experiment.Setup, error) {
	train, err := batcher.Samples(dataset.Train)
	if err != nil {
		return experiment.Setup{}, err
	}
	valid, err := batcher.Samples(dataset.Valid)
	if err != nil {
		return experiment.Setup{}, err
	}
	test, err := batcher.Samples(dataset.Test)
	if err != nil {
		return experiment.Setup{}, err
	}
	return experiment.Setup{
		Project:       config.ProjectName,
		Author:        config.Author,
		Model:         trainer.CentroidModel,
		Device:        config.Device,
		TotalSamples:  batcher.TotalSamples(),
		TrainSamples:  train,
		ValidSamples:  valid,
		TestSamples:   test,
		Epochs:        config.Epochs,
		BatchSize:     batcher.BatchSize(),
		NumberClasses: classes,
		InputLength:   input,
	}, nil
}

// inputLength is the longest transformed sample, in tokens for word strategies and in
// characters otherwise.
func inputLength(strategy encoder.Strategy, texts []string) int {
	count := func(text string) int { return len(strings.Fields(text)) }
	if strategy == encoder.CharIndex || strategy == encoder.CharOneHot {
		count = utf8.RuneCountInString
	}
	return lo.Max(lo.Map(texts, func(text string, _ int) int { return count(text) }))
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}
