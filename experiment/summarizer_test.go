package experiment

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mleus/errors"
	"mleus/trainer"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestSummarizer_Run(t *testing.T) {
	req := require.New(t)
	root := t.TempDir()

	first := newExperiment(t, validSetup())
	dir, err := first.Create(root, Fail, "")
	req.NoError(err)
	req.NoError(os.WriteFile(filepath.Join(dir, "eval.log"), []byte("accuracy: 0.750\n"), 0o644))
	req.NoError(writeJSON(filepath.Join(dir, "eval.json"), EvalReport{
		Evaluation: trainer.Evaluation{AveragePrecision: 0.5, AverageRecall: 0.25, AverageFScore: 0.125, Accuracy: 0.75},
	}))

	// A second run of the same setup without evaluation
	_, err = newExperiment(t, validSetup()).Create(root, Suffix, "retry")
	req.NoError(err)

	// Noise that is not an experiment
	req.NoError(os.Mkdir(filepath.Join(root, "__pycache__"), 0o755))
	req.NoError(os.WriteFile(filepath.Join(root, "notes.txt"), nil, 0o644))

	s := NewSummarizer(root, "sentiment", logs.GetLoggerFromLevel(slog.LevelDebug))
	n, err := s.Run()
	req.NoError(err)
	req.Equal(2, n)

	summary, err := os.ReadFile(filepath.Join(root, "summary.txt"))
	req.NoError(err)
	req.Equal(2, strings.Count(string(summary), "########### Experiment #"))
	req.Contains(string(summary), "accuracy: 0.750")

	md, err := os.ReadFile(filepath.Join(root, "experiments.md"))
	req.NoError(err)
	req.Contains(string(md), "# SENTIMENT")
	req.Contains(string(md), "Number of experiments: 2")
	req.Contains(string(md), "| Experiment Setup")
	req.Contains(string(md), "0.500")
	req.Contains(string(md), "0.750")
	req.Contains(string(md), "Notes: retry")
	req.Contains(string(md), "n/a")
}

func TestSummarizer_Empty(t *testing.T) {
	req := require.New(t)
	_, err := NewSummarizer(t.TempDir(), "p", logs.GetLoggerFromLevel(slog.LevelDebug)).Run()
	req.ErrorIs(err, errors.ErrNoExperiments)
}
