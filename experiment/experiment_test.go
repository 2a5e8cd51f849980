package experiment

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mleus/errors"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func validSetup() Setup {
	return Setup{
		Project:       "sentiment",
		Author:        "alice",
		Model:         "centroid",
		Device:        "cpu",
		TotalSamples:  10,
		TrainSamples:  8,
		ValidSamples:  1,
		TestSamples:   1,
		Epochs:        2,
		BatchSize:     4,
		NumberClasses: 2,
		InputLength:   20,
	}
}

func newExperiment(t *testing.T, setup Setup) *SupervisedExperiment {
	e, err := NewSupervisedExperiment(setup, logs.GetLoggerFromLevel(slog.LevelDebug))
	require.NoError(t, err)
	e.now = func() time.Time { return time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC) }
	return e
}

func TestSetup_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Setup)
		valid  bool
	}{
		{"valid", func(*Setup) {}, true},
		{"no project", func(s *Setup) { s.Project = "" }, false},
		{"zero epochs", func(s *Setup) { s.Epochs = 0 }, false},
		{"zero batch size", func(s *Setup) { s.BatchSize = 0 }, false},
		{"train above total", func(s *Setup) { s.TrainSamples = 11 }, false},
		{"parenthesis in model", func(s *Setup) { s.Model = "cnn(2)" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			s := validSetup()
			tt.mutate(&s)
			if tt.valid {
				req.NoError(s.Validate())
			} else {
				req.Error(s.Validate())
			}
		})
	}
}

func TestSetup_NameRoundTrip(t *testing.T) {
	req := require.New(t)
	s := validSetup()
	req.Equal("nclasses(2)ninput(20)model(centroid)epochs(2)batchsize(4)device(cpu)", s.Name())

	parsed, suffix, ok := ParseName(s.Name() + "_second")
	req.True(ok)
	req.Equal("second", suffix)
	req.Equal(s.Model, parsed.Model)
	req.Equal(s.NumberClasses, parsed.NumberClasses)
	req.Equal(s.BatchSize, parsed.BatchSize)

	_, _, ok = ParseName("__pycache__")
	req.False(ok)
}

func TestCreate_Layout(t *testing.T) {
	req := require.New(t)
	root := t.TempDir()
	e := newExperiment(t, validSetup())

	dir, err := e.Create(root, Fail, "")
	req.NoError(err)
	req.Equal(filepath.Join(root, validSetup().Name()), dir)
	req.DirExists(filepath.Join(dir, "saved_model"))
	req.DirExists(filepath.Join(dir, "saved_data"))

	info, err := os.ReadFile(filepath.Join(dir, "info.txt"))
	req.NoError(err)
	lines := strings.Split(string(info), "\n")
	req.Equal("author: alice", lines[0])
	req.Equal("project: sentiment", lines[1])
	req.Equal("date and time: 2026-03-01 10:30", lines[2])
	req.Contains(string(info), "\t total training samples: 8\n")
	req.Contains(string(info), "\t device: cpu\n")
}

func TestCreate_ExistsPolicies(t *testing.T) {
	req := require.New(t)
	root := t.TempDir()

	first := newExperiment(t, validSetup())
	dir, err := first.Create(root, Fail, "")
	req.NoError(err)
	req.NoError(os.WriteFile(filepath.Join(dir, "marker"), nil, 0o644))

	_, err = newExperiment(t, validSetup()).Create(root, Fail, "")
	req.ErrorIs(err, errors.ErrExperimentExists)

	suffixed := newExperiment(t, validSetup())
	other, err := suffixed.Create(root, Suffix, "v2")
	req.NoError(err)
	req.Equal(dir+"_v2", other)
	req.Equal("v2", suffixed.Notes)

	_, err = newExperiment(t, validSetup()).Create(root, Suffix, "v2")
	req.ErrorIs(err, errors.ErrExperimentExists)

	overwritten, err := newExperiment(t, validSetup()).Create(root, Overwrite, "")
	req.NoError(err)
	req.Equal(dir, overwritten)
	req.NoFileExists(filepath.Join(dir, "marker"))
}

func TestSaveMiscAndPipeline(t *testing.T) {
	req := require.New(t)
	e := newExperiment(t, validSetup())

	req.ErrorIs(e.SaveMisc("vocab", map[string]int{"a": 1}), errors.ErrExperimentNotCreated)

	dir, err := e.Create(t.TempDir(), Fail, "")
	req.NoError(err)
	req.NoError(e.SaveMisc("vocab", map[string]int{"a": 1}))
	req.FileExists(filepath.Join(dir, "saved_data", "vocab.json"))

	req.NoError(e.SavePipeline(Pipeline{
		Strategy:     "word_index",
		Words:        map[string]int{"pad": 0, "cat": 1},
		ClassToIndex: map[string]int{"neg": 0, "pos": 1},
	}))
	data, err := os.ReadFile(filepath.Join(dir, "saved_pipeline", "index2class.json"))
	req.NoError(err)
	var index2class map[string]string
	req.NoError(json.Unmarshal(data, &index2class))
	req.Equal(map[string]string{"0": "neg", "1": "pos"}, index2class)
	req.NoFileExists(filepath.Join(dir, "saved_pipeline", "chars.json"))
}

func TestParseExistsPolicy(t *testing.T) {
	req := require.New(t)
	p, err := ParseExistsPolicy("OVERWRITE")
	req.NoError(err)
	req.Equal(Overwrite, p)

	p, err = ParseExistsPolicy("")
	req.NoError(err)
	req.Equal(Fail, p)

	_, err = ParseExistsPolicy("ask")
	req.Error(err)
}
