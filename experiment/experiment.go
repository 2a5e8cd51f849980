// Package experiment drives supervised training runs and keeps their artifacts on disk.
package experiment

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mleus/errors"

	"github.com/google/uuid"
)

// ExistsPolicy decides what Create does when the experiment directory is already there.
type ExistsPolicy string

const (
	Fail      ExistsPolicy = "fail"
	Overwrite ExistsPolicy = "overwrite"
	Suffix    ExistsPolicy = "suffix"
)

func ParseExistsPolicy(s string) (ExistsPolicy, error) {
	switch p := ExistsPolicy(strings.ToLower(s)); p {
	case Fail, Overwrite, Suffix:
		return p, nil
	case "":
		return Fail, nil
	default:
		return "", fmt.Errorf("unknown exists policy %q", s)
	}
}

const (
	savedModelDir    = "saved_model"
	savedDataDir     = "saved_data"
	savedPipelineDir = "saved_pipeline"
	infoFile         = "info.txt"
	evalLogFile      = "eval.log"
	evalJSONFile     = "eval.json"
	curveFile        = "learning_curve.csv"
)

// SupervisedExperiment owns the directory of one run.
type SupervisedExperiment struct {
	ID    uuid.UUID
	Setup Setup
	Notes string
	dir   string
	log   *slog.Logger
	now   func() time.Time
}

func NewSupervisedExperiment(setup Setup, log *slog.Logger) (*SupervisedExperiment, error) {
	if err := setup.Validate(); err != nil {
		return nil, err
	}
	return &SupervisedExperiment{ID: uuid.New(), Setup: setup, log: log, now: time.Now}, nil
}

// Dir is empty until Create succeeds.
func (e *SupervisedExperiment) Dir() string { return e.dir }

// Name is the directory name, suffix included.
func (e *SupervisedExperiment) Name() string { return filepath.Base(e.dir) }

// Create makes <root>/<setup name> with its saved_model and saved_data folders and
// writes info.txt. With the Suffix policy an existing directory leads to
// <setup name>_<suffix>, a fresh short id being used when suffix is empty.
func (e *SupervisedExperiment) Create(root string, policy ExistsPolicy, suffix string) (string, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", err
	}

	name := e.Setup.Name()
	dir := filepath.Join(root, name)
	if _, err := os.Stat(dir); err == nil {
		switch policy {
		case Overwrite:
			e.log.Warn("Overwriting previous experiment", "dir", dir)
			if err := os.RemoveAll(dir); err != nil {
				return "", err
			}
		case Suffix:
			if suffix == "" {
				suffix = e.ID.String()[:8]
			}
			e.Notes = suffix
			dir = filepath.Join(root, name+"_"+suffix)
			if _, err := os.Stat(dir); err == nil {
				return "", fmt.Errorf("%w: %s", errors.ErrExperimentExists, dir)
			}
		default:
			return "", fmt.Errorf("%w: %s", errors.ErrExperimentExists, dir)
		}
	} else if !os.IsNotExist(err) {
		return "", err
	}

	for _, d := range []string{dir, filepath.Join(dir, savedModelDir), filepath.Join(dir, savedDataDir)} {
		if err := os.Mkdir(d, 0o755); err != nil {
			return "", err
		}
	}
	e.dir = dir

	if err := e.writeInfo(); err != nil {
		return "", err
	}
	e.log.Info("Experiment created", "dir", dir, "id", e.ID)
	return dir, nil
}

func (e *SupervisedExperiment) writeInfo() error {
	s := e.Setup
	var sb strings.Builder
	fmt.Fprintf(&sb, "author: %s\n", s.Author)
	fmt.Fprintf(&sb, "project: %s\n", s.Project)
	fmt.Fprintf(&sb, "date and time: %s\n\n", e.now().Format("2006-01-02 15:04"))
	sb.WriteString("experiment setup:\n")
	fmt.Fprintf(&sb, "\t total training samples: %d\n", s.TrainSamples)
	fmt.Fprintf(&sb, "\t total validation samples: %d\n", s.ValidSamples)
	fmt.Fprintf(&sb, "\t total testing samples: %d\n", s.TestSamples)
	fmt.Fprintf(&sb, "\t model: %s\n", s.Model)
	fmt.Fprintf(&sb, "\t epochs: %d\n", s.Epochs)
	fmt.Fprintf(&sb, "\t batch size: %d\n", s.BatchSize)
	fmt.Fprintf(&sb, "\t number of classes: %d\n", s.NumberClasses)
	fmt.Fprintf(&sb, "\t input length: %d\n", s.InputLength)
	fmt.Fprintf(&sb, "\t device: %s\n", s.Device)
	return os.WriteFile(filepath.Join(e.dir, infoFile), []byte(sb.String()), 0o644)
}

// SaveMisc stores any JSON-serializable value as saved_data/<name>.json.
func (e *SupervisedExperiment) SaveMisc(name string, value any) error {
	if e.dir == "" {
		return errors.ErrExperimentNotCreated
	}
	return writeJSON(filepath.Join(e.dir, savedDataDir, name+".json"), value)
}

// Pipeline is everything needed to encode new inputs the way the run did.
type Pipeline struct {
	Strategy        string
	Words           map[string]int
	Chars           map[string]int
	Transformations []string
	ClassToIndex    map[string]int
}

// SavePipeline writes each non-empty part of the pipeline under saved_pipeline.
func (e *SupervisedExperiment) SavePipeline(p Pipeline) error {
	if e.dir == "" {
		return errors.ErrExperimentNotCreated
	}
	dir := filepath.Join(e.dir, savedPipelineDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	parts := map[string]any{"encoder": map[string]string{"strategy": p.Strategy}}
	if len(p.Words) > 0 {
		parts["words"] = p.Words
	}
	if len(p.Chars) > 0 {
		parts["chars"] = p.Chars
	}
	if len(p.Transformations) > 0 {
		parts["transformations"] = p.Transformations
	}
	if len(p.ClassToIndex) > 0 {
		parts["class2index"] = p.ClassToIndex
		parts["index2class"] = IndexToClass(p.ClassToIndex)
	}
	for name, value := range parts {
		if err := writeJSON(filepath.Join(dir, name+".json"), value); err != nil {
			return err
		}
	}
	return nil
}

// IndexToClass inverts a class mapping.
func IndexToClass(classToIndex map[string]int) map[int]string {
	out := make(map[int]string, len(classToIndex))
	for class, idx := range classToIndex {
		out[idx] = class
	}
	return out
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
