//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=../mocks/mock_trainer.go -package=mocks
package experiment

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"mleus/dataset"
	"mleus/encoder"
	"mleus/errors"
	"mleus/observability"
	"mleus/preprocess"
	"mleus/repositories"
	"mleus/trainer"

	"github.com/gookit/color"
	"github.com/samber/lo"
)

// Trainer is the model side of a run.
type Trainer interface {
	FitBatch(x []encoder.Sequence, y []int) (float64, error)
	EvalBatch(x []encoder.Sequence, y []int) error
	Evaluation() trainer.Evaluation
	Save(path string) error
	Args() map[string]any
}

// Encoder turns a batch of texts into model inputs.
type Encoder interface {
	EncodeBatch(texts []string) []encoder.Sequence
}

type RunInput struct {
	Trainer Trainer
	Batcher *dataset.Batcher[dataset.Record]
	Encoder Encoder
	// Transformation is applied to the texts of each batch before encoding. Optional.
	Transformation preprocess.Transformation
	ClassToIndex   map[string]int
	// Pipeline is saved under saved_pipeline when set.
	Pipeline *Pipeline
	// Repository registers the finished run when set.
	Repository repositories.IExperimentRepository
	Monitor    *observability.MonitoringManager
	Strategy   string
	// EpochPause waits between epochs.
	EpochPause time.Duration
	// ValidationContext arms a fresh cancellation for the validation phase. When nil,
	// validation follows the Run context, or runs to the end after an interrupted training.
	ValidationContext func() (context.Context, context.CancelFunc)
	// Out receives the progress lines, os.Stdout when nil.
	Out     io.Writer
	Colours bool
}

type RunResult struct {
	EpochLosses []float64
	Evaluation  trainer.Evaluation
	Stats       *observability.TrainingStats
	// Interrupted is set when the context ended training early.
	Interrupted bool
	// ValidationInterrupted is set when validation stopped before the last batch.
	ValidationInterrupted bool
	Record                repositories.ExperimentRecord
}

// EvalReport is the content of eval.json.
type EvalReport struct {
	trainer.Evaluation
	EpochLosses           []float64                    `json:"epoch_losses"`
	Interrupted           bool                         `json:"interrupted"`
	ValidationInterrupted bool                         `json:"validation_interrupted"`
	Stats                 *observability.TrainingStats `json:"stats,omitempty"`
}

// Run trains over the train partition for the configured epochs, then evaluates on the
// valid partition and writes the artifacts of the run. Cancelling ctx stops training at
// the current batch; validation and artifacts still happen.
func (e *SupervisedExperiment) Run(ctx context.Context, in RunInput) (RunResult, error) {
	if e.dir == "" {
		return RunResult{}, errors.ErrExperimentNotCreated
	}
	out := in.Out
	if out == nil {
		out = os.Stdout
	}
	p := progress{out: out, colours: in.Colours}

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	if in.Monitor != nil {
		go in.Monitor.Listen(monitorCtx)
	}

	var result RunResult
	var err error
	result.EpochLosses, result.Interrupted, err = e.train(ctx, in, p)
	if err != nil {
		return result, err
	}

	validCtx, stopValidation := e.validationContext(ctx, in, result.Interrupted)
	defer stopValidation()
	result.ValidationInterrupted, err = e.validate(validCtx, in, p)
	if err != nil {
		return result, err
	}
	result.Evaluation = in.Trainer.Evaluation()

	if in.Monitor != nil {
		stopMonitor()
		in.Monitor.Sample()
		result.Stats = lo.ToPtr(in.Monitor.GetLatest())
	}

	if err := e.writeArtifacts(in, result); err != nil {
		return result, err
	}

	result.Record = e.record(in, result)
	if in.Repository != nil {
		if err := in.Repository.Store(result.Record); err != nil {
			return result, fmt.Errorf("register experiment: %w", err)
		}
	}
	p.line(color.FgGreen, fmt.Sprintf("\nexperiment location: %s\n", e.dir))
	return result, nil
}

func (e *SupervisedExperiment) train(ctx context.Context, in RunInput, p progress) ([]float64, bool, error) {
	epochs := e.Setup.Epochs
	totalBatches, err := in.Batcher.TotalBatches(dataset.Train)
	if err != nil {
		return nil, false, err
	}

	var losses []float64
	for epoch := 1; epoch <= epochs; epoch++ {
		var batchLosses []float64
		for batch := 1; in.Batcher.HasNext(dataset.Train); batch++ {
			if ctx.Err() != nil {
				e.log.Warn("Training interrupted", "epoch", epoch, "batch", batch)
				in.Batcher.Initialize()
				return losses, true, nil
			}

			x, y, err := e.prepare(in, dataset.Train)
			if err != nil {
				return nil, false, err
			}
			loss, err := in.Trainer.FitBatch(x, y)
			if err != nil {
				return nil, false, fmt.Errorf("fit batch %d of epoch %d: %w", batch, epoch, err)
			}
			if in.Monitor != nil {
				in.Monitor.IncrBatch(len(y))
			}
			batchLosses = append(batchLosses, loss)
			p.line(color.FgCyan, fmt.Sprintf("Epoch: %d/%d\tBatch: %d/%d\tLoss: %.6f", epoch, epochs, batch, totalBatches, loss))
		}

		average := 0.0
		if len(batchLosses) > 0 {
			average = lo.Sum(batchLosses) / float64(len(batchLosses))
		}
		losses = append(losses, average)
		if in.Monitor != nil {
			in.Monitor.IncrEpochs()
		}
		p.line(color.FgYellow, fmt.Sprintf("\nEpoch: %d/%d\tAverageLoss: %.6f\n", epoch, epochs, average))
		e.log.Debug("Epoch done", "epoch", epoch, "average_loss", average)

		in.Batcher.Initialize()

		if epoch < epochs && in.EpochPause > 0 {
			select {
			case <-ctx.Done():
				e.log.Warn("Training interrupted", "epoch", epoch)
				return losses, true, nil
			case <-time.After(in.EpochPause):
			}
		}
	}
	return losses, false, nil
}

func (e *SupervisedExperiment) validationContext(ctx context.Context, in RunInput, trainingInterrupted bool) (context.Context, context.CancelFunc) {
	switch {
	case in.ValidationContext != nil:
		return in.ValidationContext()
	case trainingInterrupted:
		return context.WithoutCancel(ctx), func() {}
	default:
		return ctx, func() {}
	}
}

// validate reports whether ctx ended validation before the last batch.
func (e *SupervisedExperiment) validate(ctx context.Context, in RunInput, p progress) (bool, error) {
	totalBatches, err := in.Batcher.TotalBatches(dataset.Valid)
	if err != nil {
		return false, err
	}
	for batch := 1; in.Batcher.HasNext(dataset.Valid); batch++ {
		if ctx.Err() != nil {
			e.log.Warn("Validation interrupted", "batch", batch, "total_batches", totalBatches)
			in.Batcher.Initialize()
			return true, nil
		}
		x, y, err := e.prepare(in, dataset.Valid)
		if err != nil {
			return false, err
		}
		if err := in.Trainer.EvalBatch(x, y); err != nil {
			return false, fmt.Errorf("eval batch %d: %w", batch, err)
		}
		p.line(color.FgCyan, fmt.Sprintf("Batch: %d/%d", batch, totalBatches))
	}
	return false, nil
}

// prepare fetches the next batch of target and turns it into model inputs and labels.
func (e *SupervisedExperiment) prepare(in RunInput, target dataset.Target) ([]encoder.Sequence, []int, error) {
	batch, err := in.Batcher.NextBatch(target)
	if err != nil {
		return nil, nil, err
	}
	texts := dataset.Texts(batch)
	if in.Transformation != nil {
		texts = in.Transformation(texts)
	}

	y := make([]int, len(batch))
	for i, r := range batch {
		idx, ok := in.ClassToIndex[r.Label]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", errors.ErrUnknownClass, r.Label)
		}
		y[i] = idx
	}
	return in.Encoder.EncodeBatch(texts), y, nil
}

func (e *SupervisedExperiment) writeArtifacts(in RunInput, result RunResult) error {
	evalLog, err := os.Create(filepath.Join(e.dir, evalLogFile))
	if err != nil {
		return err
	}
	defer evalLog.Close()
	if err := result.Evaluation.Write(evalLog, IndexToClass(in.ClassToIndex)); err != nil {
		return err
	}

	report := EvalReport{
		Evaluation:            result.Evaluation,
		EpochLosses:           result.EpochLosses,
		Interrupted:           result.Interrupted,
		ValidationInterrupted: result.ValidationInterrupted,
		Stats:                 result.Stats,
	}
	if err := writeJSON(filepath.Join(e.dir, evalJSONFile), report); err != nil {
		return err
	}
	if err := writeCurve(filepath.Join(e.dir, curveFile), result.EpochLosses); err != nil {
		return err
	}

	if err := in.Trainer.Save(filepath.Join(e.dir, savedModelDir, "weights.json")); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	if err := writeJSON(filepath.Join(e.dir, savedModelDir, "args.json"), in.Trainer.Args()); err != nil {
		return err
	}

	if in.Pipeline != nil {
		return e.SavePipeline(*in.Pipeline)
	}
	return nil
}

func writeCurve(path string, losses []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"epoch", "average_loss"}); err != nil {
		return err
	}
	for i, l := range losses {
		if err := w.Write([]string{strconv.Itoa(i + 1), strconv.FormatFloat(l, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (e *SupervisedExperiment) record(in RunInput, result RunResult) repositories.ExperimentRecord {
	s := e.Setup
	return repositories.ExperimentRecord{
		ID:               e.ID,
		Project:          s.Project,
		Name:             e.Name(),
		Dir:              e.dir,
		Author:           s.Author,
		Model:            s.Model,
		Strategy:         in.Strategy,
		Device:           s.Device,
		Notes:            e.Notes,
		Classes:          s.NumberClasses,
		InputLength:      s.InputLength,
		Epochs:           s.Epochs,
		BatchSize:        s.BatchSize,
		AveragePrecision: result.Evaluation.AveragePrecision,
		AverageRecall:    result.Evaluation.AverageRecall,
		AverageFScore:    result.Evaluation.AverageFScore,
		Accuracy:         result.Evaluation.Accuracy,
		Losses:           result.EpochLosses,
		At:               e.now().UTC(),
	}
}

type progress struct {
	out     io.Writer
	colours bool
}

func (p progress) line(c color.Color, s string) {
	if p.colours {
		s = color.New(c).Render(s)
	}
	_, _ = fmt.Fprintln(p.out, s)
}
