// Package trainer holds the models driven by an experiment run.
package trainer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"

	"mleus/encoder"
	"mleus/errors"
)

const CentroidModel = "centroid"

// Centroid is a nearest-centroid classifier. Each sequence is pooled into a single
// feature vector: the mean of its vectors for one-hot and pretrained encodings, or a
// normalized histogram of its indexes for index encodings.
type Centroid struct {
	classes  int
	features int
	sums     [][]float64
	counts   []int
	// confusion is reset by ResetEvaluation only.
	confusion [][]int
	log       *slog.Logger
}

func NewCentroid(classes, features int, log *slog.Logger) (*Centroid, error) {
	if classes <= 0 || features <= 0 {
		return nil, fmt.Errorf("centroid needs positive classes and features, got %d and %d", classes, features)
	}
	c := &Centroid{
		classes:  classes,
		features: features,
		sums:     make([][]float64, classes),
		counts:   make([]int, classes),
		log:      log,
	}
	for i := range c.sums {
		c.sums[i] = make([]float64, features)
	}
	c.ResetEvaluation()
	return c, nil
}

// FitBatch adds the batch to the class means and returns the mean squared distance of
// each sample to the updated centroid of its class.
func (c *Centroid) FitBatch(x []encoder.Sequence, y []int) (float64, error) {
	if err := c.check(x, y); err != nil {
		return 0, err
	}

	features := make([][]float64, len(x))
	for i, seq := range x {
		features[i] = c.pool(seq)
		for f, v := range features[i] {
			c.sums[y[i]][f] += v
		}
		c.counts[y[i]]++
	}

	var loss float64
	for i, feat := range features {
		loss += squaredDistance(feat, c.centroid(y[i]))
	}
	return loss / float64(len(x)), nil
}

// EvalBatch predicts each sample and accumulates the confusion matrix.
func (c *Centroid) EvalBatch(x []encoder.Sequence, y []int) error {
	if err := c.check(x, y); err != nil {
		return err
	}
	for i, seq := range x {
		c.confusion[y[i]][c.Predict(seq)]++
	}
	return nil
}

// Predict returns the class of the nearest trained centroid, or 0 before any training.
func (c *Centroid) Predict(seq encoder.Sequence) int {
	feat := c.pool(seq)
	best, bestDistance := 0, math.Inf(1)
	for class := range c.classes {
		if c.counts[class] == 0 {
			continue
		}
		if d := squaredDistance(feat, c.centroid(class)); d < bestDistance {
			best, bestDistance = class, d
		}
	}
	return best
}

func (c *Centroid) Evaluation() Evaluation {
	confusion := make([][]int, c.classes)
	for i, row := range c.confusion {
		confusion[i] = append([]int(nil), row...)
	}
	return NewEvaluation(confusion)
}

func (c *Centroid) ResetEvaluation() {
	c.confusion = make([][]int, c.classes)
	for i := range c.confusion {
		c.confusion[i] = make([]int, c.classes)
	}
}

type centroidWeights struct {
	Classes   int         `json:"classes"`
	Features  int         `json:"features"`
	Counts    []int       `json:"counts"`
	Centroids [][]float64 `json:"centroids"`
}

// Save writes the centroids as JSON.
func (c *Centroid) Save(path string) error {
	weights := centroidWeights{Classes: c.classes, Features: c.features, Counts: c.counts}
	for class := range c.classes {
		weights.Centroids = append(weights.Centroids, c.centroid(class))
	}
	data, err := json.Marshal(weights)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	c.log.Debug("Centroids saved", "path", path, "classes", c.classes)
	return nil
}

// LoadCentroid restores a classifier saved with Save.
func LoadCentroid(path string, log *slog.Logger) (*Centroid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var weights centroidWeights
	if err := json.Unmarshal(data, &weights); err != nil {
		return nil, fmt.Errorf("centroid weights %s: %w", path, err)
	}
	c, err := NewCentroid(weights.Classes, weights.Features, log)
	if err != nil {
		return nil, err
	}
	if len(weights.Counts) != c.classes || len(weights.Centroids) != c.classes {
		return nil, fmt.Errorf("centroid weights %s: expected %d classes", path, c.classes)
	}
	for class, centroid := range weights.Centroids {
		if len(centroid) != c.features {
			return nil, fmt.Errorf("centroid weights %s: expected %d features", path, c.features)
		}
		c.counts[class] = weights.Counts[class]
		for f, v := range centroid {
			c.sums[class][f] = v * float64(weights.Counts[class])
		}
	}
	return c, nil
}

func (c *Centroid) Args() map[string]any {
	return map[string]any{
		"model":    CentroidModel,
		"classes":  c.classes,
		"features": c.features,
	}
}

func (c *Centroid) check(x []encoder.Sequence, y []int) error {
	if len(x) != len(y) {
		return fmt.Errorf("got %d sequences for %d labels", len(x), len(y))
	}
	for _, label := range y {
		if label < 0 || label >= c.classes {
			return fmt.Errorf("%w: %d", errors.ErrUnknownClass, label)
		}
	}
	return nil
}

func (c *Centroid) centroid(class int) []float64 {
	out := make([]float64, c.features)
	if c.counts[class] == 0 {
		return out
	}
	for f, v := range c.sums[class] {
		out[f] = v / float64(c.counts[class])
	}
	return out
}

func (c *Centroid) pool(seq encoder.Sequence) []float64 {
	feat := make([]float64, c.features)
	switch {
	case len(seq.Vectors) > 0:
		for _, vec := range seq.Vectors {
			for f := 0; f < min(len(vec), c.features); f++ {
				feat[f] += vec[f]
			}
		}
		for f := range feat {
			feat[f] /= float64(len(seq.Vectors))
		}
	case len(seq.Indexes) > 0:
		for _, idx := range seq.Indexes {
			if idx >= 0 && idx < c.features {
				feat[idx]++
			}
		}
		for f := range feat {
			feat[f] /= float64(len(seq.Indexes))
		}
	}
	return feat
}

func squaredDistance(a, b []float64) float64 {
	var d float64
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return d
}
