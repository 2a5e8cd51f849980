package trainer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// ClassScore holds the one-vs-rest scores of a class.
type ClassScore struct {
	Class     int     `json:"class"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	FScore    float64 `json:"fscore"`
	Support   int     `json:"support"`
}

// Evaluation summarizes predictions accumulated over validation batches. Averages are
// macro averages over classes.
type Evaluation struct {
	Classes          []ClassScore `json:"classes"`
	AveragePrecision float64      `json:"average_precision"`
	AverageRecall    float64      `json:"average_recall"`
	AverageFScore    float64      `json:"average_fscore"`
	Accuracy         float64      `json:"accuracy"`
	Samples          int          `json:"samples"`
	// Confusion is indexed by [actual][predicted].
	Confusion [][]int `json:"confusion_matrix"`
}

// NewEvaluation derives every score from a square confusion matrix.
func NewEvaluation(confusion [][]int) Evaluation {
	n := len(confusion)
	eval := Evaluation{Confusion: confusion, Classes: make([]ClassScore, n)}

	var correct int
	for c := 0; c < n; c++ {
		var predicted, actual int
		for k := 0; k < n; k++ {
			predicted += confusion[k][c]
			actual += confusion[c][k]
		}
		tp := confusion[c][c]
		correct += tp
		eval.Samples += actual

		score := ClassScore{Class: c, Support: actual}
		score.Precision = ratio(tp, predicted)
		score.Recall = ratio(tp, actual)
		if score.Precision+score.Recall > 0 {
			score.FScore = 2 * score.Precision * score.Recall / (score.Precision + score.Recall)
		}
		eval.Classes[c] = score
	}

	if n > 0 {
		eval.AveragePrecision = lo.SumBy(eval.Classes, func(s ClassScore) float64 { return s.Precision }) / float64(n)
		eval.AverageRecall = lo.SumBy(eval.Classes, func(s ClassScore) float64 { return s.Recall }) / float64(n)
		eval.AverageFScore = lo.SumBy(eval.Classes, func(s ClassScore) float64 { return s.FScore }) / float64(n)
	}
	eval.Accuracy = ratio(correct, eval.Samples)
	return eval
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// Write prints the per-class scores, the averages and the confusion matrix. names maps
// a class index to a display name and may be nil.
func (e Evaluation) Write(w io.Writer, names map[int]string) error {
	name := func(c int) string {
		if n, ok := names[c]; ok {
			return n
		}
		return strconv.Itoa(c)
	}

	scores := tablewriter.NewWriter(w)
	scores.SetHeader([]string{"Class", "Precision", "Recall", "F-score", "Support"})
	scores.SetBorder(false)
	for _, s := range e.Classes {
		scores.Append([]string{name(s.Class), f3(s.Precision), f3(s.Recall), f3(s.FScore), strconv.Itoa(s.Support)})
	}
	scores.SetFooter([]string{"average", f3(e.AveragePrecision), f3(e.AverageRecall), f3(e.AverageFScore), strconv.Itoa(e.Samples)})
	scores.Render()

	if _, err := fmt.Fprintf(w, "\naccuracy: %.3f\n\nconfusion matrix (rows: actual, columns: predicted)\n", e.Accuracy); err != nil {
		return err
	}

	matrix := tablewriter.NewWriter(w)
	matrix.SetHeader(append([]string{""}, lo.Map(lo.Range(len(e.Confusion)), func(c int, _ int) string { return name(c) })...))
	matrix.SetBorder(false)
	for c, row := range e.Confusion {
		matrix.Append(append([]string{name(c)}, lo.Map(row, func(v int, _ int) string { return strconv.Itoa(v) })...))
	}
	matrix.Render()
	return nil
}

func f3(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
