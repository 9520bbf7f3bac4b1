package service

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/AliSleiman0/loan-default-predictor/internal/domain/model"
)

// ErrSingleClass is returned when a metric needs both classes present.
var ErrSingleClass = errors.New("only one class present")

// ROCAUC returns the area under the ROC curve of scores against 0/1 labels.
// Tied scores contribute half credit.
func ROCAUC(labels []int, scores []float64) (float64, error) {
	if len(labels) != len(scores) {
		return 0, fmt.Errorf("roc auc: %d labels for %d scores", len(labels), len(scores))
	}

	y := slices.Clone(scores)
	classes := make([]bool, len(labels))
	var pos int
	for i, l := range labels {
		classes[i] = l == 1
		if classes[i] {
			pos++
		}
	}
	if pos == 0 || pos == len(labels) {
		return 0, fmt.Errorf("roc auc: %w", ErrSingleClass)
	}

	stat.SortWeightedLabeled(y, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}

// Classify applies an inclusive threshold to probabilities.
func Classify(probs []float64, threshold float64) []int {
	out := make([]int, len(probs))
	for i, p := range probs {
		if p >= threshold {
			out[i] = 1
		}
	}
	return out
}

// NewClassificationReport computes per-class precision, recall, F1 and
// support plus overall accuracy. Classes are keyed "0" and "1". Undefined
// ratios are reported as 0.
func NewClassificationReport(labels, preds []int) (model.ClassificationReport, error) {
	if len(labels) != len(preds) {
		return model.ClassificationReport{}, fmt.Errorf("report: %d labels for %d predictions", len(labels), len(preds))
	}
	if len(labels) == 0 {
		return model.ClassificationReport{}, errors.New("report: no samples")
	}

	report := model.ClassificationReport{Classes: make(map[string]model.ClassMetrics, 2)}
	var correct int
	for i := range labels {
		if labels[i] == preds[i] {
			correct++
		}
	}
	report.Accuracy = float64(correct) / float64(len(labels))

	for _, class := range []int{0, 1} {
		var tp, fp, fn, support int
		for i := range labels {
			switch {
			case labels[i] == class && preds[i] == class:
				tp++
			case labels[i] != class && preds[i] == class:
				fp++
			case labels[i] == class && preds[i] != class:
				fn++
			}
			if labels[i] == class {
				support++
			}
		}
		precision := ratio(tp, tp+fp)
		recall := ratio(tp, tp+fn)
		var f1 float64
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		report.Classes[fmt.Sprint(class)] = model.ClassMetrics{
			Precision: precision, Recall: recall, F1: f1, Support: support,
		}
	}
	return report, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
