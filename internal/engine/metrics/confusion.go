// Package metrics computes classification metrics from paired true and
// predicted label indices.
package metrics

import "fmt"

// ConfusionMatrix is a square table where cell [i][j] counts samples whose
// true label is i and predicted label is j.
type ConfusionMatrix [][]int

// Confusion tallies yTrue against yPred over n classes.
func Confusion(yTrue, yPred []int, n int) (ConfusionMatrix, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("metrics: %d true labels but %d predictions", len(yTrue), len(yPred))
	}
	cm := make(ConfusionMatrix, n)
	for i := range cm {
		cm[i] = make([]int, n)
	}
	for k := range yTrue {
		t, p := yTrue[k], yPred[k]
		if t < 0 || t >= n || p < 0 || p >= n {
			return nil, fmt.Errorf("metrics: sample %d has labels (%d, %d) outside [0, %d)", k, t, p, n)
		}
		cm[t][p]++
	}
	return cm, nil
}

// Size returns the number of classes.
func (cm ConfusionMatrix) Size() int { return len(cm) }

// Total returns the number of samples.
func (cm ConfusionMatrix) Total() int {
	n := 0
	for i := range cm {
		n += cm.RowSum(i)
	}
	return n
}

// RowSum returns the number of samples whose true label is i.
func (cm ConfusionMatrix) RowSum(i int) int {
	n := 0
	for _, c := range cm[i] {
		n += c
	}
	return n
}

// ColSum returns the number of samples predicted as j.
func (cm ConfusionMatrix) ColSum(j int) int {
	n := 0
	for i := range cm {
		n += cm[i][j]
	}
	return n
}

// Correct returns the trace: the number of correctly classified samples.
func (cm ConfusionMatrix) Correct() int {
	n := 0
	for i := range cm {
		n += cm[i][i]
	}
	return n
}
