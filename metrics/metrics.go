// Package metrics computes classification metrics from predicted and true class positions.
package metrics

import "fmt"
import "strings"
import "text/tabwriter"

import "github.com/pkg/errors"

// Class holds the metrics of one class, or an average over classes.
type Class struct {
	Name      string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report is the outcome of an evaluation. Undefined precision or recall (zero
// denominator) is reported as 0.
type Report struct {
	Total    int
	Correct  int
	Accuracy float64

	Classes  []Class
	Macro    Class
	Weighted Class

	// Confusion[true][predicted] counts samples.
	Confusion [][]int
}

// Compute builds the report for classes classes. names may be nil; missing names
// become "Class N" with N counted from 1.
func Compute(labels, preds []int, classes int, names []string) (*Report, error) {
	if len(labels) != len(preds) {
		return nil, errors.Errorf("%d labels but %d predictions", len(labels), len(preds))
	}
	if classes < 1 {
		return nil, errors.Errorf("%d classes", classes)
	}
	r := &Report{Total: len(labels), Confusion: make([][]int, classes)}
	for i := range r.Confusion {
		r.Confusion[i] = make([]int, classes)
	}
	for i := range labels {
		t, p := labels[i], preds[i]
		if t < 0 || t >= classes || p < 0 || p >= classes {
			return nil, errors.Errorf("sample %d: label %d prediction %d outside %d classes", i, t, p, classes)
		}
		r.Confusion[t][p]++
		if t == p {
			r.Correct++
		}
	}
	if r.Total > 0 {
		r.Accuracy = float64(r.Correct) / float64(r.Total)
	}

	for c := 0; c < classes; c++ {
		var predicted, support int
		for k := 0; k < classes; k++ {
			predicted += r.Confusion[k][c]
			support += r.Confusion[c][k]
		}
		tp := r.Confusion[c][c]
		m := Class{Name: name(names, c), Support: support}
		if predicted > 0 {
			m.Precision = float64(tp) / float64(predicted)
		}
		if support > 0 {
			m.Recall = float64(tp) / float64(support)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		r.Classes = append(r.Classes, m)

		r.Macro.Precision += m.Precision / float64(classes)
		r.Macro.Recall += m.Recall / float64(classes)
		r.Macro.F1 += m.F1 / float64(classes)
		if r.Total > 0 {
			w := float64(support) / float64(r.Total)
			r.Weighted.Precision += w * m.Precision
			r.Weighted.Recall += w * m.Recall
			r.Weighted.F1 += w * m.F1
		}
	}
	r.Macro.Name, r.Macro.Support = "macro avg", r.Total
	r.Weighted.Name, r.Weighted.Support = "weighted avg", r.Total
	return r, nil
}

func name(names []string, c int) string {
	if c < len(names) && names[c] != "" {
		return names[c]
	}
	return fmt.Sprintf("Class %d", c+1)
}

// String renders a classification report followed by the confusion matrix.
func (r *Report) String() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "\tprecision\trecall\tf1-score\tsupport\t\n")
	for _, c := range r.Classes {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%d\t\n", c.Name, c.Precision, c.Recall, c.F1, c.Support)
	}
	fmt.Fprintf(w, "\t\t\t\t\t\n")
	fmt.Fprintf(w, "accuracy\t\t\t%.4f\t%d\t\n", r.Accuracy, r.Total)
	for _, c := range []Class{r.Macro, r.Weighted} {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%d\t\n", c.Name, c.Precision, c.Recall, c.F1, c.Support)
	}
	w.Flush()

	sb.WriteString("\nconfusion matrix (rows: true, columns: predicted)\n")
	w = tabwriter.NewWriter(&sb, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, c := range r.Classes {
		fmt.Fprintf(w, "\t%s", c.Name)
	}
	fmt.Fprintf(w, "\t\n")
	for i, row := range r.Confusion {
		fmt.Fprintf(w, "%s", r.Classes[i].Name)
		for _, v := range row {
			fmt.Fprintf(w, "\t%d", v)
		}
		fmt.Fprintf(w, "\t\n")
	}
	w.Flush()
	return sb.String()
}
