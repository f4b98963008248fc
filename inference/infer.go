// Package inference classifies single texts with a trained hybrid classifier.
package inference

import "fmt"

import "github.com/pkg/errors"

import "github.com/neurlang/newsclassifier/cleaner"
import "github.com/neurlang/newsclassifier/datasets"
import "github.com/neurlang/newsclassifier/net/hybrid"
import "github.com/neurlang/newsclassifier/tokenizer"

// Prediction is the outcome for one text.
type Prediction struct {
	Class      int       // class position
	Label      int       // raw label value
	Name       string    // display name
	Confidence float64   // probability of Class
	Probs      []float64 // probability of every class
}

// Predict cleans, tokenizes and classifies text. labels may be nil, then the label set
// stored with the network is used, if any.
func Predict(model *hybrid.Classifier, tok *tokenizer.Adapter, labels *datasets.Labels, text string) (p Prediction, err error) {
	ids, mask := tok.Encode(cleaner.Clean(text), tok.MaxLength)
	net := model.Network
	defer net.SetTraining(net.Training())
	net.SetTraining(false)

	a, err := model.Forward([][]int64{ids}, [][]int64{mask})
	if err != nil {
		return p, errors.Wrap(err, "classify")
	}
	probs := hybrid.Softmax(a.Logits)
	p.Probs = append([]float64(nil), probs.RawRowView(0)...)
	p.Class = hybrid.Argmax(a.Logits)[0]
	p.Confidence = p.Probs[p.Class]
	p.Label = p.Class
	p.Name = fmt.Sprintf("Class %d", p.Class+1)
	if labels == nil {
		labels = net.Labels()
	}
	if labels != nil {
		p.Label = labels.Value(p.Class)
		p.Name = labels.Name(p.Class)
	}
	return p, nil
}
