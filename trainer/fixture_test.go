package trainer

import "strings"
import "testing"

import "github.com/stretchr/testify/require"

import "github.com/neurlang/newsclassifier/datasets"
import "github.com/neurlang/newsclassifier/loader"
import "github.com/neurlang/newsclassifier/net/hybrid"
import "github.com/neurlang/newsclassifier/tokenizer"

var vocab = map[string]int{"ball": 5, "game": 6, "stock": 7, "money": 8}

// words maps known words to their ids and everything else to 9.
type words struct{}

func (words) Encode(text string) []int {
	var o []int
	for _, w := range strings.Fields(text) {
		if id, ok := vocab[w]; ok {
			o = append(o, id)
		} else {
			o = append(o, 9)
		}
	}
	return o
}

// bag pools a sequence into counts of sports and business words.
type bag struct{}

func (bag) Hidden() int  { return 3 }
func (bag) Close() error { return nil }
func (bag) Encode(ids, mask []int64) ([]float32, error) {
	var o = make([]float32, 3)
	for i, id := range ids {
		if mask[i] == 0 {
			continue
		}
		switch id {
		case 5, 6:
			o[0]++
		case 7, 8:
			o[1]++
		}
	}
	o[2] = 1
	return o, nil
}

var records = []datasets.Record{
	{Label: 1, Title: "Ball!", Description: "The ball game, tonight."},
	{Label: 1, Title: "Game", Description: "A great game with a ball"},
	{Label: 1, Title: "Cup", Description: "ball ball game"},
	{Label: 1, Title: "Final", Description: "the GAME ended"},
	{Label: 2, Title: "Markets", Description: "Stock prices and money"},
	{Label: 2, Title: "Banks", Description: "money money money"},
	{Label: 2, Title: "Trade", Description: "a stock rally"},
	{Label: 2, Title: "Funds", Description: "stock and money flows"},
}

func samples(t *testing.T, recs []datasets.Record) (datasets.Dataslice, *datasets.Labels) {
	labels, err := datasets.NewLabels([]int{1, 2}, []string{"Sports", "Business"})
	require.NoError(t, err)
	recs = datasets.CleanAll(append([]datasets.Record(nil), recs...))
	classes, err := labels.Classes(recs)
	require.NoError(t, err)
	a, err := tokenizer.NewAdapter(words{}, tokenizer.Special{Pad: 0, CLS: 101, SEP: 102}, 8)
	require.NoError(t, err)
	data, err := a.Tokenize(datasets.Texts(recs, datasets.FieldDescription), classes, 8)
	require.NoError(t, err)
	return data, labels
}

func classifier(t *testing.T, labels *datasets.Labels, seed int64) *hybrid.Classifier {
	net, err := hybrid.New(hybrid.Options{Hidden: 3, Classes: 2, Dropout: 0.3, Seed: seed, Labels: labels})
	require.NoError(t, err)
	c, err := hybrid.NewClassifier(bag{}, net)
	require.NoError(t, err)
	return c
}

func unlabeled(data datasets.Dataslice) datasets.Dataslice {
	var o = make(datasets.Dataslice, len(data))
	for i, s := range data {
		s.Label = datasets.Unlabeled
		o[i] = s
	}
	return o
}

func batches(t *testing.T, data datasets.Container, size int, shuffle bool) *loader.Loader {
	l, err := loader.New(data, size, shuffle, 7)
	require.NoError(t, err)
	return l
}
