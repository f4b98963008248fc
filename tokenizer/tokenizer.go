// Package tokenizer shapes the output of a pretrained subword tokenizer into fixed
// length token id and attention mask rows.
package tokenizer

import "runtime"

import "github.com/pkg/errors"

import "github.com/neurlang/newsclassifier/datasets"
import "github.com/neurlang/newsclassifier/parallel"

// Encoder converts text into subword token ids. HuggingFace tokenizers satisfy it.
type Encoder interface {
	Encode(text string) []int
}

// NoToken marks a special token the tokenizer does not define.
const NoToken = -1

// Special holds the special token ids of a tokenizer. CLS and SEP may be NoToken.
type Special struct {
	Pad int
	CLS int
	SEP int
}

// Adapter wraps an Encoder and produces padded or truncated rows of exactly MaxLength ids.
type Adapter struct {
	enc     Encoder
	special Special

	// MaxLength is the default row length L.
	MaxLength int

	// Threads bounds the parallel tokenization in Tokenize. Zero means runtime.NumCPU().
	Threads int
}

// NewAdapter creates an adapter with default row length maxLength.
func NewAdapter(enc Encoder, special Special, maxLength int) (*Adapter, error) {
	if enc == nil {
		return nil, errors.New("tokenizer: nil encoder")
	}
	if special.Pad < 0 {
		return nil, errors.New("tokenizer: no padding token")
	}
	if err := checkLength(special, maxLength); err != nil {
		return nil, err
	}
	return &Adapter{enc: enc, special: special, MaxLength: maxLength}, nil
}

func checkLength(special Special, maxLength int) error {
	var min = 1
	if special.CLS >= 0 {
		min++
	}
	if special.SEP >= 0 {
		min++
	}
	if maxLength < min {
		return errors.Errorf("tokenizer: max length %d below %d", maxLength, min)
	}
	return nil
}

// Special returns the special token ids.
func (a *Adapter) Special() Special {
	return a.special
}

// Encode tokenizes one text into ids and mask of length exactly maxLength. The row is
// [CLS] content [SEP] (for the special tokens the tokenizer defines and did not
// already emit), content is truncated to fit, the rest is padding with mask 0.
func (a *Adapter) Encode(text string, maxLength int) (ids, mask []int64) {
	content := a.enc.Encode(text)
	if a.special.CLS >= 0 && len(content) > 0 && content[0] == a.special.CLS {
		content = content[1:]
	}
	if a.special.SEP >= 0 && len(content) > 0 && content[len(content)-1] == a.special.SEP {
		content = content[:len(content)-1]
	}

	var room = maxLength
	if a.special.CLS >= 0 {
		room--
	}
	if a.special.SEP >= 0 {
		room--
	}
	if room < 0 {
		room = 0
	}
	if len(content) > room {
		content = content[:room]
	}

	ids = make([]int64, maxLength)
	mask = make([]int64, maxLength)
	n := 0
	put := func(id int) {
		if n < maxLength {
			ids[n] = int64(id)
			mask[n] = 1
			n++
		}
	}
	if a.special.CLS >= 0 {
		put(a.special.CLS)
	}
	for _, id := range content {
		put(id)
	}
	if a.special.SEP >= 0 {
		put(a.special.SEP)
	}
	for ; n < maxLength; n++ {
		ids[n] = int64(a.special.Pad)
	}
	return ids, mask
}

// Tokenize encodes every text into a sample carrying the label at the same position.
// labels may be nil for unlabeled data. Output order equals input order.
func (a *Adapter) Tokenize(texts []string, labels []int, maxLength int) (datasets.Dataslice, error) {
	if labels != nil && len(labels) != len(texts) {
		return nil, errors.Errorf("tokenizer: %d texts but %d labels", len(texts), len(labels))
	}
	if err := checkLength(a.special, maxLength); err != nil {
		return nil, err
	}
	threads := a.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	var out = make(datasets.Dataslice, len(texts))
	parallel.ForEach(len(texts), threads, func(i int) {
		ids, mask := a.Encode(texts[i], maxLength)
		label := datasets.Unlabeled
		if labels != nil {
			label = labels[i]
		}
		out[i] = datasets.Sample{IDs: ids, Mask: mask, Label: label}
	})
	return out, nil
}
