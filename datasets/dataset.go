// Package datasets implements the labeled news records, the label set, the tokenized
// sample container and the stratified train/validation split.
package datasets

import "github.com/neurlang/newsclassifier/cleaner"

// Record is one row of a news classification CSV. Label is the raw class index.
type Record struct {
	Label       int
	Title       string
	Description string
}

// Clean returns the record with both text fields normalized by cleaner.Clean.
func (r Record) Clean() Record {
	r.Title = cleaner.Clean(r.Title)
	r.Description = cleaner.Clean(r.Description)
	return r
}

// Text selects the text field(s) fed to the tokenizer.
func (r Record) Text(field Field) string {
	switch field {
	case FieldTitle:
		return r.Title
	case FieldBoth:
		if r.Title == "" {
			return r.Description
		}
		if r.Description == "" {
			return r.Title
		}
		return r.Title + " " + r.Description
	default:
		return r.Description
	}
}

// Field names the text column(s) used as model input.
type Field string

const FieldDescription Field = "description"
const FieldTitle Field = "title"
const FieldBoth Field = "both"

// CleanAll cleans every record in place.
func CleanAll(records []Record) []Record {
	for i := range records {
		records[i] = records[i].Clean()
	}
	return records
}

// Texts extracts the chosen field of every record.
func Texts(records []Record, field Field) []string {
	var out = make([]string, len(records))
	for i := range records {
		out[i] = records[i].Text(field)
	}
	return out
}

// Unlabeled marks a Sample without a known class.
const Unlabeled = -1

// Sample is one tokenized input. IDs and Mask always have the same length and
// Label is a class position in a Labels set, or Unlabeled.
type Sample struct {
	IDs   []int64
	Mask  []int64
	Label int
}

// Dataslice is the sample container: indexed random access plus length.
type Dataslice []Sample

// Get returns the n-th sample.
func (d Dataslice) Get(n int) Sample {
	return d[n]
}

// Len returns the number of samples.
func (d Dataslice) Len() int {
	return len(d)
}

// Container is anything with indexed samples, such as a Dataslice.
type Container interface {
	Get(n int) Sample
	Len() int
}
