package datasets

import "sort"
import "strconv"

import "go.uber.org/zap/zapcore"

// Summary describes a loaded dataset: the class distribution and the number of
// records with an empty text field.
type Summary struct {
	Records          int
	Labels           map[int]int // raw label -> record count, nil for unlabeled data
	EmptyTitle       int
	EmptyDescription int
}

// Summarize counts records per raw label and the empty titles and descriptions.
func Summarize(records []Record) (s Summary) {
	s.Records = len(records)
	s.Labels = make(map[int]int)
	for _, r := range records {
		s.Labels[r.Label]++
		if r.Title == "" {
			s.EmptyTitle++
		}
		if r.Description == "" {
			s.EmptyDescription++
		}
	}
	return
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s Summary) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("records", s.Records)
	enc.AddInt("empty_title", s.EmptyTitle)
	enc.AddInt("empty_description", s.EmptyDescription)
	if s.Labels == nil {
		return nil
	}
	return enc.AddObject("labels", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		keys := make([]int, 0, len(s.Labels))
		for k := range s.Labels {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		for _, k := range keys {
			enc.AddInt(strconv.Itoa(k), s.Labels[k])
		}
		return nil
	}))
}
