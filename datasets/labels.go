package datasets

import "fmt"
import "sort"

import "github.com/pkg/errors"

// Labels is the fixed finite label set. Values holds the raw class indexes in class
// position order, Names the optional display names.
type Labels struct {
	Values []int
	Names  []string

	index map[int]int
}

// NewLabels builds a label set. Names may be nil or must match values in length.
func NewLabels(values []int, names []string) (*Labels, error) {
	if len(values) == 0 {
		return nil, errors.Wrap(ErrEmpty, "label set")
	}
	if names != nil && len(names) != len(values) {
		return nil, errors.Errorf("label set has %d values but %d names", len(values), len(names))
	}
	l := &Labels{
		Values: append([]int(nil), values...),
		Names:  append([]string(nil), names...),
		index:  make(map[int]int, len(values)),
	}
	for i, v := range values {
		if _, dup := l.index[v]; dup {
			return nil, errors.Errorf("label %d listed twice", v)
		}
		l.index[v] = i
	}
	return l, nil
}

// InferLabels builds a label set from the distinct labels of records, in ascending order.
func InferLabels(records []Record) (*Labels, error) {
	var seen = make(map[int]struct{})
	for _, r := range records {
		seen[r.Label] = struct{}{}
	}
	var values = make([]int, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Ints(values)
	return NewLabels(values, nil)
}

// Len returns the number of classes.
func (l *Labels) Len() int {
	return len(l.Values)
}

// Index maps a raw label to its class position.
func (l *Labels) Index(label int) (int, bool) {
	if l.index == nil {
		l.index = make(map[int]int, len(l.Values))
		for i, v := range l.Values {
			l.index[v] = i
		}
	}
	i, ok := l.index[label]
	return i, ok
}

// Value maps a class position back to its raw label.
func (l *Labels) Value(class int) int {
	return l.Values[class]
}

// Name returns the display name of a class position, "Class <label>" if unnamed.
func (l *Labels) Name(class int) string {
	if class < len(l.Names) && l.Names[class] != "" {
		return l.Names[class]
	}
	return fmt.Sprintf("Class %d", l.Values[class])
}

// AllNames returns the display names of every class.
func (l *Labels) AllNames() []string {
	var out = make([]string, l.Len())
	for i := range out {
		out[i] = l.Name(i)
	}
	return out
}

// Classes converts raw labels into class positions, rejecting labels outside the set.
func (l *Labels) Classes(records []Record) ([]int, error) {
	var out = make([]int, len(records))
	for i, r := range records {
		c, ok := l.Index(r.Label)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownLabel, "record %d has label %d", i, r.Label)
		}
		out[i] = c
	}
	return out, nil
}

// Validate checks every record label against the set.
func (l *Labels) Validate(records []Record) error {
	_, err := l.Classes(records)
	return err
}
