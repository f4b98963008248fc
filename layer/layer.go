package layer

import "sort"

import "github.com/pkg/errors"

// Layer is the layer which can be used for instantiating a combiner
type Layer interface {

	// Lay creates a combiner
	Lay() Combiner
}

var registry = map[string]func(heads int) Layer{}

// Register makes a combination strategy available by name.
func Register(name string, f func(heads int) Layer) {
	registry[name] = f
}

// Named returns the layer registered under name for the given number of heads.
func Named(name string, heads int) (Layer, error) {
	f, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("unknown combiner %q, have %v", name, Names())
	}
	return f(heads), nil
}

// Names lists the registered strategies.
func Names() (o []string) {
	for k := range registry {
		o = append(o, k)
	}
	sort.Strings(o)
	return
}
