package trainer

import "github.com/pkg/errors"

import "github.com/neurlang/newsclassifier/net/hybrid"

// ErrSnapshot is returned when a resumed snapshot was trained for another label set
// or combiner than the configured network.
var ErrSnapshot = errors.New("snapshot does not match the network")

// Resume replaces net with the snapshot at dstmodel when resume is set. The snapshot
// must match the dimensions, the label values and the combiner of net. Its dropout
// probability is kept.
func Resume(net *hybrid.Network, resume bool, dstmodel string) (*hybrid.Network, error) {
	if !resume || dstmodel == "" {
		return net, nil
	}
	loaded, err := hybrid.ReadZlibWeightsFromFile(dstmodel)
	if err != nil {
		return nil, errors.Wrap(err, "resume")
	}
	if loaded.Hidden() != net.Hidden() || loaded.Classes() != net.Classes() {
		return nil, errors.Wrapf(hybrid.ErrShape, "resume %s: snapshot %dx%d, network %dx%d",
			dstmodel, loaded.Hidden(), loaded.Classes(), net.Hidden(), net.Classes())
	}
	if loaded.Combiner() != net.Combiner() {
		return nil, errors.Wrapf(ErrSnapshot, "resume %s: combiner %q, network %q",
			dstmodel, loaded.Combiner(), net.Combiner())
	}
	if want, got := net.Labels(), loaded.Labels(); want != nil && got != nil {
		for i, v := range want.Values {
			if got.Values[i] != v {
				return nil, errors.Wrapf(ErrSnapshot, "resume %s: labels %v, network %v",
					dstmodel, got.Values, want.Values)
			}
		}
	}
	return loaded, nil
}
