package hybrid

import "github.com/pkg/errors"
import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/newsclassifier/encoder"

// Classifier composes the encoder with the network.
type Classifier struct {
	Encoder encoder.Encoder
	Network *Network
}

// NewClassifier checks that the encoder output fits the network input.
func NewClassifier(enc encoder.Encoder, net *Network) (*Classifier, error) {
	if enc.Hidden() != net.Hidden() {
		return nil, errors.Wrapf(ErrShape, "encoder hidden %d, network hidden %d", enc.Hidden(), net.Hidden())
	}
	return &Classifier{Encoder: enc, Network: net}, nil
}

// Pool encodes every row into the (batch, hidden) pooled representation.
func (c *Classifier) Pool(ids, mask [][]int64) (*mat.Dense, error) {
	if len(ids) == 0 || len(ids) != len(mask) {
		return nil, errors.Wrapf(ErrShape, "%d id rows, %d mask rows", len(ids), len(mask))
	}
	hidden := c.Encoder.Hidden()
	o := mat.NewDense(len(ids), hidden, nil)
	for i := range ids {
		v, err := c.Encoder.Encode(ids[i], mask[i])
		if err != nil {
			return nil, errors.Wrapf(err, "encode row %d", i)
		}
		if len(v) != hidden {
			return nil, errors.Wrapf(ErrShape, "row %d pooled to %d values", i, len(v))
		}
		row := o.RawRowView(i)
		for j := range v {
			row[j] = float64(v[j])
		}
	}
	return o, nil
}

// Forward computes the logits of a batch of token rows.
func (c *Classifier) Forward(ids, mask [][]int64) (*Activations, error) {
	pooled, err := c.Pool(ids, mask)
	if err != nil {
		return nil, err
	}
	return c.Network.Forward(pooled)
}

// Close closes the encoder.
func (c *Classifier) Close() error {
	return c.Encoder.Close()
}
