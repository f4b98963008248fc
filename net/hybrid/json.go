package hybrid

import "compress/zlib"
import "encoding/json"
import "io"
import "os"

import "github.com/pkg/errors"
import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/newsclassifier/datasets"

type headJson struct {
	Name string    `json:"name"`
	W    []float64 `json:"weight"`
	B    []float64 `json:"bias"`
}

type networkJson struct {
	Hidden   int        `json:"hidden"`
	Classes  int        `json:"classes"`
	Dropout  float64    `json:"dropout"`
	Combiner string     `json:"combiner"`
	Labels   []int      `json:"labels,omitempty"`
	Names    []string   `json:"names,omitempty"`
	Heads    []headJson `json:"heads"`
}

// WriteJson writes the network parameters as JSON.
func (n *Network) WriteJson(w io.Writer) error {
	var o = networkJson{
		Hidden:   n.opt.Hidden,
		Classes:  n.opt.Classes,
		Dropout:  n.opt.Dropout,
		Combiner: n.opt.Combiner,
	}
	if n.opt.Labels != nil {
		o.Labels = n.opt.Labels.Values
		o.Names = n.opt.Labels.Names
	}
	for _, h := range n.heads {
		o.Heads = append(o.Heads, headJson{
			Name: h.Name,
			W:    h.W.RawMatrix().Data,
			B:    h.B.RawMatrix().Data,
		})
	}
	return json.NewEncoder(w).Encode(o)
}

// ReadJson reads a network written by WriteJson.
func ReadJson(r io.Reader) (*Network, error) {
	var in networkJson
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(err, "decode network")
	}
	opt := Options{
		Hidden:   in.Hidden,
		Classes:  in.Classes,
		Dropout:  in.Dropout,
		Combiner: in.Combiner,
	}
	if len(in.Labels) > 0 {
		l, err := datasets.NewLabels(in.Labels, in.Names)
		if err != nil {
			return nil, err
		}
		opt.Labels = l
	}
	n, err := New(opt)
	if err != nil {
		return nil, err
	}
	if len(in.Heads) != len(n.heads) {
		return nil, errors.Wrapf(ErrShape, "%d heads stored, network has %d", len(in.Heads), len(n.heads))
	}
	for i, h := range n.heads {
		if err := load(h.W, in.Heads[i].W); err != nil {
			return nil, errors.Wrap(err, in.Heads[i].Name+" weight")
		}
		if err := load(h.B, in.Heads[i].B); err != nil {
			return nil, errors.Wrap(err, in.Heads[i].Name+" bias")
		}
	}
	return n, nil
}

func load(dst *mat.Dense, src []float64) error {
	data := dst.RawMatrix().Data
	if len(src) != len(data) {
		return errors.Wrapf(ErrShape, "%d values stored, %d expected", len(src), len(data))
	}
	copy(data, src)
	return nil
}

// WriteZlibWeightsToFile writes model weights to a zlib compressed json file
func (n *Network) WriteZlibWeightsToFile(name string) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = n.WriteZlibWeights(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

// WriteZlibWeights writes model weights to a writer
func (n *Network) WriteZlibWeights(w io.Writer) error {
	zw := zlib.NewWriter(w)
	if err := n.WriteJson(zw); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// ReadZlibWeightsFromFile reads model weights from a zlib compressed json file
func ReadZlibWeightsFromFile(name string) (*Network, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadZlibWeights(file)
}

// ReadZlibWeights reads model weights from a reader
func ReadZlibWeights(r io.Reader) (*Network, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open zlib stream")
	}
	defer zr.Close()
	return ReadJson(zr)
}
