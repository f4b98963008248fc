package encoder

import "os"
import "strconv"
import "strings"

import "github.com/pkg/errors"
import ort "github.com/yalue/onnxruntime_go"

import "github.com/neurlang/newsclassifier/device"

// Options configures an ONNX encoder.
type Options struct {
	// Model is the path of the .onnx file.
	Model string

	// Library is the ONNX Runtime shared library. Empty falls back to
	// ONNXRUNTIME_SHARED_LIBRARY_PATH.
	Library string

	// SeqLen is the fixed sequence length L of every input.
	SeqLen int

	Pooling Pooling

	// InterThreads defaults to 1. Intra op threads come from the device.
	InterThreads int

	Device device.Context
}

// ONNX is an Encoder backed by one ONNX Runtime session. It must be used from one
// goroutine at a time.
type ONNX struct {
	session   *ort.AdvancedSession
	ids       *ort.Tensor[int64]
	mask      *ort.Tensor[int64]
	tokenType *ort.Tensor[int64]
	output    *ort.Tensor[float32]

	seqLen  int
	hidden  int
	pooling Pooling
}

// Initialize loads the ONNX Runtime shared library once per process.
func Initialize(library string) error {
	if library == "" {
		library = os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH")
	}
	if ort.IsInitialized() {
		return nil
	}
	if library != "" {
		ort.SetSharedLibraryPath(library)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return errors.Wrap(err, "initialize onnxruntime")
	}
	return nil
}

// NewONNX opens the model and allocates the input and output tensors.
func NewONNX(opt Options) (*ONNX, error) {
	if opt.SeqLen <= 0 {
		return nil, errors.Errorf("sequence length %d", opt.SeqLen)
	}
	if opt.Pooling == "" {
		opt.Pooling = PoolCLS
	}
	if err := Initialize(opt.Library); err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfoWithOptions(opt.Model, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "inspect %s", opt.Model)
	}
	outName, hidden, err := selectOutput(outputs, opt.Pooling)
	if err != nil {
		return nil, errors.Wrap(err, opt.Model)
	}
	var withTokenType bool
	for _, in := range inputs {
		if in.Name == "token_type_ids" {
			withTokenType = true
		}
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, errors.Wrap(err, "create session options")
	}
	defer opts.Destroy()
	if err := opts.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableAll); err != nil {
		return nil, errors.Wrap(err, "set graph optimization")
	}
	if err := opts.SetIntraOpNumThreads(opt.Device.IntraOpThreads()); err != nil {
		return nil, errors.Wrap(err, "set intra threads")
	}
	if opt.InterThreads <= 0 {
		opt.InterThreads = 1
	}
	if err := opts.SetInterOpNumThreads(opt.InterThreads); err != nil {
		return nil, errors.Wrap(err, "set inter threads")
	}
	if opt.Device.CUDA() {
		if err := appendCUDA(opts, opt.Device.GPU()); err != nil {
			return nil, err
		}
	}

	e := &ONNX{seqLen: opt.SeqLen, hidden: hidden, pooling: opt.Pooling}
	inputShape := ort.NewShape(1, int64(opt.SeqLen))
	if e.ids, err = ort.NewEmptyTensor[int64](inputShape); err != nil {
		return nil, errors.Wrap(err, "allocate input_ids tensor")
	}
	if e.mask, err = ort.NewEmptyTensor[int64](inputShape); err != nil {
		e.Close()
		return nil, errors.Wrap(err, "allocate attention_mask tensor")
	}
	inputNames := []string{"input_ids", "attention_mask"}
	inputValues := []ort.Value{e.ids, e.mask}
	if withTokenType {
		if e.tokenType, err = ort.NewEmptyTensor[int64](inputShape); err != nil {
			e.Close()
			return nil, errors.Wrap(err, "allocate token_type_ids tensor")
		}
		inputNames = append(inputNames, "token_type_ids")
		inputValues = append(inputValues, e.tokenType)
	}

	outputShape := ort.NewShape(1, int64(hidden))
	if opt.Pooling != PoolPooler {
		outputShape = ort.NewShape(1, int64(opt.SeqLen), int64(hidden))
	}
	if e.output, err = ort.NewEmptyTensor[float32](outputShape); err != nil {
		e.Close()
		return nil, errors.Wrap(err, "allocate output tensor")
	}

	e.session, err = ort.NewAdvancedSession(
		opt.Model,
		inputNames,
		[]string{outName},
		inputValues,
		[]ort.Value{e.output},
		opts,
	)
	if err != nil {
		e.Close()
		return nil, errors.Wrap(err, "create onnx session")
	}
	return e, nil
}

func appendCUDA(opts *ort.SessionOptions, gpu int) error {
	cuda, err := ort.NewCUDAProviderOptions()
	if err != nil {
		return errors.Wrap(err, "create cuda provider options")
	}
	defer cuda.Destroy()
	if err := cuda.Update(map[string]string{"device_id": strconv.Itoa(gpu)}); err != nil {
		return errors.Wrap(err, "configure cuda provider")
	}
	if err := opts.AppendExecutionProviderCUDA(cuda); err != nil {
		return errors.Wrap(err, "append cuda provider")
	}
	return nil
}

// selectOutput picks the model output matching the pooling and returns its hidden size.
func selectOutput(outputs []ort.InputOutputInfo, how Pooling) (string, int, error) {
	want := "last_hidden_state"
	if how == PoolPooler {
		want = "pooler_output"
	}
	for _, out := range outputs {
		if !strings.EqualFold(out.Name, want) {
			continue
		}
		if len(out.Dimensions) == 0 || out.Dimensions[len(out.Dimensions)-1] <= 0 {
			return "", 0, errors.Errorf("output %s has no static hidden size", out.Name)
		}
		return out.Name, int(out.Dimensions[len(out.Dimensions)-1]), nil
	}
	var names []string
	for _, out := range outputs {
		names = append(names, out.Name)
	}
	return "", 0, errors.Errorf("no %s output among %v", want, names)
}

// Hidden returns the pooled vector length.
func (e *ONNX) Hidden() int {
	return e.hidden
}

// Encode runs the session on one sequence.
func (e *ONNX) Encode(ids, mask []int64) ([]float32, error) {
	if len(ids) != e.seqLen || len(mask) != e.seqLen {
		return nil, errors.Errorf("sequence of length %d, session expects %d", len(ids), e.seqLen)
	}
	copy(e.ids.GetData(), ids)
	copy(e.mask.GetData(), mask)
	if e.tokenType != nil {
		tt := e.tokenType.GetData()
		for i := range tt {
			tt[i] = 0
		}
	}
	if err := e.session.Run(); err != nil {
		return nil, errors.Wrap(err, "onnx run")
	}
	raw := e.output.GetData()
	if e.pooling == PoolPooler {
		return append([]float32(nil), raw[:e.hidden]...), nil
	}
	return Pool(raw, mask, e.hidden, e.pooling), nil
}

// Close destroys the session and its tensors.
func (e *ONNX) Close() error {
	if e.session != nil {
		e.session.Destroy()
	}
	for _, t := range []*ort.Tensor[int64]{e.ids, e.mask, e.tokenType} {
		if t != nil {
			t.Destroy()
		}
	}
	if e.output != nil {
		e.output.Destroy()
	}
	return nil
}
