package classifier

import (
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes the ONNX Runtime environment. Safe to call multiple
// times; only the first call has any effect.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

const (
	onnxInputName  = "input_ids"
	onnxOutputName = "logits"
)

// ONNXModel runs an exported classifier graph with ONNX Runtime. The graph
// takes int64 "input_ids" of shape [batch, seq] and returns float32
// "logits" of shape [batch, num_classes]. It is exported in eval mode, so
// dropout is already the identity.
type ONNXModel struct {
	session    *ort.DynamicAdvancedSession
	numClasses int64
}

// NewONNX loads the graph at modelPath. An empty libPath resolves to
// libonnxruntime.so next to the model file.
func NewONNX(modelPath, libPath string) (*ONNXModel, error) {
	if libPath == "" {
		libPath = filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
	}
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	numClasses, err := validateIO(inputs, outputs)
	if err != nil {
		return nil, err
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(4)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{onnxInputName},
		[]string{onnxOutputName},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}
	return &ONNXModel{session: session, numClasses: numClasses}, nil
}

// validateIO checks for the expected input and a 2D logits output with a
// fixed class dimension, which it returns.
func validateIO(inputs, outputs []ort.InputOutputInfo) (int64, error) {
	found := false
	for _, in := range inputs {
		if in.Name == onnxInputName {
			found = true
		}
	}
	if !found {
		return 0, fmt.Errorf("onnx: model missing required input %q", onnxInputName)
	}
	for _, out := range outputs {
		if out.Name != onnxOutputName {
			continue
		}
		if len(out.Dimensions) != 2 {
			return 0, fmt.Errorf("onnx: expected 2D %q tensor, got %v", onnxOutputName, out.Dimensions)
		}
		if out.Dimensions[1] <= 0 {
			return 0, fmt.Errorf("onnx: %q has dynamic class dimension %v", onnxOutputName, out.Dimensions)
		}
		return out.Dimensions[1], nil
	}
	return 0, fmt.Errorf("onnx: model missing required output %q", onnxOutputName)
}

// NumClasses returns the width of the logits output.
func (m *ONNXModel) NumClasses() int { return int(m.numClasses) }

// Forward runs one inference call over the whole batch. All rows must have
// the same length.
func (m *ONNXModel) Forward(batch [][]int64) ([][]float32, error) {
	if len(batch) == 0 {
		return nil, nil
	}
	batchSize := int64(len(batch))
	seqLen := int64(len(batch[0]))
	flat := make([]int64, 0, batchSize*seqLen)
	for i, row := range batch {
		if int64(len(row)) != seqLen {
			return nil, fmt.Errorf("onnx: batch row %d has length %d, want %d", i, len(row), seqLen)
		}
		flat = append(flat, row...)
	}

	tIDs, err := ort.NewTensor(ort.NewShape(batchSize, seqLen), flat)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create input_ids tensor: %w", err)
	}
	defer tIDs.Destroy()

	tOut, err := ort.NewEmptyTensor[float32](ort.NewShape(batchSize, m.numClasses))
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer tOut.Destroy()

	if err := m.session.Run([]ort.Value{tIDs}, []ort.Value{tOut}); err != nil {
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	// Copy data out before the tensor is destroyed.
	src := tOut.GetData()
	out := make([][]float32, batchSize)
	for i := range out {
		row := make([]float32, m.numClasses)
		copy(row, src[int64(i)*m.numClasses:])
		out[i] = row
	}
	return out, nil
}

// Close releases the ONNX session resources.
func (m *ONNXModel) Close() error {
	return m.session.Destroy()
}
