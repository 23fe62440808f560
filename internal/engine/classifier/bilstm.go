package classifier

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// BiLSTM is the native Go intent classifier. A freshly constructed model
// starts in ModeTrain; switch to ModeEval with SetMode before inference.
// In ModeEval, Forward is deterministic and safe for concurrent use.
// SetMode must not be called while a Forward call is in flight.
type BiLSTM struct {
	cfg       Config
	embedding []float32 // row-major [VocabSize, EmbeddingDim]
	fwd       *lstm
	bwd       *lstm
	fc        *dense

	mode Mode

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New creates a BiLSTM with randomly initialized parameters, following
// PyTorch's defaults: embeddings ~ N(0, 1), LSTM and linear weights
// ~ U(-1/sqrt(fan), 1/sqrt(fan)). The pad row of the embedding is zero.
func New(cfg Config, seed int64) (*BiLSTM, error) {
	m, err := newZero(cfg)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	m.rng = rng

	for i := range m.embedding {
		m.embedding[i] = float32(rng.NormFloat64())
	}
	pad := int(cfg.PadID) * cfg.EmbeddingDim
	clear(m.embedding[pad : pad+cfg.EmbeddingDim])

	k := float32(1 / math.Sqrt(float64(cfg.HiddenDim)))
	for _, dir := range []*lstm{m.fwd, m.bwd} {
		for _, p := range [][]float32{dir.wIH, dir.wHH, dir.bIH, dir.bHH} {
			fillUniform(rng, p, k)
		}
	}
	k = float32(1 / math.Sqrt(float64(2*cfg.HiddenDim)))
	fillUniform(rng, m.fc.weights, k)
	fillUniform(rng, m.fc.bias, k)
	return m, nil
}

// newZero allocates a model of the configured shape with all-zero parameters.
func newZero(cfg Config) (*BiLSTM, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	E, H, C := cfg.EmbeddingDim, cfg.HiddenDim, cfg.NumClasses
	newDir := func() *lstm {
		return &lstm{
			wIH:    make([]float32, 4*H*E),
			wHH:    make([]float32, 4*H*H),
			bIH:    make([]float32, 4*H),
			bHH:    make([]float32, 4*H),
			in:     E,
			hidden: H,
		}
	}
	return &BiLSTM{
		cfg:       cfg,
		embedding: make([]float32, cfg.VocabSize*E),
		fwd:       newDir(),
		bwd:       newDir(),
		fc: &dense{
			weights: make([]float32, C*2*H),
			bias:    make([]float32, C),
			inDim:   2 * H,
			outDim:  C,
		},
		mode: ModeTrain,
		rng:  rand.New(rand.NewSource(1)),
	}, nil
}

func fillUniform(rng *rand.Rand, dst []float32, k float32) {
	for i := range dst {
		dst[i] = (rng.Float32()*2 - 1) * k
	}
}

// Config returns the model dimensions.
func (m *BiLSTM) Config() Config { return m.cfg }

// NumClasses returns the width of the output layer.
func (m *BiLSTM) NumClasses() int { return m.cfg.NumClasses }

// Mode returns the current mode.
func (m *BiLSTM) Mode() Mode { return m.mode }

// SetMode switches between ModeTrain and ModeEval.
func (m *BiLSTM) SetMode(mode Mode) { m.mode = mode }

// Close is a no-op; the native model holds no external resources.
func (m *BiLSTM) Close() error { return nil }

// Forward runs embedding -> BiLSTM -> fuse -> dropout -> linear for each
// sequence in batch. Sequences may differ in length; an empty sequence
// leaves both directions at their zero state.
func (m *BiLSTM) Forward(batch [][]int64) ([][]float32, error) {
	out := make([][]float32, len(batch))
	for b, seq := range batch {
		xs, err := m.embed(seq)
		if err != nil {
			return nil, fmt.Errorf("classifier: batch row %d: %w", b, err)
		}

		H := m.cfg.HiddenDim
		fused := make([]float32, 2*H)
		copy(fused[:H], m.fwd.run(xs, false))
		copy(fused[H:], m.bwd.run(xs, true))

		if m.mode == ModeTrain && m.cfg.Dropout > 0 {
			m.dropout(fused)
		}
		out[b] = m.fc.apply(fused)
	}
	return out, nil
}

// embed looks up each index, returning views into the embedding table.
func (m *BiLSTM) embed(seq []int64) ([][]float32, error) {
	E := m.cfg.EmbeddingDim
	xs := make([][]float32, len(seq))
	for t, id := range seq {
		if id < 0 || id >= int64(m.cfg.VocabSize) {
			return nil, fmt.Errorf("token index %d at position %d outside vocabulary of size %d",
				id, t, m.cfg.VocabSize)
		}
		xs[t] = m.embedding[int(id)*E : int(id+1)*E]
	}
	return xs, nil
}

// dropout zeroes each component with probability p and scales survivors by
// 1/(1-p) so the expected value is unchanged.
func (m *BiLSTM) dropout(v []float32) {
	p := m.cfg.Dropout
	scale := float32(1 / (1 - p))
	m.rngMu.Lock()
	defer m.rngMu.Unlock()
	for i := range v {
		if m.rng.Float64() < p {
			v[i] = 0
		} else {
			v[i] *= scale
		}
	}
}
