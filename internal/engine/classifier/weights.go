package classifier

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"sort"

	"github.com/crimson-sun/nino/internal/fsutil"
)

// ErrShapeMismatch is returned when stored parameters do not fit the
// configured model dimensions.
var ErrShapeMismatch = errors.New("parameter shape mismatch")

// tensor is one F32 entry of a safetensors file.
type tensor struct {
	shape []int
	data  []float32
}

// tensorMeta is the per-tensor entry of the safetensors JSON header.
type tensorMeta struct {
	Dtype       string `json:"dtype"`
	Shape       []int  `json:"shape"`
	DataOffsets [2]int `json:"data_offsets"`
}

// namedParam binds a PyTorch state-dict name to a parameter slice.
type namedParam struct {
	name  string
	shape []int
	data  []float32
}

// params lists every parameter under the names nn.Embedding, a
// bidirectional nn.LSTM and nn.Linear use in a state dict.
func (m *BiLSTM) params() []namedParam {
	V, E, H, C := m.cfg.VocabSize, m.cfg.EmbeddingDim, m.cfg.HiddenDim, m.cfg.NumClasses
	ps := []namedParam{{"embedding.weight", []int{V, E}, m.embedding}}
	for _, d := range []struct {
		suffix string
		l      *lstm
	}{{"", m.fwd}, {"_reverse", m.bwd}} {
		ps = append(ps,
			namedParam{"rnn.weight_ih_l0" + d.suffix, []int{4 * H, E}, d.l.wIH},
			namedParam{"rnn.weight_hh_l0" + d.suffix, []int{4 * H, H}, d.l.wHH},
			namedParam{"rnn.bias_ih_l0" + d.suffix, []int{4 * H}, d.l.bIH},
			namedParam{"rnn.bias_hh_l0" + d.suffix, []int{4 * H}, d.l.bHH},
		)
	}
	return append(ps,
		namedParam{"fc.weight", []int{C, 2 * H}, m.fc.weights},
		namedParam{"fc.bias", []int{C}, m.fc.bias},
	)
}

// Load reads parameters from a safetensors file into a model of shape cfg.
// Every tensor must be present with exactly the expected shape; otherwise
// the returned error wraps ErrShapeMismatch and names the tensor. The model
// is returned in ModeTrain like a freshly constructed one.
func Load(path string, cfg Config) (*BiLSTM, error) {
	m, err := newZero(cfg)
	if err != nil {
		return nil, err
	}
	tensors, err := readSafetensors(path)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	for _, p := range m.params() {
		t, ok := tensors[p.name]
		if !ok {
			return nil, fmt.Errorf("classifier: %s: tensor %q not found", path, p.name)
		}
		if !slices.Equal(t.shape, p.shape) {
			return nil, fmt.Errorf("classifier: %w: tensor %q has shape %v, model expects %v",
				ErrShapeMismatch, p.name, t.shape, p.shape)
		}
		copy(p.data, t.data)
	}
	return m, nil
}

// Save writes the model parameters to path in safetensors format.
func Save(path string, m *BiLSTM) error {
	data, err := encodeSafetensors(m.params())
	if err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := fsutil.WriteFileLocked(path, data, 0o644); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	return nil
}

// readSafetensors parses every F32 tensor of a safetensors file: an 8-byte
// little-endian header length, a JSON header, then the raw tensor bytes.
func readSafetensors(path string) (map[string]tensor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("weights: %w", err)
	}
	if len(data) < 8 {
		return nil, fmt.Errorf("weights: file too small: %d bytes", len(data))
	}

	headerLen := binary.LittleEndian.Uint64(data[:8])
	if headerLen > uint64(len(data)-8) {
		return nil, fmt.Errorf("weights: header length %d exceeds file size", headerLen)
	}

	var header map[string]json.RawMessage
	if err := json.Unmarshal(data[8:8+headerLen], &header); err != nil {
		return nil, fmt.Errorf("weights: failed to parse header: %w", err)
	}

	base := int(8 + headerLen)
	out := make(map[string]tensor, len(header))
	for name, raw := range header {
		if name == "__metadata__" {
			continue
		}
		var meta tensorMeta
		if err := json.Unmarshal(raw, &meta); err != nil {
			return nil, fmt.Errorf("weights: tensor %q: bad metadata: %w", name, err)
		}
		if meta.Dtype != "F32" {
			return nil, fmt.Errorf("weights: tensor %q: expected dtype F32, got %s", name, meta.Dtype)
		}

		n, err := elementCount(meta.Shape)
		if err != nil {
			return nil, fmt.Errorf("weights: tensor %q: %w", name, err)
		}
		lo, hi := meta.DataOffsets[0], meta.DataOffsets[1]
		if lo < 0 || hi < lo || hi > len(data)-base {
			return nil, fmt.Errorf("weights: tensor %q: invalid data range [%d:%d] for %d data bytes",
				name, lo, hi, len(data)-base)
		}
		start, end := base+lo, base+hi
		if end-start != n*4 {
			return nil, fmt.Errorf("weights: tensor %q: data size %d doesn't match shape %v",
				name, end-start, meta.Shape)
		}

		values := make([]float32, n)
		for i := range values {
			bits := binary.LittleEndian.Uint32(data[start+i*4 : start+i*4+4])
			values[i] = math.Float32frombits(bits)
		}
		out[name] = tensor{shape: meta.Shape, data: values}
	}
	return out, nil
}

// elementCount multiplies dims, rejecting negative dims and counts whose
// byte size would overflow int.
func elementCount(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("negative dimension in shape %v", shape)
		}
		if d != 0 && n > math.MaxInt/4/d {
			return 0, fmt.Errorf("shape %v too large", shape)
		}
		n *= d
	}
	return n, nil
}

// encodeSafetensors lays tensors out in name order after a space-padded,
// 8-byte aligned JSON header.
func encodeSafetensors(ps []namedParam) ([]byte, error) {
	sorted := slices.Clone(ps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })

	header := make(map[string]any, len(sorted)+1)
	header["__metadata__"] = map[string]string{"format": "pt"}
	offset := 0
	for _, p := range sorted {
		size := len(p.data) * 4
		header[p.name] = tensorMeta{Dtype: "F32", Shape: p.shape, DataOffsets: [2]int{offset, offset + size}}
		offset += size
	}
	hdr, err := json.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("weights: marshal header: %w", err)
	}
	for len(hdr)%8 != 0 {
		hdr = append(hdr, ' ')
	}

	buf := make([]byte, 8+len(hdr)+offset)
	binary.LittleEndian.PutUint64(buf[:8], uint64(len(hdr)))
	copy(buf[8:], hdr)
	pos := 8 + len(hdr)
	for _, p := range sorted {
		for _, v := range p.data {
			binary.LittleEndian.PutUint32(buf[pos:], math.Float32bits(v))
			pos += 4
		}
	}
	return buf, nil
}
