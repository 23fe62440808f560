package classifier

// dense is a linear layer: out = W·x + b, with W row-major [outDim, inDim].
type dense struct {
	weights []float32
	bias    []float32
	inDim   int
	outDim  int
}

// apply projects a single vector from inDim to outDim.
func (d *dense) apply(vec []float32) []float32 {
	out := make([]float32, d.outDim)
	for i := 0; i < d.outDim; i++ {
		row := d.weights[i*d.inDim : (i+1)*d.inDim]
		sum := d.bias[i]
		for j, w := range row {
			sum += w * vec[j]
		}
		out[i] = sum
	}
	return out
}
