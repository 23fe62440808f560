package classifier

import "math"

// lstm holds the parameters of one direction of a single-layer LSTM.
// Gate rows are stacked in the order input, forget, cell, output:
// wIH is [4*hidden, in], wHH is [4*hidden, hidden].
type lstm struct {
	wIH, wHH []float32
	bIH, bHH []float32
	in       int
	hidden   int
}

// run feeds xs through the cell from a zero state and returns the final
// hidden state. With reverse set the sequence is read right to left, so the
// result summarizes position 0 last.
func (l *lstm) run(xs [][]float32, reverse bool) []float32 {
	H := l.hidden
	h := make([]float32, H)
	c := make([]float32, H)
	gates := make([]float32, 4*H)

	for step := range xs {
		t := step
		if reverse {
			t = len(xs) - 1 - step
		}
		x := xs[t]

		for g := 0; g < 4*H; g++ {
			sum := l.bIH[g] + l.bHH[g]
			for j, w := range l.wIH[g*l.in : (g+1)*l.in] {
				sum += w * x[j]
			}
			for j, w := range l.wHH[g*H : (g+1)*H] {
				sum += w * h[j]
			}
			gates[g] = sum
		}

		for k := 0; k < H; k++ {
			i := sigmoid(gates[k])
			f := sigmoid(gates[H+k])
			cand := tanh(gates[2*H+k])
			o := sigmoid(gates[3*H+k])
			c[k] = f*c[k] + i*cand
			h[k] = o * tanh(c[k])
		}
	}
	return h
}

func sigmoid(x float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(x))))
}

func tanh(x float32) float32 {
	return float32(math.Tanh(float64(x)))
}
