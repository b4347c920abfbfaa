package model

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Generate produces both populations for p, adding Gaussian noise drawn from
// a stream seeded with seed. Inputs are not bounds-checked; see
// [Params.Validate].
func Generate(p Params, seed uint64) Populations {
	pop := curves(p)

	noise := distuv.Normal{Mu: 0, Sigma: NoiseSigma, Src: rand.NewPCG(seed, seed)}
	for _, s := range [][]float64{pop.L1, pop.W1, pop.WCSA, pop.L2, pop.W2} {
		for i := range s {
			s[i] += noise.Rand()
		}
	}
	return pop
}

// curves evaluates the noiseless model.
func curves(p Params) Populations {
	l1 := floats.Span(make([]float64, Samples), 0, LMax)
	pop := Populations{
		L1:   l1,
		W1:   make([]float64, Samples),
		WCSA: make([]float64, Samples),
		L2:   make([]float64, Samples),
		W2:   make([]float64, Samples),
	}

	shrink := (100 - p.VC) / 100
	for i, l := range l1 {
		w := Wmin + l*WLR
		wcsa := math.Pi * w * (w + l)
		l2 := shrink * (l - p.Alpha*p.H)

		// wcsa/π = w·(w+l) > 0 for l >= 0, so this guard only fires for
		// grids that extend below zero.
		rad := l2*l2/4 + wcsa/math.Pi
		if rad < 0 {
			rad = 0
			pop.Clamped = append(pop.Clamped, i)
		}

		pop.W1[i] = w
		pop.WCSA[i] = wcsa
		pop.L2[i] = l2
		pop.W2[i] = math.Sqrt(rad) - l2/2 + (1-p.Alpha)*p.H
	}
	return pop
}
