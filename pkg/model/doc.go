// Package model generates the synthetic length/width populations behind the
// W-versus-L comparison chart.
//
// A "normal" population follows the linear relation W = Wmin + WLR·L. A
// "modified" population keeps the wall cross-sectional area proxy
// WCSA = π·W·(W+L) of the normal one while its length is shortened by
// vasoconstriction and shifted by the internal share α of hypertrophia; its
// width is back-solved from the conserved area and shifted by the external
// share (1−α)·H.
//
// Generation is deterministic for a given [Params] and seed: the Gaussian
// noise stream is re-created from the seed on every call.
//
//	pop := model.Generate(model.Params{H: 10, Alpha: 0.5, VC: 20}, model.DefaultSeed)
//	fmt.Println(len(pop.L1), len(pop.W2)) // 100 100
//
// The checkbox flags carried by [Params] never influence generation; they only
// select how the chart labels the modified population and which sliders are
// enabled (see [DeriveControls]).
package model
