// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// section defined by [Coefficients]. First-order designs are expressed as a
// section with B2 = A2 = 0. A [Bank] runs one independent section per
// channel of a [buffer.Block].
//
// This package provides the processing runtime only. Coefficient design
// lives in dsp/filter/design.
package biquad
