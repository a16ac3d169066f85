// Package spectrum analyses rendered audio in the frequency domain.
//
// An [Analyzer] owns an FFT plan, a Hann window and all scratch memory, so
// repeated analyses of equally sized frames do not allocate beyond the
// returned slices.
package spectrum
