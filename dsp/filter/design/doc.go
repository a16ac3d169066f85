// Package design computes biquad coefficients for the graph's filter units.
//
// Invalid parameters (non-positive sample rate, cutoff outside
// (0, Nyquist)) yield zero coefficients, which callers detect with
// [biquad.Coefficients.IsZero].
package design
