// Package level measures peak and RMS levels of rendered audio.
//
// Build with the fastmath tag to use algo-approx for the square root and
// logarithm.
package level
