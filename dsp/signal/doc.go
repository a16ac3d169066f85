// Package signal provides block-oriented test sources: silence, a
// phase-continuous sine and seeded white noise.
package signal
