// Package unit defines the effect units that occupy graph nodes.
//
// A Unit is prepared with a [core.ProcessorConfig] before use and then
// transforms blocks in place from the render path. Process must not
// allocate, block or lock. The three effect kinds (Oscillator, Gain and
// Filter) are built through a [Registry]; the fixed input and output
// nodes of a graph carry an [IOProcessor].
package unit
