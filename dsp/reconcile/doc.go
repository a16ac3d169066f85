// Package reconcile converges a graph to a desired slot configuration.
//
// A Reconciler owns the fixed endpoint nodes of a graph and up to
// SlotCount effect nodes wired in series between the audio input and the
// audio output. Apply compares the desired effect kind of every slot with
// the unit occupying it, replaces only the slots that differ, rebuilds the
// chain connections when any slot changed, and applies the bypass and mute
// flags. Reapplying the same configuration changes nothing, so node state
// such as oscillator phase survives.
package reconcile
