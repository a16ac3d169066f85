package unit

import (
	"fmt"
	"strings"
)

// Kind selects the effect occupying a slot.
type Kind uint8

const (
	KindNone Kind = iota
	KindOscillator
	KindGain
	KindFilter
)

var kindNames = [...]string{
	KindNone:       "None",
	KindOscillator: "Oscillator",
	KindGain:       "Gain",
	KindFilter:     "Filter",
}

// Kinds lists the effect kinds, KindNone excluded.
func Kinds() []Kind {
	return []Kind{KindOscillator, KindGain, KindFilter}
}

// String returns the unit name of k. It matches Name() of the units the
// default registry builds for k.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind converts a case-insensitive kind name. The empty string and
// "empty" map to KindNone.
func ParseKind(s string) (Kind, error) {
	name := strings.TrimSpace(s)
	switch strings.ToLower(name) {
	case "", "empty":
		return KindNone, nil
	}
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(k), nil
		}
	}
	return KindNone, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// KindOf returns the kind whose name equals u.Name(), or KindNone.
func KindOf(u Unit) Kind {
	if u == nil {
		return KindNone
	}
	name := u.Name()
	for _, k := range Kinds() {
		if kindNames[k] == name {
			return k
		}
	}
	return KindNone
}
