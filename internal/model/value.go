package model

import "math"

type valueState uint8

const (
	stateMissing valueState = iota // no value: not enough history
	stateNaN                       // a value was produced but it is not a number
	stateDefined
)

// Value is an indicator value that may be undefined. An undefined value
// remembers why: either there was not enough history to produce it, or the
// computation propagated a NaN from upstream.
type Value struct {
	f     float64
	state valueState
}

// Defined wraps a computed float. NaN and infinities are kept as undefined
// not-a-number values rather than leaking into comparisons.
func Defined(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{state: stateNaN}
	}
	return Value{f: f, state: stateDefined}
}

// Missing is the undefined value for positions with insufficient history.
func Missing() Value { return Value{state: stateMissing} }

// Defined reports whether the value can be used in comparisons.
func (v Value) Defined() bool { return v.state == stateDefined }

// IsNaN reports whether the value is undefined because of NaN propagation.
func (v Value) IsNaN() bool { return v.state == stateNaN }

// Float returns the underlying float. Only meaningful when Defined.
func (v Value) Float() float64 { return v.f }
