// Copyright (C) 2024 msgpackio authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package msgpack

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// numKind tags which field of Num is live.
type numKind uint8

const (
	numUnsigned numKind = iota
	numSigned
	numF32
	numF64
)

// Num is a tagged numeric union spanning every numeric width MessagePack
// can carry on the wire: unsigned 64-bit, signed 64-bit, float32, float64.
//
// Construct one with Uint, Int, Float32, or Float64; each constructor
// normalizes as follows: a non-negative signed
// value that fits becomes Unsigned, and an integrally-valued float that
// fits an integer type normalizes to one, with float64 further collapsing
// to float32 when that round-trips exactly.
type Num struct {
	kind numKind
	u    uint64
	i    int64
	f32  float32
	f64  float64
}

// Uint builds a Num holding an unsigned 64-bit value.
func Uint(v uint64) Num { return Num{kind: numUnsigned, u: v} }

// Int builds a Num from a signed 64-bit value, normalizing to the unsigned
// variant when v is non-negative.
func Int(v int64) Num {
	if v >= 0 {
		return Num{kind: numUnsigned, u: uint64(v)}
	}
	return Num{kind: numSigned, i: v}
}

// Float32 builds a Num from a float32, normalizing to an integer variant
// when the value is integral and fits.
func Float32(v float32) Num {
	if v >= 0 && float32(uint64(v)) == v {
		return Num{kind: numUnsigned, u: uint64(v)}
	}
	if float32(int64(v)) == v {
		return Num{kind: numSigned, i: int64(v)}
	}
	return Num{kind: numF32, f32: v}
}

// Float64 builds a Num from a float64, normalizing to an integer variant
// when integral and fitting, else to float32 when that round-trips
// exactly, else float64.
func Float64(v float64) Num {
	if v >= 0 && float64(uint64(v)) == v {
		return Num{kind: numUnsigned, u: uint64(v)}
	}
	if float64(int64(v)) == v {
		return Num{kind: numSigned, i: int64(v)}
	}
	if float64(float32(v)) == v {
		return Num{kind: numF32, f32: float32(v)}
	}
	return Num{kind: numF64, f64: v}
}

// IsInteger reports whether the Num is backed by an integer variant.
func (n Num) IsInteger() bool { return n.kind == numUnsigned || n.kind == numSigned }

// IsFloat reports whether the Num is backed by a float variant.
func (n Num) IsFloat() bool { return n.kind == numF32 || n.kind == numF64 }

// String renders the Num for debugging.
func (n Num) String() string {
	switch n.kind {
	case numUnsigned:
		return fmt.Sprintf("Unsigned(%d)", n.u)
	case numSigned:
		return fmt.Sprintf("Signed(%d)", n.i)
	case numF32:
		return fmt.Sprintf("F32(%v)", n.f32)
	default:
		return fmt.Sprintf("F64(%v)", n.f64)
	}
}

// asF64 returns the value as a float64 for cross-variant comparisons.
func (n Num) asF64() float64 {
	switch n.kind {
	case numUnsigned:
		return float64(n.u)
	case numSigned:
		return float64(n.i)
	case numF32:
		return float64(n.f32)
	default:
		return n.f64
	}
}

// Equal compares two Num values by held value, across variants, so that
// Signed(1) == Unsigned(1) == F32(1.0).
func (n Num) Equal(o Num) bool {
	if n.kind == numUnsigned && o.kind == numUnsigned {
		return n.u == o.u
	}
	if n.kind == numSigned && o.kind == numSigned {
		return n.i == o.i
	}
	if n.IsFloat() || o.IsFloat() {
		nf, of := n.asF64(), o.asF64()
		if math.IsNaN(nf) || math.IsNaN(of) {
			return math.IsNaN(nf) && math.IsNaN(of)
		}
		return nf == of
	}
	// one signed, one unsigned, both integral
	if n.kind == numSigned {
		return n.i >= 0 && uint64(n.i) == o.u
	}
	return o.i >= 0 && uint64(o.i) == n.u
}

// Number is the set of Go types Num can be converted to/from via the
// generic Fits/To helpers below: every MessagePack-representable integer
// and float width.
type Number interface {
	constraints.Integer | constraints.Float
}

// Fits reports whether n can be round-tripped through T without loss:
// converting to T and back to n's own representation yields an identical
// value.
func Fits[T Number](n Num) bool {
	switch n.kind {
	case numUnsigned:
		if isSignedInt[T]() {
			if hi, _ := signedRange[T](); n.u > uint64(hi) {
				// guards the bit-reinterpretation hazard where a value too
				// large for T wraps into a negative T that, cast back to
				// uint64, happens to equal n.u again (e.g.
				// Fits[int64](Uint(math.MaxUint64)) would otherwise read
				// as true even though To[int64] clamps it to MaxInt64).
				return false
			}
		}
		return uint64(T(n.u)) == n.u
	case numSigned:
		if n.i < 0 {
			if _, ok := unsignedMax64[T](); ok {
				return false // no unsigned destination holds a negative value
			}
		}
		return int64(T(n.i)) == n.i
	case numF32:
		return float32(T(n.f32)) == n.f32
	default:
		return float64(T(n.f64)) == n.f64
	}
}

// unsignedMax64 reports whether T is an unsigned integer type, along with
// its maximum value where that fits a uint64 (always true for the widths
// Number allows). Unlike unsignedMax, it also recognizes uint64/uint/
// uintptr, whose round trip through int64 in Fits/clamp would otherwise
// silently accept a negative source via bit-pattern reinterpretation.
func unsignedMax64[T Number]() (hi uint64, ok bool) {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return math.MaxUint8, true
	case uint16:
		return math.MaxUint16, true
	case uint32:
		return math.MaxUint32, true
	case uint64, uint, uintptr:
		return math.MaxUint64, true
	default:
		return 0, false
	}
}

// To converts n to T, clamping to T's representable range when the value
// does not fit (it never panics). Call Fits[T] first if lossy clamping is
// not acceptable.
func To[T Number](n Num) T {
	switch n.kind {
	case numUnsigned:
		return clampUnsignedTo[T](n.u)
	case numSigned:
		return clampSignedTo[T](n.i)
	case numF32:
		return clampFloatTo[T](float64(n.f32))
	default:
		return clampFloatTo[T](n.f64)
	}
}

// clampUnsignedTo clamps an unsigned source magnitude into destination type
// T, which may itself be signed, unsigned, or floating point.
func clampUnsignedTo[T Number](u uint64) T {
	var zero T
	switch any(zero).(type) {
	case float32, float64:
		return T(u)
	case uint64, uint, uintptr:
		return T(u) // u already fits any 64-bit unsigned destination
	}
	if hi, ok := unsignedMax[T](); ok {
		if u > hi {
			return T(hi)
		}
		return T(u)
	}
	// signed integer destination
	lo, hi := signedRange[T]()
	if u > uint64(hi) {
		return T(hi)
	}
	_ = lo // unsigned source is never below a signed lower bound
	return T(u)
}

func clampSignedTo[T Number](i int64) T {
	var zero T
	switch any(zero).(type) {
	case float32, float64:
		return T(i)
	}
	if hi, ok := unsignedMax64[T](); ok {
		if i < 0 {
			return T(0)
		}
		if hi != math.MaxUint64 && uint64(i) > hi {
			return T(hi)
		}
		return T(i)
	}
	lo, hi := signedRange[T]()
	if i > hi {
		return T(hi)
	}
	if i < lo {
		return T(lo)
	}
	return T(i)
}

func clampFloatTo[T Number](f float64) T {
	var zero T
	switch any(zero).(type) {
	case float32:
		if f > math.MaxFloat32 {
			return T(math.MaxFloat32)
		}
		if f < -math.MaxFloat32 {
			return T(-math.MaxFloat32)
		}
		return T(f)
	case float64:
		return T(f)
	}
	if hi, ok := unsignedMax64[T](); ok {
		if f < 0 {
			return T(0)
		}
		if f > float64(hi) {
			return T(hi)
		}
		return T(f)
	}
	lo, hi := signedRange[T]()
	if f > float64(hi) {
		return T(hi)
	}
	if f < float64(lo) {
		return T(lo)
	}
	return T(f)
}

// unsignedMax reports the maximum value of T when T is an unsigned integer
// type narrower than 64 bits, for which the bound fits in a uint64.
func unsignedMax[T Number]() (hi uint64, ok bool) {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return math.MaxUint8, true
	case uint16:
		return math.MaxUint16, true
	case uint32:
		return math.MaxUint32, true
	default:
		return 0, false
	}
}

// isSignedInt reports whether T is one of the signed integer widths Number
// allows (as opposed to an unsigned integer or a float), so callers can
// tell whether signedRange's bound actually constrains T.
func isSignedInt[T Number]() bool {
	var zero T
	switch any(zero).(type) {
	case int8, int16, int32, int64, int:
		return true
	default:
		return false
	}
}

// signedRange returns the [lo, hi] range of signed integer type T.
func signedRange[T Number]() (lo, hi int64) {
	var zero T
	switch any(zero).(type) {
	case int8:
		return math.MinInt8, math.MaxInt8
	case int16:
		return math.MinInt16, math.MaxInt16
	case int32:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}
