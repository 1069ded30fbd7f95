// Package interp provides the fractional-read primitives used by delay lines
// and the granular pitch shifter.
//
// Available methods:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite (good default)
package interp
