package ecc

import (
	"math/big"
)

// ScalarMult returns k·p using most-significant-bit-first double-and-add.
// k must be non-negative; it is not reduced modulo the group order, and k = 0
// yields the point at infinity.
func (c *Curve) ScalarMult(p Point, k *big.Int) Point {
	if k.Sign() < 0 {
		panic("ecc: negative scalar")
	}
	r := Infinity()
	for i := k.BitLen() - 1; i >= 0; i-- {
		r = c.Double(r)
		if k.Bit(i) == 1 {
			r = c.Add(r, p)
		}
	}
	return r
}

// ScalarBaseMult returns k·G.
func (c *Curve) ScalarBaseMult(k *big.Int) Point {
	return c.ScalarMult(c.g, k)
}

// IsValidScalar reports whether k lies in [1, n-1] and can serve as a private
// key on this curve.
func (c *Curve) IsValidScalar(k *big.Int) bool {
	return k.Sign() > 0 && k.Cmp(c.n) < 0
}
