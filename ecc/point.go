package ecc

import (
	"math/big"
)

// Point is an affine point on a curve, or the point at infinity. Points are
// values: no operation in this package modifies the coordinates of an existing
// Point.
type Point struct {
	x, y     *big.Int
	infinity bool
}

// NewPoint returns the affine point (x, y). The coordinates are copied. The
// caller is responsible for checking the point with Curve.IsOnCurve when the
// coordinates come from untrusted input.
func NewPoint(x, y *big.Int) Point {
	return Point{x: new(big.Int).Set(x), y: new(big.Int).Set(y)}
}

// Infinity returns the group identity.
func Infinity() Point {
	return Point{infinity: true}
}

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool {
	return p.infinity
}

// X returns a copy of the x coordinate, or nil for the point at infinity.
func (p Point) X() *big.Int {
	if p.infinity {
		return nil
	}
	return new(big.Int).Set(p.x)
}

// Y returns a copy of the y coordinate, or nil for the point at infinity.
func (p Point) Y() *big.Int {
	if p.infinity {
		return nil
	}
	return new(big.Int).Set(p.y)
}

// Equal reports whether p and q are the same group element. Coordinates of
// the point at infinity are ignored.
func (p Point) Equal(q Point) bool {
	if p.infinity || q.infinity {
		return p.infinity == q.infinity
	}
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

// Negate returns -p.
func (c *Curve) Negate(p Point) Point {
	if p.infinity {
		return Infinity()
	}
	y := new(big.Int).Sub(c.p, p.y)
	return Point{x: new(big.Int).Set(p.x), y: c.mod(y)}
}

// Double returns 2·p. A point with y = 0 has a vertical tangent and doubles
// to infinity.
func (c *Curve) Double(p Point) Point {
	if p.infinity || p.y.Sign() == 0 {
		return Infinity()
	}

	// λ = (3x² + a) / 2y
	num := new(big.Int).Mul(p.x, p.x)
	num.Mul(num, big.NewInt(3))
	num.Add(num, c.a)
	den := new(big.Int).Lsh(p.y, 1)
	lambda := num.Mul(num, c.inverse(c.mod(den)))
	c.mod(lambda)

	// x' = λ² - 2x
	x := new(big.Int).Mul(lambda, lambda)
	x.Sub(x, new(big.Int).Lsh(p.x, 1))
	c.mod(x)

	// y' = λ(x - x') - y
	y := new(big.Int).Sub(p.x, x)
	y.Mul(y, lambda)
	y.Sub(y, p.y)
	c.mod(y)

	return Point{x: x, y: y}
}

// Add returns p + q.
func (c *Curve) Add(p, q Point) Point {
	if p.infinity {
		return q
	}
	if q.infinity {
		return p
	}

	if p.x.Cmp(q.x) == 0 {
		sum := new(big.Int).Add(p.y, q.y)
		if c.mod(sum).Sign() == 0 {
			return Infinity()
		}
		return c.Double(p)
	}

	// λ = (y_q - y_p) / (x_q - x_p)
	num := new(big.Int).Sub(q.y, p.y)
	den := new(big.Int).Sub(q.x, p.x)
	lambda := num.Mul(num, c.inverse(c.mod(den)))
	c.mod(lambda)

	// x' = λ² - x_p - x_q
	x := new(big.Int).Mul(lambda, lambda)
	x.Sub(x, p.x)
	x.Sub(x, q.x)
	c.mod(x)

	// y' = λ(x_p - x') - y_p
	y := new(big.Int).Sub(p.x, x)
	y.Mul(y, lambda)
	y.Sub(y, p.y)
	c.mod(y)

	return Point{x: x, y: y}
}
