// Package ecc implements affine arithmetic on the secp256k1 curve over its
// 256-bit prime field.
//
// All arithmetic is done with math/big and reduced modulo the field prime after
// every operation. Scalar multiplication is the plain most-significant-bit-first
// double-and-add ladder and is NOT constant time: it is meant for deriving
// public keys and addresses, and timing side channels are outside its threat
// model.
package ecc

import (
	"fmt"
	"math/big"
)

// secp256k1 domain parameters (SEC 2, section 2.4.1).
const (
	secp256k1P  = "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f"
	secp256k1N  = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"
	secp256k1Gx = "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	secp256k1Gy = "483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"
)

// Curve holds the domain parameters of a short Weierstrass curve
// y² = x³ + a·x + b over F_p. A Curve is never mutated after construction, so
// a single instance may be shared by any number of goroutines.
type Curve struct {
	name string
	p    *big.Int
	a    *big.Int
	b    *big.Int
	n    *big.Int
	g    Point

	// sqrtExp is (p+1)/4, valid because p ≡ 3 (mod 4).
	sqrtExp *big.Int
}

var secp256k1 = newSecp256k1()

// S256 returns the process-wide secp256k1 parameter set.
func S256() *Curve {
	return secp256k1
}

func newSecp256k1() *Curve {
	c := &Curve{
		name: "secp256k1",
		p:    mustHex(secp256k1P),
		a:    big.NewInt(0),
		b:    big.NewInt(7),
		n:    mustHex(secp256k1N),
		g:    NewPoint(mustHex(secp256k1Gx), mustHex(secp256k1Gy)),
	}
	c.sqrtExp = new(big.Int).Add(c.p, big.NewInt(1))
	c.sqrtExp.Rsh(c.sqrtExp, 2)
	if !c.IsOnCurve(c.g) {
		panic("secp256k1 generator is not on the curve")
	}
	return c
}

func mustHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic(fmt.Sprintf("invalid curve constant %q", s))
	}
	return v
}

// Name returns the curve name.
func (c *Curve) Name() string { return c.name }

// P returns a copy of the field prime.
func (c *Curve) P() *big.Int { return new(big.Int).Set(c.p) }

// A returns a copy of the a coefficient.
func (c *Curve) A() *big.Int { return new(big.Int).Set(c.a) }

// B returns a copy of the b coefficient.
func (c *Curve) B() *big.Int { return new(big.Int).Set(c.b) }

// N returns a copy of the order of the generator.
func (c *Curve) N() *big.Int { return new(big.Int).Set(c.n) }

// G returns the generator point.
func (c *Curve) G() Point { return c.g }

// BitSize is the size of the field elements in bits.
func (c *Curve) BitSize() int { return c.p.BitLen() }

// ByteSize is the length of a serialized field element.
func (c *Curve) ByteSize() int { return (c.BitSize() + 7) / 8 }

// IsOnCurve reports whether p satisfies the curve equation. The point at
// infinity is a member of the group and is reported as on the curve.
func (c *Curve) IsOnCurve(p Point) bool {
	if p.infinity {
		return true
	}
	if p.x.Sign() < 0 || p.x.Cmp(c.p) >= 0 || p.y.Sign() < 0 || p.y.Cmp(c.p) >= 0 {
		return false
	}
	lhs := new(big.Int).Mul(p.y, p.y)
	lhs.Mod(lhs, c.p)
	return lhs.Cmp(c.rhs(p.x)) == 0
}

// rhs evaluates x³ + a·x + b mod p.
func (c *Curve) rhs(x *big.Int) *big.Int {
	r := new(big.Int).Mul(x, x)
	r.Mul(r, x)
	ax := new(big.Int).Mul(c.a, x)
	r.Add(r, ax)
	r.Add(r, c.b)
	return r.Mod(r, c.p)
}

// DecompressY returns the y coordinate for x whose parity matches odd. It
// fails when x is not the abscissa of a curve point.
func (c *Curve) DecompressY(x *big.Int, odd bool) (*big.Int, error) {
	if x.Sign() < 0 || x.Cmp(c.p) >= 0 {
		return nil, fmt.Errorf("x coordinate is not a field element")
	}
	y2 := c.rhs(x)
	y := new(big.Int).Exp(y2, c.sqrtExp, c.p)
	check := new(big.Int).Mul(y, y)
	check.Mod(check, c.p)
	if check.Cmp(y2) != 0 {
		return nil, fmt.Errorf("x coordinate is not on %s", c.name)
	}
	if (y.Bit(0) == 1) != odd {
		y.Sub(c.p, y)
	}
	return y, nil
}

// inverse returns v⁻¹ mod p. A non-invertible value can only reach here
// through a bug in the caller, so it panics instead of returning zero.
func (c *Curve) inverse(v *big.Int) *big.Int {
	r := new(big.Int).ModInverse(v, c.p)
	if r == nil {
		panic(fmt.Sprintf("ecc: %x has no inverse modulo p", v))
	}
	return r
}

func (c *Curve) mod(v *big.Int) *big.Int {
	return v.Mod(v, c.p)
}
