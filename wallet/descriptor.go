package wallet

import (
	"fmt"
	"strings"
)

// descriptorInputCharset orders the characters a descriptor may contain so
// that each maps to a 5-bit symbol and a group of three.
const descriptorInputCharset = "0123456789()[],'/*abcdefgh@:$%{}" +
	"IJKLMNOPQRSTUVWXYZ&+-.;<=>?!^_|~" +
	"ijklmnopqrstuvwxyzABCDEFGH`#\"\\ "

const descriptorChecksumCharset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// DescriptorChecksumLength is the number of characters after the '#'.
const DescriptorChecksumLength = 8

var descriptorGenerator = [5]uint64{0xf5dee51989, 0xa9fdca3312, 0x1bab10e32d, 0x3706b1677a, 0x644d626ffd}

func descriptorPolymod(c uint64, val uint64) uint64 {
	c0 := c >> 35
	c = ((c & 0x7ffffffff) << 5) ^ val
	for i, g := range descriptorGenerator {
		if (c0>>uint(i))&1 != 0 {
			c ^= g
		}
	}
	return c
}

// DescriptorChecksum computes the BIP-380 checksum of an output descriptor
// given without its '#' suffix.
func DescriptorChecksum(desc string) (string, error) {
	c := uint64(1)
	var cls, clsCount uint64
	for i := 0; i < len(desc); i++ {
		pos := strings.IndexByte(descriptorInputCharset, desc[i])
		if pos < 0 {
			str := fmt.Sprintf("invalid descriptor character %q at position %d", desc[i], i)
			return "", makeError(ErrInvalidDescriptor, str)
		}
		c = descriptorPolymod(c, uint64(pos)&31)
		cls = cls*3 + uint64(pos)>>5
		if clsCount++; clsCount == 3 {
			c = descriptorPolymod(c, cls)
			cls, clsCount = 0, 0
		}
	}
	if clsCount > 0 {
		c = descriptorPolymod(c, cls)
	}
	for i := 0; i < DescriptorChecksumLength; i++ {
		c = descriptorPolymod(c, 0)
	}
	c ^= 1

	var sb strings.Builder
	sb.Grow(DescriptorChecksumLength)
	for i := 0; i < DescriptorChecksumLength; i++ {
		sb.WriteByte(descriptorChecksumCharset[(c>>(5*uint(7-i)))&31])
	}
	return sb.String(), nil
}

// WithDescriptorChecksum appends "#<checksum>" to desc.
func WithDescriptorChecksum(desc string) (string, error) {
	sum, err := DescriptorChecksum(desc)
	if err != nil {
		return "", err
	}
	return desc + "#" + sum, nil
}
