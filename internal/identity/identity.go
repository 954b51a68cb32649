// Package identity derives commit identities from content descriptors.
//
// An identity is a polynomial accumulator over the character codes of the
// descriptor with multiplier 5: a single character maps to its code, and a
// longer string maps to code(last) + Sum(all but last)*5. The last character
// therefore carries weight 1 and the first carries weight 5^(n-1).
//
// The value is not a cryptographic hash. It has no fixed width and collisions
// are possible.
package identity

import (
	"math/big"
	"unicode/utf16"
)

const multiplier = 5

// leafSize bounds the number of code units folded in a uint64 before
// switching to big integers. 65535 * 5^16 stays well below 2^64.
const leafSize = 16

var bigMultiplier = big.NewInt(multiplier)

// Sum returns the accumulator for content. Character codes are UTF-16 code
// units. The empty string yields 0.
func Sum(content string) *big.Int {
	units := utf16.Encode([]rune(content))
	if len(units) == 0 {
		return new(big.Int)
	}
	return fold(units)
}

// Hex renders Sum(content) as lowercase hexadecimal without padding.
//
// Identities are never truncated, even past 40 digits: snapshot directory
// names are the full rendering.
func Hex(content string) string {
	return Sum(content).Text(16)
}

// fold splits units in halves so recursion depth is logarithmic in the input
// length: fold(l+r) = fold(l)*5^len(r) + fold(r).
func fold(units []uint16) *big.Int {
	if len(units) <= leafSize {
		var acc uint64
		for _, u := range units {
			acc = acc*multiplier + uint64(u)
		}
		return new(big.Int).SetUint64(acc)
	}

	mid := len(units) / 2
	left := fold(units[:mid])
	right := fold(units[mid:])

	shift := new(big.Int).Exp(bigMultiplier, big.NewInt(int64(len(units)-mid)), nil)
	left.Mul(left, shift)
	return left.Add(left, right)
}
