package identity

import (
	"math/big"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
)

// reference follows the definition literally: code(last) + reference(prefix)*5.
func reference(content string) *big.Int {
	units := utf16.Encode([]rune(content))
	acc := big.NewInt(int64(units[len(units)-1]))
	weight := big.NewInt(1)
	for i := len(units) - 2; i >= 0; i-- {
		weight.Mul(weight, big.NewInt(5))
		acc.Add(acc, new(big.Int).Mul(weight, big.NewInt(int64(units[i]))))
	}
	return acc
}

func TestSingleCharacterIsItsCode(t *testing.T) {
	for _, s := range []string{"a", "Z", "_", "0", "é"} {
		r := []rune(s)[0]
		assert.Equal(t, int64(r), Sum(s).Int64(), s)
	}
	assert.Equal(t, "61", Hex("a"))
}

func TestKnownValues(t *testing.T) {
	// 97*5 + 98
	assert.Equal(t, "247", Hex("ab"))
	// (97*5 + 98)*5 + 99
	assert.Equal(t, "bc6", Hex("abc"))
}

func TestOrderMatters(t *testing.T) {
	assert.NotEqual(t, Hex("ab"), Hex("ba"))
}

func TestDeterministic(t *testing.T) {
	s := "name_content_2024-01-02_03:04:05hello"
	assert.Equal(t, Hex(s), Hex(s))
}

func TestMatchesReference(t *testing.T) {
	lengths := []int{1, 2, 15, 16, 17, 31, 33, 100, 257, 1000}
	for _, n := range lengths {
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteByte(byte('a' + i%26))
		}
		s := b.String()
		assert.Equal(t, 0, reference(s).Cmp(Sum(s)), "length %d", n)
	}
}

func TestNonASCIIUsesUTF16Units(t *testing.T) {
	// U+1F600 encodes as a surrogate pair.
	s := "x\U0001F600"
	assert.Equal(t, 0, reference(s).Cmp(Sum(s)))
}

func TestLongIdentitiesAreNotTruncated(t *testing.T) {
	s := strings.Repeat("content_", 20)
	h := Hex(s)
	assert.Greater(t, len(h), 40)
	assert.Equal(t, reference(s).Text(16), h)
	assert.Equal(t, strings.ToLower(h), h)
}

func TestEmpty(t *testing.T) {
	assert.Equal(t, "0", Hex(""))
}
