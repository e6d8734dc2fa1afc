package snowflake

// alphabet is the fixed 32-symbol table used for the textual form.
// The ordering is deliberate and excludes visually ambiguous
// characters (no l, v, 0 or 2); 'y' is the zero digit.
const alphabet = "ybndrfg8ejkmcpqxot1uwisza345h769"

// EncodedLen is the exact width of every encoded ID.
const EncodedLen = 13

const invalidDigit = 0xFF

// decodeTable maps a byte to its 5-bit digit value, with invalidDigit
// marking bytes outside the alphabet. Built exactly once, before any
// codec use, and immutable afterwards.
var decodeTable [256]byte

func init() {
	for i := range decodeTable {
		decodeTable[i] = invalidDigit
	}
	for i := 0; i < len(alphabet); i++ {
		decodeTable[alphabet[i]] = byte(i)
	}
}

// Encode renders id as exactly EncodedLen symbols, most significant
// digit first, left-padded with the alphabet's zero digit. Every ID
// has an encoding; Encode cannot fail.
func Encode(id ID) string {
	var buf [EncodedLen]byte
	v := uint64(id)
	for i := EncodedLen - 1; i >= 0; i-- {
		buf[i] = alphabet[v&31]
		v >>= 5
	}
	return string(buf[:])
}

// Decode parses the textual form produced by Encode. It returns
// (0, false) if s is not exactly EncodedLen bytes or contains a byte
// outside the alphabet; the value is meaningless unless ok is true.
func Decode(s string) (id ID, ok bool) {
	if len(s) != EncodedLen {
		return 0, false
	}
	var v uint64
	for i := 0; i < EncodedLen; i++ {
		d := decodeTable[s[i]]
		if d == invalidDigit {
			return 0, false
		}
		v = v<<5 | uint64(d)
	}
	return ID(v), true
}
