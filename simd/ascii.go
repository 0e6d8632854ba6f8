// Package simd provides word-at-a-time byte scanning used on the matching
// hot path.
//
// The engine checks each line once with IsASCII. An ASCII-only line lets the
// matcher treat every byte as a whole grapheme and skip UTF-8 decoding.
package simd

// hi8 has the high bit of every byte set; ASCII bytes have it clear.
const hi8 = uint64(0x8080808080808080)

// isASCIIGeneric checks 8 bytes per iteration (SWAR).
func isASCIIGeneric(s string) bool {
	i := 0
	for ; i+8 <= len(s); i += 8 {
		if load64(s, i)&hi8 != 0 {
			return false
		}
	}
	return isASCIITail(s, i)
}

// isASCIIWide checks 32 bytes per iteration, folding four words before the
// test so the loop carries a single branch.
func isASCIIWide(s string) bool {
	i := 0
	for ; i+32 <= len(s); i += 32 {
		w := load64(s, i) | load64(s, i+8) | load64(s, i+16) | load64(s, i+24)
		if w&hi8 != 0 {
			return false
		}
	}
	return isASCIIGeneric(s[i:])
}

func isASCIITail(s string, i int) bool {
	for ; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// load64 reads 8 bytes of s starting at i as a little-endian word.
func load64(s string, i int) uint64 {
	_ = s[i+7]
	return uint64(s[i]) | uint64(s[i+1])<<8 | uint64(s[i+2])<<16 | uint64(s[i+3])<<24 |
		uint64(s[i+4])<<32 | uint64(s[i+5])<<40 | uint64(s[i+6])<<48 | uint64(s[i+7])<<56
}
