//go:build amd64

package simd

import "golang.org/x/sys/cpu"

// hasAVX2 marks cores wide enough for the 32-byte unrolled loop to pay off.
var hasAVX2 = cpu.X86.HasAVX2

// IsASCII reports whether every byte of s is below 0x80.
//
// On AVX2-class cores inputs of 32 bytes or more use the unrolled loop;
// shorter inputs and older cores use the 8-byte loop.
func IsASCII(s string) bool {
	if hasAVX2 && len(s) >= 32 {
		return isASCIIWide(s)
	}
	return isASCIIGeneric(s)
}
