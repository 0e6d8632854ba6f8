//go:build arm64

package simd

import "golang.org/x/sys/cpu"

// hasASIMD marks cores with Advanced SIMD, where the unrolled loop is faster.
var hasASIMD = cpu.ARM64.HasASIMD

// IsASCII reports whether every byte of s is below 0x80.
func IsASCII(s string) bool {
	if hasASIMD && len(s) >= 32 {
		return isASCIIWide(s)
	}
	return isASCIIGeneric(s)
}
