//go:build !amd64 && !arm64

package simd

// IsASCII reports whether every byte of s is below 0x80.
func IsASCII(s string) bool {
	return isASCIIGeneric(s)
}
