package wgpu

import (
	"fmt"

	"github.com/gogpu/naga"
)

// compileWGSL compiles WGSL source to SPIR-V words.
func compileWGSL(wgsl string) ([]uint32, error) {
	if wgsl == "" {
		return nil, fmt.Errorf("empty WGSL source")
	}

	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}

	return spirvWords(spirvBytes), nil
}

// spirvWords packs SPIR-V bytes into little-endian 32-bit words.
func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}
