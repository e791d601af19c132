//go:build !(amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm)

package monologue

// The oto audio sink hands float32 sample memory to the device as raw bytes
// through unsafe.Slice, which assumes little-endian byte order.
var _ = "Monologue requires a little-endian architecture" + 1
