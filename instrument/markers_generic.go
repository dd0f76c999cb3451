//go:build !riscv64

package instrument

// EmitStartTracing is a no-op on non-RISC-V hosts: there is no tracing
// decoder attached to a foreign ISA's instruction stream, but traced
// programs must still build and run when cross-compiled for development.
func EmitStartTracing() {}

// EmitClear is a no-op on non-RISC-V hosts.
func EmitClear() {}

// EmitEndROI is a no-op on non-RISC-V hosts.
func EmitEndROI() {}
