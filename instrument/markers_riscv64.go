//go:build riscv64

package instrument

// startTracingAsm, clearAsm and endROIAsm are implemented in
// markers_riscv64.s as the bit-exact reserved srai encodings; see opcodes.go
// for the values. They carry no arguments and no return value, and clobber
// no registers other than the ones the ISA itself defines for srai (none,
// since both operands are x0).
func startTracingAsm()
func clearAsm()
func endROIAsm()

// EmitStartTracing executes the reserved start-tracing marker.
func EmitStartTracing() { startTracingAsm() }

// EmitClear executes the reserved region-of-interest-begin marker.
func EmitClear() { clearAsm() }

// EmitEndROI executes the reserved region-of-interest-end marker.
func EmitEndROI() { endROIAsm() }
