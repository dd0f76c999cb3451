// Package instrument provides the target-side instrumentation interface: the
// reserved-opcode tracing markers and a thread-pinning helper that a traced
// program links against to cooperate with the trace emitter.
package instrument

// Reserved instrumentation opcodes (bit-exact). Each is an architecturally
// nop `srai x0,x0,<imm>` encoding that the tracing decoder recognizes as a
// marker; on a host without the tracing decoder attached these execute as
// ordinary (and harmless) shift-right-arithmetic no-ops.
const (
	// OpcodeStartTracing is `srai x0,x0,2`.
	OpcodeStartTracing uint32 = 0x40205013
	// OpcodeClear is `srai x0,x0,0`, marking the start of a region of
	// interest.
	OpcodeClear uint32 = 0x40005013
	// OpcodeEndROI is `srai x0,x0,1`, marking the end of a region of
	// interest.
	OpcodeEndROI uint32 = 0x40105013
)
