package trace

import "math"

// InvalidTargetAddress marks an InstInfo.TargetAddress that was never set
// by a decoder; it is a sentinel, never a real branch/jump target.
const InvalidTargetAddress = math.MaxUint64

// InstInfo is everything the classifier derives about one instruction ahead
// of emission: its abstract type, the registers a store/RMW/store-conditional
// reads for its address and data operands (loads don't need this; the
// commit log already tells Emit which registers they wrote), the shape of
// any memory access, and the resolved target address of any control-flow
// instruction.
type InstInfo struct {
	Type InstType

	// SBaseReg and SDataReg name the base-address and data-value operands
	// of a store/store-conditional/RMW. For S, SA and SC, Emit prints the
	// base first (tagged x) and the rest of the read set as y operands;
	// RMW reads are printed as plain x operands. They are unused (and must
	// be Invalid) for every other InstType.
	SBaseReg RegisterId
	SDataReg RegisterId

	// MemoryAccessType classifies the memory access for L, LR, S, SA, RMW.
	MemoryAccessType MemAccessShape

	// TargetAddress is the resolved branch/jump/call target for B, C, c,
	// J, j, r. JALR/JR based types must resolve this from the commit log's
	// recorded register value, not from any statically known value, since
	// the destination is only known once the register read has committed.
	TargetAddress uint64
}

// NewInstInfo returns an InstInfo with every optional field at its
// sentinel/invalid value, ready for a decoder to fill in only what its
// InstType requires.
func NewInstInfo(t InstType) InstInfo {
	return InstInfo{
		Type:              t,
		SBaseReg:          Invalid,
		SDataReg:          Invalid,
		MemoryAccessType:  ShapeInvalid,
		TargetAddress:     InvalidTargetAddress,
	}
}
