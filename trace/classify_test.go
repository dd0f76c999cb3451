package trace

import "testing"

func TestClassifyUnknownMnemonic(t *testing.T) {
	info := Classify("not_a_real_mnemonic", Decoder{})
	if info.Type != Unknown {
		t.Fatalf("got %v, expected %v", info.Type, Unknown)
	}
}

func TestClassifyGeneric(t *testing.T) {
	info := Classify("addi", Decoder{})
	if info.Type != Generic {
		t.Fatalf("got %v, expected %v", info.Type, Generic)
	}
}

func TestClassifySraiMarkers(t *testing.T) {
	cases := []struct {
		bits uint32
		want InstType
	}{
		{0x40205013, StartTracing},
		{0x40005013, Clear},
		{0x40105013, EndROI},
		{0x40105017, Generic}, // not one of the reserved patterns
	}
	for _, c := range cases {
		info := Classify("srai", Decoder{Raw: RawInst{Bits: c.bits}})
		if info.Type != c.want {
			t.Fatalf("bits 0x%x: got %v, expected %v", c.bits, info.Type, c.want)
		}
	}
}

func TestClassifyBranch(t *testing.T) {
	info := Classify("beq", Decoder{PC: 0x1000, SBImm: 16})
	if info.Type != B {
		t.Fatalf("got %v, expected %v", info.Type, B)
	}
	if info.TargetAddress != 0x1010 {
		t.Fatalf("got target 0x%x, expected 0x1010", info.TargetAddress)
	}
}

func TestClassifyJALDistinguishesCallFromJump(t *testing.T) {
	call := Classify("jal", Decoder{PC: 0x2000, RD: 1, UJImm: 0x100})
	if call.Type != C {
		t.Fatalf("got %v, expected %v (jal with link-register rd is a call)", call.Type, C)
	}
	if call.TargetAddress != 0x2100 {
		t.Fatalf("got target 0x%x, expected 0x2100", call.TargetAddress)
	}

	jump := Classify("jal", Decoder{PC: 0x2000, RD: 0, UJImm: 0x100})
	if jump.Type != J {
		t.Fatalf("got %v, expected %v (jal with rd=x0 is a plain jump)", jump.Type, J)
	}
}

func TestClassifyJALRReturnVsIndirectCall(t *testing.T) {
	log := CommitLog{RegReads: []RegRead{{Reg: NewIntCommitLogRegId(1), Value: 0x4000}}}

	ret := Classify("jalr", Decoder{RD: 0, RS1: 1, IImm: 0, Log: log})
	if ret.Type != r {
		t.Fatalf("got %v, expected %v (jalr rd=x0 rs1=ra is a return)", ret.Type, r)
	}
	if ret.TargetAddress != 0x4000 {
		t.Fatalf("got target 0x%x, expected 0x4000", ret.TargetAddress)
	}

	indirectCall := Classify("jalr", Decoder{RD: 1, RS1: 1, IImm: 0, Log: log})
	if indirectCall.Type != c {
		t.Fatalf("got %v, expected %v (jalr rd=ra is an indirect call)", indirectCall.Type, c)
	}
}

func TestClassifyJALRTargetMasksLowBit(t *testing.T) {
	log := CommitLog{RegReads: []RegRead{{Reg: NewIntCommitLogRegId(1), Value: 0x4001}}}
	info := Classify("jalr", Decoder{RD: 0, RS1: 1, IImm: 0, Log: log})
	if info.TargetAddress != 0x4000 {
		t.Fatalf("got target 0x%x, expected low bit cleared to 0x4000", info.TargetAddress)
	}
}

func TestClassifyCompressedBranch(t *testing.T) {
	for _, mnemonic := range []string{"c_beqz", "c_bnez"} {
		info := Classify(mnemonic, Decoder{PC: 0x1000, RVCBImm: 16})
		if info.Type != B {
			t.Fatalf("%s: got %v, expected %v", mnemonic, info.Type, B)
		}
		if info.TargetAddress != 0x1010 {
			t.Fatalf("%s: got target 0x%x, expected 0x1010", mnemonic, info.TargetAddress)
		}
	}
}

func TestClassifyCJ(t *testing.T) {
	info := Classify("c_j", Decoder{PC: 0x2000, RVCJImm: 0x40})
	if info.Type != J {
		t.Fatalf("got %v, expected %v", info.Type, J)
	}
	if info.TargetAddress != 0x2040 {
		t.Fatalf("got target 0x%x, expected 0x2040", info.TargetAddress)
	}
}

// TestClassifyCJRReturnVsIndirectJump pins down that c.jr's rs2-is-zero
// check reads RVCImm (the CR-type rs2 field), not RVCJImm (the unrelated
// CJ-type jump-target immediate c.j/c.jal decode): a front end populates
// RVCJImm from c.jr's rs1 bits whenever it treats the instruction as
// CJ-shaped, so using it here would make a nonzero rs1 (ra/t0, i.e. every
// real c.jr return) spuriously fail the zero-immediate check.
func TestClassifyCJRReturnVsIndirectJump(t *testing.T) {
	log := CommitLog{RegReads: []RegRead{{Reg: NewIntCommitLogRegId(1), Value: 0x4000}}}

	ret := Classify("c_jr", Decoder{RS1C: 1, RVCImm: 0, RVCJImm: 0x123, Log: log})
	if ret.Type != r {
		t.Fatalf("got %v, expected %v (c.jr ra with zero rvc_imm is a return)", ret.Type, r)
	}
	if ret.TargetAddress != 0x4000 {
		t.Fatalf("got target 0x%x, expected 0x4000", ret.TargetAddress)
	}

	jump := Classify("c_jr", Decoder{RS1C: 6, RVCImm: 0, RVCJImm: 0x123, Log: CommitLog{
		RegReads: []RegRead{{Reg: NewIntCommitLogRegId(6), Value: 0x5000}},
	}})
	if jump.Type != j {
		t.Fatalf("got %v, expected %v (c.jr on a non-link register is a plain jump)", jump.Type, j)
	}

	notReturn := Classify("c_jr", Decoder{RS1C: 1, RVCImm: 4, Log: log})
	if notReturn.Type != j {
		t.Fatalf("got %v, expected %v (c.jr ra with nonzero rvc_imm is not a return)", notReturn.Type, j)
	}
}

func TestClassifyCJALR(t *testing.T) {
	log := CommitLog{RegReads: []RegRead{{Reg: NewIntCommitLogRegId(1), Value: 0x6000}}}
	info := Classify("c_jalr", Decoder{RS1C: 1, Log: log})
	if info.Type != c {
		t.Fatalf("got %v, expected %v", info.Type, c)
	}
	if info.TargetAddress != 0x6000 {
		t.Fatalf("got target 0x%x, expected 0x6000", info.TargetAddress)
	}
}

func TestClassifyLoad(t *testing.T) {
	info := Classify("ld", Decoder{Raw: RawInst{Bits: 0x00013083}})
	if info.Type != L {
		t.Fatalf("got %v, expected %v", info.Type, L)
	}
	if info.MemoryAccessType != ShapeScalar {
		t.Fatalf("got %v, expected %v", info.MemoryAccessType, ShapeScalar)
	}
}

func TestClassifyStoreScalarVsVector(t *testing.T) {
	scalar := Classify("sd", Decoder{RS1: 2, RS2: 3, Raw: RawInst{Bits: 0x00000023 | 0x3}})
	if scalar.Type != S {
		t.Fatalf("got %v, expected %v", scalar.Type, S)
	}
	if scalar.SDataReg != IntReg(3) {
		t.Fatalf("got data reg %v, expected integer x3", scalar.SDataReg)
	}

	vector := Classify("vse8_v", Decoder{RS1: 2, RD: 4, Raw: RawInst{Bits: uint32(0x27) | 0x3, VWidth: 8, VMop: 0}})
	if vector.Type != S {
		t.Fatalf("got %v, expected %v", vector.Type, S)
	}
	if vector.SDataReg != VectorReg(4) {
		t.Fatalf("got data reg %v, expected vector v4", vector.SDataReg)
	}
	if vector.MemoryAccessType != ShapeContiguous {
		t.Fatalf("got %v, expected %v", vector.MemoryAccessType, ShapeContiguous)
	}
}

func TestClassifyLRAndSC(t *testing.T) {
	lr := Classify("lr_d", Decoder{})
	if lr.Type != LR {
		t.Fatalf("got %v, expected %v", lr.Type, LR)
	}

	sc := Classify("sc_d", Decoder{RS1: 10, RS2: 11})
	if sc.Type != SC {
		t.Fatalf("got %v, expected %v", sc.Type, SC)
	}
	if sc.SBaseReg != IntReg(10) || sc.SDataReg != IntReg(11) {
		t.Fatalf("got base/data %v/%v, expected x10/x11", sc.SBaseReg, sc.SDataReg)
	}
}

func TestClassifyRMW(t *testing.T) {
	info := Classify("amoadd_d", Decoder{RS1: 10, RS2: 11})
	if info.Type != RMW {
		t.Fatalf("got %v, expected %v", info.Type, RMW)
	}
}

func TestClassifyFloatingPointFamilies(t *testing.T) {
	cases := map[string]InstType{
		"fadd_s":  A,
		"fmul_s":  M,
		"fdiv_s":  D,
		"fsqrt_s": Q,
	}
	for mnemonic, want := range cases {
		info := Classify(mnemonic, Decoder{})
		if info.Type != want {
			t.Fatalf("%s: got %v, expected %v", mnemonic, info.Type, want)
		}
	}
}

func TestClassifyCJALIsGeneric(t *testing.T) {
	// c.jal is an rv64 c.addiw alias; it must carry no control-flow effect.
	info := Classify("c_jal", Decoder{})
	if info.Type != Generic {
		t.Fatalf("got %v, expected %v", info.Type, Generic)
	}
	if info.TargetAddress != InvalidTargetAddress {
		t.Fatalf("got target 0x%x, expected the invalid sentinel", info.TargetAddress)
	}
}

func TestClassifyCompressedStoreRegFunct3(t *testing.T) {
	// funct3 occupies bits [15:13]; 0x6 selects c.sw (integer data register).
	bits16 := uint16(0x6) << 13
	info := Classify("c_sw", Decoder{RS1C: 8, RS2C: 9, RawBits16: bits16})
	if info.Type != S {
		t.Fatalf("got %v, expected %v", info.Type, S)
	}
	if info.SDataReg != IntReg(9) {
		t.Fatalf("got data reg %v, expected integer x9", info.SDataReg)
	}

	fpBits16 := uint16(0x5) << 13
	fpInfo := Classify("c_fsd", Decoder{RS1C: 8, RS2C: 9, RawBits16: fpBits16})
	if fpInfo.SDataReg != FloatReg(9) {
		t.Fatalf("got data reg %v, expected float f9", fpInfo.SDataReg)
	}
}
