package trace

// mnemonicClass is the tagged variant the classifier dispatches on. Rather
// than caching a decoder closure per mnemonic (the mnemonic set is closed
// and known at build time), every mnemonic is mapped once, at package init,
// to one of these class tags, and Classify is a single switch over the tag.
type mnemonicClass int

const (
	classUnknown mnemonicClass = iota
	classSrai
	classGeneric
	classBranch      // beq/bge/bgeu/blt/bltu/bne
	classCBranch     // c.beqz/c.bnez
	classCJ          // c.j
	classCJR         // c.jr
	classCJAL        // c.jal (really c.addiw on rv64)
	classJAL         // jal
	classJALR        // jalr
	classCJALR       // c.jalr
	classLoad        // scalar/vector loads needing shape decode
	classCLoad       // compressed loads, always scalar
	classCStoreReg   // c.sd/c.sw/c.fsd  (base = rs1s, data size-tagged)
	classCStoreSP    // c.sdsp/c.swsp/c.fsdsp (base = sp)
	classStore       // sb/sd/sh/sw + vector integer stores
	classFStore      // fsd/fsh/fsq/fsw
	classLR          // lr.w/lr.d
	classSC          // sc.w/sc.d
	classRMW         // amo*
	classFPAddSub    // A
	classFPMulMAdd   // M
	classFPDiv       // D
	classFPSqrt      // Q
)

var mnemonicTable = buildMnemonicTable()

func buildMnemonicTable() map[string]mnemonicClass {
	t := make(map[string]mnemonicClass, 512)
	set := func(cls mnemonicClass, names ...string) {
		for _, n := range names {
			t[n] = cls
		}
	}

	set(classSrai, "srai")

	set(classGeneric,
		"add", "addi", "addiw", "addw", "add_uw", "and", "andn", "andi", "auipc", "lui", "or", "ori", "sll", "slli",
		"slliw", "sllw", "slt", "slti", "sltiu", "sltu", "sra", "sraiw", "sraw", "srl",
		"srli", "srliw", "srlw", "sub", "subw", "xor", "xori",
		"c_add", "c_addi", "c_addi4spn", "c_addw", "c_and", "c_andi",
		"c_li", "c_lui", "c_mv", "c_or", "c_slli", "c_srai", "c_srli", "c_sub", "c_subw", "c_xor",
		"fence", "fence_i",
		"clmulh", "clmul", "clmulr", "c_mul", "mulh", "mulhsu", "mulhu", "mul", "mulw",
		"vclmulh_vv", "vclmulh_vx", "vclmul_vv", "vclmul_vx", "vmulhsu_vv", "vmulhsu_vx",
		"vmulhu_vv", "vmulhu_vx", "vmulh_vv", "vmulh_vx", "vmul_vv", "vmul_vx", "vsmul_vv",
		"vsmul_vx", "vwmulsu_vv", "vwmulsu_vx", "vwmulu_vv", "vwmulu_vx", "vwmul_vv", "vwmul_vx",
		"div", "divu", "divuw", "divw", "rem", "remu", "remuw", "remw",
		"vdiv_vv", "vdiv_vx", "vdivu_vv", "vdivu_vx", "vrem_vv", "vrem_vx", "vremu_vv", "vremu_vx",
		"fmv_w_x", "fmv_x_w", "fmv_d_x", "fmv_x_d", "fmvh_x_d", "fmvp_d_x", "fmvh_x_q", "fmvp_q_x", "fmv_h_x", "fmv_x_h",
		"fcvt_l_h", "fcvt_lu_h", "fcvt_d_h", "fcvt_h_d", "fcvt_h_l", "fcvt_h_lu", "fcvt_h_q",
		"fcvt_h_s", "fcvt_h_w", "fcvt_h_wu", "fcvt_q_h", "fcvt_s_h", "fcvt_w_h", "fcvt_wu_h",
		"fcvt_l_s", "fcvt_lu_s", "fcvt_s_l", "fcvt_s_lu", "fcvt_s_w", "fcvt_s_wu", "fcvt_w_s",
		"fcvt_wu_s", "fcvt_d_l", "fcvt_d_lu", "fcvt_d_q", "fcvt_d_s", "fcvt_d_w", "fcvt_d_wu",
		"fcvt_l_d", "fcvt_lu_d", "fcvt_s_d", "fcvt_w_d", "fcvt_wu_d",
		"fle_s", "flt_s", "fle_d", "flt_d", "fleq_d", "fltq_d", "fleq_s", "fltq_s", "fle_q",
		"flt_q", "fleq_q", "fltq_q", "fle_h", "flt_h", "fleq_h", "fltq_h",
		"fsgnj_s", "fsgnjn_s", "fsgnjx_s", "fsgnj_d", "fsgnjn_d", "fsgnjx_d", "fsgnj_q", "fsgnjn_q",
		"fsgnjx_q", "fsgnj_h", "fsgnjn_h", "fsgnjx_h",
		"vsetivli", "vsetvli", "vsetvl",
		"vfmv_f_s", "vfmv_s_f", "vfmv_v_f", "vfncvt_f_f_w", "vfncvt_f_x_w", "vfncvt_f_xu_w", "vfncvt_rod_f_f_w",
		"vfncvt_rtz_x_f_w", "vfncvt_rtz_xu_f_w", "vfncvt_x_f_w", "vfncvt_xu_f_w",
		"vfcvt_f_x_v", "vfcvt_f_xu_v", "vfcvt_rtz_x_f_v", "vfcvt_rtz_xu_f_v", "vfcvt_x_f_v", "vfcvt_xu_f_v",
		"vfwcvt_f_f_v", "vfwcvt_f_x_v", "vfwcvt_f_xu_v", "vfwcvt_rtz_x_f_v", "vfwcvt_rtz_xu_f_v", "vfwcvt_x_f_v", "vfwcvt_xu_f_v",
		"vmv1r_v", "vmv2r_v", "vmv4r_v", "vmv8r_v", "vmv_s_x", "vmv_v_i", "vmv_v_v", "vmv_v_x", "vmv_x_s",
		"vid_v", "viota_m",
		"vor_vi", "vor_vv", "vor_vx", "vandn_vv", "vandn_vx", "vand_vi", "vand_vv", "vand_vx", "vxor_vi", "vxor_vv", "vxor_vx",
		"vredand_vs", "vredmax_vs", "vredmaxu_vs", "vredmin_vs", "vredminu_vs", "vredor_vs", "vredsum_vs", "vredxor_vs",
		"vadd_vi", "vadd_vv", "vadd_vx", "vsub_vv", "vsub_vx", "vrsub_vi", "vrsub_vx",
		"vwadd_vv", "vwadd_vx", "vwadd_wv", "vwadd_wx", "vwaddu_vv", "vwaddu_vx", "vwaddu_wv", "vwaddu_wx", "vwmacc_vv",
		"vwmacc_vx", "vwmaccsu_vv", "vwmaccsu_vx", "vwmaccu_vv", "vwmaccu_vx", "vwmaccus_vx", "vasub_vv", "vasubu_vv",
		"vasub_vx", "vasubu_vx",
		"vsll_vi", "vsll_vv", "vsll_vx", "vsra_vi", "vsra_vv", "vsra_vx", "vsrl_vi", "vsrl_vv", "vsrl_vx", "vssra_vi",
		"vssra_vv", "vssra_vx", "vssrl_vi", "vssrl_vv", "vssrl_vx", "vssub_vv", "vssub_vx", "vssubu_vv", "vssubu_vx",
		"vsext_vf2", "vsext_vf4", "vsext_vf8",
		"vslide1down_vx", "vslide1up_vx", "vslidedown_vi", "vslidedown_vx", "vslideup_vi", "vslideup_vx",
		"vsadd_vi", "vsadd_vv", "vsadd_vx", "vsaddu_vi", "vsaddu_vv", "vsaddu_vx", "vsbc_vvm", "vsbc_vxm",
		"vmacc_vv", "vmacc_vx", "vmadc_vv", "vmadc_vx", "vmadc_vi", "vmadc_vim", "vmadc_vvm",
		"vmadc_vxm", "vmadd_vv", "vmadd_vx",
		"vmand_mm", "vmandn_mm", "vmax_vv", "vmax_vx", "vmaxu_vv", "vmaxu_vx",
		"vmin_vv", "vmin_vx", "vminu_vv", "vminu_vx", "vmnand_mm", "vmnor_mm", "vmor_mm", "vmorn_mm",
		"vmsbc_vv", "vmsbc_vx", "vmsbc_vvm", "vmsbc_vxm", "vmsbf_m", "vmseq_vi", "vmseq_vv", "vmseq_vx",
		"vmsgt_vi", "vmsgt_vx", "vmsgtu_vi", "vmsgtu_vx", "vmsif_m", "vmsle_vi", "vmsle_vv", "vmsle_vx",
		"vmsleu_vi", "vmsleu_vv", "vmsleu_vx", "vmslt_vv", "vmslt_vx", "vmsltu_vv", "vmsltu_vx", "vmsne_vi",
		"vmsne_vv", "vmsne_vx", "vmsof_m",
		"vmerge_vim", "vmerge_vvm", "vmerge_vxm", "vfirst_m",
		"vmfle_vf", "vmfle_vv", "vmflt_vf", "vmflt_vv", "vfsgnj_vf", "vfsgnj_vv", "vfsgnjn_vf",
		"vfsgnjn_vv", "vfsgnjx_vf", "vfsgnjx_vv",
		"vrgather_vi", "vrgather_vv", "vrgather_vx", "vrgatherei16_vv",
		"vfslide1down_vf", "vfslide1up_vf", "vcompress_vm",
		"vnsra_wi", "vnsra_wv", "vnsra_wx", "vnsrl_wi", "vnsrl_wv", "vnsrl_wx",
		"csrrc", "csrrci", "csrrs", "csrrsi", "csrrw", "csrrwi")

	set(classBranch, "beq", "bge", "bgeu", "blt", "bltu", "bne")
	set(classCBranch, "c_beqz", "c_bnez")
	set(classCJ, "c_j")
	set(classCJR, "c_jr")
	set(classCJAL, "c_jal")
	set(classJAL, "jal")
	set(classJALR, "jalr")
	set(classCJALR, "c_jalr")

	set(classLoad,
		"lb", "lbu", "ld", "lh", "lhu", "lw", "lwu",
		"fld", "flw", "flq",
		"vle8_v", "vle16_v", "vle32_v", "vle64_v", "vle8ff_v", "vle16ff_v", "vle32ff_v", "vle64ff_v",
		"vluxei8_v", "vluxei16_v", "vluxei32_v", "vluxei64_v",
		"vlm_v")
	set(classCLoad, "c_fld", "c_ld", "c_lw", "c_lbu", "c_lb", "c_lhu", "c_lh", "c_ldsp", "c_lwsp", "c_fldsp")
	set(classCStoreReg, "c_sd", "c_sw", "c_fsd")
	set(classCStoreSP, "c_sdsp", "c_swsp", "c_fsdsp")
	set(classStore,
		"sb", "sd", "sh", "sw",
		"vse8_v", "vse16_v", "vse32_v", "vse64_v",
		"vsuxei8_v", "vsuxei16_v", "vsuxei32_v", "vsuxei64_v",
		"vsm_v")
	set(classFStore, "fsd", "fsh", "fsq", "fsw")
	set(classLR, "lr_d", "lr_w")
	set(classSC, "sc_d", "sc_w")
	set(classRMW,
		"amoadd_d", "amoadd_w", "amoand_d", "amoand_w", "amomax_d", "amomaxu_d", "amomaxu_w", "amomax_w", "amomin_d",
		"amominu_d", "amominu_w", "amomin_w", "amoor_d", "amoor_w", "amoswap_d", "amoswap_w", "amoxor_d", "amoxor_w",
		"amoadd_h", "amoand_b", "amoand_h", "amocas_b", "amocas_d", "amocas_h", "amocas_q", "amocas_w", "amomax_b",
		"amomax_h", "amomaxu_b", "amomaxu_h", "amomin_b", "amomin_h", "amominu_b", "amominu_h", "amoor_b", "amoor_h",
		"amoswap_b", "amoswap_h", "amoxor_b", "amoxor_h")

	set(classFPMulMAdd,
		"fmadd_d", "fmadd_h", "fmadd_q", "fmadd_s", "fmsub_d", "fmsub_h", "fmsub_q", "fmsub_s",
		"fnmadd_d", "fnmadd_h", "fnmadd_q", "fnmadd_s", "fnmsub_d", "fnmsub_h", "fnmsub_q", "fnmsub_s",
		"fmul_d", "fmul_h", "fmul_q", "fmul_s",
		"vfmul_vf", "vfmul_vv", "vfwmul_vf", "vfwmul_vv",
		"vfmacc_vf", "vfmacc_vv", "vfmadd_vf", "vfmadd_vv", "vfnmacc_vf", "vfnmacc_vv",
		"vfnmadd_vf", "vfnmadd_vv", "vfnmsac_vf", "vfnmsac_vv", "vfnmsub_vf", "vfnmsub_vv",
		"vfmsac_vf", "vfmsac_vv", "vfmsub_vf", "vfmsub_vv")
	set(classFPDiv, "fdiv_s", "fdiv_d", "fdiv_q", "fdiv_h", "vfdiv_vf", "vfdiv_vv", "vfrdiv_vf")
	set(classFPAddSub,
		"fadd_d", "fadd_h", "fadd_q", "fadd_s",
		"vfadd_vf", "vfadd_vv", "vfredosum_vs", "vfredusum_vs",
		"fsub_s", "fsub_d", "fsub_q", "fsub_h", "vfsub_vf", "vfsub_vv",
		"feq_s", "feq_d", "feq_q", "feq_h", "vmfeq_vf", "vmfeq_vv")
	set(classFPSqrt, "fsqrt_s", "fsqrt_d", "vfrsqrt7_v", "vfsqrt_v", "fsqrt_q", "fsqrt_h")

	return t
}

// Decoder resolves the extra per-instruction information a decoder needs
// beyond the mnemonic: the PC of the instruction being traced, its raw
// bits (for memory-shape decoding) and the commit log recorded while it
// retired (for reading committed register values and memory accesses).
type Decoder struct {
	PC  uint64
	Raw RawInst
	Log CommitLog
	// RS1, RS2, RD are the decoded register-number operands; not every
	// mnemonic class uses all three.
	RS1, RS2, RD int
	// RS1C, RS2C, RDC are the register numbers of the RVC compressed
	// encodings, already widened to an absolute register number by the
	// caller: the compact (x8-x15) fields for c.sd/c.sw/c.fsd, and for
	// c.jr/c.jalr RS1C is the full 5-bit rs1 field.
	RS1C, RS2C, RDC int
	// RawBits16 holds the low 16 bits of a compressed instruction's
	// encoding, used to distinguish c.sd/c.sw/c.fsd (and their *sp forms)
	// by their funct3 field.
	RawBits16 uint16
	// SBImm, UJImm, RVCBImm, RVCJImm are the sign-extended immediate
	// fields used by branch/jump target computation, decoded by the
	// caller's front end.
	SBImm, UJImm, RVCBImm, RVCJImm int64
	// IImm is the sign-extended I-type immediate used by jalr.
	IImm int64
	// RVCImm is the CR-type format's rs2 field (insn.rvc_imm() in the
	// original decoder), used only by c.jr to tell a bare `c.jr
	// rs1` (rs2 field zero) from `c.mv`/`c.add`-shaped encodings sharing
	// its opcode. It must not be confused with RVCJImm: that is the
	// unrelated CJ-type jump-target immediate c.j/c.jal decode from a
	// scattered 11-bit field at an overlapping bit range.
	RVCImm int64
}

// Classify derives an InstInfo for one committed instruction given its
// mnemonic (as produced by the simulator's own decode stage) and the
// Decoder context gathered for it. The mnemonic-keyed lookup is the
// authoritative classifier: it takes precedence over any bit-pattern-based
// classification a caller might also perform, since several mnemonics that
// share an opcode encoding (e.g. srai used both as an ordinary shift and as
// a reserved tracing marker) are only distinguishable by exact bit pattern
// inside their own decoder, not by opcode alone.
func Classify(mnemonic string, d Decoder) InstInfo {
	cls, ok := mnemonicTable[mnemonic]
	if !ok {
		return NewInstInfo(Unknown)
	}

	switch cls {
	case classSrai:
		return classifySrai(d)
	case classGeneric:
		return NewInstInfo(Generic)
	case classBranch:
		info := NewInstInfo(B)
		info.TargetAddress = uint64(int64(d.PC) + d.SBImm)
		return info
	case classCBranch:
		info := NewInstInfo(B)
		info.TargetAddress = uint64(int64(d.PC) + d.RVCBImm)
		return info
	case classCJ:
		info := NewInstInfo(J)
		info.TargetAddress = uint64(int64(d.PC) + d.RVCJImm)
		return info
	case classCJR:
		return classifyCJR(d)
	case classCJAL:
		// c.jal is really c.addiw on rv64 (a historical quirk of the
		// reference decoder); it carries no control-flow effect here.
		return NewInstInfo(Generic)
	case classJAL:
		return classifyJAL(d)
	case classJALR:
		return classifyJALR(d)
	case classCJALR:
		info := NewInstInfo(c)
		info.TargetAddress = d.Log.ReadXPR(d.RS1C) &^ 1
		return info
	case classLoad:
		info := NewInstInfo(L)
		info.MemoryAccessType = DecodeMemShape(d.Raw)
		return info
	case classCLoad:
		info := NewInstInfo(L)
		info.MemoryAccessType = ShapeScalar
		return info
	case classCStoreReg:
		return classifyCStoreReg(d)
	case classCStoreSP:
		return classifyCStoreSP(d)
	case classStore:
		return classifyStore(d)
	case classFStore:
		return classifyFStore(d)
	case classLR:
		info := NewInstInfo(LR)
		info.MemoryAccessType = ShapeScalar
		return info
	case classSC:
		info := NewInstInfo(SC)
		info.MemoryAccessType = ShapeScalar
		info.SBaseReg = IntReg(d.RS1)
		info.SDataReg = IntReg(d.RS2)
		return info
	case classRMW:
		info := NewInstInfo(RMW)
		info.MemoryAccessType = ShapeScalar
		info.SBaseReg = IntReg(d.RS1)
		info.SDataReg = IntReg(d.RS2)
		return info
	case classFPAddSub:
		return NewInstInfo(A)
	case classFPMulMAdd:
		return NewInstInfo(M)
	case classFPDiv:
		return NewInstInfo(D)
	case classFPSqrt:
		return NewInstInfo(Q)
	default:
		return NewInstInfo(Unknown)
	}
}

// srai encodes both an ordinary arithmetic-shift-right and, for three
// specific immediate/rs1/rd-all-zero encodings, a reserved tracing marker.
// The bit patterns (and their meaning) are bit-exact and must never change:
// they are also documented in the instrument package for the target-side
// assembly that emits them.
func classifySrai(d Decoder) InstInfo {
	switch d.Raw.Bits {
	case 0x40205013:
		return NewInstInfo(StartTracing)
	case 0x40005013:
		return NewInstInfo(Clear)
	case 0x40105013:
		return NewInstInfo(EndROI)
	default:
		return NewInstInfo(Generic)
	}
}

func isLinkReg(r int) bool { return r == 1 || r == 5 }

func classifyCJR(d Decoder) InstInfo {
	var info InstInfo
	if isLinkReg(d.RS1C) && d.RVCImm == 0 {
		info = NewInstInfo(r)
	} else {
		info = NewInstInfo(j)
	}
	info.TargetAddress = d.Log.ReadXPR(d.RS1C) &^ 1
	return info
}

func classifyJAL(d Decoder) InstInfo {
	var info InstInfo
	if d.RD == 0 {
		info = NewInstInfo(J)
	} else {
		info = NewInstInfo(C)
	}
	info.TargetAddress = uint64(int64(d.PC) + d.UJImm)
	return info
}

func classifyJALR(d Decoder) InstInfo {
	var info InstInfo
	rdIsLink := isLinkReg(d.RD)
	rs1IsLink := isLinkReg(d.RS1)
	if !rdIsLink && rs1IsLink {
		info = NewInstInfo(r)
	} else {
		info = NewInstInfo(c)
	}
	info.TargetAddress = uint64(int64(d.Log.ReadXPR(d.RS1))+d.IImm) &^ 1
	return info
}

// compressed store funct3 field occupies bits [15:13] of the 16-bit
// encoding.
func cFunct3(bits uint16) int { return int(bits>>13) & 0x7 }

func classifyCStoreReg(d Decoder) InstInfo {
	info := NewInstInfo(S)
	info.MemoryAccessType = ShapeScalar
	info.SBaseReg = IntReg(d.RS1C)
	switch cFunct3(d.RawBits16) {
	case 0x5:
		info.SDataReg = FloatReg(d.RS2C) // c.fsd
	case 0x6, 0x7:
		info.SDataReg = IntReg(d.RS2C) // c.sw / c.sd
	default:
		info.SDataReg = Invalid
	}
	return info
}

func classifyCStoreSP(d Decoder) InstInfo {
	info := NewInstInfo(S)
	info.MemoryAccessType = ShapeScalar
	info.SBaseReg = IntReg(2) // sp
	switch cFunct3(d.RawBits16) {
	case 0x5:
		info.SDataReg = FloatReg(d.RS2)
	case 0x6, 0x7:
		info.SDataReg = IntReg(d.RS2)
	default:
		info.SDataReg = Invalid
	}
	return info
}

func classifyStore(d Decoder) InstInfo {
	info := NewInstInfo(S)
	info.SBaseReg = IntReg(d.RS1)
	info.MemoryAccessType = DecodeMemShape(d.Raw)
	if info.MemoryAccessType == ShapeScalar {
		info.SDataReg = IntReg(d.RS2)
	} else {
		info.SDataReg = VectorReg(d.RD)
	}
	return info
}

func classifyFStore(d Decoder) InstInfo {
	info := NewInstInfo(S)
	info.SBaseReg = IntReg(d.RS1)
	info.MemoryAccessType = DecodeMemShape(d.Raw)
	if info.MemoryAccessType == ShapeScalar {
		info.SDataReg = FloatReg(d.RS2)
	} else {
		info.SDataReg = VectorReg(d.RD)
	}
	return info
}
