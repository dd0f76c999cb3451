// Package asm provides a minimal RV64GC-subset disassembler used only to
// render the verbose `{ ... }` annotation in a trace record. It is not
// consulted for anything that affects trace semantics; a caller that has a
// fuller disassembler of its own (the host simulator almost always does)
// should supply its own trace.Disassembler instead.
package asm

import "fmt"

var baseOpcodeNames = map[uint32]string{
	0x03: "load", 0x07: "load-fp", 0x0f: "misc-mem", 0x13: "op-imm",
	0x17: "auipc", 0x1b: "op-imm-32", 0x23: "store", 0x27: "store-fp",
	0x2f: "amo", 0x33: "op", 0x37: "lui", 0x3b: "op-32",
	0x43: "madd", 0x47: "msub", 0x4b: "nmsub", 0x4f: "nmadd",
	0x53: "op-fp", 0x63: "branch", 0x67: "jalr", 0x6f: "jal",
	0x73: "system",
}

func regName(r uint32) string {
	if r == 0 {
		return "zero"
	}
	return fmt.Sprintf("x%d", r)
}

// Disassemble renders a 32-bit RISC-V instruction word as a short
// mnemonic-and-operand annotation. Compressed (16-bit) encodings are
// rendered from their low 16 bits as "c.<op>.<funct3>".
func Disassemble(pc uint64, bits uint32) string {
	if bits&0x3 != 0x3 {
		return disassembleCompressed(uint16(bits))
	}

	opcode := bits & 0x7f
	rd := (bits >> 7) & 0x1f
	rs1 := (bits >> 15) & 0x1f
	rs2 := (bits >> 20) & 0x1f
	funct3 := (bits >> 12) & 0x7

	switch opcode {
	case 0x63: // branch
		return fmt.Sprintf("b%d %s,%s", funct3, regName(rs1), regName(rs2))
	case 0x6f: // jal
		return fmt.Sprintf("jal %s", regName(rd))
	case 0x67: // jalr
		return fmt.Sprintf("jalr %s,%s", regName(rd), regName(rs1))
	case 0x03: // load
		return fmt.Sprintf("l%d %s,(%s)", funct3, regName(rd), regName(rs1))
	case 0x23: // store
		return fmt.Sprintf("s%d %s,(%s)", funct3, regName(rs2), regName(rs1))
	case 0x2f: // amo
		return fmt.Sprintf("amo %s,%s,(%s)", regName(rd), regName(rs2), regName(rs1))
	default:
		if name, ok := baseOpcodeNames[opcode]; ok {
			return fmt.Sprintf("%s %s,%s,%s", name, regName(rd), regName(rs1), regName(rs2))
		}
		return fmt.Sprintf("unk(0x%02x)", opcode)
	}
}

func disassembleCompressed(bits uint16) string {
	op := bits & 0x3
	funct3 := (bits >> 13) & 0x7
	return fmt.Sprintf("c.%d.%d", op, funct3)
}
