package trace

import "testing"

func TestDecodeMemShapeScalar(t *testing.T) {
	// ld x1, 0(x2): opcode LOAD (0x03), quadrant 0b11.
	insn := RawInst{Bits: 0x00013083}
	if got := DecodeMemShape(insn); got != ShapeScalar {
		t.Fatalf("got %v, expected %v", got, ShapeScalar)
	}
}

func TestDecodeMemShapeInvalidQuadrant(t *testing.T) {
	insn := RawInst{Bits: 0x00000001}
	if got := DecodeMemShape(insn); got != ShapeInvalid {
		t.Fatalf("got %v, expected %v", got, ShapeInvalid)
	}
}

func TestDecodeMemShapeInvalidOpcode(t *testing.T) {
	// opcode 0x33 ("op") is not a load/store major opcode.
	insn := RawInst{Bits: 0x00000033 | 0x3}
	if got := DecodeMemShape(insn); got != ShapeInvalid {
		t.Fatalf("got %v, expected %v", got, ShapeInvalid)
	}
}

func TestDecodeMemShapeVector(t *testing.T) {
	// LOAD-FP opcode (0x07), vector width field forced out of scalar range.
	base := uint32(0x07) | 0x3
	cases := []struct {
		name   string
		vwidth int
		vmop   int
		want   MemAccessShape
	}{
		{"contiguous", 8, 0, ShapeContiguous},
		{"indexed-unordered", 8, 1, ShapeIndexed},
		{"strided", 8, 2, ShapeStrided},
		{"indexed-ordered", 8, 3, ShapeIndexed},
		{"reserved-mop", 8, 5, ShapeInvalid},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			insn := RawInst{Bits: base, VWidth: c.vwidth, VMop: c.vmop}
			if got := DecodeMemShape(insn); got != c.want {
				t.Fatalf("got %v, expected %v", got, c.want)
			}
		})
	}
}

func TestDecodeMemShapeVectorWidthZeroIsVector(t *testing.T) {
	// VWidth == 0 on a LOAD-FP/STORE-FP opcode is a vector encoding (also
	// the one used by mask loads/stores), which DecodeMemShape treats as
	// vector.
	insn := RawInst{Bits: uint32(0x07) | 0x3, VWidth: 0, VMop: 0}
	if got := DecodeMemShape(insn); got != ShapeContiguous {
		t.Fatalf("got %v, expected %v", got, ShapeContiguous)
	}
}

func TestMemAccessShapeString(t *testing.T) {
	cases := map[MemAccessShape]string{
		ShapeScalar:     "scalar",
		ShapeContiguous: "contiguous",
		ShapeStrided:    "strided",
		ShapeIndexed:    "indexed",
		ShapeInvalid:    "invalid",
	}
	for shape, want := range cases {
		if got := shape.String(); got != want {
			t.Fatalf("got %q, expected %q", got, want)
		}
	}
}
