package instrument

import "testing"

// TestOpcodesAreReservedSraiEncodings pins down the bit-exact encodings this
// package emits: they must match the srai x0,x0,<imm> patterns the trace
// decoder's classifier recognizes.
func TestOpcodesAreReservedSraiEncodings(t *testing.T) {
	cases := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"StartTracing", OpcodeStartTracing, 0x40205013},
		{"Clear", OpcodeClear, 0x40005013},
		{"EndROI", OpcodeEndROI, 0x40105013},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Fatalf("%s: got 0x%x, expected 0x%x", c.name, c.got, c.want)
		}
	}
}

func TestOpcodesAreDistinct(t *testing.T) {
	seen := map[uint32]bool{}
	for _, op := range []uint32{OpcodeStartTracing, OpcodeClear, OpcodeEndROI} {
		if seen[op] {
			t.Fatalf("opcode 0x%x reused across markers", op)
		}
		seen[op] = true
	}
}
