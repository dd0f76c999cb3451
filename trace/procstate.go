package trace

import (
	"fmt"
	"io"
)

// Suppression of CSR and vstatus register operands is not exposed as
// configuration: the original emitter hardcodes both to true, and nothing
// in the downstream consumer's format ever turns them on.
const (
	suppressCSRReads     = true
	suppressVStatusReads = true
)

// Disassembler renders a raw instruction word for the verbose `{ ... }`
// annotation prefix. Supplying one is optional; without it, verbose mode
// renders an empty annotation rather than failing.
type Disassembler func(pc uint64, insn RawInst) string

// ProcState is the per-hart trace-state controller (§4.5): it owns at most
// one open Sink, the running PC-delta baseline, the has-started latch and
// the instruction counter. It is only ever touched from the single thread
// that retires instructions for its hart and needs no internal locking.
type ProcState struct {
	coord *Coordinator
	id    int

	hasStarted         bool
	out                Sink
	lastPC             uint64
	setPCDone          bool
	lastSetPC          uint64
	instructionsTraced uint64

	Disasm Disassembler
}

// SetPCEvent records the simulator's most recent committed "set-PC" event
// (typically the resolution of a taken branch or an indirect jump), used
// only to cross-check B/C/c/J/j/r targets computed by the classifier. A
// host simulator calls this once per committed instruction, before Emit,
// whenever it has such an event to report for this cycle; otherwise it
// should call ClearSetPCEvent.
func (ps *ProcState) SetPCEvent(target uint64) {
	ps.setPCDone = true
	ps.lastSetPC = target
}

// ClearSetPCEvent marks that no set-PC event was reported for the
// instruction about to be traced.
func (ps *ProcState) ClearSetPCEvent() {
	ps.setPCDone = false
}

// HasStarted reports whether this hart's trace has begun.
func (ps *ProcState) HasStarted() bool { return ps.hasStarted }

// InstructionsTraced returns the number of records emitted so far.
func (ps *ProcState) InstructionsTraced() uint64 { return ps.instructionsTraced }

// InvariantError reports a violation of one of the emitter's documented
// invariants (§3 a-h); these indicate a simulator/emitter disagreement and
// are never expected to occur against a conforming commit log.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string { return "trace: invariant violation: " + e.Msg }

func invariant(cond bool, msg string, args ...interface{}) {
	if !cond {
		panic(&InvariantError{Msg: fmt.Sprintf(msg, args...)})
	}
}

// Emit classifies and traces one committed instruction. mnemonic and d
// describe the instruction itself; log is the commit-log side effects
// (register reads/writes, memory accesses) recorded while it retired;
// lastInstPriv reports whether the previous instruction executed in a
// privileged mode, consulted only when the coordinator's
// FilterPrivileged option is set.
//
// Emit returns a non-nil error only for a failure to open, write or flush
// the sink; everything
// else that goes wrong is either silently handled per the documented
// recovery rules (a repeated START_TRACING) or is an InvariantError panic.
func (ps *ProcState) Emit(mnemonic string, d Decoder, log CommitLog, lastInstPriv bool) error {
	if !ps.coord.Enable {
		return nil
	}
	if lastInstPriv && ps.coord.FilterPrivileged {
		return nil
	}

	if ps.instructionsTraced >= ps.coord.MaxTraceInstructions {
		return ps.writeLine("END %x", ps.lastPC)
	}

	if ps.coord.Verbose && ps.out != nil {
		text := ""
		if ps.Disasm != nil {
			text = ps.Disasm(d.PC, d.Raw)
		}
		if err := ps.writeRaw(fmt.Sprintf("{ %-32s } ", text)); err != nil {
			return err
		}
		if err := ps.out.Flush(); err != nil {
			return err
		}
	}

	info := Classify(mnemonic, d)

	// Nothing is recorded for this hart until its own START_TRACING
	// marker has fired, even when coordinator-wide logging is enabled:
	// the sink doesn't exist yet, and pre-ROI instructions must not
	// consume the instruction budget or perturb the PC-delta baseline.
	if !ps.hasStarted && info.Type != StartTracing {
		return nil
	}

	diffPC := int64(d.PC) - int64(ps.lastPC)

	switch info.Type {
	case StartTracing:
		if ps.hasStarted {
			return nil
		}
		ps.lastPC = d.PC + 4
		ps.hasStarted = true
		if err := ps.openIfNeeded(); err != nil {
			return err
		}
		return ps.writeLine("%x", ps.lastPC)
	case Clear:
		return ps.writeRaw("CLEAR\n")
	case EndROI:
		return ps.writeLine("END %x", ps.lastPC)
	}

	invariant(info.Type != InvalidType, "instruction classified as INVALID")
	switch info.Type {
	case L, LR:
		invariant(info.MemoryAccessType != ShapeInvalid, "%s record with invalid memory shape", info.Type)
	case S, SA, SC, RMW:
		invariant(info.SBaseReg.Valid(), "%s record with invalid base register", info.Type)
		invariant(info.SDataReg.Valid(), "%s record with invalid data register", info.Type)
		invariant(info.MemoryAccessType != ShapeInvalid, "%s record with invalid memory shape", info.Type)
		if info.Type == RMW {
			invariant(len(log.MemReads) == len(log.MemWrites), "RMW record with mismatched load/store counts")
		}
	case B, C, c, J, j, r:
		invariant(info.TargetAddress != InvalidTargetAddress, "%s record with unresolved target address", info.Type)
	default:
		invariant(ps.coord.Verbose || info.Type != Unknown, "unrecognised mnemonic %q traced outside verbose mode", mnemonic)
	}

	invariant(len(log.MemReads) == 0 || info.Type.isMemoryLoad(), "unexpected memory reads for %s record", info.Type)
	invariant(len(log.MemWrites) == 0 || info.Type.isMemoryStore(), "unexpected memory writes for %s record", info.Type)

	prefix := info.Type.String()
	if err := ps.writeRaw(fmt.Sprintf("%s%d", prefix, diffPC)); err != nil {
		return err
	}
	ps.lastPC = d.PC

	if err := ps.writeOperands(info, log); err != nil {
		return err
	}

	if len(log.MemReads) > 0 {
		if err := ps.writeMemAccesses(log.MemReads, info); err != nil {
			return err
		}
	}
	if len(log.MemWrites) > 0 && info.Type != RMW {
		if err := ps.writeMemAccesses(log.MemWrites, info); err != nil {
			return err
		}
	}

	if info.hasTargetAddressSet() {
		invariant(info.Type.hasTargetAddress(), "target address set on a %s record", info.Type)
		delta := int64(info.TargetAddress) - int64(d.PC)
		if err := ps.writeRaw(fmt.Sprintf("t%d", delta)); err != nil {
			return err
		}
		if info.Type == B {
			if ps.setPCDone {
				invariant(info.TargetAddress == ps.lastSetPC, "B target disagrees with reported set-PC")
				if err := ps.writeRaw("*"); err != nil {
					return err
				}
			}
		} else {
			invariant(ps.setPCDone, "%s record without a reported set-PC event", info.Type)
			invariant(info.TargetAddress == ps.lastSetPC, "%s target disagrees with reported set-PC", info.Type)
		}
	}

	if err := ps.writeRaw("\n"); err != nil {
		return err
	}
	ps.instructionsTraced++
	return nil
}

func (info InstInfo) hasTargetAddressSet() bool { return info.TargetAddress != InvalidTargetAddress }

func (ps *ProcState) writeOperands(info InstInfo, log CommitLog) error {
	var b []byte
	switch info.Type {
	case S, SA, SC:
		b = append(b, 'x')
		b = appendInt(b, int64(info.SBaseReg.Int()))
		onlyBaseRead := true
		for _, rr := range log.RegReads {
			if rr.Reg.ToRegisterId() != info.SBaseReg {
				onlyBaseRead = false
				break
			}
		}
		if onlyBaseRead {
			invariant(info.SBaseReg == info.SDataReg || len(log.MemWrites) == 0,
				"%s record with a single base-register read but distinct base/data registers", info.Type)
		} else {
			for _, rr := range log.RegReads {
				rid := rr.Reg.ToRegisterId()
				if rid == info.SBaseReg {
					continue
				}
				if rr.Reg.IsCSR() && suppressCSRReads {
					continue
				}
				if rr.Reg.IsVStatus() && suppressVStatusReads {
					continue
				}
				b = append(b, 'y')
				b = appendInt(b, int64(rid.Int()))
			}
		}
	default:
		for _, rr := range log.RegReads {
			if rr.Reg.IsCSR() && suppressCSRReads {
				continue
			}
			if rr.Reg.IsVStatus() && suppressVStatusReads {
				continue
			}
			b = append(b, 'x')
			b = appendInt(b, int64(rr.Reg.ToRegisterId().Int()))
		}
	}

	for _, rw := range log.RegWrites {
		if rw.Reg == 0 {
			continue
		}
		if rw.Reg.IsCSR() && suppressCSRReads {
			continue
		}
		if rw.Reg.IsVStatus() {
			continue
		}
		b = append(b, 'z')
		b = appendInt(b, int64(rw.Reg.ToRegisterId().Int()))
	}

	return ps.writeRaw(string(b))
}

func appendInt(b []byte, v int64) []byte {
	return append(b, []byte(fmt.Sprintf("%d", v))...)
}

func (ps *ProcState) writeMemAccesses(accesses []MemAccess, info InstInfo) error {
	size := accesses[0].Size
	n := len(accesses)

	switch info.MemoryAccessType {
	case ShapeScalar:
		invariant(n == 1, "scalar memory access with %d addresses", n)
		return ps.writeRaw(fmt.Sprintf(" %x %d", accesses[0].Addr, size))
	case ShapeContiguous:
		return ps.writeRaw(fmt.Sprintf("s%de%d %x", size, n, accesses[0].Addr))
	case ShapeIndexed:
		out := fmt.Sprintf("s%de%d", size, n)
		for i, a := range accesses {
			if i == 0 {
				out += fmt.Sprintf(" %x", a.Addr)
			} else {
				out += fmt.Sprintf(",%x", a.Addr)
			}
		}
		return ps.writeRaw(out)
	default:
		out := fmt.Sprintf(" TODO access_type=%d ", int(info.MemoryAccessType))
		for _, a := range accesses {
			out += fmt.Sprintf(" %x %d", a.Addr, a.Size)
		}
		return ps.writeRaw(out)
	}
}

func (ps *ProcState) writeRaw(s string) error {
	if ps.out == nil {
		return nil
	}
	_, err := io.WriteString(ps.out, s)
	return err
}

func (ps *ProcState) writeLine(format string, args ...interface{}) error {
	return ps.writeRaw(fmt.Sprintf(format, args...) + "\n")
}

// openIfNeeded lazily creates this hart's sink the first time its trace
// actually starts. It is a no-op if the sink is already open.
func (ps *ProcState) openIfNeeded() error {
	if ps.out != nil {
		return nil
	}
	sink, err := ps.coord.openTraceFile()
	if err != nil {
		return err
	}
	ps.out = sink
	return nil
}

// Close flushes and releases this hart's sink, if one was opened. It is
// safe to call on a hart that never started tracing.
func (ps *ProcState) Close() error {
	if ps.out == nil {
		return nil
	}
	flushErr := ps.out.Flush()
	closeErr := ps.out.Close()
	ps.out = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
