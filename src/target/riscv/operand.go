package riscv

import (
	"fmt"

	"sysyc/src/koopa"
	"sysyc/src/util"
)

// materialized is what process_op (spec §4.3) hands back: either a register
// now holding the operand's value, or — for a bare pointer reference — the
// frame offset of the addressed local, with no register involved at all.
type materialized struct {
	isMem  bool
	reg    regID
	offset int
}

// frameKeyForInst is the spill-map key for a value-producing instruction's
// own result, rendered the same way its textual IR name would be.
func frameKeyForInst(id koopa.InstID) string {
	return fmt.Sprintf("%%%d", id)
}

// frameKeyForPointer is the spill-map key for an address-taken local.
func frameKeyForPointer(p koopa.PointerID) string {
	return fmt.Sprintf("@%d", p)
}

// materializeOperand implements process_op. dest, when non-empty, is the
// exact register the caller needs the value placed into (RET forces a0);
// when dest is the zero value (regID 0 doubles as "zero", so callers pass a
// separate bool) the allocator picks any free temp. Passing the destination
// register explicitly — rather than materializeOperand inspecting the
// enclosing instruction's opcode — is the fix spec §9 calls for: process_op
// no longer needs to know it is lowering a RET.
func materializeOperand(op koopa.Operand, alloc *TempAllocator, frame *FrameManager, wr *util.Writer, forceDest regID, forced bool) materialized {
	switch op.Kind {
	case koopa.OperandConst:
		if op.Const == 0 && !forced {
			return materialized{reg: zeroReg}
		}
		r := forceDest
		if !forced {
			r = alloc.Acquire()
		} else {
			alloc.AcquireForced(r)
		}
		wr.Write("\tli\t%s, %d\n", r, op.Const)
		return materialized{reg: r}

	case koopa.OperandInstID:
		off := frame.Get(frameKeyForInst(op.InstID))
		r := forceDest
		if !forced {
			r = alloc.Acquire()
		} else {
			alloc.AcquireForced(r)
		}
		wr.LoadStore("lw", r.String(), off, sp.String())
		return materialized{reg: r}

	case koopa.OperandPointer:
		return materialized{isMem: true, offset: frame.Get(frameKeyForPointer(op.PointerID))}

	default:
		panic(fmt.Sprintf("riscv: operand kind %d is not valid at this stage", op.Kind))
	}
}

// spill stores the register r holding a freshly computed value to the frame
// slot owned by name, allocating that slot if this is its first use.
func spill(frame *FrameManager, wr *util.Writer, name string, r regID) {
	off := frame.Alloc(name)
	wr.LoadStore("sw", r.String(), off, sp.String())
}
