package koopa

import (
	"fmt"
	"strings"

	"sysyc/src/ast"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// InstData is one instruction record living in a Func's DataFlowGraph.
type InstData struct {
	Type     BType     // the type produced; Void for side-effect-only ops
	Obj      IRObj     // what this instruction names: InstID for value-producing ops, Pointer for ALLOC, None for STORE/RET
	Op       OpCode
	Operands []Operand
	Users    []InstID // back-references: every instruction that reads this one's result
	Reg      string    // physical register annotation; nothing in this core sets it, so it stays empty
}

// String renders one line of textual Koopa IR for inst, without the leading
// "  " indentation its enclosing IRBlock adds.
func (inst *InstData) String() string {
	ops := make([]string, len(inst.Operands))
	for i, o := range inst.Operands {
		ops[i] = o.String()
	}

	switch inst.Op {
	case ALLOC:
		return fmt.Sprintf("%s = alloc %s", inst.Obj.String(), ops[0])
	case STORE:
		return fmt.Sprintf("store %s, %s", ops[0], ops[1])
	case RET:
		if len(ops) == 0 {
			return "ret"
		}
		return fmt.Sprintf("ret %s", ops[0])
	case LOAD:
		return fmt.Sprintf("%s = load %s", inst.Obj.String(), ops[0])
	default:
		return fmt.Sprintf("%s = %s %s", inst.Obj.String(), inst.Op.String(), strings.Join(ops, ", "))
	}
}

// ---------------------------------
// ----- Data-flow graph -----------
// ---------------------------------

// DataFlowGraph owns every InstData belonging to one Func. Instructions are
// never deleted: InstID is a stable index into the arena for the lifetime of
// the Func.
type DataFlowGraph struct {
	insts []InstData
}

// NewValueInst appends an instruction that produces a new SSA value (every
// opcode except ALLOC, STORE and RET): its Obj is the InstID of its own
// result.
func (dfg *DataFlowGraph) NewValueInst(typ BType, op OpCode, operands []Operand) InstID {
	id := dfg.newInst(typ, op, operands)
	dfg.insts[id].Obj = InstObj(id)
	return id
}

// NewAllocInst appends an ALLOC instruction naming the fresh pointer p.
func (dfg *DataFlowGraph) NewAllocInst(typ BType, p PointerID, initialized bool) InstID {
	id := dfg.newInst(typ, ALLOC, []Operand{BTypeOperand(typ)})
	dfg.insts[id].Obj = PointerObj(p, initialized)
	return id
}

// NewVoidInst appends a side-effect-only instruction (STORE or RET), whose
// Obj is None.
func (dfg *DataFlowGraph) NewVoidInst(op OpCode, operands []Operand) InstID {
	return dfg.newInst(ast.Void, op, operands)
}

// newInst is the shared bookkeeping every New*Inst constructor funnels
// through: append the record, wire up user back-references.
func (dfg *DataFlowGraph) newInst(typ BType, op OpCode, operands []Operand) InstID {
	id := InstID(len(dfg.insts))
	dfg.insts = append(dfg.insts, InstData{
		Type:     typ,
		Op:       op,
		Operands: operands,
	})
	for _, operand := range operands {
		if operand.Kind == OperandInstID {
			dfg.addUser(operand.InstID, id)
		}
	}
	return id
}

// SetInitialized flips the Initialized flag of the pointer named by the ALLOC
// instruction allocID, marking that it has been stored to.
func (dfg *DataFlowGraph) SetInitialized(allocID InstID) {
	dfg.insts[allocID].Obj.Initialized = true
}

// Inst returns a pointer to the instruction record named by id. It panics if
// id was never emitted into this graph — a DFG lookup miss is an internal
// invariant violation, not a recoverable error.
func (dfg *DataFlowGraph) Inst(id InstID) *InstData {
	if int(id) < 0 || int(id) >= len(dfg.insts) {
		panic(fmt.Sprintf("koopa: InstID %d does not exist in this function's data-flow graph", id))
	}
	return &dfg.insts[id]
}

// Len returns the number of instructions ever emitted into dfg.
func (dfg *DataFlowGraph) Len() int {
	return len(dfg.insts)
}

// addUser records that instruction user reads the result of instruction of.
func (dfg *DataFlowGraph) addUser(of, user InstID) {
	d := dfg.Inst(of)
	d.Users = append(d.Users, user)
}

// Users returns the instructions that consume the result of instruction id.
func (dfg *DataFlowGraph) Users(id InstID) []InstID {
	return dfg.Inst(id).Users
}
