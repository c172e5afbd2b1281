package koopa

import (
	"fmt"

	"sysyc/src/ast"
)

// BType is the IR-level element type; this core only ever sees ast.Int or ast.Void.
type BType = ast.BType

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// InstID is the monotonically assigned, per-function identifier of an
// instruction's SSA result, as emitted textually with a "%" prefix.
type InstID uint32

// PointerID is the monotonically assigned, translation-unit-wide identifier
// of an address-taken local, as emitted textually with a "@" prefix.
type PointerID uint32

// IRObjKind discriminates the tagged union IRObj.
type IRObjKind int

const (
	ObjNone IRObjKind = iota
	ObjConst
	ObjInstID
	ObjPointer
)

// IRObj is what an instruction *names*: the value or address it stands for
// during lowering. It is a closed tagged union, not an interface, because
// every field is a plain comparable value and the set of kinds is fixed by
// spec.
type IRObj struct {
	Kind        IRObjKind
	Const       int32     // valid when Kind == ObjConst
	InstID      InstID    // valid when Kind == ObjInstID
	PointerID   PointerID // valid when Kind == ObjPointer
	Initialized bool      // valid when Kind == ObjPointer; flips true on first store
}

// ConstObj returns the IRObj naming a compile-time constant.
func ConstObj(v int32) IRObj { return IRObj{Kind: ObjConst, Const: v} }

// InstObj returns the IRObj naming the SSA result of instruction id.
func InstObj(id InstID) IRObj { return IRObj{Kind: ObjInstID, InstID: id} }

// PointerObj returns the IRObj naming the address-taken local p.
func PointerObj(p PointerID, initialized bool) IRObj {
	return IRObj{Kind: ObjPointer, PointerID: p, Initialized: initialized}
}

// NoneObj is the void/absent IRObj.
var NoneObj = IRObj{Kind: ObjNone}

// String renders the operand-position text of obj ("%7", "@3", "5", or "").
func (o IRObj) String() string {
	switch o.Kind {
	case ObjConst:
		return fmt.Sprintf("%d", o.Const)
	case ObjInstID:
		return fmt.Sprintf("%%%d", o.InstID)
	case ObjPointer:
		return fmt.Sprintf("@%d", o.PointerID)
	default:
		return ""
	}
}

// OperandKind discriminates the tagged union Operand.
type OperandKind int

const (
	OperandNone OperandKind = iota
	OperandInstID
	OperandConst
	OperandBType
	OperandPointer
)

// Operand is one entry of InstData.Operands: what appears inside an
// instruction's argument list.
type Operand struct {
	Kind      OperandKind
	InstID    InstID    // valid when Kind == OperandInstID
	Const     int32     // valid when Kind == OperandConst
	BType     BType     // valid when Kind == OperandBType
	PointerID PointerID // valid when Kind == OperandPointer
}

// InstIDOperand returns an Operand referencing an earlier instruction's SSA result.
func InstIDOperand(id InstID) Operand { return Operand{Kind: OperandInstID, InstID: id} }

// ConstOperand returns an Operand carrying a compile-time integer.
func ConstOperand(v int32) Operand { return Operand{Kind: OperandConst, Const: v} }

// BTypeOperand returns an Operand carrying an element type, used by ALLOC.
func BTypeOperand(t BType) Operand { return Operand{Kind: OperandBType, BType: t} }

// PointerOperand returns an Operand referencing an address-taken local.
func PointerOperand(p PointerID) Operand { return Operand{Kind: OperandPointer, PointerID: p} }

// OperandFromIRObj is the single choke point that turns the result of
// lowering a sub-expression (an IRObj) into an operand of the instruction
// that consumes it. It is the Go analogue of the original implementation's
// Operand::from_parse_result, kept as one function so every binary-operator
// lowering in package irgen materializes operands identically.
func OperandFromIRObj(o IRObj) Operand {
	switch o.Kind {
	case ObjConst:
		return ConstOperand(o.Const)
	case ObjInstID:
		return InstIDOperand(o.InstID)
	case ObjPointer:
		return PointerOperand(o.PointerID)
	default:
		return Operand{Kind: OperandNone}
	}
}

// String renders the operand's textual IR form.
func (op Operand) String() string {
	switch op.Kind {
	case OperandInstID:
		return fmt.Sprintf("%%%d", op.InstID)
	case OperandConst:
		return fmt.Sprintf("%d", op.Const)
	case OperandBType:
		return op.BType.String()
	case OperandPointer:
		return fmt.Sprintf("@%d", op.PointerID)
	default:
		return ""
	}
}
