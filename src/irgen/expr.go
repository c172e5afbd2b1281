package irgen

import (
	"fmt"

	"sysyc/src/ast"
	"sysyc/src/koopa"
)

// ---------------------------------------------------------------
// ----- Constant-context lowering (never emits instructions) -----
// ---------------------------------------------------------------

// constExp folds exp to a compile-time int32. It is used for ConstDef
// initializers and never touches the DFG: a non-constant primary or a
// logical/relational/equality operator is a SemanticError.
func (t *Translator) constExp(exp ast.Exp) (int32, error) {
	switch e := exp.(type) {
	case *ast.LOrExp:
		return 0, errDisallowedInConstExpr("||")

	case *ast.LAndExp:
		return 0, errDisallowedInConstExpr("&&")

	case *ast.EqExp:
		return 0, errDisallowedInConstExpr(eqOpSymbol(e.Op))

	case *ast.RelExp:
		return 0, errDisallowedInConstExpr(relOpSymbol(e.Op))

	case *ast.AddExp:
		l, err := t.constExp(e.Left)
		if err != nil {
			return 0, err
		}
		r, err := t.constExp(e.Right)
		if err != nil {
			return 0, err
		}
		if e.Op == ast.AddAdd {
			return l + r, nil
		}
		return l - r, nil

	case *ast.MulExp:
		l, err := t.constExp(e.Left)
		if err != nil {
			return 0, err
		}
		r, err := t.constExp(e.Right)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case ast.MulMul:
			return l * r, nil
		case ast.MulDiv:
			if r == 0 {
				panic("irgen: division by zero in constant expression")
			}
			return l / r, nil
		default:
			if r == 0 {
				panic("irgen: modulus by zero in constant expression")
			}
			return l % r, nil
		}

	case *ast.UnaryExp:
		v, err := t.constExp(e.Operand)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case ast.UnaryMinus:
			return -v, nil
		case ast.UnaryNot:
			if v == 0 {
				return 1, nil
			}
			return 0, nil
		default:
			return v, nil
		}

	case *ast.NumberExp:
		return e.Value, nil

	case *ast.ParenExp:
		return t.constExp(e.Exp)

	case *ast.LValExp:
		if v, ok := t.lookupConst(e.LVal.Ident); ok {
			return v, nil
		}
		if _, isPointer, found := t.scope.LookupIdent(e.LVal.Ident); found && isPointer {
			return 0, errNotConstant(e.LVal.Ident)
		}
		return 0, errUndeclared(e.LVal.Ident)

	default:
		panic(fmt.Sprintf("irgen: unhandled constant expression node %T", exp))
	}
}

// ----------------------------------------------------
// ----- Runtime-context lowering (may emit instructions) -----
// ----------------------------------------------------

// runtimeExp lowers exp for a context that will consume its value at run
// time. Literals and named constants propagate as koopa.ConstObj;
// everything else emits one instruction per binary/unary operator and
// returns the InstID naming its result.
func (t *Translator) runtimeExp(exp ast.Exp) (koopa.IRObj, error) {
	switch e := exp.(type) {
	case *ast.LOrExp:
		return t.emitBinary(e.Left, e.Right, koopa.OR)

	case *ast.LAndExp:
		return t.emitBinary(e.Left, e.Right, koopa.AND)

	case *ast.EqExp:
		op := koopa.EQ
		if e.Op == ast.EqNe {
			op = koopa.NE
		}
		return t.emitBinary(e.Left, e.Right, op)

	case *ast.RelExp:
		op, ok := map[ast.RelOp]koopa.OpCode{
			ast.RelLt: koopa.LT,
			ast.RelGt: koopa.GT,
			ast.RelLe: koopa.LE,
			ast.RelGe: koopa.GE,
		}[e.Op]
		if !ok {
			panic("irgen: unhandled relational operator")
		}
		return t.emitBinary(e.Left, e.Right, op)

	case *ast.AddExp:
		op := koopa.ADD
		if e.Op == ast.AddSub {
			op = koopa.SUB
		}
		return t.emitBinary(e.Left, e.Right, op)

	case *ast.MulExp:
		op := map[ast.MulOp]koopa.OpCode{
			ast.MulMul: koopa.MUL,
			ast.MulDiv: koopa.DIV,
			ast.MulMod: koopa.MOD,
		}[e.Op]
		return t.emitBinary(e.Left, e.Right, op)

	case *ast.UnaryExp:
		if e.Op == ast.UnaryPlus {
			return t.runtimeExp(e.Operand)
		}
		v, err := t.runtimeExp(e.Operand)
		if err != nil {
			return koopa.IRObj{}, err
		}
		if e.Op == ast.UnaryMinus {
			// -x lowers to SUB 0, x.
			return t.emitBinaryObj(koopa.ConstObj(0), v, koopa.SUB)
		}
		// UnaryNot: !x lowers to EQ 0, x.
		return t.emitBinaryObj(koopa.ConstObj(0), v, koopa.EQ)

	case *ast.NumberExp:
		return koopa.ConstObj(e.Value), nil

	case *ast.ParenExp:
		return t.runtimeExp(e.Exp)

	case *ast.LValExp:
		return t.resolveIdent(e.LVal.Ident)

	default:
		panic(fmt.Sprintf("irgen: unhandled runtime expression node %T", exp))
	}
}

// emitBinary lowers both sub-expressions in runtime context and emits one
// instruction combining them under op.
func (t *Translator) emitBinary(left, right ast.Exp, op koopa.OpCode) (koopa.IRObj, error) {
	l, err := t.runtimeExp(left)
	if err != nil {
		return koopa.IRObj{}, err
	}
	r, err := t.runtimeExp(right)
	if err != nil {
		return koopa.IRObj{}, err
	}
	return t.emitBinaryObj(l, r, op)
}

// emitBinaryObj emits op over two already-lowered operands.
func (t *Translator) emitBinaryObj(l, r koopa.IRObj, op koopa.OpCode) (koopa.IRObj, error) {
	operands := []koopa.Operand{koopa.OperandFromIRObj(l), koopa.OperandFromIRObj(r)}
	id := t.scope.CurrentDFG().NewValueInst(ast.Int, op, operands)
	t.emit(id)
	return koopa.InstObj(id), nil
}

// resolveIdent implements the identifier-resolution rule of spec §4.1:
// a constant substitutes its literal, a pointer emits a LOAD.
func (t *Translator) resolveIdent(name string) (koopa.IRObj, error) {
	if obj, isPointer, found := t.scope.LookupIdent(name); found {
		if !isPointer {
			return obj, nil
		}
		id := t.scope.CurrentDFG().NewValueInst(ast.Int, koopa.LOAD, []koopa.Operand{koopa.PointerOperand(obj.PointerID)})
		t.emit(id)
		return koopa.InstObj(id), nil
	}
	if v, ok := t.globalConsts[name]; ok {
		return koopa.ConstObj(v), nil
	}
	return koopa.IRObj{}, errUndeclared(name)
}

// lookupConst is the constant-context counterpart of resolveIdent: it never
// emits a LOAD, since a pointer is never a valid constant-context primary.
func (t *Translator) lookupConst(name string) (int32, bool) {
	if obj, isPointer, found := t.scope.LookupIdent(name); found {
		if isPointer {
			return 0, false
		}
		return obj.Const, true
	}
	if v, ok := t.globalConsts[name]; ok {
		return v, true
	}
	return 0, false
}

func eqOpSymbol(op ast.EqOp) string {
	if op == ast.EqNe {
		return "!="
	}
	return "=="
}

func relOpSymbol(op ast.RelOp) string {
	switch op {
	case ast.RelLt:
		return "<"
	case ast.RelGt:
		return ">"
	case ast.RelLe:
		return "<="
	default:
		return ">="
	}
}
