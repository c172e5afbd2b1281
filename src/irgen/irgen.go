// Package irgen lowers an AST (package ast) into a Koopa-IR Program (package
// koopa), driving the scope/context stack of package scope.
//
// The original design kept the context stack, pointer-id allocator and
// register/frame managers as thread-local singletons. This core instead
// threads a single *Translator value through every lowering call: there is
// no global mutable state, and nothing prevents two Translators existing in
// the same process at once.
package irgen

import (
	"fmt"

	"sysyc/src/ast"
	"sysyc/src/koopa"
	"sysyc/src/scope"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Translator holds everything one AST-to-IR lowering needs: the program
// being built, the active scope stack, and the translation-unit-wide
// pointer-id counter (monotonic, never reset — spec §5).
type Translator struct {
	prog         *koopa.Program
	scope        scope.Stack
	nextPointer  koopa.PointerID
	globalConsts map[string]int32
}

// NewTranslator returns a Translator ready to lower one CompUnit.
func NewTranslator() *Translator {
	return &Translator{
		prog:         &koopa.Program{},
		globalConsts: make(map[string]int32),
	}
}

// Translate lowers cu into a Program. On success the scope stack is
// guaranteed empty; an imbalance would be an internal invariant violation,
// not a value this function could return as an error.
func (t *Translator) Translate(cu *ast.CompUnit) (*koopa.Program, error) {
	for _, d := range cu.GlobalDecls {
		if err := t.translateGlobalDecl(d); err != nil {
			return nil, err
		}
	}
	for _, fd := range cu.FuncDefs {
		if err := t.translateFunc(fd); err != nil {
			return nil, err
		}
	}
	if !t.scope.Empty() {
		panic("irgen: scope stack is not empty after translation")
	}
	return t.prog, nil
}

// translateGlobalDecl lowers a top-level ConstDecl or VarDecl. Globals carry
// no scope frame of their own: constants are folded straight into the
// translator's global constant table, and variables become koopa.Global
// entries with a constant-folded initializer (the language has no runtime
// global initialization in this core).
func (t *Translator) translateGlobalDecl(d ast.Decl) error {
	switch decl := d.(type) {
	case *ast.ConstDecl:
		for _, cd := range decl.ConstDefs {
			v, err := t.constExp(cd.ConstInitVal)
			if err != nil {
				return err
			}
			if _, exists := t.globalConsts[cd.Ident]; exists {
				return errRedeclared(cd.Ident)
			}
			t.globalConsts[cd.Ident] = v
		}
	case *ast.VarDecl:
		for _, vd := range decl.VarDefs {
			var init int32
			if vd.InitVal != nil {
				v, err := t.constExp(vd.InitVal)
				if err != nil {
					return fmt.Errorf("global %q: %w", vd.Ident, err)
				}
				init = v
			}
			t.prog.Globals = append(t.prog.Globals, &koopa.Global{Name: vd.Ident, Init: init})
		}
	}
	return nil
}

// translateFunc lowers one function definition: a fresh koopa.Func, its
// entry block, and the scope frame binding both for the duration of its
// body.
func (t *Translator) translateFunc(fd *ast.FuncDef) error {
	fn := t.prog.NewFunc(fd.Ident, fd.FuncType)
	t.scope.EnterFunc(fn)
	t.scope.EnterBlock(fn.EntryBlock())
	if err := t.translateBlockItems(fd.Block.Items); err != nil {
		return err
	}
	t.scope.Exit()
	return nil
}

// translateBlockItems lowers a sequence of declarations and statements into
// the currently active scope frame, without entering or exiting a scope of
// its own. The function body and a nested BlockStmt both funnel through
// this; only the latter wraps it in EnterBlock/Exit.
func (t *Translator) translateBlockItems(items []ast.BlockItem) error {
	for _, item := range items {
		if item.Decl != nil {
			if err := t.translateDecl(item.Decl); err != nil {
				return err
			}
			continue
		}
		if err := t.translateStmt(item.Stmt); err != nil {
			return err
		}
	}
	return nil
}

// translateDecl lowers a local ConstDecl or VarDecl per spec §4.1.
func (t *Translator) translateDecl(d ast.Decl) error {
	switch decl := d.(type) {
	case *ast.ConstDecl:
		for _, cd := range decl.ConstDefs {
			v, err := t.constExp(cd.ConstInitVal)
			if err != nil {
				return err
			}
			t.scope.InsertConst(cd.Ident, koopa.ConstObj(v))
		}
		return nil

	case *ast.VarDecl:
		for _, vd := range decl.VarDefs {
			pid := t.allocPointerID()
			allocID := t.scope.CurrentDFG().NewAllocInst(decl.BType, pid, false)
			t.emit(allocID)
			t.scope.InsertPointer(vd.Ident, koopa.PointerObj(pid, false), allocID)

			if vd.InitVal != nil {
				val, err := t.runtimeExp(vd.InitVal)
				if err != nil {
					return err
				}
				storeID := t.scope.CurrentDFG().NewVoidInst(koopa.STORE,
					[]koopa.Operand{koopa.OperandFromIRObj(val), koopa.PointerOperand(pid)})
				t.emit(storeID)
				t.scope.SetPointerInitialized(vd.Ident, t.scope.CurrentDFG())
			}
		}
		return nil

	default:
		panic(fmt.Sprintf("irgen: unhandled declaration node %T", d))
	}
}

// translateStmt lowers one statement per spec §4.1.
func (t *Translator) translateStmt(s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.AssignStmt:
		obj, isPointer, found := t.scope.LookupIdent(st.LVal.Ident)
		if !found {
			return errUndeclared(st.LVal.Ident)
		}
		if !isPointer {
			return errAssignToConst(st.LVal.Ident)
		}
		val, err := t.runtimeExp(st.Exp)
		if err != nil {
			return err
		}
		storeID := t.scope.CurrentDFG().NewVoidInst(koopa.STORE,
			[]koopa.Operand{koopa.OperandFromIRObj(val), koopa.PointerOperand(obj.PointerID)})
		t.emit(storeID)
		t.scope.SetPointerInitialized(st.LVal.Ident, t.scope.CurrentDFG())
		return nil

	case *ast.ExprStmt:
		if st.Exp == nil {
			return nil
		}
		_, err := t.runtimeExp(st.Exp)
		return err

	case *ast.BlockStmt:
		t.scope.EnterBlock(t.scope.CurrentBlock())
		err := t.translateBlockItems(st.Block.Items)
		t.scope.Exit()
		return err

	case *ast.ReturnStmt:
		if st.Exp == nil {
			t.emit(t.scope.CurrentDFG().NewVoidInst(koopa.RET, nil))
			return nil
		}
		val, err := t.runtimeExp(st.Exp)
		if err != nil {
			return err
		}
		t.emit(t.scope.CurrentDFG().NewVoidInst(koopa.RET, []koopa.Operand{koopa.OperandFromIRObj(val)}))
		return nil

	default:
		panic(fmt.Sprintf("irgen: unhandled statement node %T", s))
	}
}

// emit is the insert_instruction primitive of spec §4.1: the DFG bookkeeping
// (record, wire Users) already happened inside the koopa.DataFlowGraph
// New*Inst constructor that produced id; this appends it to the current
// block's inst_list, the other half of the contract.
func (t *Translator) emit(id koopa.InstID) {
	t.scope.CurrentBlock().Append(id)
}

func (t *Translator) allocPointerID() koopa.PointerID {
	id := t.nextPointer
	t.nextPointer++
	return id
}
