package scope

import (
	"testing"

	"sysyc/src/ast"
	"sysyc/src/koopa"
)

func newTestFunc() *koopa.Func {
	return &koopa.Func{Name: "main", RetType: ast.Int}
}

func TestInsertAndLookupConst(t *testing.T) {
	var s Stack
	fn := newTestFunc()
	s.EnterFunc(fn)
	s.EnterBlock(fn.EntryBlock())

	s.InsertConst("x", koopa.ConstObj(5))

	obj, isPointer, found := s.LookupIdent("x")
	if !found {
		t.Fatalf("expected x to be found")
	}
	if isPointer {
		t.Fatalf("expected x to resolve as a constant, not a pointer")
	}
	if obj.Const != 5 {
		t.Fatalf("expected const 5, got %d", obj.Const)
	}
}

func TestInnerScopeShadowsAcrossKind(t *testing.T) {
	var s Stack
	fn := newTestFunc()
	s.EnterFunc(fn)
	s.EnterBlock(fn.EntryBlock())
	s.InsertConst("a", koopa.ConstObj(1))

	s.EnterBlock(s.CurrentBlock())
	allocID := fn.DFG.NewAllocInst(ast.Int, 0, false)
	s.InsertPointer("a", koopa.PointerObj(0, false), allocID)

	obj, isPointer, found := s.LookupIdent("a")
	if !found || !isPointer {
		t.Fatalf("expected inner pointer binding of 'a' to win, got isPointer=%v found=%v", isPointer, found)
	}
	if obj.PointerID != 0 {
		t.Fatalf("expected pointer id 0, got %d", obj.PointerID)
	}

	s.Exit()
	obj, isPointer, found = s.LookupIdent("a")
	if !found || isPointer {
		t.Fatalf("expected outer const binding of 'a' after exiting inner scope")
	}
	if obj.Const != 1 {
		t.Fatalf("expected const 1 after exiting inner scope, got %d", obj.Const)
	}
}

func TestInsertConstPanicsOnCrossNamespaceCollision(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on const/pointer collision in the same scope")
		}
	}()
	var s Stack
	fn := newTestFunc()
	s.EnterFunc(fn)
	s.EnterBlock(fn.EntryBlock())
	allocID := fn.DFG.NewAllocInst(ast.Int, 0, false)
	s.InsertPointer("a", koopa.PointerObj(0, false), allocID)
	s.InsertConst("a", koopa.ConstObj(1))
}

func TestSetPointerInitialized(t *testing.T) {
	var s Stack
	fn := newTestFunc()
	s.EnterFunc(fn)
	s.EnterBlock(fn.EntryBlock())
	allocID := fn.DFG.NewAllocInst(ast.Int, 0, false)
	s.InsertPointer("a", koopa.PointerObj(0, false), allocID)

	s.SetPointerInitialized("a", &fn.DFG)

	obj, _, _ := s.LookupIdent("a")
	if !obj.Initialized {
		t.Fatalf("expected 'a' to be marked initialized")
	}
	if !fn.DFG.Inst(allocID).Obj.Initialized {
		t.Fatalf("expected the ALLOC instruction's Obj to be marked initialized")
	}
}

func TestExitOnEmptyStackPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic calling Exit on an empty stack")
		}
	}()
	var s Stack
	s.Exit()
}

func TestEmpty(t *testing.T) {
	var s Stack
	if !s.Empty() {
		t.Fatalf("expected a fresh Stack to be empty")
	}
	fn := newTestFunc()
	s.EnterFunc(fn)
	if s.Empty() {
		t.Fatalf("expected Stack to be non-empty after EnterFunc")
	}
	s.Exit()
	if !s.Empty() {
		t.Fatalf("expected Stack to be empty again after Exit")
	}
}
