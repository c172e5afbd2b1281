// Package scope implements the translator's lexical context stack (spec
// §4.2): a stack of frames, each binding a current function and optional
// current block, plus two name tables (constants, pointers) that do not
// shadow each other.
//
// The frame stack is built on util.Stack, adapted from the teacher's
// identifier-lookup stack idiom (backend/riscv/riscv.go pushes scope tables
// onto a util.Stack and walks it innermost-first via ir.GetEntry) to this
// core's explicit two-namespace, const/pointer lookup model.
package scope

import (
	"fmt"

	"sysyc/src/koopa"
	"sysyc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// frame is one entry on the Stack: the lexical scope introduced by entering
// a function or a block.
type frame struct {
	fn       *koopa.Func
	block    *koopa.IRBlock // nil until filled by EnterBlock on the function's own frame
	consts   map[string]koopa.IRObj
	pointers map[string]koopa.IRObj
	allocs   map[string]koopa.InstID // pointer name -> its ALLOC instruction, for SetInitialized
}

// Stack is the per-translation scope context. The zero value is empty and
// ready to use.
type Stack struct {
	frames util.Stack
}

func newFrame(fn *koopa.Func, block *koopa.IRBlock) *frame {
	return &frame{
		fn:       fn,
		block:    block,
		consts:   make(map[string]koopa.IRObj),
		pointers: make(map[string]koopa.IRObj),
		allocs:   make(map[string]koopa.InstID),
	}
}

// EnterFunc pushes a new frame for fn with no current block.
func (s *Stack) EnterFunc(fn *koopa.Func) {
	s.frames.Push(newFrame(fn, nil))
}

// EnterBlock either fills the current (innermost) frame's empty block slot —
// when this is the function-body entry block — or, if the innermost frame
// already has a block, pushes a fresh frame sharing the same function but
// with a new block and new, empty symbol tables.
func (s *Stack) EnterBlock(block *koopa.IRBlock) {
	top := s.top()
	if top.block == nil {
		top.block = block
		return
	}
	s.frames.Push(newFrame(top.fn, block))
}

// Exit pops the innermost frame. It panics if the stack is empty: exiting a
// scope that was never entered is an internal invariant violation.
func (s *Stack) Exit() {
	if s.frames.Pop() == nil {
		panic("scope: Exit called with no active scope")
	}
}

// InsertConst binds name to a constant value in the innermost frame. It
// panics if name is already bound as a pointer in the innermost frame: the
// two namespaces are disjoint within one scope.
func (s *Stack) InsertConst(name string, obj koopa.IRObj) {
	top := s.top()
	if _, exists := top.pointers[name]; exists {
		panic(fmt.Sprintf("scope: %q is already bound as a variable in this scope", name))
	}
	top.consts[name] = obj
}

// InsertPointer binds name to a pointer (address-taken local) in the
// innermost frame, and records its defining ALLOC instruction so a later
// store through SetPointerInitialized can flip its Initialized flag.
func (s *Stack) InsertPointer(name string, obj koopa.IRObj, allocID koopa.InstID) {
	top := s.top()
	if _, exists := top.consts[name]; exists {
		panic(fmt.Sprintf("scope: %q is already bound as a constant in this scope", name))
	}
	top.pointers[name] = obj
	top.allocs[name] = allocID
}

// SetPointerInitialized walks the stack innermost-first and flips the
// Initialized flag of the first frame binding name as a pointer. It panics
// if name is not bound as a pointer anywhere on the stack.
func (s *Stack) SetPointerInitialized(name string, dfg *koopa.DataFlowGraph) {
	for i := 1; i <= s.frames.Size(); i++ {
		f := s.frames.Get(i).(*frame)
		if obj, ok := f.pointers[name]; ok {
			obj.Initialized = true
			f.pointers[name] = obj
			dfg.SetInitialized(f.allocs[name])
			return
		}
	}
	panic(fmt.Sprintf("scope: %q is not bound as a variable on the scope stack", name))
}

// LookupIdent walks the stack innermost-first and returns the binding of
// name at the first frame where it appears in either namespace — the
// correct shadowing rule when an inner scope rebinds a name under a
// different kind (e.g. an outer constant shadowed by an inner variable).
// isPointer reports which table the binding came from.
func (s *Stack) LookupIdent(name string) (obj koopa.IRObj, isPointer bool, found bool) {
	for i := 1; i <= s.frames.Size(); i++ {
		f := s.frames.Get(i).(*frame)
		if obj, ok := f.consts[name]; ok {
			return obj, false, true
		}
		if obj, ok := f.pointers[name]; ok {
			return obj, true, true
		}
	}
	return koopa.IRObj{}, false, false
}

// GetLatestConst walks the stack innermost-first and returns the first
// constant binding of name.
func (s *Stack) GetLatestConst(name string) (koopa.IRObj, bool) {
	for i := 1; i <= s.frames.Size(); i++ {
		f := s.frames.Get(i).(*frame)
		if obj, ok := f.consts[name]; ok {
			return obj, true
		}
	}
	return koopa.IRObj{}, false
}

// GetLatestPointer walks the stack innermost-first and returns the first
// pointer binding of name.
func (s *Stack) GetLatestPointer(name string) (koopa.IRObj, bool) {
	for i := 1; i <= s.frames.Size(); i++ {
		f := s.frames.Get(i).(*frame)
		if obj, ok := f.pointers[name]; ok {
			return obj, true
		}
	}
	return koopa.IRObj{}, false
}

// CurrentDFG returns the data-flow graph of the innermost frame's function.
func (s *Stack) CurrentDFG() *koopa.DataFlowGraph {
	return &s.top().fn.DFG
}

// CurrentFunc returns the innermost frame's function.
func (s *Stack) CurrentFunc() *koopa.Func {
	return s.top().fn
}

// CurrentBlock returns the current block, walking innermost-first until a
// frame with a non-nil block is found (a freshly entered function frame has
// none until EnterBlock fills it).
func (s *Stack) CurrentBlock() *koopa.IRBlock {
	for i := 1; i <= s.frames.Size(); i++ {
		f := s.frames.Get(i).(*frame)
		if f.block != nil {
			return f.block
		}
	}
	panic("scope: no active block on the scope stack")
}

// Empty reports whether every entered scope has been exited. Compilation
// must finish with an empty stack (spec §5).
func (s *Stack) Empty() bool {
	return s.frames.Size() == 0
}

func (s *Stack) top() *frame {
	f, _ := s.frames.Peek().(*frame)
	if f == nil {
		panic("scope: no active scope")
	}
	return f
}
