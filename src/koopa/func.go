package koopa

import (
	"fmt"
	"strings"
)

// Func is one function definition: its own data-flow graph (arena of every
// instruction it ever emits) plus an ordered list of basic blocks.
type Func struct {
	Name    string
	RetType BType
	DFG     DataFlowGraph
	Blocks  []*IRBlock
}

// EntryBlock returns f's first block, creating it if this is the first call.
// irgen's translateFunc calls this once, when it enters the function's scope.
func (f *Func) EntryBlock() *IRBlock {
	if len(f.Blocks) == 0 {
		f.Blocks = append(f.Blocks, &IRBlock{Name: "entry"})
	}
	return f.Blocks[0]
}

// String renders "fun @name(): retType { ... }" in textual Koopa IR form.
func (f *Func) String() string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("fun @%s(): %s {\n", f.Name, f.RetType.String()))
	for _, b := range f.Blocks {
		sb.WriteString(b.String(&f.DFG))
	}
	sb.WriteString("}\n")
	return sb.String()
}
