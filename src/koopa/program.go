package koopa

import "strings"

// Global is a module-level value: a top-level VarDecl with a constant-folded
// initializer. Top-level ConstDecls never reach here; they fold entirely
// into the translator's compile-time constant table.
type Global struct {
	Name string
	Init int32
}

// Program is the root of one lowered translation unit: every function plus
// every global value.
type Program struct {
	Globals []*Global
	Funcs   []*Func
}

// NewFunc appends and returns a fresh, empty Func named name.
func (p *Program) NewFunc(name string, retType BType) *Func {
	f := &Func{Name: name, RetType: retType}
	p.Funcs = append(p.Funcs, f)
	return f
}

// String renders the whole program in textual Koopa IR form: global values
// first, then every function.
func (p *Program) String() string {
	sb := strings.Builder{}
	for _, g := range p.Globals {
		sb.WriteString("global @" + g.Name + "\n")
	}
	for i, f := range p.Funcs {
		if i > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(f.String())
	}
	return sb.String()
}
