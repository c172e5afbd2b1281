package irgen

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"sysyc/src/frontend"
	"sysyc/src/koopa"
)

func opSequence(fn *koopa.Func) []koopa.OpCode {
	var ops []koopa.OpCode
	for _, b := range fn.Blocks {
		for _, id := range b.InstList {
			ops = append(ops, fn.DFG.Inst(id).Op)
		}
	}
	return ops
}

func translateSource(t *testing.T, src string) *koopa.Program {
	t.Helper()
	cu, err := frontend.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	prog, err := NewTranslator().Translate(cu)
	if err != nil {
		t.Fatalf("translate error: %v", err)
	}
	return prog
}

func countOps(fn *koopa.Func, op koopa.OpCode) int {
	n := 0
	for _, b := range fn.Blocks {
		for _, id := range b.InstList {
			if fn.DFG.Inst(id).Op == op {
				n++
			}
		}
	}
	return n
}

func TestReturnLiteral(t *testing.T) {
	prog := translateSource(t, "int main(){return 0;}")
	if len(prog.Funcs) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Funcs))
	}
	fn := prog.Funcs[0]
	if countOps(fn, koopa.RET) != 1 {
		t.Fatalf("expected exactly one RET")
	}
}

func TestLiteralArithmeticEmitsOneAddOneMul(t *testing.T) {
	prog := translateSource(t, "int main(){return 1+2*3;}")
	fn := prog.Funcs[0]
	if n := countOps(fn, koopa.MUL); n != 1 {
		t.Fatalf("expected one MUL, got %d", n)
	}
	if n := countOps(fn, koopa.ADD); n != 1 {
		t.Fatalf("expected one ADD, got %d", n)
	}
}

func TestConstDeclFoldsWithNoLoad(t *testing.T) {
	prog := translateSource(t, "int main(){const int x=5; return -x+2;}")
	fn := prog.Funcs[0]
	if n := countOps(fn, koopa.LOAD); n != 0 {
		t.Fatalf("expected no LOAD for a folded constant, got %d", n)
	}
}

func TestVarAssignEmitsAllocStoreLoad(t *testing.T) {
	prog := translateSource(t, "int main(){int a=10; a=a+5; return a;}")
	fn := prog.Funcs[0]
	if n := countOps(fn, koopa.ALLOC); n != 1 {
		t.Fatalf("expected one ALLOC, got %d", n)
	}
	if n := countOps(fn, koopa.STORE); n != 2 {
		t.Fatalf("expected two STOREs (init + assignment), got %d", n)
	}
	if n := countOps(fn, koopa.LOAD); n != 2 {
		t.Fatalf("expected two LOADs (one for 'a+5', one for the return), got %d", n)
	}
}

func TestNestedBlockShadowsWithoutMutatingOuter(t *testing.T) {
	prog := translateSource(t, "int main(){int a=1; {int a=2; a=a+1;} return a;}")
	fn := prog.Funcs[0]
	if n := countOps(fn, koopa.ALLOC); n != 2 {
		t.Fatalf("expected two ALLOCs (outer a, inner a), got %d", n)
	}
}

func TestLogicalAndComparisonChain(t *testing.T) {
	prog := translateSource(t, "int main(){return 1<2 && 3==3;}")
	fn := prog.Funcs[0]
	if n := countOps(fn, koopa.LT); n != 1 {
		t.Fatalf("expected one LT, got %d", n)
	}
	if n := countOps(fn, koopa.EQ); n != 1 {
		t.Fatalf("expected one EQ, got %d", n)
	}
	if n := countOps(fn, koopa.AND); n != 1 {
		t.Fatalf("expected one AND, got %d", n)
	}
}

func TestAssignToConstIsSemanticError(t *testing.T) {
	cu, err := frontend.Parse("int main(){const int x=1; x=2; return x;}")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	_, err = NewTranslator().Translate(cu)
	if err == nil {
		t.Fatalf("expected a semantic error assigning to a constant")
	}
	if _, ok := err.(*SemanticError); !ok {
		t.Fatalf("expected *SemanticError, got %T", err)
	}
}

func TestUndeclaredIdentifierIsSemanticError(t *testing.T) {
	cu, err := frontend.Parse("int main(){return y;}")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	_, err = NewTranslator().Translate(cu)
	if err == nil {
		t.Fatalf("expected a semantic error for an undeclared identifier")
	}
}

func TestVarAssignInstructionOrder(t *testing.T) {
	prog := translateSource(t, "int main(){int a=10; a=a+5; return a;}")
	fn := prog.Funcs[0]
	want := []koopa.OpCode{koopa.ALLOC, koopa.STORE, koopa.LOAD, koopa.ADD, koopa.STORE, koopa.LOAD, koopa.RET}
	if diff := cmp.Diff(want, opSequence(fn)); diff != "" {
		t.Fatalf("unexpected instruction sequence (-want +got):\n%s", diff)
	}
}

func TestLEGEDistinctFromLTGTInIR(t *testing.T) {
	prog := translateSource(t, "int main(){return (1<=2) + (1>=2);}")
	fn := prog.Funcs[0]
	if n := countOps(fn, koopa.LE); n != 1 {
		t.Fatalf("expected one LE, got %d", n)
	}
	if n := countOps(fn, koopa.GE); n != 1 {
		t.Fatalf("expected one GE, got %d", n)
	}
	if n := countOps(fn, koopa.LT); n != 0 {
		t.Fatalf("expected LE to stay distinct from LT at the IR level, got %d LTs", n)
	}
	if n := countOps(fn, koopa.GT); n != 0 {
		t.Fatalf("expected GE to stay distinct from GT at the IR level, got %d GTs", n)
	}
}
