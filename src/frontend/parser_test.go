package frontend

import (
	"testing"

	"sysyc/src/ast"
)

func mustParse(t *testing.T, src string) *ast.CompUnit {
	t.Helper()
	cu, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error for %q: %v", src, err)
	}
	return cu
}

func TestParseMinimalFunction(t *testing.T) {
	cu := mustParse(t, "int main(){return 0;}")
	if len(cu.FuncDefs) != 1 {
		t.Fatalf("expected 1 function, got %d", len(cu.FuncDefs))
	}
	fd := cu.FuncDefs[0]
	if fd.Ident != "main" || fd.FuncType != ast.Int {
		t.Fatalf("unexpected function header: %+v", fd)
	}
	if len(fd.Block.Items) != 1 {
		t.Fatalf("expected 1 block item, got %d", len(fd.Block.Items))
	}
	ret, ok := fd.Block.Items[0].Stmt.(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected a ReturnStmt, got %T", fd.Block.Items[0].Stmt)
	}
	num, ok := ret.Exp.(*ast.NumberExp)
	if !ok || num.Value != 0 {
		t.Fatalf("expected NumberExp{0}, got %#v", ret.Exp)
	}
}

func TestParseExpressionPrecedenceSkipsWrapperNodes(t *testing.T) {
	cu := mustParse(t, "int main(){return 1+2*3;}")
	ret := cu.FuncDefs[0].Block.Items[0].Stmt.(*ast.ReturnStmt)
	add, ok := ret.Exp.(*ast.AddExp)
	if !ok {
		t.Fatalf("expected top-level AddExp, got %T", ret.Exp)
	}
	if _, ok := add.Left.(*ast.NumberExp); !ok {
		t.Fatalf("expected AddExp.Left to be the bare NumberExp 1, got %T", add.Left)
	}
	if _, ok := add.Right.(*ast.MulExp); !ok {
		t.Fatalf("expected AddExp.Right to be a MulExp, got %T", add.Right)
	}
}

func TestParseConstDecl(t *testing.T) {
	cu := mustParse(t, "int main(){const int x=5, y=6; return x;}")
	decl, ok := cu.FuncDefs[0].Block.Items[0].Decl.(*ast.ConstDecl)
	if !ok {
		t.Fatalf("expected a ConstDecl, got %#v", cu.FuncDefs[0].Block.Items[0])
	}
	if len(decl.ConstDefs) != 2 {
		t.Fatalf("expected 2 ConstDefs, got %d", len(decl.ConstDefs))
	}
	if decl.ConstDefs[0].Ident != "x" || decl.ConstDefs[1].Ident != "y" {
		t.Fatalf("unexpected identifiers: %+v", decl.ConstDefs)
	}
}

func TestParseAssignStmt(t *testing.T) {
	cu := mustParse(t, "int main(){int a=1; a=a+1; return a;}")
	assign, ok := cu.FuncDefs[0].Block.Items[1].Stmt.(*ast.AssignStmt)
	if !ok {
		t.Fatalf("expected AssignStmt, got %T", cu.FuncDefs[0].Block.Items[1].Stmt)
	}
	if assign.LVal.Ident != "a" {
		t.Fatalf("expected assignment to 'a', got %q", assign.LVal.Ident)
	}
}

func TestParseNestedBlock(t *testing.T) {
	cu := mustParse(t, "int main(){int a=1; {int a=2;} return a;}")
	_, ok := cu.FuncDefs[0].Block.Items[1].Stmt.(*ast.BlockStmt)
	if !ok {
		t.Fatalf("expected a nested BlockStmt, got %T", cu.FuncDefs[0].Block.Items[1].Stmt)
	}
}

func TestParseGlobalVarDecl(t *testing.T) {
	cu := mustParse(t, "int g = 42; int main(){return g;}")
	if len(cu.GlobalDecls) != 1 {
		t.Fatalf("expected 1 global decl, got %d", len(cu.GlobalDecls))
	}
	vd, ok := cu.GlobalDecls[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected a global VarDecl, got %T", cu.GlobalDecls[0])
	}
	if vd.VarDefs[0].Ident != "g" {
		t.Fatalf("expected global 'g', got %q", vd.VarDefs[0].Ident)
	}
}

func TestParseErrorOnMissingSemicolon(t *testing.T) {
	if _, err := Parse("int main(){return 0}"); err == nil {
		t.Fatalf("expected a parse error for a missing semicolon")
	}
}

func TestParseErrorOnMalformedExpression(t *testing.T) {
	if _, err := Parse("int main(){return 1+;}"); err == nil {
		t.Fatalf("expected a parse error for a malformed expression")
	}
}
